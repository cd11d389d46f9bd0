// Package auth implements the band authentication handshake.
//
// # Overview
//
// A Session drives one band through the handshake; a Registry tracks which
// bands currently have a handshake in flight and routes transport lifecycle
// events (connected, disconnected) to the right Session.
//
// # Handshake
//
//  1. Subscribe to notifications on the authentication characteristic
//  2. Send the key (policy AlwaysSendKey) or request a random secret
//  3. The band answers with a 16-byte random secret
//  4. Encrypt it with AES-128 ECB under the key and send it back
//  5. The band confirms, reports a key mismatch, or aborts a new key
//
// On a key mismatch the policy decides: ResetOnMismatch sends the key again
// (the user has to confirm it on the band), Never gives up. Retries are not
// capped.
//
// # Session States
//
//	IDLE -> STARTED -> KEY_SENT | SECRET_REQUESTED -> RAND_RECEIVED
//	     -> ENCRYPTED_SENT -> COMPLETED
//
// COMPLETED is terminal for every Status. A session completes exactly once,
// whether the band finished the handshake, the link dropped, the transport
// failed, or the registry shut down.
//
// # Completion Order
//
// Completion runs hooks in a fixed order:
//
//  1. transport teardown (unsubscribe notifications)
//  2. registry removal
//  3. the caller's CompletionFunc
//
// By the time the caller is told, the session is detached from both the
// transport and the registry.
//
// # Concurrency
//
// The Registry is an actor: Run owns the pending map and executes every
// request, lifecycle event and notification on one goroutine. Sessions are
// confined to that goroutine once connected. Registry methods may be called
// from any goroutine and never block.
package auth
