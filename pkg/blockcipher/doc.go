// Package blockcipher encrypts challenge blocks for the band handshake.
//
// The band expects the random challenge it sends to be returned encrypted
// with AES-128 in ECB mode, without padding or an IV. ECB is deterministic
// and unauthenticated: the same key and block always produce the same
// ciphertext. That weakness is part of the device protocol and is kept for
// interoperability; do not reuse this package for anything else.
package blockcipher
