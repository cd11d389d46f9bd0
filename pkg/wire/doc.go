// Package wire defines the byte format of the band authentication
// characteristic.
//
// # Outbound Commands
//
// Every write starts with a command byte and a sequence byte (always 0):
//
//	01 00 <16-byte key>          send a new key
//	02 00                        request a random secret
//	03 00 <encrypted secret>     send the encrypted secret back
//
// # Inbound Notifications
//
// The band answers with notifications whose first three bytes identify
// the message (the opcode) and whose remaining bytes carry the payload:
//
//	10 01 01   new key accepted
//	10 01 02   new key confirmation aborted
//	10 02 01   random secret follows in the payload
//	10 03 01   encrypted secret confirmed
//	10 03 04   key mismatch
//
// Any other code decodes to OpcodeUnknown and is ignored by the session.
package wire
