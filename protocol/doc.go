// Package protocol implements the JCID bootloader wire protocol used by
// AiXun T3x soldering stations.
//
// Commands and responses travel in framed packets over a USB serial link:
//
//	[SOF][OPCODE][SEQ(2,LE)][LEN(2,LE)][PAYLOAD...][CRC32(4,LE)][EOF]
//
// Command frames carry an opcode (CmdIdentify, CmdErase, CmdWriteChunk,
// CmdReadChecksum, CmdReboot, CmdEnterBoot); response frames carry a
// status code in the opcode slot and echo the request sequence number.
// The CRC-32 covers OPCODE through PAYLOAD.
//
// The package is a pure codec: Encode and the Build*Cmd helpers produce
// on-wire bytes, Decode and the Parse*Response helpers validate and
// destructure received bytes. Decode returns ErrMalformed or
// ErrChecksumMismatch for corrupted input and never panics.
//
// Opcode values, status codes and both checksum algorithms are pinned
// external constants of the device protocol, locked by the recorded-trace
// test in trace_test.go. ImageChecksum additionally implements the CRC-16
// embedded in JCID update containers.
package protocol
