// Package firmware parses and validates JCID update containers for
// AiXun T3x soldering stations.
//
// # Container format
//
// An update file is a 0x100-byte header followed by the raw firmware
// payload:
//
//	0x00  magic "JCID" (4 bytes)
//	0x20  product name (16 bytes, 0xFF-padded, e.g. "JC_AiXun_T3A")
//	0x40  version (4 bytes); the literal "vers" redirects to 0x47
//	0x60  payload size (u32, big-endian; file size minus 0x100)
//	0x64  payload CRC-16 (u16, big-endian)
//	0x100 payload
//
// Load validates the magic, the declared size, the flash capacity and the
// payload checksum before any device communication can happen, and
// returns an immutable Image. An image for the wrong product is never
// silently flashed: the update session compares Image.Product against
// the product the device reports during the handshake.
package firmware
