package protocol

// Frame structure constants for the JCID bootloader protocol.
const (
	// StartOfFrame is the frame start marker ('J')
	StartOfFrame = 0x4A

	// EndOfFrame is the frame end marker (0x17)
	EndOfFrame = 0x17

	// MinFrameSize is the minimum frame size in bytes:
	// SOF(1) + OPCODE(1) + SEQ(2) + LEN(2) + CRC32(4) + EOF(1)
	MinFrameSize = 11

	// HeaderSize is the size of the frame header covered by the
	// checksum together with the payload: OPCODE(1) + SEQ(2) + LEN(2)
	HeaderSize = 5
)

// Command opcodes understood by the JCID bootloader.
//
// These values are reverse-engineered external constants of the device
// protocol; they are pinned by the conformance test in trace_test.go and
// must never be changed independently of it.
const (
	// CmdIdentify requests device family, mode and transfer parameters
	CmdIdentify = 0x31

	// CmdEnterBoot resets an application-mode device into the bootloader
	CmdEnterBoot = 0x32

	// CmdErase erases the flash region the image will occupy
	CmdErase = 0x34

	// CmdWriteChunk programs one chunk at a flash offset
	CmdWriteChunk = 0x37

	// CmdReadChecksum requests the device CRC of a flash region
	CmdReadChecksum = 0x3A

	// CmdReboot leaves the bootloader and starts the application
	CmdReboot = 0x3B
)

// Status codes carried in the opcode slot of response frames.
const (
	// StatusAck indicates the command was received and executed
	StatusAck = 0x00

	// StatusErrLength indicates the payload length is outside the expected range
	StatusErrLength = 0x03

	// StatusErrData indicates the payload is not of proper form
	StatusErrData = 0x04

	// StatusErrCommand indicates the opcode is not recognized
	StatusErrCommand = 0x05

	// StatusErrChecksum indicates the frame checksum did not match on the device
	StatusErrChecksum = 0x08

	// StatusErrRange indicates the flash offset or length is not valid
	StatusErrRange = 0x0A

	// StatusErrErase indicates the flash erase operation failed
	StatusErrErase = 0x10

	// StatusErrWrite indicates the flash write operation failed
	StatusErrWrite = 0x11

	// StatusErrBusy indicates the device is not ready for the command
	StatusErrBusy = 0x12
)

// Device modes reported in the Identify response.
const (
	// ModeBootloader means the device is bootloader-resident and ready to flash
	ModeBootloader = 0x01

	// ModeApplication means the device is running application firmware
	ModeApplication = 0x02
)

// FamilyMagic identifies the JCID device family in the Identify response.
const FamilyMagic = "JCID"

// MaxChunkSize is the largest data chunk the bootloader accepts in a
// single WriteChunk command. The negotiated chunk size from the Identify
// response is clamped to this value.
const MaxChunkSize = 2048

// MaxPayloadSize is the largest frame payload: a full chunk plus its
// 4-byte flash offset.
const MaxPayloadSize = MaxChunkSize + 4

// IdentifyMinResponseSize is the minimum data size of an Identify
// response: family magic(4) + mode(1) + max chunk size(2).
const IdentifyMinResponseSize = 7

// ChecksumResponseSize is the data size of a ReadChecksum response (2 bytes).
const ChecksumResponseSize = 2
