// Package transport provides the duplex byte channel to the T3x device.
//
// The Channel interface abstracts the USB serial link as single-attempt
// request/response transfers; it carries no retry logic and no protocol
// knowledge beyond reading whole responses. Serial is the production
// implementation over go.bug.st/serial, with device discovery by the
// JCID_T3 USB serial-number prefix.
package transport
