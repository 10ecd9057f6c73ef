// ABOUTME: Encoder interface definition
// ABOUTME: Common interface for turning quantized samples into device bytes
package encode

// Encoder encodes quantized int16 samples to the byte layout a device expects
type Encoder interface {
	// Encode converts samples to PCM data
	Encode(samples []int16) ([]byte, error)
}
