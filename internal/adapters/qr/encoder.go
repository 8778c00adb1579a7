package qr

// Encoder turns a reference string into a scannable PNG image.
type Encoder interface {
	Encode(reference string, size int) ([]byte, error)
}

// DefaultSize is the pixel edge length used for bundle images. Large
// enough to print at door size and still scan from a phone.
const DefaultSize = 512
