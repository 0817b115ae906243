package imaging

import "bytes"

// OctetStream is returned when no known image signature matches.
const OctetStream = "application/octet-stream"

var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	gif87a    = []byte("GIF87a")
	gif89a    = []byte("GIF89a")
	riff      = []byte("RIFF")
	webp      = []byte("WEBP")
)

// DetectMIME classifies image data by magic-byte signature. It recognizes
// JPEG, PNG, GIF and WEBP; anything else, including empty input, is reported
// as application/octet-stream. It never fails.
func DetectMIME(data []byte) string {
	switch {
	case bytes.HasPrefix(data, jpegMagic):
		return "image/jpeg"
	case bytes.HasPrefix(data, pngMagic):
		return "image/png"
	case bytes.HasPrefix(data, gif87a), bytes.HasPrefix(data, gif89a):
		return "image/gif"
	case len(data) >= 12 && bytes.HasPrefix(data, riff) && bytes.Equal(data[8:12], webp):
		return "image/webp"
	default:
		return OctetStream
	}
}
