package utils

import "bytes"

// IsBinary reports whether data contains a NUL byte anywhere.
func IsBinary(data []byte) bool {
	return bytes.IndexByte(data, 0) >= 0
}
