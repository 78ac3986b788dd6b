// Package helpers provides common utility functions used across the codebase.
package helpers

// IsZeroBytes checks if all bytes in the slice are zero.
// An empty slice is considered zero.
func IsZeroBytes(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// CopyBytes returns a copy of b that does not share its backing array.
func CopyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
