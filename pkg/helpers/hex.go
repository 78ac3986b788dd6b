// Package helpers provides common utility functions used across the codebase.
package helpers

import (
	"encoding/hex"
	"strings"
)

// HexToBytes converts a hex string (with or without 0x prefix, surrounding
// whitespace ignored) to bytes. Decoding errors are returned as produced by
// encoding/hex.
func HexToBytes(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	return hex.DecodeString(s)
}

// BytesToHex converts bytes to a plain lowercase hex string.
func BytesToHex(b []byte) string {
	return hex.EncodeToString(b)
}
