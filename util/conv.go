package util

import (
	"unsafe"
)

// StringToByte converts string to a byte slice without memory allocation.
// The result must not be written to.
func StringToByte(s string) []byte {
	if s == "" {
		return nil
	}
	/* #nosec G103 */
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
