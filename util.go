package pgfrag

import "unsafe"

// insertAt inserts src into dest at the given index, growing the backing
// array geometrically when needed.
func insertAt(dest, src []interface{}, index int) []interface{} {
	srcLen := len(src)
	if srcLen > 0 {
		oldLen := len(dest)
		newLen := oldLen + srcLen
		// Allocate more memory if needed
		if cap(dest) < newLen {
			newCap := cap(dest) * 2
			if newCap == 0 {
				newCap = 5
			}
			qargs := make([]interface{}, oldLen, newCap)
			copy(qargs, dest)
			dest = qargs
		}
		dest = append(dest, src...)
		if index < oldLen {
			copy(dest[index+srcLen:], dest[index:])
			copy(dest[index:], src)
		}
	}

	return dest
}

// bufToString returns a string view over a byte slice without copying.
// The caller must not modify the slice while the string is in use.
func bufToString(buf *[]byte) string {
	return *(*string)(unsafe.Pointer(buf))
}
