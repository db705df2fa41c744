package response

import "unsafe"

// borrowString converts a byte slice to a string without copying.
//
// Safety requirements:
//  1. the returned string must never be modified through the slice
//  2. the returned string must not outlive the source buffer's validity
//
// Parsed responses borrow from the caller's response buffer; the caller
// must not reuse that buffer while the Response (or strings taken from
// it) is still being read. Clone detaches a Response from the buffer.
func borrowString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}
