// Package bufcopy provides a bounded copy for fixed-size, NUL-terminated
// byte buffers such as names and paths handed across module boundaries.
package bufcopy

// MaxBufferSize bounds how far the source is scanned for a terminator.
const MaxBufferSize = 100

// BoundedLen returns the length of the NUL-terminated string in src,
// scanning at most MaxBufferSize bytes.
func BoundedLen(src []byte) int {
	n := min(len(src), MaxBufferSize)
	for i := 0; i < n; i++ {
		if src[i] == 0 {
			return i
		}
	}
	return n
}

// SafeBufferCopy copies the string in src into dst when it fits.
//
// The usable capacity is min(capacity, len(dst)). When the bounded source
// length is smaller than that capacity, the string is copied and the rest
// of the capacity is zero-filled. Otherwise dst is left untouched apart from
// the terminator. The last byte of the capacity is always set to zero.
// Nothing outside dst[:capacity] is ever written.
//
// The return value reports whether the copy happened; false means the
// source was rejected, not partially copied.
func SafeBufferCopy(dst []byte, capacity int, src []byte) bool {
	capacity = min(capacity, len(dst))
	if capacity <= 0 {
		return false
	}
	dst = dst[:capacity]

	n := BoundedLen(src)
	copied := false
	if n < capacity {
		copy(dst, src[:n])
		clear(dst[n:])
		copied = true
	}
	dst[capacity-1] = 0
	return copied
}

// CString returns the bytes of buf up to its first NUL as a string.
func CString(buf []byte) string {
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}
