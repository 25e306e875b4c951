//go:build debug

package markalloc

import "unsafe"

var poisonblk = make([]byte, 1024)

func init() {
	for i := 0; i < len(poisonblk); i++ {
		poisonblk[i] = 0xff
	}
}

// initblock poison freshly carved buffers, so that reads before the
// consumer formats them stand out.
func initblock(block uintptr, size int64) {
	dst := unsafe.Slice((*byte)(unsafe.Pointer(block)), size)
	for int64(len(dst)) >= int64(len(poisonblk)) {
		copy(dst, poisonblk)
		dst = dst[len(poisonblk):]
	}
	copy(dst, poisonblk)
}
