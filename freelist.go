package markalloc

import "sync/atomic"
import "unsafe"

const flistIdxbits = uint64(32)
const flistIdxmask = uint64(1)<<flistIdxbits - 1

// Freelist is a lock-free LIFO pool of magazines, shared by all
// marking goroutines. Since every magazine lives inside the one
// reserved range, the head word packs the magazine's slot index with
// a version counter, versioning guards the pop CAS from ABA when a
// magazine is recycled concurrently. Index 0 is kept for "empty", a
// magazine's index is stored as index+1.
type Freelist struct {
	// 64-bit aligned atomics
	head uint64 // (version << 32) | (index + 1)
	n    int64  // statistics only

	base         uintptr
	magazinesize int64
}

func newFreelist(base uintptr, magazinesize int64) *Freelist {
	return &Freelist{base: base, magazinesize: magazinesize}
}

func (flist *Freelist) index(mag *Magazine) uint64 {
	off := uintptr(unsafe.Pointer(mag)) - flist.base
	return uint64(off / uintptr(flist.magazinesize))
}

// push a magazine into the pool, always succeeds.
func (flist *Freelist) push(mag *Magazine) {
	idx1 := flist.index(mag) + 1
	for {
		old := atomic.LoadUint64(&flist.head)
		atomic.StoreUint64(&mag.next, old&flistIdxmask)
		new := (old>>flistIdxbits+1)<<flistIdxbits | idx1
		if atomic.CompareAndSwapUint64(&flist.head, old, new) {
			atomic.AddInt64(&flist.n, 1)
			return
		}
	}
}

// pop any available magazine, nil when the pool is empty.
func (flist *Freelist) pop() *Magazine {
	for {
		old := atomic.LoadUint64(&flist.head)
		idx1 := old & flistIdxmask
		if idx1 == 0 {
			return nil
		}
		addr := flist.base + uintptr(idx1-1)*uintptr(flist.magazinesize)
		mag := magazineAt(addr)
		next := atomic.LoadUint64(&mag.next)
		new := (old>>flistIdxbits+1)<<flistIdxbits | next
		if atomic.CompareAndSwapUint64(&flist.head, old, new) {
			atomic.AddInt64(&flist.n, -1)
			return mag
		}
	}
}

func (flist *Freelist) count() int64 {
	return atomic.LoadInt64(&flist.n)
}

func (flist *Freelist) empty() bool {
	return (atomic.LoadUint64(&flist.head) & flistIdxmask) == 0
}
