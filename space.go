package markalloc

import "sync"
import "sync/atomic"
import "unsafe"

import "github.com/bnclabs/golog"
import humanize "github.com/dustin/go-humanize"

// Space is a reserved range of virtual address space, committed in
// `expandsize` increments and carved out by a lock-free bump
// allocator. Offsets never decrease: `start` is fixed after the
// reservation, `top` advances with every allocation and `end`
// advances only while expanding, holding
// start <= top <= end <= start+spacelimit.
type Space struct {
	// 64-bit aligned atomics
	top uint64 // next free byte
	end uint64 // committed boundary

	start      uint64 // base address, 0 when the reservation failed
	expandlock sync.Mutex
	spacelimit int64
	expandsize int64
	mem        []byte
	logprefix  string
}

// newSpace reserve spacelimit bytes of address space without
// committing memory. Reservation failure is not fatal, it leaves the
// space uninitialized and marking disabled for the owning engine.
func newSpace(logprefix string, spacelimit, expandsize int64) *Space {
	space := &Space{
		spacelimit: spacelimit, expandsize: expandsize, logprefix: logprefix,
	}
	mem, err := osreserve(spacelimit)
	if err != nil {
		fmsg := "%v failed reserving %v of mark stack space: %v\n"
		log.Errorf(fmsg, logprefix, humanize.IBytes(uint64(spacelimit)), err)
		return space
	}
	space.mem = mem
	addr := uint64(uintptr(unsafe.Pointer(&mem[0])))
	space.start, space.top, space.end = addr, addr, addr
	return space
}

// IsInitialized return whether the initial reservation succeeded.
// Callers shall not use an uninitialized space.
func (space *Space) IsInitialized() bool {
	return space.start != 0
}

// Base address of the reserved range.
func (space *Space) Base() uintptr {
	return uintptr(space.start)
}

// Alloc carve out size bytes from the committed prefix, expanding the
// prefix when exhausted. Exhausting spacelimit itself is fatal.
func (space *Space) Alloc(size int64) uintptr {
	if addr := space.allocSpace(size); addr != 0 {
		return addr
	}
	return space.expandAndAllocSpace(size)
}

func (space *Space) allocSpace(size int64) uintptr {
	top := atomic.LoadUint64(&space.top)
	for {
		end := atomic.LoadUint64(&space.end)
		newtop := top + uint64(size)
		if newtop > end { // committed prefix exhausted
			return 0
		}
		if atomic.CompareAndSwapUint64(&space.top, top, newtop) {
			return uintptr(top)
		}
		top = atomic.LoadUint64(&space.top)
	}
}

func (space *Space) expandAndAllocSpace(size int64) uintptr {
	space.expandlock.Lock()
	defer space.expandlock.Unlock()

	if space.IsInitialized() == false {
		panicerr("%v space not initialized", space.logprefix)
	}

	// another goroutine may have expanded while waiting on the lock.
	if addr := space.allocSpace(size); addr != 0 {
		return addr
	}

	oldsize := int64(atomic.LoadUint64(&space.end) - space.start)
	newsize := oldsize + space.expandsize
	if newsize > space.spacelimit {
		fmsg := "%v mark stack space exhausted, " +
			"raise `spacelimit` setting (currently %v)\n"
		log.Fatalf(fmsg, space.logprefix, humanize.IBytes(uint64(space.spacelimit)))
		panic(ErrorSpaceExhausted)
	}

	fmsg := "%v expanding mark stack space %v->%v\n"
	log.Infof(
		fmsg, space.logprefix,
		humanize.IBytes(uint64(oldsize)), humanize.IBytes(uint64(newsize)))

	// commit from the base, mprotect wants a page aligned address and
	// `end` is only expandsize aligned.
	if err := oscommit(space.mem[:newsize]); err != nil {
		panicerr(
			"%v committing %v of mark stack space: %v",
			space.logprefix, humanize.IBytes(uint64(space.expandsize)), err)
	}

	// advance top before publishing the new end, concurrent fast path
	// allocations stay bounded by the old end until then.
	addr := atomic.AddUint64(&space.top, uint64(size)) - uint64(size)
	atomic.AddUint64(&space.end, uint64(space.expandsize))
	return uintptr(addr)
}

// Info return the configured limit, committed bytes and bytes carved
// out so far.
func (space *Space) Info() (spacelimit, committed, allocated int64) {
	top := atomic.LoadUint64(&space.top)
	end := atomic.LoadUint64(&space.end)
	return space.spacelimit, int64(end - space.start), int64(top - space.start)
}

// Release the reserved range back to the OS. To be called only when
// the owning engine goes down, not between marking cycles.
func (space *Space) Release() {
	if space.mem != nil {
		if err := osrelease(space.mem); err != nil {
			log.Errorf("%v releasing mark stack space: %v\n", space.logprefix, err)
		}
	}
	space.mem = nil
	space.start, space.top, space.end = 0, 0, 0
}
