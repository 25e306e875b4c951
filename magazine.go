package markalloc

import "unsafe"

// Magazine is a batch of recyclable stack buffers, maintained as an
// intrusive LIFO list threaded through the first word of each buffer.
// The header lives in the first stacksize slot of the chunk it was
// formatted from, there is no separate metadata allocation. A
// magazine is exclusively owned by one goroutine at a time, methods
// are not thread safe.
type Magazine struct {
	count    int64
	capacity int64
	head     uintptr // most recently pushed buffer
	next     uint64  // freelist link, accessed atomically by Freelist
}

const magazinehdrsize = int64(unsafe.Sizeof(Magazine{}))

func magazineAt(addr uintptr) *Magazine {
	return (*Magazine)(unsafe.Pointer(addr))
}

// formatmagazine treat the size byte chunk at addr as contiguous
// stacksize slots, place a Magazine header in the first slot and push
// every remaining slot as a stack buffer. size shall be an exact
// multiple of stacksize.
func formatmagazine(addr uintptr, size, stacksize int64) *Magazine {
	if (size % stacksize) != 0 {
		panicerr("chunk size %v not a multiple of stacksize %v", size, stacksize)
	}
	mag := magazineAt(addr)
	mag.count, mag.capacity = 0, (size/stacksize)-1
	mag.head, mag.next = 0, 0
	for off := stacksize; off < size; off += stacksize {
		initblock(addr+uintptr(off), stacksize)
		if mag.Push(addr+uintptr(off)) == false {
			panicerr("magazine full while formatting")
		}
	}
	return mag
}

// Push a stack buffer into the magazine, return false past capacity.
func (mag *Magazine) Push(stack uintptr) bool {
	if mag.count == mag.capacity {
		return false
	}
	*(*uintptr)(unsafe.Pointer(stack)) = mag.head
	mag.head = stack
	mag.count++
	return true
}

// Pop the most recently pushed stack buffer, return false when the
// magazine is empty.
func (mag *Magazine) Pop() (uintptr, bool) {
	if mag.count == 0 {
		return 0, false
	}
	stack := mag.head
	mag.head = *(*uintptr)(unsafe.Pointer(stack))
	mag.count--
	return stack, true
}

// Count of buffers currently in the magazine.
func (mag *Magazine) Count() int64 {
	return mag.count
}

// Capacity of the magazine.
func (mag *Magazine) Capacity() int64 {
	return mag.capacity
}
