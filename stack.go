package markalloc

import "unsafe"

// Stack is a mark stack formatted over a single buffer popped from a
// magazine. The header occupies the first bytes of the buffer and the
// remainder holds uintptr entries. The allocator itself treats
// buffers as opaque, formatting them is the marking engine's side of
// the boundary. Owned by one goroutine, methods are not thread safe.
type Stack struct {
	count    int64
	capacity int64
}

const stackhdrsize = int64(unsafe.Sizeof(Stack{}))
const entrysize = int64(unsafe.Sizeof(uintptr(0)))

// FormatStack over the stacksize buffer at addr. Overwrites whatever
// the buffer held, including the magazine's intrusive link.
func FormatStack(addr uintptr, stacksize int64) *Stack {
	stack := (*Stack)(unsafe.Pointer(addr))
	stack.count, stack.capacity = 0, (stacksize-stackhdrsize)/entrysize
	return stack
}

// Push an entry, return false when the stack is full and the engine
// should take a fresh buffer.
func (stack *Stack) Push(entry uintptr) bool {
	if stack.count == stack.capacity {
		return false
	}
	slot := uintptr(unsafe.Pointer(stack)) +
		uintptr(stackhdrsize+stack.count*entrysize)
	*(*uintptr)(unsafe.Pointer(slot)) = entry
	stack.count++
	return true
}

// Pop the most recently pushed entry, false when empty.
func (stack *Stack) Pop() (uintptr, bool) {
	if stack.count == 0 {
		return 0, false
	}
	stack.count--
	slot := uintptr(unsafe.Pointer(stack)) +
		uintptr(stackhdrsize+stack.count*entrysize)
	return *(*uintptr)(unsafe.Pointer(slot)), true
}

// IsEmpty return whether the stack holds no entries.
func (stack *Stack) IsEmpty() bool {
	return stack.count == 0
}

// IsFull return whether the stack is at capacity.
func (stack *Stack) IsFull() bool {
	return stack.count == stack.capacity
}
