//go:build unix

package markalloc

import "golang.org/x/sys/unix"

// osreserve sets aside size bytes of virtual address space without
// committing physical backing. PROT_NONE keeps the range unreadable
// and unwritable until committed.
func osreserve(size int64) ([]byte, error) {
	return unix.Mmap(
		-1, 0, int(size), unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
}

// oscommit backs mem with physical memory, making it safe to read
// and write. Re-committing an already committed prefix is a no-op.
func oscommit(mem []byte) error {
	return unix.Mprotect(mem, unix.PROT_READ|unix.PROT_WRITE)
}

// osrelease returns the reserved range to the OS.
func osrelease(mem []byte) error {
	return unix.Munmap(mem)
}
