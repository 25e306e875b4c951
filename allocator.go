package markalloc

import "fmt"

import s "github.com/bnclabs/gosettings"
import "github.com/bnclabs/golog"
import humanize "github.com/dustin/go-humanize"

// Allocator supplies magazines of fixed size mark-stack buffers to
// marking goroutines and recycles returned magazines, composing one
// Space with one Freelist. Create one instance per marking engine,
// it lives for the engine's lifetime.
type Allocator struct {
	name         string
	space        *Space
	flist        *Freelist
	stacksize    int64
	magazinesize int64
	expandsize   int64
	spacelimit   int64
	setts        s.Settings
	logprefix    string
}

// NewAllocator create a mark-stack allocator for the named engine.
// Inconsistent settings panic right here, before marking starts. If
// the address space reservation succeeded the freelist is primed with
// one expansion increment's worth of magazines, so the first work
// items don't pay the commit cost.
func NewAllocator(name string, setts s.Settings) *Allocator {
	malc := &Allocator{name: name}
	malc.logprefix = fmt.Sprintf("MALC [%s]", name)

	setts = make(s.Settings).Mixin(Defaultsettings(), setts)
	malc.readsettings(setts)
	malc.setts = setts

	malc.space = newSpace(malc.logprefix, malc.spacelimit, malc.expandsize)
	malc.flist = newFreelist(malc.space.Base(), malc.magazinesize)
	if malc.space.IsInitialized() {
		malc.primefreelist()
		fmsg := "%v started with %v stacks of %v, spacelimit %v\n"
		log.Infof(
			fmsg, malc.logprefix, malc.flist.count()*(malc.magazinesize/malc.stacksize-1),
			humanize.IBytes(uint64(malc.stacksize)),
			humanize.IBytes(uint64(malc.spacelimit)))
	}
	return malc
}

func (malc *Allocator) readsettings(setts s.Settings) {
	malc.stacksize = setts.Int64("stacksize")
	malc.magazinesize = setts.Int64("magazinesize")
	malc.expandsize = setts.Int64("expandsize")
	malc.spacelimit = setts.Int64("spacelimit")
	validatesettings(
		malc.stacksize, malc.magazinesize, malc.expandsize, malc.spacelimit)
}

func (malc *Allocator) primefreelist() {
	for size := int64(0); size < malc.expandsize; size += malc.magazinesize {
		addr := malc.space.Alloc(malc.magazinesize)
		malc.flist.push(formatmagazine(addr, malc.magazinesize, malc.stacksize))
	}
}

// IsInitialized return whether the underlying reservation succeeded.
// Engines shall check this once, before marking, and keep mark-stack
// dependent work disabled when false.
func (malc *Allocator) IsInitialized() bool {
	return malc.space.IsInitialized()
}

// AllocMagazine return a magazine of stack buffers, trying the
// freelist first and falling back to carving a fresh chunk out of the
// space. Never returns nil in practice, logical exhaustion of the
// space is fatal inside Alloc.
func (malc *Allocator) AllocMagazine() *Magazine {
	if mag := malc.flist.pop(); mag != nil {
		return mag
	}
	addr := malc.space.Alloc(malc.magazinesize)
	if addr == 0 {
		return nil
	}
	return formatmagazine(addr, malc.magazinesize, malc.stacksize)
}

// FreeMagazine return mag to the pool, for reuse by any goroutine.
// Callers shall push back the buffers they popped before freeing,
// this is not validated here.
func (malc *Allocator) FreeMagazine(mag *Magazine) {
	malc.flist.push(mag)
}

// Stacksize of the buffers held by this allocator's magazines.
func (malc *Allocator) Stacksize() int64 {
	return malc.stacksize
}

// Info return the configured limit, committed bytes, carved bytes and
// the number of magazines currently pooled.
func (malc *Allocator) Info() (spacelimit, committed, allocated, magazines int64) {
	spacelimit, committed, allocated = malc.space.Info()
	return spacelimit, committed, allocated, malc.flist.count()
}

// Log current statistics.
func (malc *Allocator) Log() {
	spacelimit, committed, allocated, magazines := malc.Info()
	fmsg := "%v spacelimit: %v, committed: %v, carved: %v, pooled: %v\n"
	log.Infof(
		fmsg, malc.logprefix,
		humanize.IBytes(uint64(spacelimit)), humanize.IBytes(uint64(committed)),
		humanize.IBytes(uint64(allocated)), magazines)
}

// Release the mark stack space, only when the engine goes down.
func (malc *Allocator) Release() {
	malc.space.Release()
	log.Infof("%v released\n", malc.logprefix)
}
