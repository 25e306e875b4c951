package markalloc

import s "github.com/bnclabs/gosettings"
import "github.com/cloudfoundry/gosigar"

// Alignment stacksize should be a multiple of Alignment, which keeps
// every carved buffer 8-byte aligned.
const Alignment = int64(8)

// Minstacksize smallest allowed stack buffer, must hold a magazine
// header, or a stack header and at least one entry.
const Minstacksize = int64(64)

// Maxspacelimit maximum size of the reserved mark-stack range.
const Maxspacelimit = int64(1024 * 1024 * 1024 * 1024) // 1TB

// Allocator configurable parameters and default settings.
//
// "stacksize" (int64, default: 2048)
//		Size of a single mark-stack buffer. Must be a multiple of
//		Alignment and at least Minstacksize.
//
// "magazinesize" (int64, default: 32768)
//		Size of the chunk formatted into one magazine, a multiple of
//		"stacksize". One buffer's worth of the chunk is used for the
//		magazine header, the rest become stack buffers.
//
// "expandsize" (int64, default: 32MB)
//		Granularity at which physical memory is committed, a multiple
//		of "magazinesize". Also the amount of mark-stack space primed
//		into the freelist on startup.
//
// "spacelimit" (int64, default: 8GB, capped to free RAM)
//		Maximum bytes ever committed for mark stacks. Exhausting this
//		limit during marking is fatal.
func Defaultsettings() s.Settings {
	expandsize := int64(32 * 1024 * 1024)
	spacelimit := int64(8 * 1024 * 1024 * 1024)
	if _, _, free := getsysmem(); free > 0 && int64(free) < spacelimit {
		spacelimit = (int64(free) / expandsize) * expandsize
		if spacelimit < expandsize {
			spacelimit = expandsize
		}
	}
	return s.Settings{
		"stacksize":    int64(2048),
		"magazinesize": int64(32 * 1024),
		"expandsize":   expandsize,
		"spacelimit":   spacelimit,
	}
}

// validatesettings fail at construction time, instead of during
// marking, for sizes that are not internally consistent.
func validatesettings(stacksize, magazinesize, expandsize, spacelimit int64) {
	if stacksize < Minstacksize {
		panicerr("stacksize %v below minimum %v", stacksize, Minstacksize)
	} else if (stacksize % Alignment) != 0 {
		panicerr("stacksize %v not a multiple of %v", stacksize, Alignment)
	} else if magazinehdrsize > stacksize {
		panicerr(
			"magazine header %v exceeds stacksize %v",
			magazinehdrsize, stacksize)
	}
	if magazinesize < (2 * stacksize) {
		panicerr(
			"magazinesize %v too small to hold header and one buffer of %v",
			magazinesize, stacksize)
	} else if (magazinesize % stacksize) != 0 {
		panicerr(
			"magazinesize %v not a multiple of stacksize %v",
			magazinesize, stacksize)
	}
	if expandsize < magazinesize {
		panicerr(
			"expandsize %v below magazinesize %v", expandsize, magazinesize)
	} else if (expandsize % magazinesize) != 0 {
		panicerr(
			"expandsize %v not a multiple of magazinesize %v",
			expandsize, magazinesize)
	} else if expandsize > spacelimit {
		panicerr("expandsize %v exceeds spacelimit %v", expandsize, spacelimit)
	}
	if spacelimit > Maxspacelimit {
		panicerr("spacelimit %v exceeds %v", spacelimit, Maxspacelimit)
	} else if (spacelimit / magazinesize) >= int64(flistIdxmask) {
		panicerr("spacelimit %v holds too many magazines", spacelimit)
	}
}

func getsysmem() (total, used, free uint64) {
	mem := sigar.Mem{}
	mem.Get()
	return mem.Total, mem.Used, mem.Free
}
