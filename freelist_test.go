package markalloc

import "fmt"
import "sync"
import "testing"

var _ = fmt.Sprintf("dummy")

func TestFreelist(t *testing.T) {
	space := newSpace("FLST [test]", 1280, 1280)
	flist := newFreelist(space.Base(), 320)
	if flist.pop() != nil {
		t.Errorf("expected an empty freelist")
	} else if flist.empty() == false {
		t.Errorf("expected an empty freelist")
	}

	mags := []*Magazine{}
	for i := 0; i < 4; i++ {
		mag := formatmagazine(space.Alloc(320), 320, 64)
		mags = append(mags, mag)
		flist.push(mag)
	}
	if x := flist.count(); x != 4 {
		t.Errorf("expected %v, got %v", 4, x)
	}

	// LIFO recency
	for i := 3; i >= 0; i-- {
		if mag := flist.pop(); mag != mags[i] {
			t.Errorf("expected %p, got %p", mags[i], mag)
		}
	}
	if flist.empty() == false {
		t.Errorf("expected an empty freelist")
	} else if x := flist.count(); x != 0 {
		t.Errorf("expected %v, got %v", 0, x)
	}
	space.Release()
}

func TestFreelistConcur(t *testing.T) {
	nmags, nroutines, repeat := 16, 8, 10000

	space := newSpace("FLST [concur]", 20480, 20480)
	flist := newFreelist(space.Base(), 320)
	for i := 0; i < nmags; i++ {
		flist.push(formatmagazine(space.Alloc(320), 320, 64))
	}

	var wg sync.WaitGroup
	wg.Add(nroutines)
	for n := 0; n < nroutines; n++ {
		go func() {
			defer wg.Done()
			for i := 0; i < repeat; {
				mag := flist.pop()
				if mag == nil {
					continue
				}
				// held magazines are exclusively owned, a full one
				// must still be full.
				if mag.Count() != mag.Capacity() {
					panic(fmt.Errorf("magazine mutated while pooled"))
				}
				if stack, ok := mag.Pop(); ok {
					mag.Push(stack)
				}
				flist.push(mag)
				i++
			}
		}()
	}
	wg.Wait()

	if x := flist.count(); x != int64(nmags) {
		t.Errorf("expected %v, got %v", nmags, x)
	}
	// drain, every magazine accounted for exactly once.
	seen := map[*Magazine]bool{}
	for {
		mag := flist.pop()
		if mag == nil {
			break
		}
		if seen[mag] {
			t.Errorf("duplicate magazine %p", mag)
		}
		seen[mag] = true
	}
	if len(seen) != nmags {
		t.Errorf("expected %v, got %v", nmags, len(seen))
	}
	space.Release()
}
