package markalloc

import "fmt"
import "errors"

// ErrorSpaceExhausted is thrown, via panic, when committing one more
// expansion increment would exceed the configured "spacelimit".
var ErrorSpaceExhausted = errors.New("markalloc.spaceexhausted")

func panicerr(fmsg string, args ...interface{}) {
	panic(fmt.Errorf(fmsg, args...))
}
