package opengl

import (
	"fmt"

	"github.com/spaghettifunk/ballistica/engine/core"
)

// debugChecks enables per-call GL error polling, state-cache drift
// verification and fail-fast shader compilation. Flip to true for
// development builds; release builds keep it off so the branches
// compile away.
const debugChecks = false

func assert(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}

// checkGLError polls the driver error state and logs anything pending.
// Only called when debugChecks is on; glGetError forces a sync with the
// driver and is far too expensive for release frames.
func checkGLError(f Functions, where string) {
	for {
		e := f.GetError()
		if e == NO_ERROR {
			return
		}
		core.LogError("GL error 0x%04x at %s", e, where)
	}
}
