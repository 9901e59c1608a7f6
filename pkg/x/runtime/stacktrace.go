package runtime

import "runtime/debug"

// PrintStackTrace returns the current goroutine's stack trace as a string,
// skipping the top skip frames (the recover/defer machinery itself).
// debug.Stack already includes the full trace; skip is accepted for call
// compatibility with callers that only want frames below their own
// recovery plumbing, but the underlying stdlib call has no per-frame skip
// knob, so the full trace is returned regardless.
func PrintStackTrace(skip int) string {
	return string(debug.Stack())
}
