package kernel

import "runtime"

// Context is a saved execution context: the goroutine parked on resume is
// the execution that continues when something switches to it.
type Context struct {
	resume chan struct{}
}

func newContext() *Context {
	return &Context{resume: make(chan struct{})}
}

// swtch suspends the caller on old and resumes next. It returns only when
// something switches back to old. A context whose kernel stack has been freed
// is closed; its goroutine exits instead of returning.
func swtch(old, next *Context) {
	next.resume <- struct{}{}
	if _, ok := <-old.resume; !ok {
		runtime.Goexit()
	}
}

// free releases the goroutine parked on the context.
func (c *Context) free() {
	close(c.resume)
}
