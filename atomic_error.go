package genode

import "sync"

// atomicError keeps the first error stored into it. Streaming workers use it
// to hand their failure to the client goroutine without rethrowing across
// the goroutine boundary.
type atomicError struct {
	err error
	m   sync.Mutex
}

func (a *atomicError) TryStore(err error) {
	a.m.Lock()
	defer a.m.Unlock()
	if a.err == nil {
		a.err = err
	}
}

func (a *atomicError) Load() error {
	a.m.Lock()
	defer a.m.Unlock()
	return a.err
}

func (a *atomicError) Clear() {
	a.m.Lock()
	defer a.m.Unlock()
	a.err = nil
}
