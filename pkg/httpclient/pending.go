package httpclient

import "context"

// Pending is a handle to a response that is not available yet. It resolves
// exactly once, to a response or to an error.
type Pending struct {
	done chan struct{}
	resp Response
	err  error
}

// Go runs fn on its own goroutine and returns a Pending tracking its result.
func Go(fn func() (Response, error)) *Pending {
	p := &Pending{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.resp, p.err = fn()
	}()
	return p
}

// Done is closed once the result is available.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Await blocks until the result is available or ctx ends. Giving up on ctx
// does not abort the underlying request; the client timeout still bounds it.
func (p *Pending) Await(ctx context.Context) (Response, error) {
	select {
	case <-p.done:
		return p.resp, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
