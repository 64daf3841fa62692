package image

import (
	"context"
	"os"
)

// Future is the pending result of an asynchronous image decode. It resolves
// exactly once; the session that started the load is expected to be its only
// holder.
type Future struct {
	done chan struct{}
	pic  *Picture
	err  error
}

// Load decodes data in the background.
func Load(data []byte) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.pic, f.err = Decode(data)
	}()
	return f
}

// LoadPath reads and decodes a file in the background.
func LoadPath(path string) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		data, err := os.ReadFile(path)
		if err != nil {
			f.err = err
			return
		}
		f.pic, f.err = Decode(data)
	}()
	return f
}

// Resolved returns a future that is already complete.
func Resolved(pic *Picture, err error) *Future {
	f := &Future{done: make(chan struct{}), pic: pic, err: err}
	close(f.done)
	return f
}

// Done is closed once the result is available.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Ready reports whether the result is available without blocking.
func (f *Future) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Result blocks until the load completes.
func (f *Future) Result() (*Picture, error) {
	<-f.done
	return f.pic, f.err
}

// Wait is Result with cancellation.
func (f *Future) Wait(ctx context.Context) (*Picture, error) {
	select {
	case <-f.done:
		return f.pic, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
