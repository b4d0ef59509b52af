package routedecor

import (
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

// NextFunc hands an error to the router's error chain. Calling it with nil
// is a no-op; only the first error of a call is kept. It must be called before
// the action returns: async work has to return a Deferred or a <-chan error,
// a later call is only logged.
type NextFunc func(err error)

// Call is the context-object form of a call's arguments.
type Call struct {
	Request  RequestContext
	Response ResponseInterface
	Next     NextFunc
}

// Get reads a value stored on the request context
func (c *Call) Get(key string) any {
	return c.Request.Get(key)
}

// Scope returns the request scope attached by ScopePerRequest
func (c *Call) Scope() (Resolver, bool) {
	return ScopeFrom(c.Request)
}

// Convention selects how actions receive their arguments.
type Convention int

const (
	// ContextObject actions take a single *Call.
	ContextObject Convention = iota
	// Native actions take (RequestContext, ResponseInterface, NextFunc).
	Native
)

// String returns the convention name
func (c Convention) String() string {
	if c == Native {
		return "native"
	}
	return "context"
}

// Deferred is a pending outcome returned by an action.
type Deferred interface {
	Wait() error
}

// Future is a Deferred settled by a goroutine
type Future struct {
	done chan struct{}
	err  error
}

// Go runs fn on its own goroutine and returns its pending outcome. A panic in
// fn settles the future with a HandlerError.
func Go(fn func() error) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = newPanicError(r)
			}
		}()
		f.err = fn()
	}()
	return f
}

// Wait blocks until fn returned. A nil Future is already settled.
func (f *Future) Wait() error {
	if f == nil {
		return nil
	}
	<-f.done
	return f.err
}

type chanDeferred <-chan error

func (c chanDeferred) Wait() error {
	return <-c
}

// Invoker runs one resolved action with the arguments of one call.
type Invoker func(call *Call) (Deferred, error)

// bindAction turns an action function into an Invoker for conv.
func bindAction(fn any, conv Convention) (Invoker, error) {
	switch conv {
	case ContextObject:
		switch f := fn.(type) {
		case func(*Call):
			return func(c *Call) (Deferred, error) { f(c); return nil, nil }, nil
		case func(*Call) error:
			return func(c *Call) (Deferred, error) { return nil, f(c) }, nil
		case func(*Call) Deferred:
			return func(c *Call) (Deferred, error) { return f(c), nil }, nil
		case func(*Call) <-chan error:
			return func(c *Call) (Deferred, error) { return deferChan(f(c)), nil }, nil
		}
	case Native:
		switch f := fn.(type) {
		case func(RequestContext, ResponseInterface, NextFunc):
			return func(c *Call) (Deferred, error) { f(c.Request, c.Response, c.Next); return nil, nil }, nil
		case func(RequestContext, ResponseInterface, NextFunc) error:
			return func(c *Call) (Deferred, error) { return nil, f(c.Request, c.Response, c.Next) }, nil
		case func(RequestContext, ResponseInterface, NextFunc) Deferred:
			return func(c *Call) (Deferred, error) { return f(c.Request, c.Response, c.Next), nil }, nil
		case func(RequestContext, ResponseInterface, NextFunc) <-chan error:
			return func(c *Call) (Deferred, error) { return deferChan(f(c.Request, c.Response, c.Next)), nil }, nil
		}
	}

	switch f := fn.(type) {
	case HandlerFunc:
		return func(c *Call) (Deferred, error) { return nil, f(c.Request) }, nil
	case func(RequestContext) error:
		return func(c *Call) (Deferred, error) { return nil, f(c.Request) }, nil
	}
	return nil, fmt.Errorf("unsupported %s action signature %T", conv, fn)
}

func deferChan(ch <-chan error) Deferred {
	if ch == nil {
		return nil
	}
	return chanDeferred(ch)
}

// forwarder is the single-shot next callback of one call. Once the adapter
// has returned it is closed and late errors go to the logger.
type forwarder struct {
	logger *zap.Logger

	mu     sync.Mutex
	err    error
	closed bool
}

func (f *forwarder) next(err error) {
	if err == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		f.logger.Warn("late next after handler returned", zap.Error(err))
		return
	}
	if f.err == nil {
		f.err = NewHandlerError(err)
	}
}

// close stops accepting errors and returns the forwarded one
func (f *forwarder) close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return f.err
}

// Adapt wraps inv into a HandlerFunc. Returned errors, panics and failed
// deferred outcomes are forwarded once and returned to the router's error chain.
func Adapt(inv Invoker) HandlerFunc {
	return adapt(inv, zap.NewNop())
}

func adapt(inv Invoker, logger *zap.Logger) HandlerFunc {
	return func(rc RequestContext) error {
		fwd := &forwarder{logger: logger}
		call := &Call{Request: rc, Response: rc.Response(), Next: fwd.next}

		if err := settle(invoke(inv, call)); err != nil {
			fwd.next(err)
		}

		err := fwd.close()
		if err == nil {
			return nil
		}
		fields := []zap.Field{
			zap.String("method", rc.Method()),
			zap.String("path", rc.Path()),
			zap.Error(err),
		}
		if status, _ := StatusOf(err); status >= http.StatusInternalServerError {
			logger.Error("handler failed", fields...)
		} else {
			logger.Debug("forwarding handler error", fields...)
		}
		return err
	}
}

// settle waits for a deferred outcome. A panicking Wait settles with a HandlerError.
func settle(deferred Deferred) (err error) {
	if deferred == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = newPanicError(r)
		}
	}()
	return deferred.Wait()
}

// invoke runs inv and forwards synchronous failures.
func invoke(inv Invoker, call *Call) (deferred Deferred) {
	defer func() {
		if r := recover(); r != nil {
			call.Next(newPanicError(r))
			deferred = nil
		}
	}()

	deferred, err := inv(call)
	if err != nil {
		call.Next(err)
		return nil
	}
	return deferred
}
