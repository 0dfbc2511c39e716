package syslog

import (
	"fmt"
	"sync"
)

// Registry keeps named loggers so call sites across a process can
// share one connection per destination instead of dialing their own.
type Registry struct {
	mu      sync.Mutex
	loggers map[string]*Logger
}

// NewRegistry creates an empty logger registry.
func NewRegistry() *Registry {
	return &Registry{loggers: make(map[string]*Logger)}
}

// Open returns the logger registered under name, dialing a new one
// if absent. Subsequent Opens with the same name reuse the existing
// logger and its connection regardless of the other arguments.
func (r *Registry) Open(name, network, addr string, facility Facility, appName string) (*Logger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.loggers[name]; ok {
		return l, nil
	}

	var (
		t   Transport
		err error
	)
	if network == "local" {
		t, err = DialLocal()
	} else {
		t, err = Dial(network, addr)
	}
	if err != nil {
		return nil, err
	}

	l := NewLogger(t, facility, appName)
	r.loggers[name] = l
	return l, nil
}

// Get returns a previously opened logger.
func (r *Registry) Get(name string) (*Logger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.loggers[name]
	if !ok {
		return nil, fmt.Errorf("syslog: no logger registered under %q", name)
	}
	return l, nil
}

// CloseAll closes every registered logger and empties the registry.
// The first close error is returned; all loggers are closed either
// way.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for name, l := range r.loggers {
		if err := l.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(r.loggers, name)
	}
	return firstErr
}

// DefaultRegistry is the process-wide registry used by the package
// level helpers.
var DefaultRegistry = NewRegistry()

// Open opens or reuses a named logger in the default registry.
func Open(name, network, addr string, facility Facility, appName string) (*Logger, error) {
	return DefaultRegistry.Open(name, network, addr, facility, appName)
}

// Get fetches a named logger from the default registry.
func Get(name string) (*Logger, error) {
	return DefaultRegistry.Get(name)
}
