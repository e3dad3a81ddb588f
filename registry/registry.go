// Package registry groups contracts by their unique name.
//
// Registering a second contract under a name that is already taken is an
// error by default. [WithReplace] opts into last-write-wins, in which case
// the replacement is logged as a warning. Iteration follows registration
// order, and a replaced contract keeps its original position.
package registry

import (
	"fmt"
	"sync"

	"github.com/erraggy/apicontract/contract"
	"github.com/erraggy/apicontract/contracterrors"
	"github.com/erraggy/apicontract/logging"
)

// Option is a functional option for configuring a Registry.
type Option func(*config) error

type config struct {
	replace bool
	logger  logging.Logger
}

// WithReplace makes later registrations replace earlier ones with the same
// name instead of failing. Default is false.
func WithReplace(replace bool) Option {
	return func(c *config) error {
		c.replace = replace
		return nil
	}
}

// WithLogger sets the logger. Default is logging.NopLogger.
func WithLogger(l logging.Logger) Option {
	return func(c *config) error {
		if l == nil {
			return fmt.Errorf("registry: logger cannot be nil")
		}
		c.logger = l
		return nil
	}
}

type entry struct {
	contract *contract.Contract
	origin   string
}

// Registry holds contracts keyed by name. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   []string

	replace bool
	logger  logging.Logger
}

// New creates an empty Registry.
func New(opts ...Option) (*Registry, error) {
	cfg := &config{logger: logging.NopLogger{}}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return &Registry{
		entries: make(map[string]*entry),
		replace: cfg.replace,
		logger:  cfg.logger,
	}, nil
}

// Add registers c. See AddFrom.
func (r *Registry) Add(c *contract.Contract) error {
	return r.AddFrom("", c)
}

// AddFrom registers c, recording origin (typically a file path) for
// diagnostics. A name collision fails with *contracterrors.DuplicateError
// unless the registry was created WithReplace(true).
func (r *Registry) AddFrom(origin string, c *contract.Contract) error {
	if c == nil {
		return fmt.Errorf("registry: contract cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.entries[c.Name]; ok {
		if !r.replace {
			return &contracterrors.DuplicateError{Name: c.Name, Sources: sources(prev.origin, origin)}
		}
		r.logger.Warn("replacing contract",
			"name", c.Name,
			"previous", prev.origin,
			"origin", origin,
		)
		prev.contract = c
		prev.origin = origin
		return nil
	}

	r.entries[c.Name] = &entry{contract: c, origin: origin}
	r.order = append(r.order, c.Name)
	r.logger.Debug("registered contract", "name", c.Name, "method", c.Method, "url", c.URL)
	return nil
}

func sources(prev, next string) []string {
	var out []string
	if prev != "" {
		out = append(out, prev)
	}
	if next != "" {
		out = append(out, next)
	}
	return out
}

// Register builds a contract from decl and adds it.
func (r *Registry) Register(decl contract.Declaration) (*contract.Contract, error) {
	c, err := contract.New(decl)
	if err != nil {
		return nil, err
	}
	if err := r.Add(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the contract registered under name.
func (r *Registry) Get(name string) (*contract.Contract, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return e.contract, true
}

// Lookup is like Get but fails with *contracterrors.NotFoundError.
func (r *Registry) Lookup(name string) (*contract.Contract, error) {
	c, ok := r.Get(name)
	if !ok {
		return nil, &contracterrors.NotFoundError{Name: name}
	}
	return c, nil
}

// Origin returns where the named contract was registered from.
func (r *Registry) Origin(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[name]; ok {
		return e.origin
	}
	return ""
}

// Select returns the named contracts in the order given. Every name must be registered.
func (r *Registry) Select(names ...string) ([]*contract.Contract, error) {
	out := make([]*contract.Contract, 0, len(names))
	for _, name := range names {
		c, err := r.Lookup(name)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Remove deletes the named contract and reports whether it was present.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[name]; !ok {
		return false
	}
	delete(r.entries, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Contracts returns the registered contracts in registration order.
func (r *Registry) Contracts() []*contract.Contract {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*contract.Contract, len(r.order))
	for i, name := range r.order {
		out[i] = r.entries[name].contract
	}
	return out
}

// Len returns the number of registered contracts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
