package bridge

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/erraggy/apicontract/contract"
	"github.com/erraggy/apicontract/registry"
)

// Bridge serves the contracts of a registry over net/http.
type Bridge struct {
	registry *registry.Registry
	cfg      *config
	metrics  *metrics
}

// New creates a Bridge for the contracts in reg.
func New(reg *registry.Registry, opts ...Option) (*Bridge, error) {
	if reg == nil {
		return nil, fmt.Errorf("bridge: registry cannot be nil")
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("bridge: invalid options: %w", err)
		}
	}

	b := &Bridge{registry: reg, cfg: cfg}
	if cfg.registerer != nil {
		m, err := newMetrics(cfg.registerer, cfg.namespace)
		if err != nil {
			return nil, fmt.Errorf("bridge: registering metrics: %w", err)
		}
		b.metrics = m
	}
	return b, nil
}

// Mount selects a contract to serve. URL overrides the contract's own URL
// template when set.
type Mount struct {
	Name string
	URL  string
}

// Route is a contract mounted at a URL template.
type Route struct {
	Contract *contract.Contract
	Method   string
	URL      string

	matcher *PathMatcher
}

// Mount builds a Router serving the given mounts. With no mounts every
// registered contract is served at its own URL. Naming an unregistered
// contract fails with *contracterrors.NotFoundError.
func (b *Bridge) Mount(mounts ...Mount) (*Router, error) {
	if len(mounts) == 0 {
		for _, name := range b.registry.Names() {
			mounts = append(mounts, Mount{Name: name})
		}
	}

	routes := make([]*Route, 0, len(mounts))
	seen := make(map[string]string, len(mounts))
	for _, m := range mounts {
		c, err := b.registry.Lookup(m.Name)
		if err != nil {
			return nil, fmt.Errorf("bridge: %w", err)
		}
		url := m.URL
		if url == "" {
			url = c.URL
		}
		matcher, err := NewPathMatcher(url)
		if err != nil {
			return nil, fmt.Errorf("bridge: contract %s: %w", c.Name, err)
		}
		for _, name := range unboundPathParams(c, matcher) {
			b.cfg.logger.Warn("path param is not part of url", "name", c.Name, "param", name, "url", url)
		}

		key := c.Method + " " + url
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("bridge: route %s is mounted by both %s and %s", key, prev, c.Name)
		}
		seen[key] = c.Name

		routes = append(routes, &Route{Contract: c, Method: c.Method, URL: url, matcher: matcher})
		b.cfg.logger.Info("loaded contract", "name", c.Name, "method", c.Method, "url", url)
	}

	sortMatchers(routes, func(r *Route) *PathMatcher { return r.matcher })
	return &Router{bridge: b, cfg: b.cfg, routes: routes}, nil
}

// unboundPathParams returns the path parameters of c that the URL template
// never supplies.
func unboundPathParams(c *contract.Contract, matcher *PathMatcher) []string {
	declared := make(map[string]bool, len(matcher.ParamNames()))
	for _, name := range matcher.ParamNames() {
		declared[name] = true
	}
	var out []string
	for _, p := range c.ParamsFrom(contract.SourcePath) {
		if !declared[p.Name] {
			out = append(out, p.Name)
		}
	}
	return out
}

// match returns the route for method and the escaped path, the path
// parameters, and, when only the method differs, the allowed methods.
func (rt *Router) match(method, path string) (*Route, map[string]string, []string) {
	var allowed []string
	for _, r := range rt.routes {
		ok, params := r.matcher.Match(path)
		if !ok {
			continue
		}
		if r.Method == method {
			return r, params, nil
		}
		allowed = append(allowed, r.Method)
	}
	sort.Strings(allowed)
	return nil, nil, compactStrings(allowed)
}

func compactStrings(s []string) []string {
	out := s[:0]
	for i, v := range s {
		if i == 0 || v != s[i-1] {
			out = append(out, v)
		}
	}
	return out
}

type requestKey struct{}

// RequestInfo describes the request a handler is serving.
type RequestInfo struct {
	ID         string
	Route      *Route
	PathParams map[string]string
	Header     map[string][]string
	RemoteAddr string
}

func withRequest(ctx context.Context, info *RequestInfo) context.Context {
	return context.WithValue(ctx, requestKey{}, info)
}

// RequestFromContext returns the request information stored by the Router
// in the context passed to contract handlers.
func RequestFromContext(ctx context.Context) (*RequestInfo, bool) {
	info, ok := ctx.Value(requestKey{}).(*RequestInfo)
	return info, ok
}

// String renders the route as "METHOD URL (name)".
func (r *Route) String() string {
	return strings.Join([]string{r.Method, r.URL, "(" + r.Contract.Name + ")"}, " ")
}
