package container

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrNotBound     = errors.New("container: no binding")
	ErrWrongType    = errors.New("container: resolved value has wrong type")
	ErrCircularBind = errors.New("container: circular resolution")
)

// Factory builds a service, resolving its own dependencies from c.
type Factory func(c *Container) (any, error)

type binding struct {
	factory   Factory
	singleton bool
}

// Container holds the application's services by name.
//
// It supports transient bindings, singletons, pre-built instances and
// aliases. Factories run outside the lock so they can resolve other services.
// A singleton is built once even when several goroutines ask for it at the
// same time; the others wait for the first build.
type Container struct {
	*registry

	// services being built by this resolution chain
	chain map[string]bool
}

type registry struct {
	mu        sync.Mutex
	bindings  map[string]*binding
	instances map[string]any
	aliases   map[string]string
	inflight  map[string]*call
}

// call is one singleton build in progress.
type call struct {
	done chan struct{}
	v    any
	err  error
}

// New creates an empty container that can resolve itself as "container".
func New() *Container {
	c := &Container{registry: &registry{
		bindings:  make(map[string]*binding),
		instances: make(map[string]any),
		aliases:   make(map[string]string),
		inflight:  make(map[string]*call),
	}}
	c.Instance("container", c)
	return c
}

// Bind registers a factory run on every Make.
//
//	c.Bind("surface", func(c *container.Container) (any, error) {
//	    return signup.NewMemorySurface(nil), nil
//	})
func (c *Container) Bind(name string, f Factory) { c.bind(name, f, false) }

// Singleton registers a factory whose result is cached after the first Make.
//
//	c.Singleton("logger", func(c *container.Container) (any, error) {
//	    cfg, err := container.Resolve[*config.Config](c, "config")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return logging.New(cfg.Log)
//	})
func (c *Container) Singleton(name string, f Factory) { c.bind(name, f, true) }

func (c *Container) bind(name string, f Factory, singleton bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(name)
	delete(c.instances, key)
	c.bindings[key] = &binding{factory: f, singleton: singleton}
}

// Instance registers a pre-built value.
func (c *Container) Instance(name string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(name)
	delete(c.bindings, key)
	c.instances[key] = v
}

// Alias makes alias resolve to the same service as name.
func (c *Container) Alias(name, alias string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name == alias {
		panic(fmt.Sprintf("container: [%s] is aliased to itself", name))
	}
	c.aliases[alias] = c.canonical(name)
}

// Make resolves a service by name or alias. A factory that resolves its own
// service, directly or through others, gets ErrCircularBind.
func (c *Container) Make(name string) (any, error) {
	c.mu.Lock()
	key := c.canonical(name)
	if v, ok := c.instances[key]; ok {
		c.mu.Unlock()
		return v, nil
	}
	b, ok := c.bindings[key]
	if !ok {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w for [%s]", ErrNotBound, name)
	}
	if c.chain[key] {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: [%s]", ErrCircularBind, name)
	}
	if !b.singleton {
		c.mu.Unlock()
		return c.build(key, name, b)
	}

	if running, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		<-running.done
		return running.v, running.err
	}
	cl := &call{done: make(chan struct{})}
	c.inflight[key] = cl
	c.mu.Unlock()

	cl.v, cl.err = c.build(key, name, b)

	c.mu.Lock()
	delete(c.inflight, key)
	// a rebind during the build wins over the stale result
	if cl.err == nil && c.bindings[key] == b {
		c.instances[key] = cl.v
	}
	c.mu.Unlock()
	close(cl.done)
	return cl.v, cl.err
}

// build runs b's factory with a container that remembers key as part of
// the current resolution chain.
func (c *Container) build(key, name string, b *binding) (any, error) {
	chain := make(map[string]bool, len(c.chain)+1)
	for k := range c.chain {
		chain[k] = true
	}
	chain[key] = true

	v, err := b.factory(&Container{registry: c.registry, chain: chain})
	if err != nil {
		return nil, fmt.Errorf("container: build [%s]: %w", name, err)
	}
	return v, nil
}

// Bound reports whether name has a binding or an instance.
func (c *Container) Bound(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(name)
	_, hasBinding := c.bindings[key]
	_, hasInstance := c.instances[key]
	return hasBinding || hasInstance
}

// Resolved reports whether a singleton or instance is cached for name.
func (c *Container) Resolved(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.instances[c.canonical(name)]
	return ok
}

// canonical must be called with mu held.
func (c *Container) canonical(name string) string {
	if target, ok := c.aliases[name]; ok {
		return target
	}
	return name
}

// Resolve calls Make and asserts the result to T.
//
//	cfg, err := container.Resolve[*config.Config](c, "config")
func Resolve[T any](c *Container, name string) (T, error) {
	var zero T
	v, err := c.Make(name)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: [%s] is %T, want %T", ErrWrongType, name, v, zero)
	}
	return typed, nil
}

// MustResolve is Resolve for bootstrap code; it panics on error.
func MustResolve[T any](c *Container, name string) T {
	v, err := Resolve[T](c, name)
	if err != nil {
		panic(err)
	}
	return v
}
