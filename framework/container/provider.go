package container

import "fmt"

// ServiceProvider registers a group of services.
//
// Register only binds factories. Boot runs after every provider has
// registered, so it may resolve anything.
type ServiceProvider interface {
	Register(c *Container) error
	Boot(c *Container) error
}

// BaseProvider supplies a no-op Boot.
type BaseProvider struct{}

func (BaseProvider) Boot(*Container) error { return nil }

// ProviderRegistry registers and boots providers in order.
type ProviderRegistry struct {
	c         *Container
	providers []ServiceProvider
	booted    bool
}

// NewProviderRegistry creates a registry bound to c.
func NewProviderRegistry(c *Container) *ProviderRegistry {
	return &ProviderRegistry{c: c}
}

// Register calls p.Register, and p.Boot too when the registry has already
// booted.
func (r *ProviderRegistry) Register(p ServiceProvider) error {
	if err := p.Register(r.c); err != nil {
		return fmt.Errorf("register %T: %w", p, err)
	}
	r.providers = append(r.providers, p)
	if r.booted {
		if err := p.Boot(r.c); err != nil {
			return fmt.Errorf("boot %T: %w", p, err)
		}
	}
	return nil
}

// Boot boots every registered provider once, stopping at the first error.
func (r *ProviderRegistry) Boot() error {
	if r.booted {
		return nil
	}
	for _, p := range r.providers {
		if err := p.Boot(r.c); err != nil {
			return fmt.Errorf("boot %T: %w", p, err)
		}
	}
	r.booted = true
	return nil
}

// Booted reports whether Boot has completed.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns the registered providers in registration order.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.providers }
