// Package container provides a small service container and provider
// registry used to assemble the application at startup.
//
// # Lifecycle
//
//  1. Create: c := container.New()
//  2. Register providers: registry.Register(&ConfigServiceProvider{})
//  3. Boot: registry.Boot(); everything resolves after this
//  4. Serve
//
// # Bindings
//
//	c.Bind("surface", factory)      // new value on every Make
//	c.Singleton("logger", factory)  // built once
//	c.Instance("config", cfg)       // pre-built
//	c.Alias("config", "cfg")
//
//	logger, err := container.Resolve[*zap.Logger](c, "logger")
//
// Factories return an error instead of panicking; Make wraps it with the
// service name. Resolving a service from its own factory is reported as
// ErrCircularBind.
package container
