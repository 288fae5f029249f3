// Package di provides a minimal service container for module wiring.
// Services are registered eagerly by name or lazily through typed tokens;
// factories run once on first resolution.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry is the read-only view handed to consumers. Get panics
// on an unknown name: wiring errors are programmer errors.
type ServiceRegistry interface {
	Get(name string) any
}

// Container registers and resolves services by name.
type Container interface {
	ServiceRegistry
	Register(name string, service any)
	RegisterFactory(name string, factory func(ServiceRegistry) any)
}

type container struct {
	mu        sync.Mutex
	services  map[string]any
	factories map[string]func(ServiceRegistry) any
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{
		services:  make(map[string]any),
		factories: make(map[string]func(ServiceRegistry) any),
	}
}

func (c *container) Register(name string, service any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services[name] = service
}

func (c *container) RegisterFactory(name string, factory func(ServiceRegistry) any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[name] = factory
}

func (c *container) Get(name string) any {
	c.mu.Lock()
	if s, ok := c.services[name]; ok {
		c.mu.Unlock()
		return s
	}
	factory, ok := c.factories[name]
	c.mu.Unlock()
	if !ok {
		panic(fmt.Sprintf("di: service %q not registered", name))
	}

	// Factories may resolve their own dependencies, so the lock is
	// released while they run.
	s := factory(c)

	c.mu.Lock()
	c.services[name] = s
	c.mu.Unlock()
	return s
}

// Token is a typed service name.
type Token[T any] struct {
	name string
}

// NewToken creates a token. Names are namespaced by convention,
// e.g. "calc.Tabs" for public services and "calc:store" for private ones.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// RegisterToken registers a lazy factory under the token's name.
func RegisterToken[T any](c Container, t Token[T], factory func(ServiceRegistry) T) {
	c.RegisterFactory(t.name, func(sr ServiceRegistry) any {
		return factory(sr)
	})
}

// GetToken resolves a token with its static type.
func GetToken[T any](sr ServiceRegistry, t Token[T]) T {
	return sr.Get(t.name).(T)
}
