// Package di provides a small lazily-resolving service container with typed tokens.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry resolves services by name.
type ServiceRegistry interface {
	Get(name string) any
}

// Container registers values and factories and resolves them once.
type Container interface {
	ServiceRegistry
	Register(name string, value any)
	RegisterFactory(name string, factory func(ServiceRegistry) any)
}

type entry struct {
	once    sync.Once
	factory func(ServiceRegistry) any
	value   any
}

type container struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{entries: make(map[string]*entry)}
}

func (c *container) Register(name string, value any) {
	e := &entry{value: value}
	e.once.Do(func() {})

	c.mu.Lock()
	c.entries[name] = e
	c.mu.Unlock()
}

func (c *container) RegisterFactory(name string, factory func(ServiceRegistry) any) {
	c.mu.Lock()
	c.entries[name] = &entry{factory: factory}
	c.mu.Unlock()
}

// Get resolves name, invoking its factory on first use. Panics on unknown
// names since a missing registration is a wiring bug.
func (c *container) Get(name string) any {
	c.mu.RLock()
	e, ok := c.entries[name]
	c.mu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("di: service %q not registered", name))
	}

	e.once.Do(func() {
		e.value = e.factory(c)
	})
	return e.value
}

// Token is a typed key for a registered service.
type Token[T any] struct {
	name string
}

// NewToken creates a token for services of type T.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// Name returns the registration key.
func (t Token[T]) Name() string {
	return t.name
}

// RegisterToken registers a typed factory under the token.
func RegisterToken[T any](c Container, tok Token[T], factory func(ServiceRegistry) T) {
	c.RegisterFactory(tok.name, func(sr ServiceRegistry) any {
		return factory(sr)
	})
}

// GetToken resolves a typed service.
func GetToken[T any](sr ServiceRegistry, tok Token[T]) T {
	v, ok := sr.Get(tok.name).(T)
	if !ok {
		panic(fmt.Sprintf("di: service %q has unexpected type", tok.name))
	}
	return v
}
