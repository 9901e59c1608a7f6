package middleware

import (
	"fmt"
	"sync"

	configv1 "github.com/omalloc/rangevault/api/defined/v1/middleware"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds a named middleware Factory to the registry. Middleware
// packages call this from their own init(), keyed by the name they expect
// to see in config.yaml's server.middleware list.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Create looks up the Factory registered under conf.Name and invokes it.
func Create(conf *configv1.Middleware) (Middleware, func(), error) {
	registryMu.RLock()
	factory, ok := registry[conf.Name]
	registryMu.RUnlock()
	if !ok {
		return nil, nil, fmt.Errorf("middleware: no factory registered for %q", conf.Name)
	}
	return factory(conf)
}
