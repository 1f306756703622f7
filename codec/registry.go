package codec

import (
	"fmt"
	"sync"
)

var (
	mu       sync.RWMutex
	registry = map[string]Codec{}
)

// Register ties c to its Name and should be called once per codec during
// app init, the same way the teacher's adapters.Register associates a
// factory with a source-adapter type key.
func Register(c Codec) {
	mu.Lock()
	registry[c.Name] = c
	mu.Unlock()
}

// Lookup returns the codec registered under name.
func Lookup(name string) (Codec, error) {
	mu.RLock()
	c, ok := registry[name]
	mu.RUnlock()
	if !ok {
		return Codec{}, fmt.Errorf("codec: no codec registered under %q", name)
	}
	return c, nil
}

// Names returns the names of all currently registered codecs.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

func init() {
	Register(Identity)
}
