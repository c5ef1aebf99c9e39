package mem

import (
	"sync"

	"gatekv/internal/database/storage/engine"

	"github.com/facette/natsort"
)

type InMemoryEngine struct {
	mu      sync.Mutex
	storage map[string]engine.Value
}

func NewInMemoryEngine(initialSize int) *InMemoryEngine {
	return &InMemoryEngine{
		storage: make(map[string]engine.Value, initialSize),
	}
}

func (e *InMemoryEngine) Get(key string) (engine.Value, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	value, ok := e.storage[key]
	return value, ok
}

// Put creates the key or overwrites its value.
func (e *InMemoryEngine) Put(key string, value engine.Value) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.storage[key] = value
}

func (e *InMemoryEngine) Delete(key string) (engine.Value, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	value, ok := e.storage[key]
	if ok {
		delete(e.storage, key)
	}

	return value, ok
}

// Keys returns a naturally sorted snapshot of the stored keys.
func (e *InMemoryEngine) Keys() []string {
	e.mu.Lock()
	keys := make([]string, 0, len(e.storage))
	for key := range e.storage {
		keys = append(keys, key)
	}
	e.mu.Unlock()

	natsort.Sort(keys)

	return keys
}

func (e *InMemoryEngine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.storage)
}
