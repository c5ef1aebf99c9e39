package partition

import (
	"hash/fnv"

	"gatekv/internal/database/storage/engine"

	"github.com/facette/natsort"
)

// PartitionedEngine spreads keys over independent engines by FNV-1a hash.
// A key always maps to the same partition, so single-key operations keep the
// atomicity of the underlying engine.
type PartitionedEngine struct {
	partitions []engine.Engine
}

func NewPartitionedEngine(partitions []engine.Engine) *PartitionedEngine {
	return &PartitionedEngine{
		partitions: partitions,
	}
}

func (e *PartitionedEngine) Get(key string) (engine.Value, bool) {
	return e.partition(key).Get(key)
}

func (e *PartitionedEngine) Put(key string, value engine.Value) {
	e.partition(key).Put(key, value)
}

func (e *PartitionedEngine) Delete(key string) (engine.Value, bool) {
	return e.partition(key).Delete(key)
}

func (e *PartitionedEngine) Keys() []string {
	keys := make([]string, 0)
	for _, p := range e.partitions {
		keys = append(keys, p.Keys()...)
	}

	natsort.Sort(keys)

	return keys
}

func (e *PartitionedEngine) Len() int {
	var total int
	for _, p := range e.partitions {
		total += p.Len()
	}

	return total
}

func (e *PartitionedEngine) partition(key string) engine.Engine {
	return e.partitions[e.partitionId(key)]
}

func (e *PartitionedEngine) partitionId(key string) int {
	hasher := fnv.New32a()
	// hash.Hash never returns an error from Write
	_, _ = hasher.Write([]byte(key))

	return int(hasher.Sum32() % uint32(len(e.partitions)))
}
