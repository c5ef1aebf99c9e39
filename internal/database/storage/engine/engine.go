package engine

// Value is the stored representation of a scalar: Integer, Float or String.
type Value interface {
	storedValue()
}

type Integer int32

type Float float64

type String string

func (Integer) storedValue() {}

func (Float) storedValue() {}

func (String) storedValue() {}

// Engine is a key-value space. Every method is atomic with respect to the
// others; a missing key is reported through the bool result, never an error.
type Engine interface {
	Get(key string) (Value, bool)
	Put(key string, value Value)
	Delete(key string) (Value, bool)
	Keys() []string
	Len() int
}
