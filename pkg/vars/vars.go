// Package vars implements the variable bag accumulated during a run and
// the `{name}` command template resolver.
package vars

import "sort"

// Bag is an ordered mapping of variable name → captured value.
// Iteration follows insertion order; re-setting an existing name overwrites
// the value but keeps its original position. A Bag belongs to exactly one
// run and is never shared between goroutines.
type Bag struct {
	order  []string
	values map[string]string
}

// New creates an empty bag.
func New() *Bag {
	return &Bag{values: make(map[string]string)}
}

// FromMap creates a bag seeded from m. Keys are inserted in sorted order so
// two bags built from equal maps iterate identically.
func FromMap(m map[string]string) *Bag {
	b := New()
	for _, k := range sortedKeys(m) {
		b.Set(k, m[k])
	}
	return b
}

// Set inserts or overwrites a variable. Last write wins.
func (b *Bag) Set(name, value string) {
	if _, ok := b.values[name]; !ok {
		b.order = append(b.order, name)
	}
	b.values[name] = value
}

// Get returns the value for name and whether it is present.
func (b *Bag) Get(name string) (string, bool) {
	v, ok := b.values[name]
	return v, ok
}

// Len returns the number of variables in the bag.
func (b *Bag) Len() int {
	return len(b.order)
}

// Names returns the variable names in insertion order.
func (b *Bag) Names() []string {
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

// Map returns a copy of the bag as a plain map.
func (b *Bag) Map() map[string]string {
	out := make(map[string]string, len(b.values))
	for k, v := range b.values {
		out[k] = v
	}
	return out
}

// Env returns the bag as a map[string]any for expression evaluation.
func (b *Bag) Env() map[string]any {
	out := make(map[string]any, len(b.values))
	for k, v := range b.values {
		out[k] = v
	}
	return out
}

// Render resolves a command template against this bag.
func (b *Bag) Render(template string) (string, error) {
	return Resolve(template, b)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
