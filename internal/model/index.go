package model

// OptionalIndex replaces the source system's SHOT_INT_MAX / COIN_INT_MAX
// sentinel convention for "no such variable/row" (spec.md §9, Open Question
// 3) with an explicit sum type.
type OptionalIndex struct {
	value int
	ok    bool
}

// Some wraps a present index.
func Some(i int) OptionalIndex { return OptionalIndex{value: i, ok: true} }

// None represents the absence of an index.
func None() OptionalIndex { return OptionalIndex{} }

// Get returns the wrapped index and whether it is present.
func (o OptionalIndex) Get() (int, bool) { return o.value, o.ok }

// IsSome reports whether an index is present.
func (o OptionalIndex) IsSome() bool { return o.ok }

// MustGet returns the wrapped index, panicking if absent. Reserved for call
// sites that have already checked IsSome.
func (o OptionalIndex) MustGet() int {
	if !o.ok {
		panic("model: MustGet on an empty OptionalIndex")
	}
	return o.value
}
