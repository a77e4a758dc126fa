package primitives

// Controlled holds a value that is either owned by the caller or kept
// internally. A controlled value is read through the caller's pointer and
// Set only reports the change; an uncontrolled value is stored here.
type Controlled[T any] struct {
	value    *T
	internal T
	onChange func(T)
}

// NewControlled returns a controlled value when value is non-nil, otherwise
// an uncontrolled one starting at def.
func NewControlled[T any](value *T, def T, onChange func(T)) *Controlled[T] {
	return &Controlled[T]{value: value, internal: def, onChange: onChange}
}

// IsControlled reports whether the caller owns the value.
func (c *Controlled[T]) IsControlled() bool { return c.value != nil }

// Get returns the current value.
func (c *Controlled[T]) Get() T {
	if c.value != nil {
		return *c.value
	}
	return c.internal
}

// Set stores next when uncontrolled and always notifies the change
// callback.
func (c *Controlled[T]) Set(next T) {
	if c.value == nil {
		c.internal = next
	}
	if c.onChange != nil {
		c.onChange(next)
	}
}
