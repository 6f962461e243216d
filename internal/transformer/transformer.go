// Package transformer defines the slice-at-a-time transform contract used by
// the normalization stages. Concrete transforms live in builtin.
package transformer

// Transformer rewrites a batch of rows. Implementations may filter in place
// by reslicing the input and may mutate rows; callers must use the returned
// slice.
type Transformer[T any] interface {
	Apply(in []T) []T
}

// Chain is an ordered list of transformers applied left to right.
type Chain[T any] []Transformer[T]

// Apply runs every transformer in order, feeding each the previous output.
func (c Chain[T]) Apply(in []T) []T {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}

// Func adapts a plain function to a Transformer.
type Func[T any] func(in []T) []T

// Apply implements Transformer.
func (f Func[T]) Apply(in []T) []T { return f(in) }
