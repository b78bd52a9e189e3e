package param

import "fmt"

// Batch is one row of a batched statement: a fixed, non-empty, ordered list
// of parameters. A Batch is immutable once built.
type Batch struct {
	params []Parameter
}

// NewBatch builds a batch from first followed by rest.
func NewBatch(first Parameter, rest ...Parameter) (Batch, error) {
	if rest == nil {
		rest = []Parameter{}
	}
	return NewBatchFrom(first, rest)
}

// NewBatchFrom builds a batch from first and an explicit remainder slice.
// Unlike NewBatch, a nil remainder is rejected; pass an empty slice for a
// single-parameter batch.
func NewBatchFrom(first Parameter, rest []Parameter) (Batch, error) {
	if first == nil {
		return Batch{}, fmt.Errorf("%w: batch: first parameter is nil", ErrInvalidArgument)
	}
	if rest == nil {
		return Batch{}, fmt.Errorf("%w: batch: remaining parameters are nil", ErrInvalidArgument)
	}

	params := make([]Parameter, 0, len(rest)+1)
	params = append(params, first)
	for i, p := range rest {
		if p == nil {
			return Batch{}, fmt.Errorf("%w: batch: parameter at position %d is nil", ErrInvalidArgument, i+1)
		}
		params = append(params, p)
	}
	return Batch{params: params}, nil
}

// MustBatch is like NewBatch but panics on invalid input.
func MustBatch(first Parameter, rest ...Parameter) Batch {
	b, err := NewBatch(first, rest...)
	if err != nil {
		panic(err)
	}
	return b
}

// Len returns the number of parameters. The zero Batch has length 0 and is
// rejected by every consumer.
func (b Batch) Len() int {
	return len(b.params)
}

// ForEachParameter calls visit for every parameter in order with its 0-based
// position, stopping at the first error.
func (b Batch) ForEachParameter(visit func(p Parameter, position int) error) error {
	if visit == nil {
		return fmt.Errorf("%w: batch: visitor is nil", ErrInvalidArgument)
	}
	for i, p := range b.params {
		if err := visit(p, i); err != nil {
			return err
		}
	}
	return nil
}

// Bind binds every parameter of the batch to b.
func (b Batch) Bind(binder Binder) error {
	if b.Len() == 0 {
		return fmt.Errorf("%w: batch is empty", ErrInvalidArgument)
	}
	return b.ForEachParameter(func(p Parameter, position int) error {
		return p.Bind(binder, position)
	})
}
