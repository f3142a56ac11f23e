package portfolio

type resolutionState int

const (
	unresolved resolutionState = iota
	resolved
	failed
)

// resolution memoizes a lazily computed value together with its failure.
type resolution[T any] struct {
	state resolutionState
	value T
	err   error
}

// get runs fn on first use and replays its outcome afterwards.
func (r *resolution[T]) get(fn func() (T, error)) (T, error) {
	switch r.state {
	case resolved:
		return r.value, nil
	case failed:
		var zero T
		return zero, r.err
	}

	v, err := fn()
	if err != nil {
		r.state, r.err = failed, err
		var zero T
		return zero, err
	}
	r.state, r.value = resolved, v
	return v, nil
}

func (r *resolution[T]) set(v T) {
	r.state, r.value, r.err = resolved, v, nil
}
