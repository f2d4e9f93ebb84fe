package vars

import "github.com/AnatoleLucet/vars/internal"

// Readable is an observable value.
type Readable[T any] interface {
	ActivityListenable

	// V returns the current value. Callers must treat it as immutable.
	V() T
}

// Writable is an observable value that can be set.
type Writable[T any] interface {
	Readable[T]

	// Set applies value and reports whether anything changed.
	// An ongoing change is provisional; a completed change ends an interaction.
	Set(ongoing bool, value T) (bool, error)
}

// Var is a mutable, validated, observable value.
type Var[T any] struct {
	cell *internal.Cell

	ongoing   *BasicListenable
	completed *BasicListenable
	all       Listenable
}

// NewVar creates a var accepting every value.
func NewVar[T any](initial T) *Var[T] {
	v, _ := NewValidatedVar(initial, nil)
	return v
}

// NewValidatedVar creates a var whose values must satisfy validate.
// It fails with ErrInvalidValue if initial does not.
func NewValidatedVar[T any](initial T, validate func(T) bool) (*Var[T], error) {
	var validateFn func(any) bool
	if validate != nil {
		validateFn = func(v any) bool { return validate(as[T](v)) }
	}

	cell, err := internal.NewCell(initial, validateFn, nil)
	if err != nil {
		return nil, err
	}

	v := &Var[T]{
		cell:      cell,
		ongoing:   &BasicListenable{cell.Ongoing},
		completed: &BasicListenable{cell.Completed},
	}
	v.all = ListenableOf(v.ongoing, v.completed)

	return v, nil
}

// WithEquals replaces the equality used to detect changes.
func (v *Var[T]) WithEquals(equal func(a, b T) bool) *Var[T] {
	v.cell.SetEqual(func(a, b any) bool {
		return equal(as[T](a), as[T](b))
	})
	return v
}

func (v *Var[T]) V() T {
	return as[T](v.cell.Value())
}

func (v *Var[T]) Set(ongoing bool, value T) (bool, error) {
	return v.cell.Set(ongoing, value)
}

// SetValue applies a completed change.
func (v *Var[T]) SetValue(value T) (bool, error) {
	return v.cell.Set(false, value)
}

func (v *Var[T]) IsValid(value T) bool {
	return v.cell.IsValid(value)
}

// HasOngoingChanges reports whether the last applied change was ongoing.
func (v *Var[T]) HasOngoingChanges() bool {
	return v.cell.HasOngoingChanges()
}

// Ongoing fires after ongoing changes only.
func (v *Var[T]) Ongoing() Listenable { return v.ongoing }

// Completed fires after completed changes only.
func (v *Var[T]) Completed() Listenable { return v.completed }

// All fires after every change.
func (v *Var[T]) All() Listenable { return v.all }

func (v *Var[T]) AddListener(listener ActivityListener, flags ...ListenerFlag) Disposable {
	return handleImmediateActivity(flags, listener, func(rest []ListenerFlag) Disposable {
		return addActivityListener(v.ongoing, v.completed, listener, rest)
	})
}

// Update sets w to fn applied to its current value.
func Update[T any](w Writable[T], ongoing bool, fn func(T) T) (bool, error) {
	return w.Set(ongoing, fn(w.V()))
}

// UpdateIfPresent is Update, except that it does nothing while w holds a nil
// pointer, map, slice or interface.
func UpdateIfPresent[T any](w Writable[T], ongoing bool, fn func(T) T) (bool, error) {
	current := w.V()
	if internal.IsNil(current) {
		return false, nil
	}

	return w.Set(ongoing, fn(current))
}
