package internal

// Cell is a mutable, validated value with ongoing/completed change tracking.
// Mutations apply eagerly and register a rollback point with the active transaction.
type Cell struct {
	value    any
	validate func(any) bool
	equal    func(a, b any) bool

	// true between an ongoing change and the next completed one
	hasOngoingChanges bool

	// true while a rollback point is registered with the current txn
	hasTxnMember bool

	Ongoing   *Registry
	Completed *Registry
}

// NewCell creates a cell. A nil validate accepts every value, a nil equal uses IsEqual.
func NewCell(initial any, validate func(any) bool, equal func(a, b any) bool) (*Cell, error) {
	if validate == nil {
		validate = func(any) bool { return true }
	}
	if equal == nil {
		equal = IsEqual
	}

	c := &Cell{
		value:     initial,
		validate:  validate,
		equal:     equal,
		Ongoing:   NewRegistry(true),
		Completed: NewRegistry(true),
	}

	if !c.IsValid(initial) {
		return nil, &InvalidValueError{Value: initial}
	}

	return c, nil
}

func (c *Cell) Value() any {
	return c.value
}

func (c *Cell) IsValid(v any) bool {
	return c.validate(v)
}

func (c *Cell) HasOngoingChanges() bool {
	return c.hasOngoingChanges
}

func (c *Cell) SetEqual(equal func(a, b any) bool) {
	c.equal = equal
}

// Set applies value if it differs from the current one, or if it closes a run
// of ongoing changes. It reports whether a change was applied.
func (c *Cell) Set(ongoing bool, value any) (bool, error) {
	if !c.IsValid(value) {
		return false, &InvalidValueError{Value: value}
	}

	closesOngoingRun := !ongoing && c.hasOngoingChanges
	if !closesOngoingRun && c.equal(value, c.value) {
		return false, nil
	}

	rt := GetRuntime()
	err := rt.DoTxn("", func() error {
		if !c.hasTxnMember {
			rt.ActiveTxn().Add(&cellMember{
				cell:            c,
				rollbackValue:   c.value,
				rollbackOngoing: c.hasOngoingChanges,
			})
			c.hasTxnMember = true
		}

		c.value = value
		c.hasOngoingChanges = ongoing

		if ongoing {
			c.Ongoing.Fire(nil)
		} else {
			c.Completed.Fire(nil)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	return true, nil
}

type cellMember struct {
	cell *Cell

	rollbackValue   any
	rollbackOngoing bool
}

func (m *cellMember) Commit() error {
	m.cell.hasTxnMember = false
	return nil
}

func (m *cellMember) Rollback() {
	m.cell.value = m.rollbackValue
	m.cell.hasOngoingChanges = m.rollbackOngoing
	m.cell.hasTxnMember = false
}

func (m *cellMember) PostCommit() {}
