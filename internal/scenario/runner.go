package scenario

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/AnatoleLucet/vars"
)

// Value is the final value of a named var.
type Value struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Result is what a scenario run produced.
type Result struct {
	Name  string   `json:"name"`
	Trace []string `json:"trace"`
	Final []Value  `json:"final"`
}

// Text renders the trace followed by the final values, one entry per line.
func (r *Result) Text() string {
	var sb strings.Builder
	for _, line := range r.Trace {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	for _, v := range r.Final {
		fmt.Fprintf(&sb, "final %s=%d\n", v.Name, v.Value)
	}
	return sb.String()
}

type runner struct {
	scenario *Scenario

	vars     map[string]*vars.Var[int]
	readable map[string]vars.Readable[int]
	handles  map[string]vars.Disposable

	trace []string
	depth int
}

// Run executes s on the calling goroutine. It fails only when the scenario
// cannot be set up; errors raised by steps are recorded in the trace.
func Run(s *Scenario) (*Result, error) {
	r := &runner{
		scenario: s,
		vars:     map[string]*vars.Var[int]{},
		readable: map[string]vars.Readable[int]{},
		handles:  map[string]vars.Disposable{},
	}

	if err := r.setup(); err != nil {
		return nil, err
	}

	if err := r.steps(s.Steps); err != nil {
		return nil, err
	}

	result := &Result{Name: s.Name, Trace: r.trace}
	for _, v := range s.Vars {
		result.Final = append(result.Final, Value{v.Name, r.vars[v.Name].V()})
	}
	for _, d := range s.Derived {
		result.Final = append(result.Final, Value{d.Name, r.readable[d.Name].V()})
	}

	return result, nil
}

func (r *runner) setup() error {
	for _, decl := range r.scenario.Vars {
		v, err := vars.NewValidatedVar(decl.Initial, bounds(decl.Min, decl.Max))
		if err != nil {
			return errors.Wrapf(err, "var %q", decl.Name)
		}
		r.vars[decl.Name] = v
		r.readable[decl.Name] = v
	}

	for _, decl := range r.scenario.Derived {
		terms := decl.Sum
		upstreams := make([]vars.ActivityListenable, 0, len(terms))
		for _, term := range terms {
			upstreams = append(upstreams, r.vars[term.Var])
		}

		r.readable[decl.Name] = vars.NewDerived(func() int {
			sum := 0
			for _, term := range terms {
				sum += term.Coef * r.vars[term.Var].V()
			}
			return sum
		}, upstreams...)
	}

	for _, decl := range r.scenario.Listeners {
		h, err := r.listen(decl)
		if err != nil {
			return err
		}
		r.handles[decl.Name] = h
	}

	return nil
}

func (r *runner) listen(decl ListenerDecl) (vars.Disposable, error) {
	target := r.readable[decl.Target]

	var flags []vars.ListenerFlag
	if decl.Order != 0 {
		flags = append(flags, vars.Order(decl.Order))
	}
	if decl.Once {
		flags = append(flags, vars.Once)
	}
	if decl.Immediate {
		flags = append(flags, vars.Immediate)
	}

	// listeners only ever run outside a transaction
	record := func() {
		r.recordAt(0, "fire %s %s=%d", decl.Name, decl.Target, target.V())
	}

	switch decl.Stream {
	case StreamCompleted:
		return target.Completed().AddListener(record, flags...), nil
	case StreamAll:
		return target.All().AddListener(record, flags...), nil
	case StreamOngoing:
		v, ok := r.vars[decl.Target]
		if !ok {
			return nil, errors.Errorf("listener %q: ongoing stream needs a var target", decl.Name)
		}
		return v.Ongoing().AddListener(record, flags...), nil
	case StreamActivity:
		return target.AddListener(func(ongoing bool) {
			r.recordAt(0, "fire %s %s=%d %s", decl.Name, decl.Target, target.V(), activity(ongoing))
		}, flags...), nil
	}

	return nil, errors.Errorf("listener %q: unknown stream %q", decl.Name, decl.Stream)
}

func (r *runner) steps(steps []Step) error {
	for _, step := range steps {
		if err := r.step(step); err != nil {
			return err
		}
	}
	return nil
}

// step returns an error only from a failure inside a transaction, which
// aborts the outermost one.
func (r *runner) step(step Step) error {
	switch {
	case step.Set != nil:
		return r.set(step.Set)
	case step.Txn != nil:
		return r.txn(step.Txn)
	default:
		r.record("dispose %s", step.Dispose)
		r.handles[step.Dispose].Dispose()
		return nil
	}
}

func (r *runner) set(s *SetStep) error {
	if s.Ongoing {
		r.record("set %s=%d ongoing", s.Var, s.Value)
	} else {
		r.record("set %s=%d", s.Var, s.Value)
	}

	changed, err := r.vars[s.Var].Set(s.Ongoing, s.Value)
	switch {
	case err != nil:
		r.record("error: %v", err)
		if vars.InTxn() {
			return err
		}
	case !changed:
		r.record("unchanged")
	}
	return nil
}

func (r *runner) txn(t *TxnStep) error {
	r.record("txn begin")
	r.depth++

	err := vars.DoTxnNamed(r.scenario.Name, func() error {
		// commits before any listener runs, and rolls back after every other member
		if err := vars.AddToActiveTxn(vars.TxnMemberFuncs{
			OnCommit: func() error {
				r.recordAt(r.depth-1, "txn commit")
				return nil
			},
			OnRollback: func() {
				r.recordAt(r.depth-1, "txn rollback")
			},
		}); err != nil {
			return err
		}

		if err := r.steps(t.Steps); err != nil {
			return err
		}
		if t.Fail != "" {
			r.record("fail %s", t.Fail)
			return errors.New(t.Fail)
		}
		return nil
	})

	r.depth--
	if err == nil || r.depth > 0 {
		return err
	}

	r.record("txn aborted: %v", err)
	return nil
}

func (r *runner) record(format string, args ...any) {
	r.recordAt(r.depth, format, args...)
}

func (r *runner) recordAt(depth int, format string, args ...any) {
	r.trace = append(r.trace, strings.Repeat("  ", depth)+fmt.Sprintf(format, args...))
}

func bounds(lo, hi *int) func(int) bool {
	if lo == nil && hi == nil {
		return nil
	}

	return func(v int) bool {
		if lo != nil && v < *lo {
			return false
		}
		if hi != nil && v > *hi {
			return false
		}
		return true
	}
}

func activity(ongoing bool) string {
	if ongoing {
		return "ongoing"
	}
	return "completed"
}
