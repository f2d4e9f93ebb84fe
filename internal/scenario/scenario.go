// Package scenario drives vars from YAML files and records what happened.
//
// A scenario declares int vars, derived sums over them, and listeners, then
// runs a list of steps. Every mutation, transaction boundary and listener
// invocation is appended to a trace, so a scenario file doubles as an
// executable description of the propagation order.
package scenario

// Scenario is a parsed scenario file.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario demonstrates.
	Description string `yaml:"description"`

	Vars      []VarDecl      `yaml:"vars"`
	Derived   []DerivedDecl  `yaml:"derived,omitempty"`
	Listeners []ListenerDecl `yaml:"listeners,omitempty"`

	Steps []Step `yaml:"steps"`
}

// VarDecl declares an int var. Min and Max, when set, bound the accepted values.
type VarDecl struct {
	Name    string `yaml:"name"`
	Initial int    `yaml:"initial"`
	Min     *int   `yaml:"min,omitempty"`
	Max     *int   `yaml:"max,omitempty"`
}

// DerivedDecl declares a read-only var computing a weighted sum of vars.
type DerivedDecl struct {
	Name string    `yaml:"name"`
	Sum  []SumTerm `yaml:"sum"`
}

type SumTerm struct {
	Var  string `yaml:"var"`
	Coef int    `yaml:"coef"`
}

// Listener streams.
const (
	StreamCompleted = "completed"
	StreamOngoing   = "ongoing"
	StreamAll       = "all"
	StreamActivity  = "activity"
)

// ListenerDecl registers a listener that records its invocations.
type ListenerDecl struct {
	Name   string `yaml:"name"`
	Target string `yaml:"target"`

	// Stream is one of completed, ongoing, all or activity.
	// Activity listeners also record whether the change was ongoing.
	Stream string `yaml:"stream"`

	Order     int  `yaml:"order,omitempty"`
	Once      bool `yaml:"once,omitempty"`
	Immediate bool `yaml:"immediate,omitempty"`
}

// Step is exactly one of set, txn or dispose.
type Step struct {
	Set     *SetStep `yaml:"set,omitempty"`
	Txn     *TxnStep `yaml:"txn,omitempty"`
	Dispose string   `yaml:"dispose,omitempty"`
}

type SetStep struct {
	Var     string `yaml:"var"`
	Value   int    `yaml:"value"`
	Ongoing bool   `yaml:"ongoing,omitempty"`
}

// TxnStep runs its steps as one transaction. A failing set, or a non-empty
// Fail, aborts it.
type TxnStep struct {
	Steps []Step `yaml:"steps"`
	Fail  string `yaml:"fail,omitempty"`
}
