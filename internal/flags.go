package internal

type flagKind uint8

const (
	flagOnce flagKind = iota + 1
	flagImmediate
	flagOrder
)

// Flag configures a listener registration.
type Flag struct {
	kind  flagKind
	order int
}

var (
	// Once unregisters the listener after its first invocation.
	Once = Flag{kind: flagOnce}

	// Immediate invokes the listener synchronously at registration time.
	Immediate = Flag{kind: flagImmediate}
)

// Order sets the listener priority. Lower fires earlier, ties fire in registration order.
func Order(n int) Flag {
	return Flag{kind: flagOrder, order: n}
}

func (f Flag) IsOnce() bool      { return f.kind == flagOnce }
func (f Flag) IsImmediate() bool { return f.kind == flagImmediate }

// FlagSet is the resolved form of a list of flags.
type FlagSet struct {
	Once      bool
	Immediate bool
	Order     int
}

// ResolveFlags folds flags into a FlagSet. The last Order wins.
func ResolveFlags(flags ...Flag) FlagSet {
	var s FlagSet
	for _, f := range flags {
		switch f.kind {
		case flagOnce:
			s.Once = true
		case flagImmediate:
			s.Immediate = true
		case flagOrder:
			s.Order = f.order
		}
	}
	return s
}

// Without returns flags minus every flag of the same kind as drop.
func Without(flags []Flag, drop Flag) []Flag {
	out := make([]Flag, 0, len(flags))
	for _, f := range flags {
		if f.kind != drop.kind {
			out = append(out, f)
		}
	}
	return out
}
