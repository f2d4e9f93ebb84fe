package scenario

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read scenario file")
	}

	return Parse(data)
}

// Parse decodes a scenario, rejecting unknown fields, and validates it.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, errors.Wrap(err, "failed to parse YAML")
	}

	if err := Validate(&s); err != nil {
		return nil, errors.Wrap(err, "invalid scenario")
	}

	return &s, nil
}

// Validate checks names, references and step shapes.
func Validate(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if len(s.Vars) == 0 {
		return fmt.Errorf("vars list is required and must be non-empty")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	writable := map[string]bool{}
	readable := map[string]bool{}

	for i, v := range s.Vars {
		if v.Name == "" {
			return fmt.Errorf("vars[%d]: name is required", i)
		}
		if readable[v.Name] {
			return fmt.Errorf("vars[%d]: duplicate name %q", i, v.Name)
		}
		if v.Min != nil && v.Max != nil && *v.Min > *v.Max {
			return fmt.Errorf("vars[%d]: min %d is greater than max %d", i, *v.Min, *v.Max)
		}
		writable[v.Name] = true
		readable[v.Name] = true
	}

	for i, d := range s.Derived {
		if d.Name == "" {
			return fmt.Errorf("derived[%d]: name is required", i)
		}
		if readable[d.Name] {
			return fmt.Errorf("derived[%d]: duplicate name %q", i, d.Name)
		}
		if len(d.Sum) == 0 {
			return fmt.Errorf("derived[%d]: sum is required and must be non-empty", i)
		}
		for j, term := range d.Sum {
			if !writable[term.Var] {
				return fmt.Errorf("derived[%d].sum[%d]: unknown var %q", i, j, term.Var)
			}
		}
		readable[d.Name] = true
	}

	listeners := map[string]bool{}
	for i, l := range s.Listeners {
		if l.Name == "" {
			return fmt.Errorf("listeners[%d]: name is required", i)
		}
		if listeners[l.Name] {
			return fmt.Errorf("listeners[%d]: duplicate name %q", i, l.Name)
		}
		if !readable[l.Target] {
			return fmt.Errorf("listeners[%d]: unknown target %q", i, l.Target)
		}
		switch l.Stream {
		case StreamCompleted, StreamAll, StreamActivity:
		case StreamOngoing:
			if !writable[l.Target] {
				return fmt.Errorf("listeners[%d]: ongoing stream needs a var target, %q is derived", i, l.Target)
			}
		default:
			return fmt.Errorf("listeners[%d]: unknown stream %q", i, l.Stream)
		}
		listeners[l.Name] = true
	}

	return validateSteps("steps", s.Steps, writable, listeners)
}

func validateSteps(path string, steps []Step, writable, listeners map[string]bool) error {
	for i, step := range steps {
		at := fmt.Sprintf("%s[%d]", path, i)

		kinds := 0
		if step.Set != nil {
			kinds++
		}
		if step.Txn != nil {
			kinds++
		}
		if step.Dispose != "" {
			kinds++
		}
		if kinds != 1 {
			return fmt.Errorf("%s: exactly one of set, txn or dispose is required", at)
		}

		switch {
		case step.Set != nil:
			if !writable[step.Set.Var] {
				return fmt.Errorf("%s.set: unknown var %q", at, step.Set.Var)
			}
		case step.Txn != nil:
			if len(step.Txn.Steps) == 0 && step.Txn.Fail == "" {
				return fmt.Errorf("%s.txn: steps or fail is required", at)
			}
			if err := validateSteps(at+".txn.steps", step.Txn.Steps, writable, listeners); err != nil {
				return err
			}
		default:
			if !listeners[step.Dispose] {
				return fmt.Errorf("%s.dispose: unknown listener %q", at, step.Dispose)
			}
		}
	}

	return nil
}
