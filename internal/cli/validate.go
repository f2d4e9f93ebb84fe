package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AnatoleLucet/vars/internal/scenario"
)

// ValidationResult is the data of a successful validate.
type ValidationResult struct {
	Name      string `json:"name"`
	Vars      int    `json:"vars"`
	Derived   int    `json:"derived"`
	Listeners int    `json:"listeners"`
	Steps     int    `json:"steps"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "validate <scenario.yaml>",
		Short:         "Check a scenario file without running it",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	s, err := scenario.Load(path)
	if err != nil {
		return formatter.Error(loadExitCode(err), "validation failed", err)
	}

	result := ValidationResult{
		Name:      s.Name,
		Vars:      len(s.Vars),
		Derived:   len(s.Derived),
		Listeners: len(s.Listeners),
		Steps:     len(s.Steps),
	}

	return formatter.Success(result, fmt.Sprintf("✓ %s is valid\n", s.Name))
}
