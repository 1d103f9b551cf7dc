package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// enumValue is a string flag restricted to a fixed set of names.
type enumValue struct {
	value   string
	allowed []string
}

var _ pflag.Value = (*enumValue)(nil)

func newEnumValue(def string, allowed []string) *enumValue {
	return &enumValue{value: def, allowed: allowed}
}

func (e *enumValue) String() string {
	return e.value
}

func (e *enumValue) Set(s string) error {
	if !slices.Contains(e.allowed, s) {
		return fmt.Errorf("must be one of %s", strings.Join(e.allowed, ", "))
	}
	e.value = s
	return nil
}

func (e *enumValue) Type() string {
	return strings.Join(e.allowed, "|")
}

// addEnumFlag registers v on cmd and completes its allowed names.
func addEnumFlag(cmd *cobra.Command, v *enumValue, name, usage string) {
	cmd.Flags().Var(v, name, usage)
	_ = cmd.RegisterFlagCompletionFunc(name, func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return v.allowed, cobra.ShellCompDirectiveNoFileComp
	})
}

// enumNames converts typed enum constants to flag names.
func enumNames[T ~string](values []T) []string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	return names
}

// flagOr returns the flag's value when it was set on the command line and
// fallback otherwise.
func flagOr(cmd *cobra.Command, name, fallback string) string {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		return f.Value.String()
	}
	return fallback
}
