package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type enumFlag interface {
	pflag.Value
	Allowed() []string
}

// EnumValue is a string flag restricted to a fixed set of values.
type EnumValue[T ~string] struct {
	target  *T
	allowed []T
	typ     string
}

var _ pflag.Value = (*EnumValue[string])(nil)

// NewEnumValue binds target to a flag accepting only allowed. target is set
// to def.
func NewEnumValue[T ~string](target *T, def T, allowed []T, typ string) *EnumValue[T] {
	*target = def
	return &EnumValue[T]{target: target, allowed: allowed, typ: typ}
}

func (e *EnumValue[T]) String() string {
	if e.target == nil {
		return ""
	}
	return string(*e.target)
}

func (e *EnumValue[T]) Set(s string) error {
	for _, a := range e.allowed {
		if string(a) == s {
			*e.target = a
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", strings.Join(e.Allowed(), ", "))
}

func (e *EnumValue[T]) Type() string {
	return e.typ
}

// Allowed lists the accepted values.
func (e *EnumValue[T]) Allowed() []string {
	out := make([]string, len(e.allowed))
	for i, a := range e.allowed {
		out[i] = string(a)
	}
	return out
}

// AddEnumFlag registers value on cmd and completes it from the allowed values.
func AddEnumFlag[T ~string](cmd *cobra.Command, name, usage string, value *EnumValue[T]) {
	cmd.Flags().Var(value, name, fmt.Sprintf("%s (%s)", usage, strings.Join(value.Allowed(), "|")))
	_ = cmd.RegisterFlagCompletionFunc(name, func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return value.Allowed(), cobra.ShellCompDirectiveNoFileComp
	})
}
