package signia

import (
	"fmt"
	"reflect"
	"strings"
)

type (
	// ParameterKind identifies the calling-convention role of a
	// formal argument slot.
	ParameterKind byte

	// Parameter describes one named formal argument slot.
	// The absence of a default is distinct from a nil default and
	// the absence of an annotation is distinct from annotating as any.
	Parameter struct {
		Name       string
		Kind       ParameterKind
		Default    any
		HasDefault bool
		Annotation reflect.Type
	}
)

const (
	PositionalOnly ParameterKind = iota
	PositionalOrKeyword
	VariadicPositional
	KeywordOnly
	VariadicKeyword

	numParameterKinds = int(VariadicKeyword) + 1
)

func (k ParameterKind) String() string {
	switch k {
	case PositionalOnly:
		return "positional-only"
	case PositionalOrKeyword:
		return "positional-or-keyword"
	case VariadicPositional:
		return "variadic-positional"
	case KeywordOnly:
		return "keyword-only"
	case VariadicKeyword:
		return "variadic-keyword"
	}
	return fmt.Sprintf("ParameterKind(%d)", byte(k))
}

// PosOnly starts a positional-only parameter.
func PosOnly(name string) Parameter {
	return Parameter{Name: name, Kind: PositionalOnly}
}

// Pos starts a positional-or-keyword parameter.
func Pos(name string) Parameter {
	return Parameter{Name: name, Kind: PositionalOrKeyword}
}

// VarPos starts the variadic-positional parameter.
func VarPos(name string) Parameter {
	return Parameter{Name: name, Kind: VariadicPositional}
}

// Key starts a keyword-only parameter.
func Key(name string) Parameter {
	return Parameter{Name: name, Kind: KeywordOnly}
}

// VarKey starts the variadic-keyword parameter.
func VarKey(name string) Parameter {
	return Parameter{Name: name, Kind: VariadicKeyword}
}

// WithDefault returns a copy of the parameter carrying a default value.
func (p Parameter) WithDefault(value any) Parameter {
	p.Default, p.HasDefault = value, true
	return p
}

// Typed returns a copy of the parameter carrying a type annotation.
func (p Parameter) Typed(t reflect.Type) Parameter {
	p.Annotation = t
	return p
}

// Equal reports full structural equality including default values.
func (p Parameter) Equal(other Parameter) bool {
	return p.Name == other.Name &&
		p.Kind == other.Kind &&
		p.HasDefault == other.HasDefault &&
		(!p.HasDefault || reflect.DeepEqual(p.Default, other.Default)) &&
		p.Annotation == other.Annotation
}

func (p Parameter) String() string {
	var sb strings.Builder
	switch p.Kind {
	case VariadicPositional:
		sb.WriteByte('*')
	case VariadicKeyword:
		sb.WriteString("**")
	}
	sb.WriteString(p.Name)
	if p.Annotation != nil {
		sb.WriteByte(' ')
		sb.WriteString(p.Annotation.String())
	}
	if p.HasDefault {
		fmt.Fprintf(&sb, " = %v", p.Default)
	}
	return sb.String()
}
