package signia

import (
	"fmt"
	"reflect"
	"strings"
)

type (
	// Introspectable exposes an ordered parameter list plus an
	// optional return annotation.
	Introspectable interface {
		Signature() Signature
	}

	// Signature is an ordered sequence of parameters in canonical
	// kind order plus an optional return annotation.
	Signature struct {
		params []Parameter
		byName map[string]int
		ret    reflect.Type
	}
)

// NewSignature builds a signature from a return annotation (nil for
// none) and parameters.  Parameters must be uniquely named, appear in
// canonical kind order and declare at most one variadic-positional and
// one variadic-keyword slot.
func NewSignature(ret reflect.Type, params ...Parameter) (Signature, error) {
	byName := make(map[string]int, len(params))
	lastKind := PositionalOnly
	variadics := [numParameterKinds]int{}
	for i, p := range params {
		if p.Name == "" {
			return Signature{}, fmt.Errorf("signature: parameter %d has no name", i)
		}
		if _, dup := byName[p.Name]; dup {
			return Signature{}, fmt.Errorf("signature: duplicate parameter %q", p.Name)
		}
		if p.Kind < lastKind {
			return Signature{}, fmt.Errorf(
				"signature: %s parameter %q appears after a %s parameter",
				p.Kind, p.Name, lastKind)
		}
		if p.Kind == VariadicPositional || p.Kind == VariadicKeyword {
			if variadics[p.Kind]++; variadics[p.Kind] > 1 {
				return Signature{}, fmt.Errorf(
					"signature: multiple %s parameters", p.Kind)
			}
		}
		lastKind = p.Kind
		byName[p.Name] = i
	}
	return Signature{params: params, byName: byName, ret: ret}, nil
}

// MustSignature is NewSignature panicking on invalid input.
func MustSignature(ret reflect.Type, params ...Parameter) Signature {
	sig, err := NewSignature(ret, params...)
	if err != nil {
		panic(err)
	}
	return sig
}

// Signature makes a Signature its own Introspectable.
func (s Signature) Signature() Signature {
	return s
}

// Parameters returns the parameters in canonical order.
func (s Signature) Parameters() []Parameter {
	out := make([]Parameter, len(s.params))
	copy(out, s.params)
	return out
}

// Parameter looks a parameter up by name.
func (s Signature) Parameter(name string) (Parameter, bool) {
	if i, ok := s.byName[name]; ok {
		return s.params[i], true
	}
	return Parameter{}, false
}

// Return is the return annotation or nil when absent.
func (s Signature) Return() reflect.Type {
	return s.ret
}

func (s Signature) varPos() (Parameter, bool) {
	return s.findKind(VariadicPositional)
}

func (s Signature) varKey() (Parameter, bool) {
	return s.findKind(VariadicKeyword)
}

func (s Signature) findKind(kind ParameterKind) (Parameter, bool) {
	for _, p := range s.params {
		if p.Kind == kind {
			return p, true
		}
	}
	return Parameter{}, false
}

// Equal reports full structural equality, including default values
// and the return annotation.
func (s Signature) Equal(other Signature) bool {
	if len(s.params) != len(other.params) || s.ret != other.ret {
		return false
	}
	for i, p := range s.params {
		if !p.Equal(other.params[i]) {
			return false
		}
	}
	return true
}

func (s Signature) String() string {
	parts := make([]string, len(s.params))
	for i, p := range s.params {
		parts[i] = p.String()
	}
	rendered := "(" + strings.Join(parts, ", ") + ")"
	if s.ret != nil {
		rendered += " -> " + s.ret.String()
	}
	return rendered
}
