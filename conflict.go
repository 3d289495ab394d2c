package signia

import (
	"fmt"
	"reflect"
)

type (
	// ConflictHandler decides the fate of a re-encountered parameter
	// whose metadata disagrees with the established one.
	ConflictHandler interface {
		resolve(
			name       string,
			existing   Parameter,
			incoming   Parameter,
			conflicts  []Conflict,
			preferLast bool,
		) (result Parameter, tookIncoming bool, err error)
	}

	// Resolver is a caller-supplied conflict resolution function.
	// The returned parameter must keep the contested name.
	Resolver func(
		name      string,
		existing  Parameter,
		incoming  Parameter,
		conflicts []Conflict,
	) (Parameter, error)

	raiseHandler struct{}

	preferHandler struct {
		label string
		want  func(Parameter) bool
	}

	resolverHandler struct {
		fn Resolver
	}
)

var (
	// Raise fails the merge with a SignatureConflictError.
	Raise ConflictHandler = raiseHandler{}

	// PreferAnnotated keeps whichever side declares an annotation,
	// breaking ties with the active policy.
	PreferAnnotated ConflictHandler = preferHandler{
		label: "prefer-annotated",
		want:  func(p Parameter) bool { return p.Annotation != nil },
	}

	// PreferDefaulted keeps whichever side declares a default,
	// breaking ties with the active policy.
	PreferDefaulted ConflictHandler = preferHandler{
		label: "prefer-defaulted",
		want:  func(p Parameter) bool { return p.HasDefault },
	}
)

// ResolveWith adapts a Resolver into a ConflictHandler.
func ResolveWith(fn Resolver) ConflictHandler {
	if fn == nil {
		panic("fn cannot be nil")
	}
	return resolverHandler{fn}
}

func (raiseHandler) resolve(
	name string,
	_, _ Parameter,
	conflicts []Conflict,
	_ bool,
) (Parameter, bool, error) {
	return Parameter{}, false, &SignatureConflictError{Name: name, Conflicts: conflicts}
}

func (h preferHandler) resolve(
	name string,
	existing, incoming Parameter,
	_ []Conflict,
	preferLast bool,
) (Parameter, bool, error) {
	var winner, loser Parameter
	tookIncoming := false
	switch {
	case h.want(existing) && !h.want(incoming):
		winner, loser = existing, incoming
	case h.want(incoming) && !h.want(existing):
		winner, loser, tookIncoming = incoming, existing, true
	case preferLast:
		winner, loser, tookIncoming = incoming, existing, true
	default:
		winner, loser = existing, incoming
	}
	return backfill(winner, loser), tookIncoming, nil
}

func (h resolverHandler) resolve(
	name string,
	existing, incoming Parameter,
	conflicts []Conflict,
	preferLast bool,
) (Parameter, bool, error) {
	result, err := h.fn(name, existing, incoming, conflicts)
	if err != nil {
		return Parameter{}, false, err
	}
	if result.Name != name {
		return Parameter{}, false, fmt.Errorf(
			"signia: conflict resolver for %q returned parameter %q", name, result.Name)
	}
	// Backfill from the side opposite the one the resolver kept.
	// A result resembling neither side is taken as-is.
	first, second := existing, incoming
	firstIsIncoming := preferLast
	if preferLast {
		first, second = incoming, existing
	}
	switch {
	case resembles(result, first):
		return backfill(result, second), firstIsIncoming, nil
	case resembles(result, second):
		return backfill(result, first), !firstIsIncoming, nil
	}
	return result, false, nil
}

// backfill copies the loser's default and annotation onto the winner
// where the winner's own are empty, never overwriting a present value.
func backfill(winner, loser Parameter) Parameter {
	if !winner.HasDefault && loser.HasDefault {
		winner.Default, winner.HasDefault = loser.Default, true
	}
	if winner.Annotation == nil && loser.Annotation != nil {
		winner.Annotation = loser.Annotation
	}
	return winner
}

// resembles reports whether the resolver's result shares a present
// default or annotation value with one side of the conflict.
func resembles(result, side Parameter) bool {
	if result.HasDefault && side.HasDefault &&
		reflect.DeepEqual(result.Default, side.Default) {
		return true
	}
	if result.Annotation != nil && result.Annotation == side.Annotation {
		return true
	}
	return !result.HasDefault && result.Annotation == nil &&
		result.Kind == side.Kind
}
