package signia

import (
	"fmt"

	"github.com/imdario/mergo"
)

// OptionBool should be used in option structs instead of bool to
// be able to represent a bool not set.  Otherwise, the zero value
// of a bool cannot be distinguished from false.
type OptionBool byte

const (
	OptionNone OptionBool = iota
	OptionFalse
	OptionTrue
)

func (b OptionBool) Bool() bool {
	switch b {
	case OptionFalse:
		return false
	case OptionTrue:
		return true
	default:
		panic("only OptionFalse and OptionTrue can convert to a bool")
	}
}

// BoolOr converts to a bool, resolving OptionNone to def.
func (b OptionBool) BoolOr(def bool) bool {
	if b == OptionNone {
		return def
	}
	return b.Bool()
}

// OptionOf lifts a bool into an OptionBool.
func OptionOf(b bool) OptionBool {
	if b {
		return OptionTrue
	}
	return OptionFalse
}

// Policy selects which side's metadata wins when two same-named
// parameters agree structurally but differ in details not classified
// as a conflict.
type Policy byte

const (
	// PolicyDefault leaves the policy unset and resolves to PreferFirst.
	PolicyDefault Policy = iota
	PreferFirst
	PreferLast
)

func (p Policy) String() string {
	switch p {
	case PolicyDefault, PreferFirst:
		return "prefer-first"
	case PreferLast:
		return "prefer-last"
	}
	return fmt.Sprintf("Policy(%d)", byte(p))
}

func (p Policy) validate() error {
	if p > PreferLast {
		return fmt.Errorf(
			"signia: unsupported policy %d; accepted values: prefer-first, prefer-last", p)
	}
	return nil
}

// MergeOptions control the signature merge engine.  The zero value
// of every field means unset; unset fields resolve to the documented
// defaults.  Multiple option structs layer with the earliest set
// value winning.
type MergeOptions struct {
	Policy             Policy
	OnConflict         ConflictHandler
	CompareDefaults    OptionBool
	CompareAnnotations OptionBool
}

func (o MergeOptions) normalized() (MergeOptions, error) {
	if err := o.Policy.validate(); err != nil {
		return o, err
	}
	if o.Policy == PolicyDefault {
		o.Policy = PreferFirst
	}
	if o.OnConflict == nil {
		o.OnConflict = Raise
	}
	o.CompareDefaults = OptionOf(o.CompareDefaults.BoolOr(true))
	o.CompareAnnotations = OptionOf(o.CompareAnnotations.BoolOr(true))
	return o, nil
}

// CompareOptions control SameSignature.  Strict defaults to true.
type CompareOptions struct {
	Strict            OptionBool
	IgnoreReturn      OptionBool
	IgnoreAnnotations OptionBool
}

// layerOptions flattens variadic option structs into one, with the
// earliest set field winning.
func layerOptions[T any](options []T) T {
	var merged T
	for i := range options {
		_ = mergo.Merge(&merged, options[i])
	}
	return merged
}
