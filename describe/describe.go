// Package describe renders signatures and merge results as JSON
// descriptors for tooling.
package describe

import (
	"encoding/json"

	"github.com/Rican7/conjson"
	"github.com/Rican7/conjson/transform"

	"github.com/signia-go/signia"
	"github.com/signia-go/signia/internal/slices"
)

type (
	// Parameter is the serializable form of one parameter slot.
	Parameter struct {
		Name       string
		Kind       string
		HasDefault bool
		Default    any    `json:",omitempty"`
		Annotation string `json:",omitempty"`
	}

	// Signature is the serializable form of a signature.
	Signature struct {
		Parameters []Parameter
		Return     string `json:",omitempty"`
	}

	// Merge extends Signature with the merge provenance metadata.
	Merge struct {
		Signature
		Owners                map[string]int
		HasVariadicPositional bool
		HasVariadicKeyword    bool
	}
)

// Of builds the descriptor of a signature.
func Of(source signia.Introspectable) Signature {
	sig := source.Signature()
	out := Signature{
		Parameters: slices.Map(sig.Parameters(), parameter),
	}
	if ret := sig.Return(); ret != nil {
		out.Return = ret.String()
	}
	return out
}

// OfMerge builds the descriptor of a merge result.
func OfMerge(merged *signia.Merged) Merge {
	return Merge{
		Signature:             Of(merged.Signature()),
		Owners:                merged.Owners(),
		HasVariadicPositional: merged.HasVariadicPositional(),
		HasVariadicKeyword:    merged.HasVariadicKeyword(),
	}
}

// ToJSON marshals a descriptor with conventional snake_case keys.
func ToJSON(descriptor any) (string, error) {
	data, err := json.MarshalIndent(
		conjson.NewMarshaler(descriptor, transform.ConventionalKeys()), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func parameter(p signia.Parameter) Parameter {
	out := Parameter{
		Name:       p.Name,
		Kind:       p.Kind.String(),
		HasDefault: p.HasDefault,
		Default:    p.Default,
	}
	if p.Annotation != nil {
		out.Annotation = p.Annotation.String()
	}
	return out
}
