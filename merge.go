package signia

import (
	"reflect"

	"github.com/signia-go/signia/internal/slices"
)

// Merged is the immutable result of combining source signatures:
// the merged signature plus provenance metadata.  Re-merging always
// produces a new instance.
type Merged struct {
	sig       Signature
	owners    map[string]int
	hasVarPos bool
	hasVarKey bool
}

func (m *Merged) Signature() Signature {
	return m.sig
}

// Owner is the index of the source that contributed the accepted
// metadata for a parameter name.
func (m *Merged) Owner(name string) (int, bool) {
	i, ok := m.owners[name]
	return i, ok
}

// Owners copies the full name-to-source ownership map.
func (m *Merged) Owners() map[string]int {
	out := make(map[string]int, len(m.owners))
	for k, v := range m.owners {
		out[k] = v
	}
	return out
}

// HasVariadicPositional reports whether any source contributed a
// variadic-positional slot.
func (m *Merged) HasVariadicPositional() bool {
	return m.hasVarPos
}

// HasVariadicKeyword reports whether any source contributed a
// variadic-keyword slot.
func (m *Merged) HasVariadicKeyword() bool {
	return m.hasVarKey
}

// MergeSignatures merges the signatures of the sources into one.
func MergeSignatures(sources []Introspectable, options ...MergeOptions) (Signature, error) {
	merged, err := Merge(sources, options...)
	if err != nil {
		return Signature{}, err
	}
	return merged.sig, nil
}

// Merge walks the sources in order and reconciles their parameter
// lists.  Parameters are grouped into one bucket per kind, keeping
// first-seen insertion order within each bucket; a name seen again is
// reconciled against the established parameter under the active
// policy and conflict handler.  The return annotation of the
// right-most source that declares one wins.
func Merge(sources []Introspectable, options ...MergeOptions) (*Merged, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	opts, err := layerOptions(options).normalized()
	if err != nil {
		return nil, err
	}

	m := &merger{
		opts:   opts,
		params: make(map[string]Parameter),
		owners: make(map[string]int),
	}
	for i, src := range sources {
		sig := src.Signature()
		for _, p := range sig.Parameters() {
			if err := m.encounter(i, p); err != nil {
				return nil, err
			}
		}
		if ret := sig.Return(); ret != nil {
			m.ret = ret
		}
	}
	return m.finish()
}

type merger struct {
	opts    MergeOptions
	buckets [numParameterKinds][]string
	params  map[string]Parameter
	owners  map[string]int
	ret     reflect.Type
}

func (m *merger) encounter(source int, p Parameter) error {
	existing, seen := m.params[p.Name]
	if !seen {
		m.buckets[p.Kind] = append(m.buckets[p.Kind], p.Name)
		m.params[p.Name] = p
		m.owners[p.Name] = source
		return nil
	}

	conflicts := m.conflicts(existing, p)
	preferLast := m.opts.Policy == PreferLast

	var (
		result       Parameter
		tookIncoming bool
		err          error
	)
	if len(conflicts) == 0 {
		if preferLast {
			result, tookIncoming = backfill(p, existing), true
		} else {
			result = backfill(existing, p)
		}
	} else {
		result, tookIncoming, err = m.opts.OnConflict.resolve(
			p.Name, existing, p, conflicts, preferLast)
		if err != nil {
			return err
		}
	}

	if result.Kind != existing.Kind {
		m.buckets[existing.Kind] = slices.Filter(m.buckets[existing.Kind],
			func(name string) bool { return name != p.Name })
		m.buckets[result.Kind] = append(m.buckets[result.Kind], p.Name)
	}
	m.params[p.Name] = result
	if tookIncoming {
		m.owners[p.Name] = source
	}
	return nil
}

// conflicts detects the reportable disagreements between two
// same-named parameters.  A kind mismatch is always a conflict;
// default and annotation mismatches only when both sides declare a
// value, the values differ and the corresponding comparison is on.
func (m *merger) conflicts(existing, incoming Parameter) []Conflict {
	var found []Conflict
	if existing.Kind != incoming.Kind {
		found = append(found, Conflict{"kind", existing.Kind, incoming.Kind})
	}
	if existing.HasDefault && incoming.HasDefault &&
		!reflect.DeepEqual(existing.Default, incoming.Default) &&
		m.opts.CompareDefaults.Bool() {
		found = append(found, Conflict{"default", existing.Default, incoming.Default})
	}
	if existing.Annotation != nil && incoming.Annotation != nil &&
		existing.Annotation != incoming.Annotation &&
		m.opts.CompareAnnotations.Bool() {
		found = append(found, Conflict{"annotation", existing.Annotation, incoming.Annotation})
	}
	return found
}

func (m *merger) finish() (*Merged, error) {
	var ordered []Parameter
	for kind := 0; kind < numParameterKinds; kind++ {
		for _, name := range m.buckets[kind] {
			ordered = append(ordered, m.params[name])
		}
	}
	sig, err := NewSignature(m.ret, ordered...)
	if err != nil {
		return nil, err
	}
	return &Merged{
		sig:       sig,
		owners:    m.owners,
		hasVarPos: len(m.buckets[VariadicPositional]) > 0,
		hasVarKey: len(m.buckets[VariadicKeyword]) > 0,
	}, nil
}
