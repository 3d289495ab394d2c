package signia

import (
	"sort"
)

type (
	// BoundArgument is one resolved name/value pair.
	BoundArgument struct {
		Name  string
		Value any
	}

	// BoundArgs holds call-site arguments resolved against a
	// signature's formal parameters.
	BoundArgs struct {
		sig       Signature
		values    map[string]any
		defaulted map[string]bool
	}
)

// Bind resolves positional and keyword arguments against the
// signature.  Binding failures surface as the same error shapes a
// direct call would produce.  Defaults are not applied; see
// ApplyDefaults.
func (s Signature) Bind(args []any, kwargs map[string]any) (*BoundArgs, error) {
	b, _, err := s.bind("", args, kwargs, false)
	return b, err
}

// bind is the full binder.  With lenient set, keyword arguments no
// parameter accepts are diverted into the returned extras map instead
// of failing, so a composite can offer them to its source callables.
func (s Signature) bind(
	receiver string,
	args []any,
	kwargs map[string]any,
	lenient bool,
) (*BoundArgs, map[string]any, error) {
	b := &BoundArgs{sig: s, values: make(map[string]any, len(s.params))}

	var positional []string
	for _, p := range s.params {
		if p.Kind == PositionalOnly || p.Kind == PositionalOrKeyword {
			positional = append(positional, p.Name)
		}
	}

	var rest []any
	varPos, hasVarPos := s.varPos()
	for i, a := range args {
		if i < len(positional) {
			b.values[positional[i]] = a
		} else if hasVarPos {
			rest = append(rest, a)
		} else {
			return nil, nil, &TooManyArgumentsError{
				Receiver: receiver, Given: len(args), Max: len(positional)}
		}
	}
	if len(rest) > 0 {
		b.values[varPos.Name] = rest
	}

	varKey, hasVarKey := s.varKey()
	var overflow map[string]any
	extras := make(map[string]any)
	for _, k := range sortedKeys(kwargs) {
		v := kwargs[k]
		if p, ok := s.Parameter(k); ok &&
			(p.Kind == PositionalOrKeyword || p.Kind == KeywordOnly) {
			if _, dup := b.values[k]; dup {
				return nil, nil, &DuplicateArgumentError{Receiver: receiver, Name: k}
			}
			b.values[k] = v
			continue
		}
		switch {
		case lenient:
			extras[k] = v
		case hasVarKey:
			if overflow == nil {
				overflow = make(map[string]any)
			}
			overflow[k] = v
		default:
			return nil, nil, &UnexpectedKeywordError{Receiver: receiver, Keyword: k}
		}
	}
	if len(overflow) > 0 {
		b.values[varKey.Name] = overflow
	}

	for _, p := range s.params {
		switch p.Kind {
		case PositionalOnly, PositionalOrKeyword, KeywordOnly:
			if _, ok := b.values[p.Name]; !ok && !p.HasDefault {
				return nil, nil, &MissingArgumentError{Receiver: receiver, Name: p.Name}
			}
		}
	}
	return b, extras, nil
}

// ApplyDefaults fills every unset parameter that declares a default
// and gives the variadic slots their empty values.  Filled names are
// remembered so slicing can tell an explicit argument from a default.
func (b *BoundArgs) ApplyDefaults() *BoundArgs {
	if b.defaulted == nil {
		b.defaulted = make(map[string]bool)
	}
	for _, p := range b.sig.params {
		if _, ok := b.values[p.Name]; ok {
			continue
		}
		switch {
		case p.HasDefault:
			b.values[p.Name] = p.Default
		case p.Kind == VariadicPositional:
			b.values[p.Name] = []any{}
		case p.Kind == VariadicKeyword:
			b.values[p.Name] = map[string]any{}
		default:
			continue
		}
		b.defaulted[p.Name] = true
	}
	return b
}

// Defaulted reports whether a parameter's value came from its default
// rather than the call site.
func (b *BoundArgs) Defaulted(name string) bool {
	return b.defaulted[name]
}

// Get returns the bound value for a parameter name.
func (b *BoundArgs) Get(name string) (any, bool) {
	v, ok := b.values[name]
	return v, ok
}

// Arguments lists the bound name/value pairs in declaration order.
func (b *BoundArgs) Arguments() []BoundArgument {
	out := make([]BoundArgument, 0, len(b.values))
	for _, p := range b.sig.params {
		if v, ok := b.values[p.Name]; ok {
			out = append(out, BoundArgument{Name: p.Name, Value: v})
		}
	}
	return out
}

func (b *BoundArgs) varPosValues() []any {
	if p, ok := b.sig.varPos(); ok {
		if v, ok := b.values[p.Name]; ok {
			return v.([]any)
		}
	}
	return nil
}

func (b *BoundArgs) varKeyValues() map[string]any {
	if p, ok := b.sig.varKey(); ok {
		if v, ok := b.values[p.Name]; ok {
			return v.(map[string]any)
		}
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
