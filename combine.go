package signia

import (
	"github.com/go-logr/logr"

	"github.com/signia-go/signia/internal/slices"
)

type (
	// CombineOptions customize a composite.  Name and Doc default to
	// the last source's metadata, matching the callable the composite
	// impersonates.
	CombineOptions struct {
		Name string
		Doc  string
	}

	// Composite dispatches bound arguments back out to its source
	// callables.  The first source is the primary: its result is the
	// composite result, the rest run for their side effects.
	Composite struct {
		name      string
		doc       string
		functions []*Callable
		merged    *Merged
		logger    logr.Logger
	}
)

// Combine merges the signatures of the functions and produces a
// composite callable dispatching to each of them in order.
func Combine(functions []*Callable, options ...CombineOptions) (*Composite, error) {
	if len(functions) == 0 {
		return nil, ErrNoSources
	}
	merged, err := Merge(asSources(functions))
	if err != nil {
		return nil, err
	}
	var opts CombineOptions
	for _, o := range options {
		if opts.Name == "" {
			opts.Name = o.Name
		}
		if opts.Doc == "" {
			opts.Doc = o.Doc
		}
	}
	last := functions[len(functions)-1]
	if opts.Name == "" {
		opts.Name = last.Name()
	}
	if opts.Doc == "" {
		opts.Doc = last.Doc()
	}
	return &Composite{
		name:      opts.Name,
		doc:       opts.Doc,
		functions: functions,
		merged:    merged,
		logger:    logr.Discard(),
	}, nil
}

func (c *Composite) Name() string {
	return c.name
}

func (c *Composite) Doc() string {
	return c.doc
}

// Signature is the merged signature the composite binds against.
func (c *Composite) Signature() Signature {
	return c.merged.sig
}

// Merged exposes the merge metadata behind the composite.
func (c *Composite) Merged() *Merged {
	return c.merged
}

// WithLogger routes dispatch tracing to the given logger.
func (c *Composite) WithLogger(logger logr.Logger) *Composite {
	c.logger = logger
	return c
}

// Call invokes the composite with positional arguments only.
func (c *Composite) Call(args ...any) (any, error) {
	return c.CallKw(args, nil)
}

// CallKw binds the arguments against the merged signature, applies
// defaults and re-slices the bound set back out to each source.  Of
// the keyword arguments no source declares, each source with a
// variadic-keyword slot claims whatever is left, earliest first;
// already-claimed keywords are not reoffered.  A keyword no source
// claims fails with an unexpected-keyword error naming the composite.
// The primary's result is returned; later results are discarded.
func (c *Composite) CallKw(args []any, kwargs map[string]any) (any, error) {
	b, leftover, err := c.merged.sig.bind(c.name, args, kwargs, true)
	if err != nil {
		return nil, err
	}
	b.ApplyDefaults()

	var result any
	for i, fn := range c.functions {
		var claimed map[string]any
		if _, ok := fn.sig.varKey(); ok {
			claimed, leftover = leftover, map[string]any{}
		}
		r, err := c.dispatch(fn, b, claimed)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			result = r
		}
	}
	if len(leftover) > 0 {
		keys := sortedKeys(leftover)
		return nil, &UnexpectedKeywordError{Receiver: c.name, Keyword: keys[0]}
	}
	return result, nil
}

// CallAll is the simple dispatch mode: every source receives its
// slice of the bound arguments purely by name, with each source's
// variadic-keyword slot fed the full undeclared-keyword bucket, and
// every result is collected positionally.
func (c *Composite) CallAll(args []any, kwargs map[string]any) ([]any, error) {
	b, _, err := c.merged.sig.bind(c.name, args, kwargs, false)
	if err != nil {
		return nil, err
	}
	b.ApplyDefaults()

	results := make([]any, len(c.functions))
	for i, fn := range c.functions {
		var shared map[string]any
		if _, ok := fn.sig.varKey(); ok {
			shared = b.varKeyValues()
		}
		if results[i], err = c.dispatch(fn, b, shared); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// AsCallable adapts the composite into a Callable so it can feed
// further composition.
func (c *Composite) AsCallable() *Callable {
	cb := newCallable(c.name, c.doc, c.merged.sig, func(b *BoundArgs) (any, error) {
		pos, kw := explode(c.merged.sig, b)
		return c.CallKw(pos, kw)
	})
	return cb
}

func (c *Composite) dispatch(
	fn *Callable,
	b *BoundArgs,
	varkey map[string]any,
) (any, error) {
	pos, kw := sliceFor(fn.sig, b, b.varPosValues(), varkey)
	c.logger.V(1).Info("dispatch", "composite", c.name, "function", fn.Name())
	return fn.Call(pos, kw)
}

// sliceFor splits bound values into the positional/keyword shape of
// one source signature.  Named parameters resolve by name; the
// variadic slots receive the caller-provided shares since their names
// need not match the merged signature's.  A keyword-only value filled
// by the merged defaults is withheld only when the source declares its
// own default for that name; a source whose parameter is required
// still receives the backfilled value.
func sliceFor(
	sig Signature,
	b *BoundArgs,
	varpos []any,
	varkey map[string]any,
) ([]any, map[string]any) {
	var pos []any
	kw := make(map[string]any)
	for _, p := range sig.params {
		switch p.Kind {
		case PositionalOnly, PositionalOrKeyword:
			if v, ok := b.Get(p.Name); ok {
				pos = append(pos, v)
			}
		case VariadicPositional:
			pos = append(pos, varpos...)
		case KeywordOnly:
			if v, ok := b.Get(p.Name); ok &&
				(!b.Defaulted(p.Name) || !p.HasDefault) {
				kw[p.Name] = v
			}
		case VariadicKeyword:
			for k, v := range varkey {
				kw[k] = v
			}
		}
	}
	return pos, kw
}

func asSources(functions []*Callable) []Introspectable {
	return slices.Map(functions, func(fn *Callable) Introspectable { return fn })
}
