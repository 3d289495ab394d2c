package signia

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/signia-go/signia/internal/slices"
)

type (
	// Publish controls how a fused wrapper is attached.
	Publish byte

	// FuseOptions customize a fusion.  MergeOptions govern the
	// signature merge; Extras are keyword-only parameters of the
	// wrapper body itself, appended after the merged parameters.
	FuseOptions struct {
		MergeOptions
		Publish  Publish
		Receiver string
		Extras   []Parameter
		Warn     WarningSink
		Logger   logr.Logger
	}

	// Fused holds a completed signature merge awaiting a wrapper
	// body.  The body decides whether, when and how many times each
	// source proxy is invoked.
	Fused struct {
		sources []*Callable
		merged  *Merged
		sig     Signature
		opts    FuseOptions
		logger  logr.Logger
	}

	// FusedBody is the wrapper body.  It receives one source proxy
	// per source callable, in source order, via the FusedCall.
	FusedBody func(call *FusedCall) (any, error)

	// FusedCall carries one invocation's pre-sliced state into the
	// wrapper body.
	FusedCall struct {
		proxies  []*SourceProxy
		extras   map[string]any
		receiver any
	}
)

const (
	// PublishDefault resolves to PublishFunction.
	PublishDefault Publish = iota
	PublishFunction
	PublishMethod
	PublishStatic
)

func (p Publish) String() string {
	switch p {
	case PublishDefault, PublishFunction:
		return "function"
	case PublishMethod:
		return "method"
	case PublishStatic:
		return "staticmethod"
	}
	return fmt.Sprintf("Publish(%d)", byte(p))
}

func (p Publish) validate() error {
	if p > PublishStatic {
		return fmt.Errorf(
			"signia: unsupported publish %d; accepted values: function, method, staticmethod", p)
	}
	return nil
}

// Fuse merges the signatures of the sources and prepares deferred
// dispatch.  Construction fails fast on merge conflicts; diagnostic
// warnings for dubious inputs are delivered to the Warn sink and the
// logger without affecting the result.
func Fuse(sources []*Callable, options ...FuseOptions) (*Fused, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	opts := layerFuseOptions(options)
	if err := opts.Publish.validate(); err != nil {
		return nil, err
	}

	f := &Fused{sources: sources, opts: opts, logger: opts.Logger}

	for _, src := range sources {
		if src.Bound() {
			f.emit(Warning{
				Code: WarnBoundMethodSource,
				Message: fmt.Sprintf(
					"source %q is a bound method; its receiver is already captured", src.Name()),
				Callables: []string{src.Name()},
			})
		}
	}
	variadic := slices.Filter(sources, func(src *Callable) bool {
		_, ok := src.Signature().varPos()
		return ok
	})
	if len(variadic) > 1 {
		names := slices.Map(variadic, (*Callable).Name)
		f.emit(Warning{
			Code: WarnVariadicCollision,
			Message: fmt.Sprintf(
				"sources %s each declare a variadic-positional parameter; their shares collapse under merge",
				strings.Join(names, ", ")),
			Callables: names,
		})
	}

	merged, err := Merge(asSources(sources), opts.MergeOptions)
	if err != nil {
		return nil, err
	}
	f.merged = merged

	sig, err := f.publishedSignature()
	if err != nil {
		return nil, err
	}
	f.sig = sig
	return f, nil
}

// MustFuse is Fuse panicking on error.
func MustFuse(sources []*Callable, options ...FuseOptions) *Fused {
	f, err := Fuse(sources, options...)
	if err != nil {
		panic(err)
	}
	return f
}

// publishedSignature applies the publish mode and appends the body's
// extra keyword-only parameters.
func (f *Fused) publishedSignature() (Signature, error) {
	params := f.merged.sig.Parameters()
	receiver := f.opts.Receiver

	leads := len(params) > 0 && params[0].Name == receiver &&
		(params[0].Kind == PositionalOnly || params[0].Kind == PositionalOrKeyword)

	switch f.opts.Publish {
	case PublishMethod:
		if !leads {
			f.emit(Warning{
				Code: WarnSuspiciousReceiver,
				Message: fmt.Sprintf(
					"published as a method but no source leads with a %q receiver; one was merged in front", receiver),
			})
			params = append([]Parameter{PosOnly(receiver)}, params...)
		}
	case PublishStatic:
		if leads {
			f.emit(Warning{
				Code: WarnSuspiciousReceiver,
				Message: fmt.Sprintf(
					"published as a staticmethod but the merged signature leads with a %q receiver", receiver),
			})
		}
	}

	for _, extra := range f.opts.Extras {
		if extra.Kind != KeywordOnly {
			return Signature{}, fmt.Errorf(
				"signia: extra parameter %q must be keyword-only", extra.Name)
		}
		if _, taken := f.merged.sig.Parameter(extra.Name); taken {
			continue
		}
		var varKey []Parameter
		if n := len(params); n > 0 && params[n-1].Kind == VariadicKeyword {
			params, varKey = params[:n-1], []Parameter{params[n-1]}
		}
		params = append(append(params, extra), varKey...)
	}
	return NewSignature(f.merged.sig.Return(), params...)
}

// Signature is the wrapper signature: the merge result plus the
// receiver and extras the publish mode contributes.
func (f *Fused) Signature() Signature {
	return f.sig
}

// Merged exposes the merge metadata behind the fusion.
func (f *Fused) Merged() *Merged {
	return f.merged
}

// Wrap attaches the body, producing a callable that binds incoming
// arguments against the fused signature and hands the body one
// pre-sliced source proxy per source.  The body's own signature is
// irrelevant; the fused signature replaces it.
func (f *Fused) Wrap(name string, body FusedBody) *Callable {
	return newCallable(name, "", f.sig, func(b *BoundArgs) (any, error) {
		call := &FusedCall{
			proxies: make([]*SourceProxy, len(f.sources)),
			extras:  make(map[string]any, len(f.opts.Extras)),
		}
		for i, src := range f.sources {
			call.proxies[i] = newSourceProxy(src, b)
		}
		for _, extra := range f.opts.Extras {
			if v, ok := b.Get(extra.Name); ok {
				call.extras[extra.Name] = v
			}
		}
		if v, ok := b.Get(f.opts.Receiver); ok {
			call.receiver = v
		}
		return body(call)
	})
}

func (f *Fused) emit(w Warning) {
	f.logger.Info("diagnostic", "code", w.Code.String(), "message", w.Message)
	if f.opts.Warn != nil {
		f.opts.Warn(w)
	}
}

// Proxy returns the source proxy at a source index.
func (c *FusedCall) Proxy(i int) *SourceProxy {
	return c.proxies[i]
}

// Proxies returns the source proxies in source order.
func (c *FusedCall) Proxies() []*SourceProxy {
	return c.proxies
}

// Extra returns the bound value of one of the body's own extra
// keyword-only parameters.
func (c *FusedCall) Extra(name string) (any, bool) {
	v, ok := c.extras[name]
	return v, ok
}

// Receiver is the bound receiver value under method publishing, or
// nil when no receiver parameter is bound.
func (c *FusedCall) Receiver() any {
	return c.receiver
}

// layerFuseOptions flattens fuse options, keeping the earliest set
// value.  Logger and Warn are layered by hand since their types keep
// unexported state a structural merge cannot reach.
func layerFuseOptions(options []FuseOptions) FuseOptions {
	merged := FuseOptions{Logger: logr.Discard()}
	var logged bool
	for _, o := range options {
		merged.MergeOptions = layerOptions([]MergeOptions{merged.MergeOptions, o.MergeOptions})
		if merged.Publish == PublishDefault {
			merged.Publish = o.Publish
		}
		if merged.Receiver == "" {
			merged.Receiver = o.Receiver
		}
		merged.Extras = append(merged.Extras, o.Extras...)
		if merged.Warn == nil {
			merged.Warn = o.Warn
		}
		if !logged && o.Logger.GetSink() != nil {
			merged.Logger, logged = o.Logger, true
		}
	}
	if merged.Receiver == "" {
		merged.Receiver = "self"
	}
	return merged
}
