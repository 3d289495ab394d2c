package signia

// SourceProxy is a deferred invocation handle for one source
// callable, bound to that source's slice of a composite call's
// arguments.  A zero-override call is memoized: after the first
// invocation it returns the cached result without re-invoking the
// target.  Override keywords always re-invoke, bypassing and never
// disturbing the memo.
type SourceProxy struct {
	target   *Callable
	args     []any
	kw       map[string]any
	defaults map[string]any
	memoized bool
	memo     any
	memoVars *CallVars
}

func newSourceProxy(target *Callable, b *BoundArgs) *SourceProxy {
	var varkey map[string]any
	if _, ok := target.sig.varKey(); ok {
		varkey = b.varKeyValues()
	}
	pos, kw := sliceFor(target.sig, b, b.varPosValues(), varkey)

	defaults := make(map[string]any)
	for _, p := range target.sig.params {
		if p.HasDefault {
			defaults[p.Name] = p.Default
		}
	}
	return &SourceProxy{target: target, args: pos, kw: kw, defaults: defaults}
}

// Target is the wrapped source callable.
func (p *SourceProxy) Target() *Callable {
	return p.target
}

// Args is the pre-sliced positional share.
func (p *SourceProxy) Args() []any {
	out := make([]any, len(p.args))
	copy(out, p.args)
	return out
}

// Kw is the pre-sliced keyword share.
func (p *SourceProxy) Kw() map[string]any {
	out := make(map[string]any, len(p.kw))
	for k, v := range p.kw {
		out[k] = v
	}
	return out
}

// Defaults maps each defaulted parameter of the target to its
// default value.
func (p *SourceProxy) Defaults() map[string]any {
	out := make(map[string]any, len(p.defaults))
	for k, v := range p.defaults {
		out[k] = v
	}
	return out
}

// Params lists the target's parameter names in declaration order.
func (p *SourceProxy) Params() []string {
	names := make([]string, len(p.target.sig.params))
	for i, param := range p.target.sig.params {
		names[i] = param.Name
	}
	return names
}

// Signature is the target's signature.
func (p *SourceProxy) Signature() Signature {
	return p.target.sig
}

// Call invokes the target with the pre-sliced share, memoizing the
// result.  Repeat calls return the cached value without re-invoking
// and restore the target's snapshot to the memoized invocation.
func (p *SourceProxy) Call() (any, error) {
	if p.memoized {
		p.target.restoreVars(p.memoVars)
		return p.memo, nil
	}
	result, err := p.target.Call(p.args, p.kw)
	if err != nil {
		return nil, err
	}
	p.memo, p.memoized = result, true
	p.memoVars = p.target.Vars()
	return result, nil
}

// CallWith merges override keywords on top of the pre-sliced share
// for this one call, re-invoking the target and leaving the memo
// untouched.  Calling with no overrides is equivalent to Call.
func (p *SourceProxy) CallWith(overrides map[string]any) (any, error) {
	if len(overrides) == 0 {
		return p.Call()
	}
	kw := make(map[string]any, len(p.kw)+len(overrides))
	for k, v := range p.kw {
		kw[k] = v
	}
	for k, v := range overrides {
		kw[k] = v
	}
	return p.target.Call(p.args, kw)
}
