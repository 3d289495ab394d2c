package signia

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

type (
	// KeywordArgs marks a trailing function input as the
	// variadic-keyword slot when lifting a native Go function.
	KeywordArgs map[string]any

	// Callable pairs an invocable with its declared Signature.
	// Go drops parameter names at compile time, so a Callable is the
	// explicit registration the engines introspect instead of raw
	// function values.
	Callable struct {
		name    string
		doc     string
		sig     Signature
		invoke  func(*BoundArgs) (any, error)
		bound   bool
		wrapped *Callable
		vars    *CallVars
	}

	// CallVars is the snapshot of a callable's most recent
	// invocation: the positional arguments, the keyword arguments,
	// the full post-default bound mapping in declaration order and
	// the result.  A single slot per callable is overwritten
	// wholesale on every invocation.  No locking is performed;
	// concurrent invocations of the same callable leave the snapshot
	// at whichever call wrote last.
	CallVars struct {
		Args      []any
		Kwargs    map[string]any
		Arguments []BoundArgument
		Result    any
	}
)

var (
	errorType  = reflect.TypeOf((*error)(nil)).Elem()
	kwargsType = reflect.TypeOf((*KeywordArgs)(nil)).Elem()
)

// Argument looks up a bound value by parameter name.
func (v *CallVars) Argument(name string) (any, bool) {
	for _, a := range v.Arguments {
		if a.Name == name {
			return a.Value, true
		}
	}
	return nil, false
}

// NewCallable registers fn under the given signature.  The function's
// inputs must correspond one-to-one, in canonical order, to the
// signature's parameters: the variadic-positional slot maps to a Go
// variadic (when last) or a slice input, and the variadic-keyword
// slot maps to a trailing map input with string keys.
func NewCallable(name string, fn any, sig Signature) (*Callable, error) {
	fv, ok := fn.(reflect.Value)
	if !ok {
		fv = reflect.ValueOf(fn)
	}
	invoke, err := newReflectInvoker(fv, sig)
	if err != nil {
		return nil, fmt.Errorf("signia: callable %q: %w", name, err)
	}
	return &Callable{name: name, sig: sig, invoke: invoke}, nil
}

// MustCallable is NewCallable panicking on error.
func MustCallable(name string, fn any, sig Signature) *Callable {
	c, err := NewCallable(name, fn, sig)
	if err != nil {
		panic(err)
	}
	return c
}

// Lift infers a signature from a native Go function.  Every input
// becomes a positional-or-keyword parameter annotated with its type;
// a Go variadic final input becomes the variadic-positional slot and
// a final KeywordArgs input becomes the variadic-keyword slot.  names
// supplies the parameter names Go reflection cannot recover.
func Lift(fn any, names ...string) (*Callable, error) {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		return nil, fmt.Errorf("signia: cannot lift %T, not a function", fn)
	}
	ft := fv.Type()
	if len(names) != ft.NumIn() {
		return nil, fmt.Errorf(
			"signia: lift of %s needs %d parameter names, got %d",
			nameOf(fv), ft.NumIn(), len(names))
	}
	params := make([]Parameter, ft.NumIn())
	for i := 0; i < ft.NumIn(); i++ {
		t := ft.In(i)
		switch {
		case ft.IsVariadic() && i == ft.NumIn()-1:
			params[i] = VarPos(names[i]).Typed(t.Elem())
		case i == ft.NumIn()-1 && t == kwargsType:
			params[i] = VarKey(names[i]).Typed(t.Elem())
		default:
			params[i] = Pos(names[i]).Typed(t)
		}
	}
	var ret reflect.Type
	if n := ft.NumOut(); n > 0 {
		if ft.Out(n-1) == errorType {
			n--
		}
		if n > 0 {
			ret = ft.Out(0)
		}
	}
	sig, err := NewSignature(ret, params...)
	if err != nil {
		return nil, err
	}
	return NewCallable(nameOf(fv), fv, sig)
}

// MustLift is Lift panicking on error.
func MustLift(fn any, names ...string) *Callable {
	c, err := Lift(fn, names...)
	if err != nil {
		panic(err)
	}
	return c
}

func newCallable(
	name string,
	doc string,
	sig Signature,
	invoke func(*BoundArgs) (any, error),
) *Callable {
	return &Callable{name: name, doc: doc, sig: sig, invoke: invoke}
}

func (c *Callable) Name() string {
	return c.name
}

func (c *Callable) Doc() string {
	return c.doc
}

func (c *Callable) Signature() Signature {
	return c.sig
}

// Bound reports whether a receiver was already captured with Bind.
func (c *Callable) Bound() bool {
	return c.bound
}

// Vars is the snapshot of the most recent invocation, or nil before
// the first call.
func (c *Callable) Vars() *CallVars {
	return c.vars
}

// Wrapped is the callable hiding behind a mirrored one, or nil.
func (c *Callable) Wrapped() *Callable {
	return c.wrapped
}

// WithDoc attaches a doc string.
func (c *Callable) WithDoc(doc string) *Callable {
	c.doc = doc
	return c
}

// Bind captures a receiver for the leading positional parameter,
// producing a callable exposing the remaining parameters.
func (c *Callable) Bind(receiver any) (*Callable, error) {
	if len(c.sig.params) == 0 ||
		(c.sig.params[0].Kind != PositionalOnly &&
			c.sig.params[0].Kind != PositionalOrKeyword) {
		return nil, fmt.Errorf(
			"signia: %s has no leading positional parameter to bind", c.name)
	}
	tail, err := NewSignature(c.sig.ret, c.sig.params[1:]...)
	if err != nil {
		return nil, err
	}
	bound := &Callable{name: c.name, doc: c.doc, sig: tail, bound: true}
	bound.invoke = func(b *BoundArgs) (any, error) {
		pos, kw := explode(tail, b)
		return c.Call(append([]any{receiver}, pos...), kw)
	}
	return bound, nil
}

// Call binds the arguments against the callable's signature, applies
// defaults, invokes the target and records the call snapshot.
func (c *Callable) Call(pos []any, kw map[string]any) (any, error) {
	b, _, err := c.sig.bind(c.name, pos, kw, false)
	if err != nil {
		return nil, err
	}
	b.ApplyDefaults()
	result, err := c.invoke(b)
	if err != nil {
		return nil, err
	}
	c.record(pos, kw, b, result)
	return result, nil
}

func (c *Callable) record(pos []any, kw map[string]any, b *BoundArgs, result any) {
	args := make([]any, len(pos))
	copy(args, pos)
	kwargs := make(map[string]any, len(kw))
	for k, v := range kw {
		kwargs[k] = v
	}
	c.vars = &CallVars{
		Args:      args,
		Kwargs:    kwargs,
		Arguments: b.Arguments(),
		Result:    result,
	}
}

func (c *Callable) restoreVars(vars *CallVars) {
	c.vars = vars
}

// explode turns bound values back into the positional/keyword shape
// a direct call of sig would use.
func explode(sig Signature, b *BoundArgs) ([]any, map[string]any) {
	var pos []any
	kw := make(map[string]any)
	for _, p := range sig.params {
		v, ok := b.Get(p.Name)
		if !ok {
			continue
		}
		switch p.Kind {
		case PositionalOnly, PositionalOrKeyword:
			pos = append(pos, v)
		case VariadicPositional:
			pos = append(pos, v.([]any)...)
		case KeywordOnly:
			kw[p.Name] = v
		case VariadicKeyword:
			for k, kv := range v.(map[string]any) {
				kw[k] = kv
			}
		}
	}
	return pos, kw
}

func newReflectInvoker(
	fv reflect.Value,
	sig Signature,
) (func(*BoundArgs) (any, error), error) {
	if fv.Kind() != reflect.Func {
		return nil, fmt.Errorf("%T is not a function", fv.Interface())
	}
	ft := fv.Type()
	if ft.NumIn() != len(sig.params) {
		return nil, fmt.Errorf(
			"function has %d inputs but the signature declares %d parameters",
			ft.NumIn(), len(sig.params))
	}
	if ft.IsVariadic() {
		if last := sig.params[len(sig.params)-1]; last.Kind != VariadicPositional {
			return nil, fmt.Errorf(
				"variadic function requires the variadic-positional parameter to be last")
		}
	}
	for i, p := range sig.params {
		t := ft.In(i)
		switch p.Kind {
		case VariadicPositional:
			if t.Kind() != reflect.Slice {
				return nil, fmt.Errorf(
					"input %d for %q must be a slice or Go variadic", i, p.Name)
			}
		case VariadicKeyword:
			if t.Kind() != reflect.Map || t.Key().Kind() != reflect.String {
				return nil, fmt.Errorf(
					"input %d for %q must be a map with string keys", i, p.Name)
			}
		}
	}

	trailingErr := ft.NumOut() > 0 && ft.Out(ft.NumOut()-1) == errorType
	spread := ft.IsVariadic()

	return func(b *BoundArgs) (any, error) {
		var in []reflect.Value
		for i, p := range sig.params {
			t := ft.In(i)
			switch p.Kind {
			case VariadicPositional:
				vals, _ := b.Get(p.Name)
				elems := vals.([]any)
				if spread && i == len(sig.params)-1 {
					for _, e := range elems {
						ev, err := coerce(e, t.Elem(), p.Name)
						if err != nil {
							return nil, err
						}
						in = append(in, ev)
					}
				} else {
					sv := reflect.MakeSlice(t, 0, len(elems))
					for _, e := range elems {
						ev, err := coerce(e, t.Elem(), p.Name)
						if err != nil {
							return nil, err
						}
						sv = reflect.Append(sv, ev)
					}
					in = append(in, sv)
				}
			case VariadicKeyword:
				vals, _ := b.Get(p.Name)
				mv := reflect.MakeMap(t)
				for k, e := range vals.(map[string]any) {
					ev, err := coerce(e, t.Elem(), p.Name)
					if err != nil {
						return nil, err
					}
					mv.SetMapIndex(reflect.ValueOf(k), ev)
				}
				in = append(in, mv)
			default:
				v, _ := b.Get(p.Name)
				rv, err := coerce(v, t, p.Name)
				if err != nil {
					return nil, err
				}
				in = append(in, rv)
			}
		}
		out := fv.Call(in)
		var err error
		if trailingErr {
			if e := out[len(out)-1]; !e.IsNil() {
				err = e.Interface().(error)
			}
			out = out[:len(out)-1]
		}
		switch len(out) {
		case 0:
			return nil, err
		case 1:
			return out[0].Interface(), err
		default:
			results := make([]any, len(out))
			for i, o := range out {
				results[i] = o.Interface()
			}
			return results, err
		}
	}, nil
}

func coerce(v any, t reflect.Type, name string) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	if rv.Type().ConvertibleTo(t) {
		return rv.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf(
		"signia: argument %q: cannot use %T as %v", name, v, t)
}

func nameOf(fv reflect.Value) string {
	if f := runtime.FuncForPC(fv.Pointer()); f != nil {
		name := f.Name()
		if i := strings.LastIndexByte(name, '.'); i >= 0 {
			name = name[i+1:]
		}
		return strings.TrimSuffix(name, "-fm")
	}
	return "func"
}
