package signia

// MirrorSignature copies a source's name, doc and signature onto a
// target callable, decorator style.  Calls bind against the mirrored
// signature and forward to the target as positional and keyword
// arguments, so the target is typically a pass-through accepting
// variadic slots.  The original target stays reachable via Wrapped.
func MirrorSignature(src *Callable) func(*Callable) *Callable {
	return func(target *Callable) *Callable {
		mirrored := newCallable(src.name, src.doc, src.sig,
			func(b *BoundArgs) (any, error) {
				pos, kw := explode(src.sig, b)
				return target.Call(pos, kw)
			})
		mirrored.wrapped = target
		return mirrored
	}
}
