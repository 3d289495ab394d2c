package signia

// SameSignature compares two introspectables.  Strict (the default)
// requires full structural equality including default values.
// Relaxed comparison requires the same parameter count and order with
// matching kind, name, default presence and annotation, tolerating
// different default values.  Return annotations must match exactly in
// either mode unless separately ignored.
func SameSignature(a, b Introspectable, options ...CompareOptions) bool {
	opts := layerOptions(options)
	sa, sb := a.Signature(), b.Signature()

	if opts.IgnoreAnnotations.BoolOr(false) {
		sa, sb = stripAnnotations(sa), stripAnnotations(sb)
	}
	if opts.IgnoreReturn.BoolOr(false) || opts.IgnoreAnnotations.BoolOr(false) {
		sa.ret, sb.ret = nil, nil
	}

	if opts.Strict.BoolOr(true) {
		return sa.Equal(sb)
	}
	return compatible(sa, sb)
}

func stripAnnotations(s Signature) Signature {
	params := s.Parameters()
	for i := range params {
		params[i].Annotation = nil
	}
	return MustSignature(s.ret, params...)
}

func compatible(a, b Signature) bool {
	if len(a.params) != len(b.params) || a.ret != b.ret {
		return false
	}
	for i, pa := range a.params {
		pb := b.params[i]
		if pa.Kind != pb.Kind || pa.Name != pb.Name ||
			pa.HasDefault != pb.HasDefault || pa.Annotation != pb.Annotation {
			return false
		}
	}
	return true
}
