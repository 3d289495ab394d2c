package slices

// Map turns a []IN into a []OUT using a mapping function.
func Map[IN, OUT any](in []IN, fun func(IN) OUT) []OUT {
	if in == nil {
		return nil
	}
	out := make([]OUT, len(in))
	for i, item := range in {
		out[i] = fun(item)
	}
	return out
}

// Filter returns a new slice with only the elements of in for which
// keep returned true, preserving order.
func Filter[IN any](in []IN, keep func(IN) bool) []IN {
	var out []IN
	for _, item := range in {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Contains checks for the existence of v in s.
func Contains[E comparable](s []E, v E) bool {
	for _, item := range s {
		if v == item {
			return true
		}
	}
	return false
}
