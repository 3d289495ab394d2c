// Package signia composes callables by signature.  Given multiple
// registered callables it merges their parameter lists into one
// coherent signature and produces a composite that, at call time,
// binds the caller's arguments against the merged signature and
// re-slices them back out to each original callable.
//
// Three operations sit on the core:
//
//   - MergeSignatures reconciles parameter metadata across sources
//     under a pluggable conflict-resolution policy.
//   - Combine dispatches eagerly: the first source's result is the
//     composite result, the rest run for their side effects.
//   - Fuse dispatches lazily: a wrapper body receives one memoizing
//     SourceProxy per source and decides whether, when and how often
//     each is invoked.
//
// Everything is synchronous call-and-return.  The one piece of
// mutable state is the per-callable CallVars snapshot, a single slot
// overwritten on every invocation; it is not protected against
// concurrent writers.
package signia
