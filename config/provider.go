// Package config loads default composition options from
// configuration sources.
package config

// Provider resolves the configuration subtree at path into output,
// a struct pointer or map[string]any.  Load accepts any Provider so
// defaults can come from files, the environment or test fixtures.
type Provider interface {
	Unmarshal(path string, output any) error
}
