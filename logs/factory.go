// Package logs derives context specific loggers for composites.
package logs

import (
	"github.com/go-logr/logr"
)

// Named is anything carrying an effective name, such as a composite
// or a fused wrapper callable.
type Named interface {
	Name() string
}

// Factory of context specific loggers.
type Factory struct {
	root logr.Logger
}

// NewFactory returns a factory rooted at the given logger.
func NewFactory(root logr.Logger) *Factory {
	return &Factory{root: root}
}

// For returns a logger named after the composite it traces.
// An unnamed composite gets the root logger.
func (f *Factory) For(target Named) logr.Logger {
	if name := target.Name(); name != "" {
		return f.root.WithName(name)
	}
	return f.root
}
