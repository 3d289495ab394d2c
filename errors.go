package signia

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// ErrNoSources is returned when a merge, combine or fuse receives no
// source callables.
var ErrNoSources = errors.New("signia: at least one source callable is required")

type (
	// Conflict records one attribute disagreement between two
	// same-named parameters.
	Conflict struct {
		Attribute string
		Existing  any
		Incoming  any
	}

	// SignatureConflictError reports irreconcilable parameter
	// metadata between two or more sources.
	SignatureConflictError struct {
		Name      string
		Conflicts []Conflict
	}

	// TooManyArgumentsError reports surplus positional arguments.
	TooManyArgumentsError struct {
		Receiver string
		Given    int
		Max      int
	}

	// MissingArgumentError reports an omitted required argument.
	MissingArgumentError struct {
		Receiver string
		Name     string
	}

	// UnexpectedKeywordError reports a keyword argument no parameter
	// accepts.
	UnexpectedKeywordError struct {
		Receiver string
		Keyword  string
	}

	// DuplicateArgumentError reports an argument supplied both
	// positionally and by keyword.
	DuplicateArgumentError struct {
		Receiver string
		Name     string
	}
)

func (c Conflict) String() string {
	return fmt.Sprintf("%s %v vs %v", c.Attribute, c.Existing, c.Incoming)
}

func (e *SignatureConflictError) Error() string {
	var agg error
	for _, c := range e.Conflicts {
		agg = multierror.Append(agg, errors.New(c.String()))
	}
	return fmt.Sprintf("signia: parameter %q conflicts: %v", e.Name, agg)
}

func (e *TooManyArgumentsError) Error() string {
	return fmt.Sprintf("%s takes at most %d positional arguments but %d were given",
		receiverName(e.Receiver), e.Max, e.Given)
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("%s missing a required argument: %q",
		receiverName(e.Receiver), e.Name)
}

func (e *UnexpectedKeywordError) Error() string {
	return fmt.Sprintf("%s got an unexpected keyword argument %q",
		receiverName(e.Receiver), e.Keyword)
}

func (e *DuplicateArgumentError) Error() string {
	return fmt.Sprintf("%s got multiple values for argument %q",
		receiverName(e.Receiver), e.Name)
}

func receiverName(name string) string {
	if name == "" {
		return "call"
	}
	return name
}
