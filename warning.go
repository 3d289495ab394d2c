package signia

import "fmt"

type (
	// WarningCode classifies a diagnostic condition.
	WarningCode byte

	// Warning is a non-fatal diagnostic raised while composing
	// callables.  Warnings never change returned values.
	Warning struct {
		Code      WarningCode
		Message   string
		Callables []string
	}

	// WarningSink receives diagnostics.  Test harnesses install a
	// capturing sink; the default routes to the composite's logger.
	WarningSink func(Warning)
)

const (
	// WarnBoundMethodSource flags a source callable whose receiver
	// was already captured with Bind, which is likely unintended.
	WarnBoundMethodSource WarningCode = iota + 1

	// WarnVariadicCollision flags two or more sources each declaring
	// their own variadic-positional parameter, which collapses
	// ambiguously under merge.
	WarnVariadicCollision

	// WarnSuspiciousReceiver flags a publish mode at odds with the
	// receiver convention of the merged signature.
	WarnSuspiciousReceiver
)

func (c WarningCode) String() string {
	switch c {
	case WarnBoundMethodSource:
		return "bound-method-source"
	case WarnVariadicCollision:
		return "variadic-collision"
	case WarnSuspiciousReceiver:
		return "suspicious-receiver"
	}
	return fmt.Sprintf("WarningCode(%d)", byte(c))
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}
