package logs

import (
	"time"

	"github.com/go-logr/logr"

	"github.com/signia-go/signia"
)

// Emit wraps a callable so every invocation is logged with its
// arguments, outcome and duration.  The wrapper keeps the target's
// name, doc and signature; failures are logged and returned unchanged.
func Emit(logger logr.Logger, target *signia.Callable, verbosity int) *signia.Callable {
	logger = logger.WithName(target.Name())
	passthrough := signia.MustCallable(target.Name(),
		func(args []any, kwargs signia.KeywordArgs) (any, error) {
			log := logger.V(verbosity)
			log.Info("invoking", "args", args, "kwargs", map[string]any(kwargs))
			start := time.Now()
			result, err := target.Call(args, kwargs)
			elapsed := time.Since(start).Round(time.Microsecond)
			if err != nil {
				logger.Error(err, "failed", "duration", elapsed.String())
				return nil, err
			}
			log.Info("completed", "duration", elapsed.String())
			return result, nil
		},
		signia.MustSignature(nil,
			signia.VarPos("args"),
			signia.VarKey("kwargs")))
	return signia.MirrorSignature(target)(passthrough)
}
