package mid

import (
	"context"
	"errors"
	"net/http"
	"path"

	"github.com/jrazmi/eventhub/bridge/scaffolding/errs"
	"github.com/jrazmi/eventhub/infrastructure/web"
	"github.com/jrazmi/eventhub/sdk/logger"
	"github.com/jrazmi/eventhub/sdk/telemetry"
)

// Errors handles errors coming out of the call chain. Anything that is not an
// *errs.Error is reported to the client as a bare internal error.
func Errors(log *logger.Logger) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			resp := next(ctx, r)
			err := isError(resp)
			if err == nil {
				return resp
			}

			var appErr *errs.Error
			if !errors.As(err, &appErr) {
				appErr = errs.Newf(errs.Internal, "Internal Server Error")
			}

			args := []any{
				"err", err,
				"trace_id", telemetry.TraceID(ctx),
				"source_err_file", path.Base(appErr.FileName),
				"source_err_func", path.Base(appErr.FuncName),
			}
			if appErr.HTTPStatus() < http.StatusInternalServerError {
				log.WarnContext(ctx, "request rejected", args...)
			} else {
				log.ErrorContext(ctx, "handled error during request", args...)
			}

			if appErr.Code == errs.InternalOnlyLog {
				appErr = errs.Newf(errs.Internal, "Internal Server Error")
			}

			return appErr
		}
	}
}
