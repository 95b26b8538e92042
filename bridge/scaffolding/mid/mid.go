// Package mid provides app level middleware support.
package mid

import (
	"github.com/jrazmi/eventhub/bridge/scaffolding/errs"
	"github.com/jrazmi/eventhub/infrastructure/web"
)

// isError tests if the Encoder has an error inside of it.
func isError(e web.Encoder) error {
	err, isError := e.(error)
	if isError {
		return err
	}
	return nil
}

// statusOf is the status web.Respond will write for resp, looking through wrapped
// app errors.
func statusOf(resp web.Encoder) int {
	if err, ok := resp.(error); ok {
		if appErr := errs.GetError(err); appErr != nil {
			return appErr.HTTPStatus()
		}
	}
	return web.StatusOf(resp)
}
