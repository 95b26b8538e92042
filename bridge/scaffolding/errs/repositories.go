package errs

import (
	"errors"
	"strings"

	"github.com/jrazmi/eventhub/core/repositories"
	"github.com/jrazmi/eventhub/core/scaffolding/fop"
)

// FromRepository maps a repository error to an Error. Callers handle their domain
// errors first; anything unrecognized is logged in full and reported as internal.
func FromRepository(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return newAt(2, NotFound, "not found")
	case errors.Is(err, repositories.ErrDuplicate):
		return newAt(2, AlreadyExists, "record already exists")
	case errors.Is(err, repositories.ErrInvalidReference):
		return newAt(2, FailedPrecondition, "referenced record does not exist")
	case errors.Is(err, repositories.ErrValidation),
		errors.Is(err, fop.ErrUnknownOrderField),
		errors.Is(err, fop.ErrUnknownAggregateField):
		return newAt(2, InvalidArgument, validationMessage(err))
	case errors.Is(err, repositories.ErrUnboundedDelete):
		return newAt(2, FailedPrecondition, repositories.ErrUnboundedDelete.Error())
	case errors.Is(err, repositories.ErrOperationNotSupported):
		return newAt(2, Unimplemented, repositories.ErrOperationNotSupported.Error())
	}
	return newAt(2, InternalOnlyLog, err.Error())
}

// validationMessage drops the operation prefixes repositories add so the client sees
// only the reason.
func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, repositories.ErrValidation.Error()); i >= 0 {
		return msg[i:]
	}
	return msg
}
