// Package registrationsrepobridge serves registrations and the check-in desk.
package registrationsrepobridge

import (
	"context"
	"errors"
	"net/http"

	"github.com/jrazmi/eventhub/bridge/scaffolding/crudbridge"
	"github.com/jrazmi/eventhub/bridge/scaffolding/errs"
	"github.com/jrazmi/eventhub/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/eventhub/core/repositories/registrationsrepo"
	"github.com/jrazmi/eventhub/core/usecases/eventuc"
	"github.com/jrazmi/eventhub/infrastructure/web"
	"github.com/jrazmi/eventhub/sdk/logger"
)

type Config struct {
	Log        *logger.Logger
	Repository *registrationsrepo.Repository
	UseCase    *eventuc.UseCase
	Middleware []web.Middleware
}

type bridge struct {
	*crudbridge.Bridge[registrationsrepo.Registration, registrationsrepo.CreateRegistration, registrationsrepo.UpdateRegistration, registrationsrepo.RegistrationFilter]
	log        *logger.Logger
	repository *registrationsrepo.Repository
	useCase    *eventuc.UseCase
}

func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := &bridge{
		Bridge: crudbridge.New(crudbridge.Config[registrationsrepo.Registration, registrationsrepo.CreateRegistration, registrationsrepo.UpdateRegistration, registrationsrepo.RegistrationFilter]{
			Repository:   cfg.Repository,
			Resource:     "registrations",
			IDParam:      "registration_id",
			OrderFields:  orderByFields,
			DefaultOrder: registrationsrepo.DefaultOrderBy,
			PKColumn:     registrationsrepo.PKColumn,
			Filter:       parseFilter,
			Errors:       domainError,
		}),
		log:        cfg.Log,
		repository: cfg.Repository,
		useCase:    cfg.UseCase,
	}

	mw := cfg.Middleware
	b.AddRoutes(group, mw...)
	group.GET("/registrations/lookup", b.httpLookup, mw...)
	group.POST("/registrations/check-in", b.httpCheckIn, mw...)
	group.GET("/registrations/{registration_id}/detail", b.httpDetail, mw...)
	group.GET("/events/{event_id}/registrations", b.List(func(r *http.Request, f *registrationsrepo.RegistrationFilter) {
		eventID := web.Param(r, "event_id")
		f.EventID = &eventID
	}), mw...)
}

func domainError(err error) *errs.Error {
	if errors.Is(err, registrationsrepo.ErrAlreadyCheckedIn) {
		return errs.New(errs.AlreadyExists, registrationsrepo.ErrAlreadyCheckedIn)
	}
	return nil
}

// CheckInRequest carries the QR code or the short code presented at the desk.
type CheckInRequest struct {
	Code string `json:"code"`
}

func (c CheckInRequest) Validate() error {
	if c.Code == "" {
		return errors.New("code is required")
	}
	return nil
}

// CheckInResponse reports the registration and whether it had already been used. A
// repeated scan is not an error at the desk.
type CheckInResponse struct {
	Record           registrationsrepo.Registration `json:"record"`
	AlreadyCheckedIn bool                           `json:"alreadyCheckedIn"`
}

func (b *bridge) httpCheckIn(ctx context.Context, r *http.Request) web.Encoder {
	var req CheckInRequest
	if err := web.Decode(r, &req); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	reg, err := b.repository.CheckIn(ctx, req.Code)
	switch {
	case errors.Is(err, registrationsrepo.ErrAlreadyCheckedIn):
		b.log.InfoContext(ctx, "repeated check-in", "registration_id", reg.ID)
		return web.NewJSONResponse(CheckInResponse{Record: reg, AlreadyCheckedIn: true})
	case err != nil:
		return b.Error(err)
	}
	return web.NewJSONResponse(CheckInResponse{Record: reg})
}

// httpLookup resolves ?code= without checking in.
func (b *bridge) httpLookup(ctx context.Context, r *http.Request) web.Encoder {
	code := web.QueryParam(r, "code")
	if code == "" {
		return errs.NewFieldErrors("code", errors.New("is required"))
	}

	reg, err := b.repository.LookupCode(ctx, code)
	if err != nil {
		return b.Error(err)
	}
	return fopbridge.NewRecordResponse(reg)
}

func (b *bridge) httpDetail(ctx context.Context, r *http.Request) web.Encoder {
	if b.useCase == nil {
		return errs.Newf(errs.Unimplemented, "registration detail is not configured")
	}
	detail, err := b.useCase.RegistrationDetail(ctx, web.Param(r, "registration_id"))
	if err != nil {
		return b.Error(err)
	}
	return fopbridge.NewRecordResponse(detail)
}
