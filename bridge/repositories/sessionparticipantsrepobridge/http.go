// Package sessionparticipantsrepobridge serves joining sessions and taking attendance.
package sessionparticipantsrepobridge

import (
	"context"
	"errors"
	"net/http"

	"github.com/jrazmi/eventhub/bridge/scaffolding/crudbridge"
	"github.com/jrazmi/eventhub/bridge/scaffolding/errs"
	"github.com/jrazmi/eventhub/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/eventhub/core/repositories/sessionparticipantsrepo"
	"github.com/jrazmi/eventhub/infrastructure/web"
	"github.com/jrazmi/eventhub/sdk/logger"
)

type Config struct {
	Log        *logger.Logger
	Repository *sessionparticipantsrepo.Repository
	Middleware []web.Middleware
}

type bridge struct {
	*crudbridge.Bridge[sessionparticipantsrepo.SessionParticipant, sessionparticipantsrepo.CreateSessionParticipant, sessionparticipantsrepo.UpdateSessionParticipant, sessionparticipantsrepo.SessionParticipantFilter]
	repository *sessionparticipantsrepo.Repository
}

func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := &bridge{
		Bridge: crudbridge.New(crudbridge.Config[sessionparticipantsrepo.SessionParticipant, sessionparticipantsrepo.CreateSessionParticipant, sessionparticipantsrepo.UpdateSessionParticipant, sessionparticipantsrepo.SessionParticipantFilter]{
			Repository:   cfg.Repository,
			Resource:     "session-participants",
			IDParam:      "session_participant_id",
			OrderFields:  orderByFields,
			DefaultOrder: sessionparticipantsrepo.DefaultOrderBy,
			PKColumn:     sessionparticipantsrepo.PKColumn,
			NoCreate:     true,
			Filter:       parseFilter,
			Errors:       domainError,
		}),
		repository: cfg.Repository,
	}

	mw := cfg.Middleware
	b.AddRoutes(group, mw...)
	group.POST("/sessions/{session_id}/participants", b.httpJoin, mw...)
	group.PUT("/sessions/{session_id}/participants/{participant_id}/attendance", b.httpAttendance, mw...)
	group.GET("/sessions/{session_id}/participants", b.List(func(r *http.Request, f *sessionparticipantsrepo.SessionParticipantFilter) {
		sessionID := web.Param(r, "session_id")
		f.SessionID = &sessionID
	}), mw...)
	group.GET("/registrations/{registration_id}/sessions", b.List(func(r *http.Request, f *sessionparticipantsrepo.SessionParticipantFilter) {
		registrationID := web.Param(r, "registration_id")
		f.ParticipantID = &registrationID
	}), mw...)
}

func domainError(err error) *errs.Error {
	switch {
	case errors.Is(err, sessionparticipantsrepo.ErrAlreadyJoined):
		return errs.New(errs.AlreadyExists, sessionparticipantsrepo.ErrAlreadyJoined)
	case errors.Is(err, sessionparticipantsrepo.ErrSessionFull):
		return errs.New(errs.FailedPrecondition, sessionparticipantsrepo.ErrSessionFull)
	case errors.Is(err, sessionparticipantsrepo.ErrEventMismatch):
		return errs.New(errs.FailedPrecondition, sessionparticipantsrepo.ErrEventMismatch)
	}
	return nil
}

// JoinRequest names the registration joining the session in the path.
type JoinRequest struct {
	RegistrationID string `json:"registrationId"`
}

func (j JoinRequest) Validate() error {
	if j.RegistrationID == "" {
		return errors.New("registrationId is required")
	}
	return nil
}

func (b *bridge) httpJoin(ctx context.Context, r *http.Request) web.Encoder {
	var req JoinRequest
	if err := web.Decode(r, &req); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	sp, err := b.repository.Join(ctx, web.Param(r, "session_id"), req.RegistrationID)
	if err != nil {
		return b.Error(err)
	}
	return fopbridge.NewCreatedResponse(sp)
}

// AttendanceRequest sets or clears attendance.
type AttendanceRequest struct {
	Attended *bool `json:"attended"`
}

func (a AttendanceRequest) Validate() error {
	if a.Attended == nil {
		return errors.New("attended is required")
	}
	return nil
}

func (b *bridge) httpAttendance(ctx context.Context, r *http.Request) web.Encoder {
	var req AttendanceRequest
	if err := web.Decode(r, &req); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	sp, err := b.repository.MarkAttendance(ctx, web.Param(r, "session_id"), web.Param(r, "participant_id"), *req.Attended)
	if err != nil {
		return b.Error(err)
	}
	return fopbridge.NewRecordResponse(sp)
}
