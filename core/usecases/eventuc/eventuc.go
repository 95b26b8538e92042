// Package eventuc composes repositories into the nested views the HTTP layer serves:
// an event with its organizer, sessions and sponsors, a registration with its event and
// joined sessions, and a user with linked accounts and organized events.
package eventuc

import (
	"context"
	"fmt"

	"github.com/jrazmi/eventhub/core/repositories/accountsrepo"
	"github.com/jrazmi/eventhub/core/repositories/eventsessionsrepo"
	"github.com/jrazmi/eventhub/core/repositories/eventsrepo"
	"github.com/jrazmi/eventhub/core/repositories/registrationsrepo"
	"github.com/jrazmi/eventhub/core/repositories/sessionparticipantsrepo"
	"github.com/jrazmi/eventhub/core/repositories/sponsorsrepo"
	"github.com/jrazmi/eventhub/core/repositories/usersrepo"
	"github.com/jrazmi/eventhub/sdk/logger"
	"golang.org/x/sync/errgroup"
)

type Users interface {
	Get(ctx context.Context, id string) (usersrepo.User, error)
}

type Accounts interface {
	ListByUserID(ctx context.Context, userID string) ([]accountsrepo.Account, error)
}

type Events interface {
	Get(ctx context.Context, id string) (eventsrepo.Event, error)
	GetBySlug(ctx context.Context, slug string) (eventsrepo.Event, error)
	ListByUserID(ctx context.Context, userID string) ([]eventsrepo.Event, error)
	Stats(ctx context.Context, eventID string) (eventsrepo.EventStats, error)
}

type Registrations interface {
	Get(ctx context.Context, id string) (registrationsrepo.Registration, error)
}

type EventSessions interface {
	ListByEventID(ctx context.Context, eventID string) ([]eventsessionsrepo.EventSession, error)
}

type Sponsors interface {
	ListVisibleByEventID(ctx context.Context, eventID string) ([]sponsorsrepo.Sponsor, error)
}

type Participants interface {
	ListByParticipantID(ctx context.Context, participantID string) ([]sessionparticipantsrepo.SessionParticipant, error)
}

// Config holds the repositories the use case reads from.
type Config struct {
	Log           *logger.Logger
	Users         Users
	Accounts      Accounts
	Events        Events
	Registrations Registrations
	EventSessions EventSessions
	Sponsors      Sponsors
	Participants  Participants
}

type UseCase struct {
	log *logger.Logger
	cfg Config
}

func New(cfg Config) *UseCase {
	return &UseCase{
		log: cfg.Log,
		cfg: cfg,
	}
}

// EventDetail is an event with its organizer, sessions, visible sponsors and counters.
type EventDetail struct {
	eventsrepo.Event
	Organizer usersrepo.User                   `json:"organizer"`
	Sessions  []eventsessionsrepo.EventSession `json:"sessions"`
	Sponsors  []sponsorsrepo.Sponsor           `json:"sponsors"`
	Stats     eventsrepo.EventStats            `json:"stats"`
}

// EventDetail loads an event by id and its relations concurrently.
func (uc *UseCase) EventDetail(ctx context.Context, id string) (EventDetail, error) {
	event, err := uc.cfg.Events.Get(ctx, id)
	if err != nil {
		return EventDetail{}, fmt.Errorf("event detail: %w", err)
	}
	return uc.expandEvent(ctx, event)
}

// EventDetailBySlug is EventDetail addressed by slug.
func (uc *UseCase) EventDetailBySlug(ctx context.Context, slug string) (EventDetail, error) {
	event, err := uc.cfg.Events.GetBySlug(ctx, slug)
	if err != nil {
		return EventDetail{}, fmt.Errorf("event detail: %w", err)
	}
	return uc.expandEvent(ctx, event)
}

func (uc *UseCase) expandEvent(ctx context.Context, event eventsrepo.Event) (EventDetail, error) {
	detail := EventDetail{Event: event}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail.Organizer, err = uc.cfg.Users.Get(gctx, event.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		detail.Sessions, err = uc.cfg.EventSessions.ListByEventID(gctx, event.ID)
		return err
	})
	g.Go(func() error {
		var err error
		detail.Sponsors, err = uc.cfg.Sponsors.ListVisibleByEventID(gctx, event.ID)
		return err
	})
	g.Go(func() error {
		var err error
		detail.Stats, err = uc.cfg.Events.Stats(gctx, event.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		uc.log.ErrorContext(ctx, "event detail", "event_id", event.ID, "error", err)
		return EventDetail{}, fmt.Errorf("event detail %s: %w", event.ID, err)
	}
	return detail, nil
}

// RegistrationDetail is a registration with its event and the sessions it joined.
type RegistrationDetail struct {
	registrationsrepo.Registration
	Event    eventsrepo.Event                             `json:"event"`
	Sessions []sessionparticipantsrepo.SessionParticipant `json:"sessions"`
}

func (uc *UseCase) RegistrationDetail(ctx context.Context, id string) (RegistrationDetail, error) {
	reg, err := uc.cfg.Registrations.Get(ctx, id)
	if err != nil {
		return RegistrationDetail{}, fmt.Errorf("registration detail: %w", err)
	}
	detail := RegistrationDetail{Registration: reg}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail.Event, err = uc.cfg.Events.Get(gctx, reg.EventID)
		return err
	})
	g.Go(func() error {
		var err error
		detail.Sessions, err = uc.cfg.Participants.ListByParticipantID(gctx, reg.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return RegistrationDetail{}, fmt.Errorf("registration detail %s: %w", id, err)
	}
	return detail, nil
}

// UserDetail is a user with linked accounts and organized events.
type UserDetail struct {
	usersrepo.User
	Accounts []accountsrepo.Account `json:"accounts"`
	Events   []eventsrepo.Event     `json:"events"`
}

func (uc *UseCase) UserDetail(ctx context.Context, id string) (UserDetail, error) {
	user, err := uc.cfg.Users.Get(ctx, id)
	if err != nil {
		return UserDetail{}, fmt.Errorf("user detail: %w", err)
	}
	detail := UserDetail{User: user}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail.Accounts, err = uc.cfg.Accounts.ListByUserID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		detail.Events, err = uc.cfg.Events.ListByUserID(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return UserDetail{}, fmt.Errorf("user detail %s: %w", id, err)
	}
	return detail, nil
}
