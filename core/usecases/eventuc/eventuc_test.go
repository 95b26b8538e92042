package eventuc_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrazmi/eventhub/core/repositories"
	"github.com/jrazmi/eventhub/core/repositories/accountsrepo"
	"github.com/jrazmi/eventhub/core/repositories/eventsessionsrepo"
	"github.com/jrazmi/eventhub/core/repositories/eventsrepo"
	"github.com/jrazmi/eventhub/core/repositories/registrationsrepo"
	"github.com/jrazmi/eventhub/core/repositories/sessionparticipantsrepo"
	"github.com/jrazmi/eventhub/core/repositories/sponsorsrepo"
	"github.com/jrazmi/eventhub/core/repositories/usersrepo"
	"github.com/jrazmi/eventhub/core/usecases/eventuc"
	"github.com/jrazmi/eventhub/sdk/logger"
)

func notFound(kind, id string) error {
	return fmt.Errorf("get %s %s: %w", kind, id, repositories.ErrNotFound)
}

type users map[string]usersrepo.User

func (u users) Get(ctx context.Context, id string) (usersrepo.User, error) {
	if user, ok := u[id]; ok {
		return user, nil
	}
	return usersrepo.User{}, notFound("user", id)
}

type events struct {
	byID     map[string]eventsrepo.Event
	statsErr error
}

func (e events) Get(ctx context.Context, id string) (eventsrepo.Event, error) {
	if ev, ok := e.byID[id]; ok {
		return ev, nil
	}
	return eventsrepo.Event{}, notFound("event", id)
}

func (e events) GetBySlug(ctx context.Context, slug string) (eventsrepo.Event, error) {
	for _, ev := range e.byID {
		if ev.Slug == slug {
			return ev, nil
		}
	}
	return eventsrepo.Event{}, notFound("event", slug)
}

func (e events) ListByUserID(ctx context.Context, userID string) ([]eventsrepo.Event, error) {
	var out []eventsrepo.Event
	for _, ev := range e.byID {
		if ev.UserID == userID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (e events) Stats(ctx context.Context, eventID string) (eventsrepo.EventStats, error) {
	if e.statsErr != nil {
		return eventsrepo.EventStats{}, e.statsErr
	}
	return eventsrepo.EventStats{EventID: eventID, Registrations: 3, CheckedIn: 1}, nil
}

type registrations map[string]registrationsrepo.Registration

func (r registrations) Get(ctx context.Context, id string) (registrationsrepo.Registration, error) {
	if reg, ok := r[id]; ok {
		return reg, nil
	}
	return registrationsrepo.Registration{}, notFound("registration", id)
}

type relations struct{}

func (relations) ListByUserID(ctx context.Context, userID string) ([]accountsrepo.Account, error) {
	return []accountsrepo.Account{{ID: "a1", UserID: userID, Provider: "github"}}, nil
}

func (relations) ListByEventID(ctx context.Context, eventID string) ([]eventsessionsrepo.EventSession, error) {
	return []eventsessionsrepo.EventSession{{ID: "es1", EventID: eventID}, {ID: "es2", EventID: eventID}}, nil
}

func (relations) ListVisibleByEventID(ctx context.Context, eventID string) ([]sponsorsrepo.Sponsor, error) {
	return []sponsorsrepo.Sponsor{{ID: "sp1", EventID: eventID}}, nil
}

func (relations) ListByParticipantID(ctx context.Context, participantID string) ([]sessionparticipantsrepo.SessionParticipant, error) {
	return []sessionparticipantsrepo.SessionParticipant{{ID: "p1", SessionID: "es1", ParticipantID: participantID}}, nil
}

func newUseCase(ev events) *eventuc.UseCase {
	return eventuc.New(eventuc.Config{
		Log:           logger.Discard(),
		Users:         users{"u1": {ID: "u1"}},
		Accounts:      relations{},
		Events:        ev,
		Registrations: registrations{"r1": {ID: "r1", EventID: "e1"}, "r2": {ID: "r2", EventID: "gone"}},
		EventSessions: relations{},
		Sponsors:      relations{},
		Participants:  relations{},
	})
}

func fixtureEvents() events {
	return events{byID: map[string]eventsrepo.Event{
		"e1": {ID: "e1", UserID: "u1", Slug: "gophercon"},
		"e2": {ID: "e2", UserID: "nobody", Slug: "orphan"},
	}}
}

func TestEventDetail(t *testing.T) {
	uc := newUseCase(fixtureEvents())

	detail, err := uc.EventDetail(context.Background(), "e1")
	require.NoError(t, err)
	require.Equal(t, "e1", detail.ID)
	require.Equal(t, "u1", detail.Organizer.ID)
	require.Len(t, detail.Sessions, 2)
	require.Len(t, detail.Sponsors, 1)
	require.EqualValues(t, 3, detail.Stats.Registrations)

	bySlug, err := uc.EventDetailBySlug(context.Background(), "gophercon")
	require.NoError(t, err)
	require.Equal(t, detail, bySlug)
}

func TestEventDetailNotFound(t *testing.T) {
	uc := newUseCase(fixtureEvents())

	_, err := uc.EventDetail(context.Background(), "missing")
	require.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = uc.EventDetailBySlug(context.Background(), "missing")
	require.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestEventDetailRelationError(t *testing.T) {
	uc := newUseCase(fixtureEvents())

	_, err := uc.EventDetail(context.Background(), "e2")
	require.ErrorIs(t, err, repositories.ErrNotFound)

	boom := errors.New("boom")
	ev := fixtureEvents()
	ev.statsErr = boom
	_, err = newUseCase(ev).EventDetail(context.Background(), "e1")
	require.ErrorIs(t, err, boom)
}

func TestRegistrationDetail(t *testing.T) {
	uc := newUseCase(fixtureEvents())

	detail, err := uc.RegistrationDetail(context.Background(), "r1")
	require.NoError(t, err)
	require.Equal(t, "e1", detail.Event.ID)
	require.Len(t, detail.Sessions, 1)
	require.Equal(t, "r1", detail.Sessions[0].ParticipantID)

	_, err = uc.RegistrationDetail(context.Background(), "r2")
	require.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = uc.RegistrationDetail(context.Background(), "r9")
	require.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestUserDetail(t *testing.T) {
	uc := newUseCase(fixtureEvents())

	detail, err := uc.UserDetail(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, detail.Accounts, 1)
	require.Len(t, detail.Events, 1)
	require.Equal(t, "gophercon", detail.Events[0].Slug)

	_, err = uc.UserDetail(context.Background(), "u9")
	require.ErrorIs(t, err, repositories.ErrNotFound)
}
