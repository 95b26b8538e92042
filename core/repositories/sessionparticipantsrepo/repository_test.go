package sessionparticipantsrepo_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrazmi/eventhub/core/repositories"
	"github.com/jrazmi/eventhub/core/repositories/sessionparticipantsrepo"
	"github.com/jrazmi/eventhub/sdk/logger"
)

func TestCheckJoin(t *testing.T) {
	open := sessionparticipantsrepo.JoinTarget{SessionID: "s1", EventID: "e1", Capacity: 2, Joined: 1}
	full := sessionparticipantsrepo.JoinTarget{SessionID: "s1", EventID: "e1", Capacity: 2, Joined: 2}
	unlimited := sessionparticipantsrepo.JoinTarget{SessionID: "s1", EventID: "e1", Capacity: 0, Joined: 500}

	tests := []struct {
		name    string
		target  sessionparticipantsrepo.JoinTarget
		eventID string
		joined  bool
		want    error
	}{
		{"room left", open, "e1", false, nil},
		{"full", full, "e1", false, sessionparticipantsrepo.ErrSessionFull},
		{"unlimited", unlimited, "e1", false, nil},
		{"other event", open, "e2", false, sessionparticipantsrepo.ErrEventMismatch},
		{"already joined", full, "e1", true, sessionparticipantsrepo.ErrAlreadyJoined},
		{"mismatch wins", full, "e2", true, sessionparticipantsrepo.ErrEventMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sessionparticipantsrepo.CheckJoin(tt.target, tt.eventID, tt.joined)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
		})
	}
}

type store struct {
	sessionparticipantsrepo.Storer
	joinErr    error
	joins      int
	inserts    int
	attendance []bool
}

func (s *store) Create(ctx context.Context, in sessionparticipantsrepo.CreateSessionParticipant) (sessionparticipantsrepo.SessionParticipant, error) {
	s.inserts++
	return sessionparticipantsrepo.SessionParticipant{ID: "p1", SessionID: in.SessionID, ParticipantID: in.ParticipantID}, nil
}

func (s *store) Join(ctx context.Context, sessionID, registrationID string) (sessionparticipantsrepo.SessionParticipant, error) {
	s.joins++
	if s.joinErr != nil {
		return sessionparticipantsrepo.SessionParticipant{}, s.joinErr
	}
	return sessionparticipantsrepo.SessionParticipant{ID: "p1", SessionID: sessionID, ParticipantID: registrationID}, nil
}

func (s *store) SetAttendance(ctx context.Context, sessionID, participantID string, attended bool) (sessionparticipantsrepo.SessionParticipant, error) {
	s.attendance = append(s.attendance, attended)
	return sessionparticipantsrepo.SessionParticipant{SessionID: sessionID, ParticipantID: participantID, Attended: attended}, nil
}

func TestJoin(t *testing.T) {
	repo := sessionparticipantsrepo.NewRepository(logger.Discard(), &store{})

	sp, err := repo.Join(context.Background(), "s1", "r1")
	require.NoError(t, err)
	require.Equal(t, "r1", sp.ParticipantID)

	_, err = repo.Join(context.Background(), "", "r1")
	require.ErrorIs(t, err, repositories.ErrValidation)
}

func TestJoinWrapsDomainErrors(t *testing.T) {
	repo := sessionparticipantsrepo.NewRepository(logger.Discard(), &store{joinErr: sessionparticipantsrepo.ErrSessionFull})

	_, err := repo.Join(context.Background(), "s1", "r1")
	require.ErrorIs(t, err, sessionparticipantsrepo.ErrSessionFull)
	require.EqualError(t, err, "join session s1: session is full")
}

func TestCreateGoesThroughJoin(t *testing.T) {
	s := &store{joinErr: sessionparticipantsrepo.ErrSessionFull}
	repo := sessionparticipantsrepo.NewRepository(logger.Discard(), s)

	_, err := repo.Create(context.Background(), sessionparticipantsrepo.CreateSessionParticipant{SessionID: "s1", ParticipantID: "r1"})
	require.ErrorIs(t, err, sessionparticipantsrepo.ErrSessionFull)
	require.Equal(t, 1, s.joins)
	require.Zero(t, s.inserts)

	_, err = repo.Create(context.Background(), sessionparticipantsrepo.CreateSessionParticipant{SessionID: "s1"})
	require.ErrorIs(t, err, repositories.ErrValidation)
	require.Equal(t, 1, s.joins)
}

func TestBulkWritesNotSupported(t *testing.T) {
	s := &store{}
	repo := sessionparticipantsrepo.NewRepository(logger.Discard(), s)
	in := sessionparticipantsrepo.CreateSessionParticipant{SessionID: "s1", ParticipantID: "r1"}

	_, err := repo.CreateMany(context.Background(), []sessionparticipantsrepo.CreateSessionParticipant{in}, false)
	require.ErrorIs(t, err, repositories.ErrOperationNotSupported)

	_, err = repo.Upsert(context.Background(), in, sessionparticipantsrepo.UpdateSessionParticipant{})
	require.ErrorIs(t, err, repositories.ErrOperationNotSupported)
	require.Zero(t, s.joins)
	require.Zero(t, s.inserts)
}

func TestMarkAttendance(t *testing.T) {
	s := &store{}
	repo := sessionparticipantsrepo.NewRepository(logger.Discard(), s)

	sp, err := repo.MarkAttendance(context.Background(), "s1", "r1", true)
	require.NoError(t, err)
	require.True(t, sp.Attended)

	_, err = repo.MarkAttendance(context.Background(), "s1", "r1", false)
	require.NoError(t, err)
	require.Equal(t, []bool{true, false}, s.attendance)
}

func TestCreateValidate(t *testing.T) {
	require.EqualError(t, sessionparticipantsrepo.CreateSessionParticipant{ParticipantID: "r1"}.Validate(), "sessionId is required")
	require.EqualError(t, sessionparticipantsrepo.CreateSessionParticipant{SessionID: "s1"}.Validate(), "participantId is required")
	require.NoError(t, sessionparticipantsrepo.CreateSessionParticipant{SessionID: "s1", ParticipantID: "r1"}.Validate())
}

func ExampleCheckJoin() {
	target := sessionparticipantsrepo.JoinTarget{EventID: "e1", Capacity: 1, Joined: 1}
	fmt.Println(sessionparticipantsrepo.CheckJoin(target, "e1", false))
	// Output: session is full
}
