package sessionparticipantsrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jrazmi/eventhub/core/repositories"
	"github.com/jrazmi/eventhub/sdk/logger"
)

// Join errors.
var (
	ErrEventMismatch = errors.New("registration belongs to a different event")
	ErrAlreadyJoined = errors.New("participant already joined the session")
	ErrSessionFull   = errors.New("session is full")
)

// CheckJoin decides whether a registration of registrationEventID may join target.
// alreadyJoined reports an existing row for the pair.
func CheckJoin(target JoinTarget, registrationEventID string, alreadyJoined bool) error {
	switch {
	case target.EventID != registrationEventID:
		return ErrEventMismatch
	case alreadyJoined:
		return ErrAlreadyJoined
	case target.Capacity > 0 && target.Joined >= int64(target.Capacity):
		return ErrSessionFull
	}
	return nil
}

// Storer defines the data storage interface for SessionParticipant.
type Storer interface {
	repositories.Storer[SessionParticipant, CreateSessionParticipant, UpdateSessionParticipant, SessionParticipantFilter]
	GetBySessionParticipant(ctx context.Context, sessionID, participantID string) (SessionParticipant, error)
	Join(ctx context.Context, sessionID, registrationID string) (SessionParticipant, error)
	SetAttendance(ctx context.Context, sessionID, participantID string, attended bool) (SessionParticipant, error)
	ListBySessionID(ctx context.Context, sessionID string) ([]SessionParticipant, error)
	ListByParticipantID(ctx context.Context, participantID string) ([]SessionParticipant, error)
}

type Repository struct {
	repositories.Repository[SessionParticipant, CreateSessionParticipant, UpdateSessionParticipant, SessionParticipantFilter]
	log    *logger.Logger
	storer Storer
}

func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		Repository: repositories.NewRepository(log, "session participant", storer),
		log:        log,
		storer:     storer,
	}
}

func (r *Repository) GetBySessionParticipant(ctx context.Context, sessionID, participantID string) (SessionParticipant, error) {
	sp, err := r.storer.GetBySessionParticipant(ctx, sessionID, participantID)
	if err != nil {
		return SessionParticipant{}, fmt.Errorf("get participant %s in session %s: %w", participantID, sessionID, err)
	}
	return sp, nil
}

// Join adds a registration to a session, enforcing event membership, uniqueness and
// capacity atomically.
func (r *Repository) Join(ctx context.Context, sessionID, registrationID string) (SessionParticipant, error) {
	if sessionID == "" || registrationID == "" {
		return SessionParticipant{}, repositories.Validationf("sessionId and registrationId are required")
	}

	sp, err := r.storer.Join(ctx, sessionID, registrationID)
	if err != nil {
		return SessionParticipant{}, fmt.Errorf("join session %s: %w", sessionID, err)
	}
	r.log.InfoContext(ctx, "session joined", "session_id", sessionID, "registration_id", registrationID)
	return sp, nil
}

// Create is Join for a create input, so a participant row never skips the join rules.
func (r *Repository) Create(ctx context.Context, input CreateSessionParticipant) (SessionParticipant, error) {
	if err := input.Validate(); err != nil {
		return SessionParticipant{}, repositories.Validationf("create session participant: %s", err)
	}
	return r.Join(ctx, input.SessionID, input.ParticipantID)
}

// CreateMany is not supported: every row must pass through Join.
func (r *Repository) CreateMany(ctx context.Context, inputs []CreateSessionParticipant, skipDuplicates bool) (int64, error) {
	return 0, fmt.Errorf("create many session participants: %w", repositories.ErrOperationNotSupported)
}

// Upsert is not supported. Use Join to add a participant and MarkAttendance to change one.
func (r *Repository) Upsert(ctx context.Context, create CreateSessionParticipant, update UpdateSessionParticipant) (SessionParticipant, error) {
	return SessionParticipant{}, fmt.Errorf("upsert session participant: %w", repositories.ErrOperationNotSupported)
}

// MarkAttendance records whether the participant attended. Clearing attendance also
// clears the timestamp.
func (r *Repository) MarkAttendance(ctx context.Context, sessionID, participantID string, attended bool) (SessionParticipant, error) {
	sp, err := r.storer.SetAttendance(ctx, sessionID, participantID, attended)
	if err != nil {
		return SessionParticipant{}, fmt.Errorf("mark attendance for %s in session %s: %w", participantID, sessionID, err)
	}
	return sp, nil
}

func (r *Repository) ListBySessionID(ctx context.Context, sessionID string) ([]SessionParticipant, error) {
	sps, err := r.storer.ListBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list participants of session %s: %w", sessionID, err)
	}
	return sps, nil
}

func (r *Repository) ListByParticipantID(ctx context.Context, participantID string) ([]SessionParticipant, error) {
	sps, err := r.storer.ListByParticipantID(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("list sessions of participant %s: %w", participantID, err)
	}
	return sps, nil
}
