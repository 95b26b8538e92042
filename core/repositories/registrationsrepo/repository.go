package registrationsrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrazmi/eventhub/core/repositories"
	"github.com/jrazmi/eventhub/sdk/cryptids"
	"github.com/jrazmi/eventhub/sdk/logger"
)

// ErrAlreadyCheckedIn is returned by CheckIn for a registration that was checked in
// before. The error from CheckIn still carries the registration.
var ErrAlreadyCheckedIn = errors.New("registration already checked in")

// codeAttempts bounds retries when a generated code collides.
const codeAttempts = 3

// Storer defines the data storage interface for Registration.
type Storer interface {
	repositories.Storer[Registration, CreateRegistration, UpdateRegistration, RegistrationFilter]
	GetByQRCode(ctx context.Context, code string) (Registration, error)
	GetByShortCode(ctx context.Context, code string) (Registration, error)
	GetByEventEmail(ctx context.Context, eventID, email string) (Registration, error)
	ListByEventID(ctx context.Context, eventID string) ([]Registration, error)
	MarkCheckedIn(ctx context.Context, id string, at time.Time) (Registration, error)
}

// Repository provides access to registration storage.
type Repository struct {
	repositories.Repository[Registration, CreateRegistration, UpdateRegistration, RegistrationFilter]
	log    *logger.Logger
	storer Storer
}

func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		Repository: repositories.NewRepository(log, "registration", storer),
		log:        log,
		storer:     storer,
	}
}

// Create registers an attendee and issues the QR and short codes. A collision on a
// generated code is retried with fresh codes.
func (r *Repository) Create(ctx context.Context, input CreateRegistration) (Registration, error) {
	generated := input.QRCode == "" || input.ShortCode == ""

	var lastErr error
	for range codeAttempts {
		in, err := withCodes(input)
		if err != nil {
			return Registration{}, fmt.Errorf("create registration: %w", err)
		}

		reg, err := r.Repository.Create(ctx, in)
		if err == nil {
			return reg, nil
		}
		if !generated || !isCodeCollision(err) {
			return Registration{}, err
		}
		r.log.WarnContext(ctx, "registration code collided, retrying", "event_id", input.EventID)
		lastErr = err
	}
	return Registration{}, lastErr
}

// CreateMany issues codes for every row that lacks them before the batch insert.
func (r *Repository) CreateMany(ctx context.Context, inputs []CreateRegistration, skipDuplicates bool) (int64, error) {
	rows := make([]CreateRegistration, len(inputs))
	for i, in := range inputs {
		withCode, err := withCodes(in)
		if err != nil {
			return 0, fmt.Errorf("create many registrations: row %d: %w", i, err)
		}
		rows[i] = withCode
	}
	return r.Repository.CreateMany(ctx, rows, skipDuplicates)
}

// Upsert registers an attendee or updates the registration for the same event and
// email. Codes are issued for the insert; an existing registration keeps its own.
func (r *Repository) Upsert(ctx context.Context, create CreateRegistration, update UpdateRegistration) (Registration, error) {
	generated := create.QRCode == "" || create.ShortCode == ""

	var lastErr error
	for range codeAttempts {
		in, err := withCodes(create)
		if err != nil {
			return Registration{}, fmt.Errorf("upsert registration: %w", err)
		}

		reg, err := r.Repository.Upsert(ctx, in, update)
		if err == nil {
			return reg, nil
		}
		if !generated || !isCodeCollision(err) {
			return Registration{}, err
		}
		r.log.WarnContext(ctx, "registration code collided, retrying", "event_id", create.EventID)
		lastErr = err
	}
	return Registration{}, lastErr
}

func withCodes(in CreateRegistration) (CreateRegistration, error) {
	if in.QRCode == "" {
		in.QRCode = uuid.NewString()
	}
	if in.ShortCode == "" {
		code, err := cryptids.GenerateShortCode()
		if err != nil {
			return in, fmt.Errorf("short code: %w", err)
		}
		in.ShortCode = code
	}
	return in, nil
}

func isCodeCollision(err error) bool {
	if !errors.Is(err, repositories.ErrDuplicate) {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "qr_code") || strings.Contains(msg, "short_code")
}

func (r *Repository) GetByQRCode(ctx context.Context, code string) (Registration, error) {
	reg, err := r.storer.GetByQRCode(ctx, code)
	if err != nil {
		return Registration{}, fmt.Errorf("get registration by qr code: %w", err)
	}
	return reg, nil
}

func (r *Repository) GetByShortCode(ctx context.Context, code string) (Registration, error) {
	reg, err := r.storer.GetByShortCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return Registration{}, fmt.Errorf("get registration by short code: %w", err)
	}
	return reg, nil
}

// GetByEventEmail finds the registration for an address at an event.
func (r *Repository) GetByEventEmail(ctx context.Context, eventID, email string) (Registration, error) {
	reg, err := r.storer.GetByEventEmail(ctx, eventID, NormalizeEmail(email))
	if err != nil {
		return Registration{}, fmt.Errorf("get registration for %s: %w", eventID, err)
	}
	return reg, nil
}

func (r *Repository) ListByEventID(ctx context.Context, eventID string) ([]Registration, error) {
	regs, err := r.storer.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list registrations for event %s: %w", eventID, err)
	}
	return regs, nil
}

// CheckIn marks the registration holding code as arrived. code may be the QR code or
// the short code. Checking in twice returns the registration with ErrAlreadyCheckedIn.
func (r *Repository) CheckIn(ctx context.Context, code string) (Registration, error) {
	reg, err := r.LookupCode(ctx, code)
	if err != nil {
		return Registration{}, fmt.Errorf("check in: %w", err)
	}
	if reg.CheckedIn {
		return reg, fmt.Errorf("check in %s: %w", reg.ID, ErrAlreadyCheckedIn)
	}

	updated, err := r.storer.MarkCheckedIn(ctx, reg.ID, time.Now().UTC())
	if err != nil {
		// Lost a race with another desk.
		if errors.Is(err, repositories.ErrNotFound) {
			current, getErr := r.Get(ctx, reg.ID)
			if getErr != nil {
				return Registration{}, fmt.Errorf("check in %s: %w", reg.ID, getErr)
			}
			return current, fmt.Errorf("check in %s: %w", reg.ID, ErrAlreadyCheckedIn)
		}
		return Registration{}, fmt.Errorf("check in %s: %w", reg.ID, err)
	}
	r.log.InfoContext(ctx, "checked in", "registration_id", updated.ID, "event_id", updated.EventID)
	return updated, nil
}

// LookupCode resolves a QR code (a uuid) or a short code to its registration.
func (r *Repository) LookupCode(ctx context.Context, code string) (Registration, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Registration{}, repositories.Validationf("code is required")
	}
	if _, err := uuid.Parse(code); err == nil {
		return r.GetByQRCode(ctx, code)
	}
	return r.GetByShortCode(ctx, code)
}
