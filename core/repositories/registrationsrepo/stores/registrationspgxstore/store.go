package registrationspgxstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/eventhub/core/repositories/pgxstore"
	"github.com/jrazmi/eventhub/core/repositories/registrationsrepo"
	"github.com/jrazmi/eventhub/infrastructure/postgresdb"
	"github.com/jrazmi/eventhub/sdk/logger"
)

var table = postgresdb.Table{
	Schema: "public",
	Name:   "registrations",
	PK:     registrationsrepo.PKColumn,
	Columns: []string{
		"id", "event_id", "name", "email", "phone", "organization", "qr_code", "short_code",
		"checked_in", "checked_in_at", "created_at", "updated_at",
	},
	Booleans: []string{"checked_in"},
}

var mapping = pgxstore.Mapping[registrationsrepo.CreateRegistration, registrationsrepo.UpdateRegistration, registrationsrepo.RegistrationFilter]{
	Table:    table,
	Conflict: []string{"event_id", "email"},
	OrderColumns: []string{
		registrationsrepo.OrderByName,
		registrationsrepo.OrderByEmail,
		registrationsrepo.OrderByCheckedIn,
		registrationsrepo.OrderByCreatedAt,
	},
	Aggregates: map[string]string{
		"eventId":      "event_id",
		"checkedIn":    "checked_in",
		"organization": "organization",
		"checkedInAt":  "checked_in_at",
		"createdAt":    "created_at",
	},
	Insert: insertValues,
	Set:    setValues,
	Filter: applyFilter,
}

func insertValues(in registrationsrepo.CreateRegistration) (*postgresdb.Values, error) {
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}

	v := &postgresdb.Values{}
	v.Set("id", id).
		Set("event_id", in.EventID).
		Set("name", in.Name).
		Set("email", registrationsrepo.NormalizeEmail(in.Email)).
		Set("qr_code", in.QRCode).
		Set("short_code", in.ShortCode)
	postgresdb.SetIf(v, "phone", in.Phone)
	postgresdb.SetIf(v, "organization", in.Organization)
	return v, nil
}

func setValues(in registrationsrepo.UpdateRegistration) *postgresdb.Values {
	v := &postgresdb.Values{}
	postgresdb.SetIf(v, "name", in.Name)
	if in.Email != nil {
		v.Set("email", registrationsrepo.NormalizeEmail(*in.Email))
	}
	postgresdb.SetIf(v, "phone", in.Phone)
	postgresdb.SetIf(v, "organization", in.Organization)
	postgresdb.SetIf(v, "checked_in", in.CheckedIn)
	postgresdb.SetIf(v, "checked_in_at", in.CheckedInAt)
	v.Set("updated_at", time.Now().UTC())
	return v
}

func applyFilter(w *postgresdb.Where, f registrationsrepo.RegistrationFilter) {
	postgresdb.EqIf(w, "id", f.ID)
	postgresdb.InIf(w, "id", f.IDs)
	postgresdb.EqIf(w, "event_id", f.EventID)
	if f.Email != nil {
		w.Eq("email", registrationsrepo.NormalizeEmail(*f.Email))
	}
	postgresdb.EqIf(w, "qr_code", f.QRCode)
	postgresdb.EqIf(w, "short_code", f.ShortCode)
	postgresdb.EqIf(w, "checked_in", f.CheckedIn)
	if f.SearchTerm != nil {
		w.Search(*f.SearchTerm, "name", "email", "organization", "short_code")
	}
	postgresdb.LtIf(w, "created_at", f.CreatedAtBefore)
	postgresdb.GteIf(w, "created_at", f.CreatedAtAfter)
}

// Store provides database access for Registration.
type Store struct {
	pgxstore.Store[registrationsrepo.Registration, registrationsrepo.CreateRegistration, registrationsrepo.UpdateRegistration, registrationsrepo.RegistrationFilter]
}

func NewStore(log *logger.Logger, db pgxstore.DB) *Store {
	return &Store{
		Store: pgxstore.New[registrationsrepo.Registration](log, db, mapping),
	}
}

func (s *Store) WithTx(tx pgx.Tx) *Store {
	return &Store{Store: s.Store.WithDB(tx)}
}

func (s *Store) GetByQRCode(ctx context.Context, code string) (registrationsrepo.Registration, error) {
	return s.GetBy(ctx, map[string]any{"qr_code": code})
}

func (s *Store) GetByShortCode(ctx context.Context, code string) (registrationsrepo.Registration, error) {
	return s.GetBy(ctx, map[string]any{"short_code": code})
}

func (s *Store) GetByEventEmail(ctx context.Context, eventID, email string) (registrationsrepo.Registration, error) {
	return s.GetBy(ctx, map[string]any{"event_id": eventID, "email": email})
}

func (s *Store) ListByEventID(ctx context.Context, eventID string) ([]registrationsrepo.Registration, error) {
	return s.ListAll(ctx, registrationsrepo.RegistrationFilter{EventID: &eventID}, registrationsrepo.DefaultOrderBy)
}

// MarkCheckedIn flips checked_in only if it is still false, so concurrent check-ins
// produce exactly one winner. The loser gets ErrNotFound.
func (s *Store) MarkCheckedIn(ctx context.Context, id string, at time.Time) (registrationsrepo.Registration, error) {
	const q = `
UPDATE public.registrations
SET checked_in = true, checked_in_at = @at, updated_at = @at
WHERE id = @id AND NOT checked_in
RETURNING id, event_id, name, email, phone, organization, qr_code, short_code,
          checked_in, checked_in_at, created_at, updated_at`

	reg, err := postgresdb.QueryRawOne[registrationsrepo.Registration](ctx, s.DB, q, pgx.NamedArgs{"id": id, "at": at})
	if err != nil {
		return reg, pgxstore.StoreError(err)
	}
	return reg, nil
}
