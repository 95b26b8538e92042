package registrationsrepo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jrazmi/eventhub/core/repositories"
	"github.com/jrazmi/eventhub/core/repositories/registrationsrepo"
	"github.com/jrazmi/eventhub/sdk/cryptids"
	"github.com/jrazmi/eventhub/sdk/logger"
)

type store struct {
	registrationsrepo.Storer

	created    []registrationsrepo.CreateRegistration
	collisions int
	collideOn  string

	batch    []registrationsrepo.CreateRegistration
	upserted []registrationsrepo.CreateRegistration

	byCode    map[string]registrationsrepo.Registration
	byID      map[string]registrationsrepo.Registration
	lookups   []string
	marked    []string
	markedErr error
}

func (s *store) CreateMany(ctx context.Context, inputs []registrationsrepo.CreateRegistration, skipDuplicates bool) (int64, error) {
	s.batch = append(s.batch, inputs...)
	return int64(len(inputs)), nil
}

func (s *store) Upsert(ctx context.Context, create registrationsrepo.CreateRegistration, update registrationsrepo.UpdateRegistration) (registrationsrepo.Registration, error) {
	s.upserted = append(s.upserted, create)
	if s.collisions > 0 {
		s.collisions--
		return registrationsrepo.Registration{}, fmt.Errorf("%w: %s", repositories.ErrDuplicate, s.collideOn)
	}
	return registrationsrepo.Registration{ID: "r1", EventID: create.EventID, QRCode: create.QRCode, ShortCode: create.ShortCode}, nil
}

func (s *store) Get(ctx context.Context, id string) (registrationsrepo.Registration, error) {
	reg, ok := s.byID[id]
	if !ok {
		return registrationsrepo.Registration{}, fmt.Errorf("%w: no rows", repositories.ErrNotFound)
	}
	return reg, nil
}

func (s *store) Create(ctx context.Context, in registrationsrepo.CreateRegistration) (registrationsrepo.Registration, error) {
	s.created = append(s.created, in)
	if s.collisions > 0 {
		s.collisions--
		return registrationsrepo.Registration{}, fmt.Errorf("%w: %s", repositories.ErrDuplicate, s.collideOn)
	}
	return registrationsrepo.Registration{ID: "r1", EventID: in.EventID, QRCode: in.QRCode, ShortCode: in.ShortCode}, nil
}

func (s *store) get(code string) (registrationsrepo.Registration, error) {
	s.lookups = append(s.lookups, code)
	reg, ok := s.byCode[code]
	if !ok {
		return registrationsrepo.Registration{}, fmt.Errorf("%w: no rows", repositories.ErrNotFound)
	}
	return reg, nil
}

func (s *store) GetByQRCode(ctx context.Context, code string) (registrationsrepo.Registration, error) {
	return s.get("qr:" + code)
}

func (s *store) GetByShortCode(ctx context.Context, code string) (registrationsrepo.Registration, error) {
	return s.get("short:" + code)
}

func (s *store) MarkCheckedIn(ctx context.Context, id string, at time.Time) (registrationsrepo.Registration, error) {
	s.marked = append(s.marked, id)
	if s.markedErr != nil {
		return registrationsrepo.Registration{}, s.markedErr
	}
	return registrationsrepo.Registration{ID: id, CheckedIn: true, CheckedInAt: &at}, nil
}

func attendee() registrationsrepo.CreateRegistration {
	return registrationsrepo.CreateRegistration{EventID: "e1", Name: "Ada", Email: "ada@example.com"}
}

func TestCreateIssuesCodes(t *testing.T) {
	s := &store{}
	repo := registrationsrepo.NewRepository(logger.Discard(), s)

	reg, err := repo.Create(context.Background(), attendee())
	require.NoError(t, err)

	_, err = uuid.Parse(reg.QRCode)
	require.NoError(t, err)
	require.Len(t, reg.ShortCode, cryptids.ShortCodeLength)
}

func TestCreateRetriesCodeCollision(t *testing.T) {
	s := &store{collisions: 2, collideOn: "registrations_short_code_key"}
	repo := registrationsrepo.NewRepository(logger.Discard(), s)

	_, err := repo.Create(context.Background(), attendee())
	require.NoError(t, err)
	require.Len(t, s.created, 3)
	require.NotEqual(t, s.created[0].ShortCode, s.created[2].ShortCode)
}

func TestCreateDoesNotRetryDuplicateEmail(t *testing.T) {
	s := &store{collisions: 1, collideOn: "registrations_event_id_email_key"}
	repo := registrationsrepo.NewRepository(logger.Discard(), s)

	_, err := repo.Create(context.Background(), attendee())
	require.ErrorIs(t, err, repositories.ErrDuplicate)
	require.Len(t, s.created, 1)
}

func TestCreateManyIssuesCodesPerRow(t *testing.T) {
	s := &store{}
	repo := registrationsrepo.NewRepository(logger.Discard(), s)

	grace := attendee()
	grace.Email = "grace@example.com"
	preset := attendee()
	preset.Email = "linus@example.com"
	preset.QRCode = uuid.NewString()
	preset.ShortCode = "PRESET22"

	n, err := repo.CreateMany(context.Background(), []registrationsrepo.CreateRegistration{attendee(), grace, preset}, false)
	require.NoError(t, err)
	require.EqualValues(t, 3, n)
	require.Len(t, s.batch, 3)

	qrs := map[string]bool{}
	shorts := map[string]bool{}
	for _, in := range s.batch {
		_, err := uuid.Parse(in.QRCode)
		require.NoError(t, err)
		require.Len(t, in.ShortCode, cryptids.ShortCodeLength)
		qrs[in.QRCode] = true
		shorts[in.ShortCode] = true
	}
	require.Len(t, qrs, 3)
	require.Len(t, shorts, 3)
	require.Equal(t, preset.QRCode, s.batch[2].QRCode)
	require.Equal(t, "PRESET22", s.batch[2].ShortCode)
}

func TestCreateManyValidatesEveryRow(t *testing.T) {
	s := &store{}
	repo := registrationsrepo.NewRepository(logger.Discard(), s)

	bad := attendee()
	bad.Email = ""
	_, err := repo.CreateMany(context.Background(), []registrationsrepo.CreateRegistration{attendee(), bad}, false)
	require.ErrorIs(t, err, repositories.ErrValidation)
	require.Empty(t, s.batch)
}

func TestUpsertIssuesCodes(t *testing.T) {
	s := &store{collisions: 1, collideOn: "registrations_qr_code_key"}
	repo := registrationsrepo.NewRepository(logger.Discard(), s)

	reg, err := repo.Upsert(context.Background(), attendee(), registrationsrepo.UpdateRegistration{})
	require.NoError(t, err)
	require.Len(t, s.upserted, 2)
	require.NotEqual(t, s.upserted[0].QRCode, s.upserted[1].QRCode)

	_, err = uuid.Parse(reg.QRCode)
	require.NoError(t, err)
	require.Len(t, reg.ShortCode, cryptids.ShortCodeLength)
}

func TestCreateValidates(t *testing.T) {
	repo := registrationsrepo.NewRepository(logger.Discard(), &store{})

	in := attendee()
	in.Email = "not-an-email"
	_, err := repo.Create(context.Background(), in)
	require.ErrorIs(t, err, repositories.ErrValidation)
}

func TestLookupCode(t *testing.T) {
	qr := uuid.NewString()
	s := &store{byCode: map[string]registrationsrepo.Registration{
		"qr:" + qr:       {ID: "r1"},
		"short:ABCD2345": {ID: "r2"},
	}}
	repo := registrationsrepo.NewRepository(logger.Discard(), s)

	reg, err := repo.LookupCode(context.Background(), qr)
	require.NoError(t, err)
	require.Equal(t, "r1", reg.ID)

	reg, err = repo.LookupCode(context.Background(), " abcd2345 ")
	require.NoError(t, err)
	require.Equal(t, "r2", reg.ID)

	_, err = repo.LookupCode(context.Background(), "  ")
	require.ErrorIs(t, err, repositories.ErrValidation)

	_, err = repo.LookupCode(context.Background(), "ZZZZ9999")
	require.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCheckIn(t *testing.T) {
	s := &store{byCode: map[string]registrationsrepo.Registration{
		"short:ABCD2345": {ID: "r1"},
	}}
	repo := registrationsrepo.NewRepository(logger.Discard(), s)

	reg, err := repo.CheckIn(context.Background(), "ABCD2345")
	require.NoError(t, err)
	require.True(t, reg.CheckedIn)
	require.NotNil(t, reg.CheckedInAt)
	require.Equal(t, []string{"r1"}, s.marked)
}

func TestCheckInTwice(t *testing.T) {
	at := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	s := &store{byCode: map[string]registrationsrepo.Registration{
		"short:ABCD2345": {ID: "r1", CheckedIn: true, CheckedInAt: &at},
	}}
	repo := registrationsrepo.NewRepository(logger.Discard(), s)

	reg, err := repo.CheckIn(context.Background(), "ABCD2345")
	require.ErrorIs(t, err, registrationsrepo.ErrAlreadyCheckedIn)
	require.Equal(t, "r1", reg.ID)
	require.Equal(t, &at, reg.CheckedInAt)
	require.Empty(t, s.marked)
}

func TestCheckInLostRace(t *testing.T) {
	at := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	s := &store{
		byCode:    map[string]registrationsrepo.Registration{"short:ABCD2345": {ID: "r1"}},
		byID:      map[string]registrationsrepo.Registration{"r1": {ID: "r1", CheckedIn: true, CheckedInAt: &at}},
		markedErr: fmt.Errorf("%w: no rows", repositories.ErrNotFound),
	}
	repo := registrationsrepo.NewRepository(logger.Discard(), s)

	reg, err := repo.CheckIn(context.Background(), "ABCD2345")
	require.ErrorIs(t, err, registrationsrepo.ErrAlreadyCheckedIn)
	require.Equal(t, "r1", reg.ID)
	require.True(t, reg.CheckedIn)
	require.Equal(t, &at, reg.CheckedInAt)
}

func TestNormalizeEmail(t *testing.T) {
	require.Equal(t, "ada@example.com", registrationsrepo.NormalizeEmail("  Ada@Example.COM "))
}
