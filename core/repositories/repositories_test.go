package repositories_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrazmi/eventhub/core/repositories"
	"github.com/jrazmi/eventhub/core/scaffolding/fop"
	"github.com/jrazmi/eventhub/sdk/logger"
)

type note struct {
	ID   string
	Body string
}

type createNote struct {
	Body string
}

func (c createNote) Validate() error {
	if c.Body == "" {
		return errors.New("body is required")
	}
	return nil
}

type updateNote struct {
	Body *string
}

func (u updateNote) Validate() error {
	if u.Body != nil && *u.Body == "" {
		return repositories.Validationf("body cannot be empty")
	}
	return nil
}

type noteFilter struct{}

// noteStore implements only what the tests reach; anything else panics.
type noteStore struct {
	repositories.Storer[note, createNote, updateNote, noteFilter]
	created  []createNote
	getErr   error
	batchErr error
}

func (s *noteStore) Get(ctx context.Context, id string) (note, error) {
	if s.getErr != nil {
		return note{}, s.getErr
	}
	return note{ID: id}, nil
}

func (s *noteStore) Create(ctx context.Context, in createNote) (note, error) {
	s.created = append(s.created, in)
	return note{ID: "n1", Body: in.Body}, nil
}

func (s *noteStore) CreateMany(ctx context.Context, in []createNote, skipDuplicates bool) (int64, error) {
	if s.batchErr != nil {
		return 0, s.batchErr
	}
	return int64(len(in)), nil
}

func (s *noteStore) Update(ctx context.Context, id string, in updateNote) (note, error) {
	return note{ID: id, Body: *in.Body}, nil
}

func (s *noteStore) Aggregate(ctx context.Context, filter noteFilter, spec fop.AggregateSpec) (fop.AggregateResult, error) {
	return fop.AggregateResult{Count: 3}, nil
}

func newRepo(store *noteStore) repositories.Repository[note, createNote, updateNote, noteFilter] {
	return repositories.NewRepository(logger.Discard(), "note", store)
}

func TestCreateValidates(t *testing.T) {
	store := &noteStore{}
	repo := newRepo(store)

	_, err := repo.Create(context.Background(), createNote{})
	require.ErrorIs(t, err, repositories.ErrValidation)
	require.EqualError(t, err, "create note: validation failed: body is required")
	require.Empty(t, store.created)

	n, err := repo.Create(context.Background(), createNote{Body: "hi"})
	require.NoError(t, err)
	require.Equal(t, "hi", n.Body)
}

func TestUpdateKeepsValidationFamily(t *testing.T) {
	repo := newRepo(&noteStore{})

	empty := ""
	_, err := repo.Update(context.Background(), "n1", updateNote{Body: &empty})
	require.ErrorIs(t, err, repositories.ErrValidation)
	require.EqualError(t, err, "update note n1: validation failed: body cannot be empty")

	body := "edited"
	n, err := repo.Update(context.Background(), "n1", updateNote{Body: &body})
	require.NoError(t, err)
	require.Equal(t, "edited", n.Body)
}

func TestCreateManyValidatesEveryRow(t *testing.T) {
	repo := newRepo(&noteStore{})

	_, err := repo.CreateMany(context.Background(), []createNote{{Body: "a"}, {}}, false)
	require.ErrorIs(t, err, repositories.ErrValidation)
	require.ErrorContains(t, err, "row 1")

	n, err := repo.CreateMany(context.Background(), []createNote{{Body: "a"}, {Body: "b"}}, true)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
}

func TestErrorsAreWrapped(t *testing.T) {
	storeErr := fmt.Errorf("%w: no rows", repositories.ErrNotFound)
	repo := newRepo(&noteStore{getErr: storeErr, batchErr: repositories.ErrDuplicate})

	_, err := repo.Get(context.Background(), "n9")
	require.ErrorIs(t, err, repositories.ErrNotFound)
	require.EqualError(t, err, "get note n9: record not found: no rows")

	_, err = repo.CreateMany(context.Background(), []createNote{{Body: "a"}}, false)
	require.ErrorIs(t, err, repositories.ErrDuplicate)
}

func TestAggregatePassesThrough(t *testing.T) {
	repo := newRepo(&noteStore{})
	res, err := repo.Aggregate(context.Background(), noteFilter{}, fop.AggregateSpec{Count: true})
	require.NoError(t, err)
	require.EqualValues(t, 3, res.Count)
}
