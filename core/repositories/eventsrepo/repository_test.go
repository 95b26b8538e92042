package eventsrepo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrazmi/eventhub/core/repositories"
	"github.com/jrazmi/eventhub/core/repositories/eventsrepo"
	"github.com/jrazmi/eventhub/sdk/logger"
)

type store struct {
	eventsrepo.Storer
	slugs    []string
	taken    map[string]bool
	prefixes []string
	created  []eventsrepo.CreateEvent
	batch    []eventsrepo.CreateEvent
	upserted []eventsrepo.CreateEvent
}

func (s *store) CreateMany(ctx context.Context, inputs []eventsrepo.CreateEvent, skipDuplicates bool) (int64, error) {
	s.batch = append(s.batch, inputs...)
	return int64(len(inputs)), nil
}

func (s *store) Upsert(ctx context.Context, create eventsrepo.CreateEvent, update eventsrepo.UpdateEvent) (eventsrepo.Event, error) {
	s.upserted = append(s.upserted, create)
	return eventsrepo.Event{ID: "e1", Title: create.Title, Slug: *create.Slug}, nil
}

func (s *store) SlugsWithPrefix(ctx context.Context, base string) ([]string, error) {
	s.prefixes = append(s.prefixes, base)
	return s.slugs, nil
}

func (s *store) Create(ctx context.Context, in eventsrepo.CreateEvent) (eventsrepo.Event, error) {
	s.created = append(s.created, in)
	if s.taken[*in.Slug] {
		// Another request took the slug between the lookup and the insert.
		s.slugs = append(s.slugs, *in.Slug)
		return eventsrepo.Event{}, fmt.Errorf("%w: events_slug_key", repositories.ErrDuplicate)
	}
	return eventsrepo.Event{ID: "e1", Title: in.Title, Slug: *in.Slug}, nil
}

func newEvent(title string) eventsrepo.CreateEvent {
	return eventsrepo.CreateEvent{
		UserID: "u1",
		Title:  title,
		Date:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestNextSlug(t *testing.T) {
	tests := []struct {
		name  string
		taken []string
		want  string
	}{
		{"free", nil, "gophercon"},
		{"taken", []string{"gophercon"}, "gophercon-2"},
		{"gap", []string{"gophercon", "gophercon-3"}, "gophercon-2"},
		{"run", []string{"gophercon", "gophercon-2", "gophercon-3"}, "gophercon-4"},
		{"unrelated", []string{"gophercon-eu"}, "gophercon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, eventsrepo.NextSlug("gophercon", tt.taken))
		})
	}
}

func TestCreateGeneratesSlug(t *testing.T) {
	s := &store{slugs: []string{"go-meetup-berlin"}}
	repo := eventsrepo.NewRepository(logger.Discard(), s)

	event, err := repo.Create(context.Background(), newEvent("Go Meetup: Berlin!"))
	require.NoError(t, err)
	require.Equal(t, "go-meetup-berlin-2", event.Slug)
	require.Equal(t, []string{"go-meetup-berlin"}, s.prefixes)
}

func TestCreateRetriesLostSlugRace(t *testing.T) {
	s := &store{taken: map[string]bool{"launch": true}}
	repo := eventsrepo.NewRepository(logger.Discard(), s)

	event, err := repo.Create(context.Background(), newEvent("Launch"))
	require.NoError(t, err)
	require.Equal(t, "launch-2", event.Slug)
	require.Len(t, s.created, 2)
}

func TestCreateGivesUpAfterAttempts(t *testing.T) {
	s := &store{taken: map[string]bool{"launch": true, "launch-2": true, "launch-3": true}}
	repo := eventsrepo.NewRepository(logger.Discard(), s)

	_, err := repo.Create(context.Background(), newEvent("Launch"))
	require.ErrorIs(t, err, repositories.ErrDuplicate)
	require.Len(t, s.created, 3)
}

func TestCreateKeepsExplicitSlug(t *testing.T) {
	s := &store{}
	repo := eventsrepo.NewRepository(logger.Discard(), s)

	in := newEvent("Launch")
	custom := "launch-party"
	in.Slug = &custom

	event, err := repo.Create(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, "launch-party", event.Slug)
	require.Empty(t, s.prefixes)
}

func TestCreateFallsBackForEmptySlug(t *testing.T) {
	s := &store{}
	repo := eventsrepo.NewRepository(logger.Discard(), s)

	event, err := repo.Create(context.Background(), newEvent("!!!"))
	require.NoError(t, err)
	require.Equal(t, "event", event.Slug)
}

func TestCreateManyGeneratesDistinctSlugs(t *testing.T) {
	s := &store{slugs: []string{"launch"}}
	repo := eventsrepo.NewRepository(logger.Discard(), s)

	explicit := newEvent("Launch Day")
	custom := "launch-3"
	explicit.Slug = &custom
	inputs := []eventsrepo.CreateEvent{newEvent("Launch"), newEvent("Launch"), explicit, newEvent("Meetup")}

	n, err := repo.CreateMany(context.Background(), inputs, false)
	require.NoError(t, err)
	require.EqualValues(t, 4, n)

	slugs := make([]string, len(s.batch))
	for i, in := range s.batch {
		slugs[i] = *in.Slug
	}
	require.Equal(t, []string{"launch-2", "launch-4", "launch-3", "meetup"}, slugs)
	require.Equal(t, []string{"launch", "meetup"}, s.prefixes)
	require.Nil(t, inputs[0].Slug)
}

func TestUpsertKeysOnTitleSlug(t *testing.T) {
	s := &store{slugs: []string{"launch"}}
	repo := eventsrepo.NewRepository(logger.Discard(), s)

	event, err := repo.Upsert(context.Background(), newEvent("Launch"), eventsrepo.UpdateEvent{})
	require.NoError(t, err)
	require.Equal(t, "launch", event.Slug)
	require.Empty(t, s.prefixes)

	in := newEvent("Launch")
	custom := "launch-party"
	in.Slug = &custom
	event, err = repo.Upsert(context.Background(), in, eventsrepo.UpdateEvent{})
	require.NoError(t, err)
	require.Equal(t, "launch-party", event.Slug)
}

func TestCreateEventValidate(t *testing.T) {
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	bad := "Not A Slug"

	tests := []struct {
		name   string
		mutate func(*eventsrepo.CreateEvent)
		errMsg string
	}{
		{"valid", func(*eventsrepo.CreateEvent) {}, ""},
		{"no user", func(c *eventsrepo.CreateEvent) { c.UserID = "" }, "userId is required"},
		{"blank title", func(c *eventsrepo.CreateEvent) { c.Title = "  " }, "title is required"},
		{"no date", func(c *eventsrepo.CreateEvent) { c.Date = time.Time{} }, "date is required"},
		{"bad slug", func(c *eventsrepo.CreateEvent) { c.Slug = &bad }, `slug "Not A Slug" is invalid`},
		{"end before start", func(c *eventsrepo.CreateEvent) { c.StartTime, c.EndTime = &start, &end }, "startTime must be before endTime"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := newEvent("Launch")
			tt.mutate(&in)
			err := in.Validate()
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.EqualError(t, err, tt.errMsg)
		})
	}
}

func TestUpdateEventValidate(t *testing.T) {
	blank := " "
	require.Error(t, eventsrepo.UpdateEvent{Title: &blank}.Validate())
	require.NoError(t, eventsrepo.UpdateEvent{}.Validate())
}
