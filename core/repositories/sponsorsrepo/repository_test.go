package sponsorsrepo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrazmi/eventhub/core/repositories"
	"github.com/jrazmi/eventhub/core/repositories/sponsorsrepo"
	"github.com/jrazmi/eventhub/sdk/logger"
)

type store struct {
	sponsorsrepo.Storer
	visible []sponsorsrepo.Sponsor
}

func (s *store) ListVisibleByEventID(ctx context.Context, eventID string) ([]sponsorsrepo.Sponsor, error) {
	return s.visible, nil
}

func TestCreateRejectsUnknownLevel(t *testing.T) {
	repo := sponsorsrepo.NewRepository(logger.Discard(), &store{})
	level := "DIAMOND"

	_, err := repo.Create(context.Background(), sponsorsrepo.CreateSponsor{EventID: "e1", Name: "Acme", Level: &level})
	require.ErrorIs(t, err, repositories.ErrValidation)
	assert.ErrorContains(t, err, `level "DIAMOND" must be one of`)
}

func TestUpdateValidate(t *testing.T) {
	blank := " "
	level := "gold"

	assert.ErrorContains(t, sponsorsrepo.UpdateSponsor{Name: &blank}.Validate(), "name cannot be empty")
	assert.ErrorContains(t, sponsorsrepo.UpdateSponsor{Level: &level}.Validate(), "must be one of")

	ok := sponsorsrepo.LevelGold
	assert.NoError(t, sponsorsrepo.UpdateSponsor{Level: &ok}.Validate())
}

func TestListVisibleByEventIDOrder(t *testing.T) {
	s := &store{visible: []sponsorsrepo.Sponsor{
		{Name: "Zeta", Level: sponsorsrepo.LevelPartner},
		{Name: "Beta", Level: sponsorsrepo.LevelGold},
		{Name: "Alpha", Level: sponsorsrepo.LevelGold},
		{Name: "Omega", Level: sponsorsrepo.LevelPlatinum},
		{Name: "Mystery", Level: "LEGACY"},
	}}
	repo := sponsorsrepo.NewRepository(logger.Discard(), s)

	got, err := repo.ListVisibleByEventID(context.Background(), "e1")
	require.NoError(t, err)

	names := make([]string, len(got))
	for i, sp := range got {
		names[i] = sp.Name
	}
	assert.Equal(t, []string{"Omega", "Alpha", "Beta", "Zeta", "Mystery"}, names)
}
