package pgxstore_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jrazmi/eventhub/core/repositories"
	"github.com/jrazmi/eventhub/core/repositories/pgxstore"
	"github.com/jrazmi/eventhub/core/scaffolding/fop"
	"github.com/jrazmi/eventhub/infrastructure/postgresdb"
)

func TestStoreError(t *testing.T) {
	other := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"not found", postgresdb.ErrDBNotFound, repositories.ErrNotFound},
		{"duplicate", fmt.Errorf("events_slug_key: %w", postgresdb.ErrDBDuplicatedEntry), repositories.ErrDuplicate},
		{"foreign key", postgresdb.ErrDBForeignKey, repositories.ErrInvalidReference},
		{"check", postgresdb.ErrDBConstraint, repositories.ErrValidation},
		{"no fields", postgresdb.ErrNoFields, repositories.ErrValidation},
		{"order", fop.ErrUnknownOrderField, repositories.ErrValidation},
		{"no predicate", postgresdb.ErrNoPredicate, repositories.ErrUnboundedDelete},
		{"other", other, other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pgxstore.StoreError(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.err)
		})
	}

	assert.NoError(t, pgxstore.StoreError(nil))
}
