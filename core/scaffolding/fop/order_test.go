package fop

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseOrder(t *testing.T) {
	fields := map[string]string{
		"title":     "title",
		"createdAt": "created_at",
	}
	def := NewBy("created_at", DESC)

	tests := []struct {
		in      string
		want    By
		wantErr error
	}{
		{in: "", want: def},
		{in: "title", want: By{Field: "title", Direction: ASC}},
		{in: "createdAt,desc", want: By{Field: "created_at", Direction: DESC}},
		{in: " createdAt , Asc ", want: By{Field: "created_at", Direction: ASC}},
		{in: "password", wantErr: ErrUnknownOrderField},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOrder(fields, tt.in, def)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseOrderBadDirection(t *testing.T) {
	_, err := ParseOrder(map[string]string{"title": "title"}, "title,up", By{})
	require.EqualError(t, err, "unknown direction: up")

	_, err = ParseOrder(map[string]string{"title": "title"}, "title,asc,desc", By{})
	require.Error(t, err)
}
