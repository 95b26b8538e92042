package postgresdb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "email", want: `"email"`},
		{in: "checked_in_at", want: `"checked_in_at"`},
		{in: "public.events", want: `"public"."events"`},
		{in: "_version", want: `"_version"`},
		{in: "events e", wantErr: true},
		{in: "a.b.c", wantErr: true},
		{in: "1abc", wantErr: true},
		{in: "email;", wantErr: true},
		{in: `na"me`, wantErr: true},
		{in: "count(*)", wantErr: true},
		{in: "public.", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := QuoteIdentifier(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestEscapeLike(t *testing.T) {
	require.Equal(t, `a\\b\%c\_d`, EscapeLike(`a\b%c_d`))
	require.Equal(t, "plain", EscapeLike("plain"))
}
