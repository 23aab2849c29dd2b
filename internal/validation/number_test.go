package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  struct {
			finite bool
			id     int64
			ok     bool
		}
	}{
		{
			name:  "integer",
			input: `7`,
			want: struct {
				finite bool
				id     int64
				ok     bool
			}{finite: true, id: 7, ok: true},
		},
		{
			name:  "numeric string",
			input: `" 42 "`,
			want: struct {
				finite bool
				id     int64
				ok     bool
			}{finite: true, id: 42, ok: true},
		},
		{
			name:  "true",
			input: `true`,
			want: struct {
				finite bool
				id     int64
				ok     bool
			}{finite: true, id: 1, ok: true},
		},
		{
			name:  "null is zero",
			input: `null`,
			want: struct {
				finite bool
				id     int64
				ok     bool
			}{finite: true},
		},
		{
			name:  "blank string is zero",
			input: `""`,
			want: struct {
				finite bool
				id     int64
				ok     bool
			}{finite: true},
		},
		{
			name:  "fraction is not an id",
			input: `1.5`,
			want: struct {
				finite bool
				id     int64
				ok     bool
			}{finite: true},
		},
		{
			name:  "negative is not an id",
			input: `-3`,
			want: struct {
				finite bool
				id     int64
				ok     bool
			}{finite: true},
		},
		{
			name:  "garbage string",
			input: `"abc"`,
		},
		{
			name:  "infinity spelled out",
			input: `"Infinity"`,
		},
		{
			name:  "object",
			input: `{"id":1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Number
			require.NoError(t, json.Unmarshal([]byte(tt.input), &n))

			assert.Equal(t, tt.want.finite, n.Finite())
			id, ok := n.Int64()
			assert.Equal(t, tt.want.ok, ok)
			assert.Equal(t, tt.want.id, id)
		})
	}
}
