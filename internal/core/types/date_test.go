package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_Layouts(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-07T10:20:30Z", time.Date(2024, 3, 7, 10, 20, 30, 0, time.UTC)},
		{"2024-03-07T10:20:30", time.Date(2024, 3, 7, 10, 20, 30, 0, time.UTC)},
		{"2024-03-07", time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseDate(tt.in)
			require.NoError(t, err)
			assert.True(t, d.Valid)
			assert.True(t, tt.want.Equal(d.Time))
		})
	}

	_, err := ParseDate("07/03/2024")
	assert.Error(t, err)
}

func TestNullDate_JSON(t *testing.T) {
	var payload struct {
		At   NullDate `json:"at"`
		Miss NullDate `json:"miss"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"at":"2024-01-02","miss":null}`), &payload))

	assert.True(t, payload.At.Valid)
	assert.False(t, payload.Miss.Valid)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"2024-01-02T00:00:00Z","miss":null}`, string(out))
}
