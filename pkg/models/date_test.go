package models

import (
	"testing"
	"time"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDate_DropsTimeOfDay(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC-7", -7*60*60)
	d := NewDate(time.Date(2026, 3, 10, 23, 59, 0, 0, loc))
	assert.Equal(t, "2026-03-10", d.String())
	assert.True(t, d.Equal(NewDate(time.Date(2026, 3, 10, 0, 0, 1, 0, time.UTC))))
}

func TestDate_Arithmetic(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2026-02-26")
	require.NoError(t, err)

	assert.Equal(t, "2026-03-19", d.AddDays(21).String())
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.AddDays(1).After(d))
	assert.False(t, d.Before(d))
}

func TestParseDate_RejectsOtherLayouts(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"03/10/2026", "2026-13-01", "2026-3-1", ""} {
		_, err := ParseDate(s)
		assert.Error(t, err, s)
	}
}

func TestDate_Scan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  any
		want string
		zero bool
	}{
		{"text", "2026-03-10", "2026-03-10", false},
		{"bytes", []byte("2026-03-10"), "2026-03-10", false},
		{"timestamp text", "2026-03-10 00:00:00+00:00", "2026-03-10", false},
		{"time", time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC), "2026-03-10", false},
		{"null", nil, "", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, d.Scan(tt.src))
			assert.Equal(t, tt.zero, d.IsZero())
			if !tt.zero {
				assert.Equal(t, tt.want, d.String())
			}
		})
	}

	var d Date
	assert.Error(t, d.Scan(42))
}

func TestDate_JSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Due  Date  `json:"due"`
		Back *Date `json:"back"`
	}

	d, err := ParseDate("2026-03-10")
	require.NoError(t, err)

	b, err := json.Marshal(payload{Due: d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2026-03-10","back":null}`, string(b))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"due":"","back":"2026-04-01"}`), &p))
	assert.True(t, p.Due.IsZero())
	require.NotNil(t, p.Back)
	assert.Equal(t, "2026-04-01", p.Back.String())

	assert.Error(t, json.Unmarshal([]byte(`{"due":"tomorrow"}`), &p))
}
