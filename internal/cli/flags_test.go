package cli

import (
	"testing"
	"time"

	"github.com/alexanderramin/shopfloor/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeOfDayValue(t *testing.T) {
	var tod domain.TimeOfDay
	v := newTimeOfDayValue(&tod)
	assert.Empty(t, v.String(), "unset value prints nothing")
	assert.Equal(t, "HH:MM", v.Type())

	require.NoError(t, v.Set("6:30"))
	assert.Equal(t, domain.TimeOfDay(390), tod)
	assert.Equal(t, "06:30", v.String())

	assert.ErrorIs(t, v.Set("25:00"), domain.ErrInvalidShiftFormat)
	assert.Equal(t, domain.TimeOfDay(390), tod, "failed Set keeps the old value")
}

func TestPauseListValue(t *testing.T) {
	var pauses []domain.Pause
	v := &pauseListValue{pauses: &pauses}

	require.NoError(t, v.Set("10:00-10:15"))
	require.NoError(t, v.Set("12:00-12:30"))
	assert.Equal(t, "10:00-10:15,12:00-12:30", v.String())
	require.Len(t, pauses, 2)
	assert.Equal(t, domain.MustParseTimeOfDay("12:30"), pauses[1].End)

	assert.Error(t, v.Set("10:00"))
	assert.ErrorIs(t, v.Set("10:00-1015"), domain.ErrInvalidShiftFormat)
	assert.Len(t, pauses, 2)
}

func TestInstantValue(t *testing.T) {
	var at *time.Time
	v := &instantValue{t: &at}
	assert.Empty(t, v.String())

	require.NoError(t, v.Set("2025-06-02T06:00:00+02:00"))
	require.NotNil(t, at)
	assert.True(t, at.Equal(time.Date(2025, 6, 2, 4, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-06-02T06:00:00+02:00", v.String())

	assert.Error(t, v.Set("2025-06-02"))
}

func TestMatchID(t *testing.T) {
	ids := []string{"a1b2-0001", "a1b2-0002", "c3d4-0003"}
	names := []string{"Press-01", "Press-02", ""}

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr string
	}{
		{"exact id", "a1b2-0002", "a1b2-0002", ""},
		{"name ignores case", "press-01", "a1b2-0001", ""},
		{"unique prefix", "c3", "c3d4-0003", ""},
		{"ambiguous prefix", "a1b2", "", "ambiguous"},
		{"unknown", "zz", "", "not found"},
		{"empty", "", "", "required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := matchID("machine", tt.input, ids, names)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
