package personio

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/cmlabs-hris/timesheet-reports/internal/domain/personio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock(h, m int) *time.Time {
	t := time.Date(2024, 5, 3, h, m, 0, 0, time.UTC)
	return &t
}

func TestNetDuration(t *testing.T) {
	tests := []struct {
		name       string
		start, end *time.Time
		breakHours float64
		want       float64
	}{
		{"regular day", clock(9, 0), clock(17, 30), 0.5, 8},
		{"no break", clock(8, 15), clock(9, 0), 0, 0.75},
		{"equal start and end", clock(9, 0), clock(9, 0), 0.5, -0.5},
		{"end before start", clock(17, 0), clock(9, 0), 0, -8},
		{"missing start", nil, clock(17, 0), 1, 0},
		{"missing end", clock(9, 0), nil, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NetDuration(tt.start, tt.end, tt.breakHours), 1e-9)
		})
	}
}

func TestNormalizeAttendance(t *testing.T) {
	t.Run("flat project id and seconds", func(t *testing.T) {
		raw := json.RawMessage(`{"id":"a-1","attributes":{"employee_id":"42","date":"2024-05-03T00:00:00+02:00","start_time":"09:00:00","end_time":"12:30:00","break":30,"comment":" review ","project_id":7}}`)

		a, err := normalizeAttendance(0, raw)
		require.NoError(t, err)
		assert.Equal(t, "a-1", a.ID)
		assert.Equal(t, 42, a.EmployeeID)
		assert.Equal(t, 7, a.ProjectID)
		assert.Equal(t, time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), a.Day())
		assert.InDelta(t, 3.0, a.DurationNet, 1e-9)
		assert.Equal(t, "review", a.Comment)
	})

	t.Run("missing clock times", func(t *testing.T) {
		raw := json.RawMessage(`{"id":5,"attributes":{"employee":1,"date":"2024-05-03","break":60,"project":{"id":3}}}`)

		a, err := normalizeAttendance(0, raw)
		require.NoError(t, err)
		assert.Nil(t, a.StartTime)
		assert.Zero(t, a.DurationNet)
		assert.InDelta(t, 1.0, a.Break, 1e-9)
		assert.Equal(t, 3, a.ProjectID)
	})

	t.Run("missing employee", func(t *testing.T) {
		raw := json.RawMessage(`{"id":5,"attributes":{"date":"2024-05-03"}}`)

		_, err := normalizeAttendance(4, raw)
		var malformed *personio.MalformedResponseError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, "employee", malformed.Field)
		assert.Equal(t, 4, malformed.Index)
	})

	t.Run("bad clock", func(t *testing.T) {
		raw := json.RawMessage(`{"id":5,"attributes":{"employee":1,"date":"2024-05-03","start_time":"nine"}}`)

		_, err := normalizeAttendance(0, raw)
		var malformed *personio.MalformedResponseError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, "start_time", malformed.Field)
	})
}

func TestNormalizeProject_BadTimestamp(t *testing.T) {
	raw := json.RawMessage(`{"id":1,"attributes":{"name":"_ext_Acme","created_at":"yesterday"}}`)

	_, err := normalizeProject(2, raw)
	var malformed *personio.MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "created_at", malformed.Field)
}
