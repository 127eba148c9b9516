package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureYAML = `
users:
  - email: admin@example.com
    display_name: Admin
    password: password123
    is_admin: true
  - email: worker@example.com
    display_name: Worker
    password: password123
tasks:
  - title: write report
    description: quarterly numbers
    status: in_progress
    priority: high
    start_date: 2026-09-01T00:00:00Z
    end_date: 2026-09-08T00:00:00Z
    creator: admin@example.com
    assignee: worker@example.com
`

func TestParseFixture(t *testing.T) {
	fixture, err := parseFixture([]byte(fixtureYAML))
	require.NoError(t, err)

	require.Len(t, fixture.Users, 2)
	assert.True(t, fixture.Users[0].IsAdmin)
	assert.False(t, fixture.Users[1].IsAdmin)

	require.Len(t, fixture.Tasks, 1)
	task := fixture.Tasks[0]
	assert.Equal(t, "in_progress", task.Status)
	assert.Equal(t, "admin@example.com", task.Creator)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), task.StartDate)
}

func TestParseFixture_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "unknown status",
			yaml: `
users:
  - {email: a@b.co, display_name: A, password: password123}
tasks:
  - {title: t, status: paused, start_date: 2026-09-01T00:00:00Z, end_date: 2026-09-02T00:00:00Z, creator: a@b.co, assignee: a@b.co}
`,
		},
		{
			name: "missing assignee",
			yaml: `
tasks:
  - {title: t, start_date: 2026-09-01T00:00:00Z, end_date: 2026-09-02T00:00:00Z, creator: a@b.co}
`,
		},
		{
			name: "weak user password",
			yaml: `
users:
  - {email: a@b.co, display_name: A, password: short}
`,
		},
		{
			name: "not yaml",
			yaml: `{{`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFixture([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}
