//go:build integration

package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	internaldb "taskhub/internal/db"
	"taskhub/internal/db/repository"
)

// runCLI executes the root command against a temp database and returns its
// combined output.
func runCLI(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--db", dbPath))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCreateAdmin_IsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cli.sqlite")

	out, err := runCLI(t, dbPath, "create-admin",
		"--email", "root@example.com", "--name", "Root", "--password", "password123")
	require.NoError(t, err)
	assert.Contains(t, out, "created admin root@example.com")

	// Second run reports instead of failing.
	out, err = runCLI(t, dbPath, "create-admin",
		"--email", "root@example.com", "--password", "password123")
	require.NoError(t, err)
	assert.Contains(t, out, "already an admin")

	db, err := internaldb.OpenWriter(dbPath)
	require.NoError(t, err)
	defer db.Close()

	user, err := repository.NewUserRepo(db).GetByEmail(context.Background(), "root@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
	assert.True(t, user.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
}

func TestCreateAdmin_PromotesExistingAccount(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cli.sqlite")

	// Seed a non-admin, then point create-admin at the same email.
	fixture := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(fixture, []byte(`
users:
  - email: worker@example.com
    display_name: Worker
    password: password123
`), 0o600))
	_, err := runCLI(t, dbPath, "seed", "--file", fixture)
	require.NoError(t, err)

	out, err := runCLI(t, dbPath, "create-admin", "--email", "worker@example.com", "--password", "password123")
	require.NoError(t, err)
	assert.Contains(t, out, "promoted worker@example.com")
}

func TestSeed_LoadsFixtureAndReseedSkipsUsers(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cli.sqlite")
	fixture := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(fixture, []byte(fixtureYAML), 0o600))

	out, err := runCLI(t, dbPath, "seed", "--file", fixture)
	require.NoError(t, err)
	assert.Contains(t, out, "created user admin@example.com")
	assert.Contains(t, out, `created task "write report"`)

	// Reseeding skips existing users by email.
	out, err = runCLI(t, dbPath, "seed", "--file", fixture)
	require.NoError(t, err)
	assert.NotContains(t, out, "created user")
}

func TestToken_RequiresExistingAccount(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cli.sqlite")
	t.Setenv("JWT_SECRET", "test-secret-32-bytes-long-xxxxx")

	_, err := runCLI(t, dbPath, "token", "--email", "ghost@example.com")
	require.Error(t, err)

	_, err = runCLI(t, dbPath, "create-admin",
		"--email", "root@example.com", "--password", "password123")
	require.NoError(t, err)

	out, err := runCLI(t, dbPath, "token", "--email", "root@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
