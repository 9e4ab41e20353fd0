package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations_Paired(t *testing.T) {
	names, err := fs.Glob(files, "sql/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	ups, downs := 0, 0
	for _, name := range names {
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups++
			assert.Contains(t, names, strings.TrimSuffix(name, ".up.sql")+".down.sql")
		case strings.HasSuffix(name, ".down.sql"):
			downs++
		default:
			t.Errorf("unexpected migration file %s", name)
		}
	}
	assert.Equal(t, ups, downs)
}

func TestEmbeddedMigrations_Source(t *testing.T) {
	source, err := iofs.New(files, "sql")
	require.NoError(t, err)
	defer source.Close()

	first, err := source.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)
}

func TestRSVPTable_UniquePerUserAndEvent(t *testing.T) {
	body, err := fs.ReadFile(files, "sql/000003_create_rsvps_table.up.sql")
	require.NoError(t, err)

	sql := string(body)
	assert.Contains(t, sql, "UNIQUE KEY uq_rsvps_user_event (user_id, event_id)")
	assert.NotContains(t, sql, "FOREIGN KEY")
}

func TestDown_RejectsNonPositiveSteps(t *testing.T) {
	err := Down(nil, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps must be positive")
}
