package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS upstream_snapshots").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_snapshots_domain").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_snapshots_sha").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	s := &Store{DB: mock}
	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_StopsOnError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS upstream_snapshots").
		WillReturnError(errors.New("permission denied"))

	s := &Store{DB: mock}
	err = s.Migrate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store: migrate")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteSnapshot(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	payload := `{"Output":{"listings":[]}}`
	sum := sha256.Sum256([]byte(payload))
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO upstream_snapshots").
		WithArgs(pgxmock.AnyArg(), "listings", "/api/generate_listings", "SEATTLE WA", "parsed",
			"Output.listings", 0, payload, hex.EncodeToString(sum[:]), at).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	s := &Store{DB: mock}
	id, err := s.WriteSnapshot(context.Background(), Snapshot{
		Domain:      "listings",
		Endpoint:    "/api/generate_listings",
		QueryKey:    "SEATTLE WA",
		Variant:     "parsed",
		MatchedPath: "Output.listings",
		Payload:     payload,
		FetchedAt:   at,
	})
	require.NoError(t, err)
	assert.Len(t, id, 36)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteSnapshot_NilDB(t *testing.T) {
	var s *Store
	_, err := s.WriteSnapshot(context.Background(), Snapshot{Domain: "listings"})
	require.Error(t, err)
}

func TestRecentSnapshots(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{
		"id", "domain", "endpoint", "query_key", "variant", "matched_path",
		"record_count", "payload", "payload_sha256", "fetched_at",
	}).
		AddRow("b1", "agent_profiles", "/api/agent_profiles", "REDMOND", "recovered", "agents", 2, "text {}", "abc", at).
		AddRow("a1", "agent_profiles", "/api/agent_profiles", "REDMOND", "unrecognized", "", 0, "nope", "def", at.Add(-time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM upstream_snapshots").
		WithArgs("agent_profiles", 20).
		WillReturnRows(rows)

	s := &Store{DB: mock}
	got, err := s.RecentSnapshots(context.Background(), "agent_profiles", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b1", got[0].ID)
	assert.Equal(t, "recovered", got[0].Variant)
	assert.Equal(t, 2, got[0].RecordCount)
	assert.Equal(t, "", got[1].MatchedPath)
	assert.NoError(t, mock.ExpectationsWereMet())
}
