package results

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cthoyt/pyrdle/assets"
	"github.com/cthoyt/pyrdle/internal/exclusivity"
	"github.com/cthoyt/pyrdle/internal/sim"
)

func openTestDB(t *testing.T) *Store {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "sub", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db, assets.Migrations()))
	return NewStore(db)
}

var sample = []Row{
	{Rank: 1, Words: []string{"abcde", "fghij"}, Score: 0.56, Success: 1, Speed: 2.5},
	{Rank: 2, Words: []string{"abcde", "klmno"}, Score: 0.5, Success: 0.8, Speed: 2.75, Failures: 1},
}

func TestMigrate_Idempotent(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db, assets.Migrations()))
	require.NoError(t, Migrate(db, assets.Migrations()))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestStore_SaveAndGet(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	id, err := s.Save(ctx, Run{CreatedAt: created, Locale: "en", Length: 5, Height: 6, K: 2, N: 2, Player: "cached", Rows: sample})
	require.NoError(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.True(t, created.Equal(got.CreatedAt))
	assert.Equal(t, "cached", got.Player)
	assert.Equal(t, sample, got.Rows)
}

func TestStore_List(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()
	for _, locale := range []string{"en", "de", "en"} {
		_, err := s.Save(ctx, Run{Locale: locale, Length: 5, Height: 6, K: 2, N: 2, Player: "greedy"})
		require.NoError(t, err)
	}

	runs, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Greater(t, runs[0].ID, runs[1].ID)
	assert.Equal(t, "de", runs[1].Locale)
	assert.Empty(t, runs[0].Rows)
}

func TestStore_GetMissing(t *testing.T) {
	_, err := openTestDB(t).Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFromOpenings(t *testing.T) {
	h := sim.Histogram{Wins: map[int]int{2: 3}, Failures: 1, Total: 4}
	rows := FromOpenings([]sim.Opening{{Words: exclusivity.Tuple{"abcde"}, Score: 0.3, Success: 0.75, Speed: 1.5, Histogram: h}})
	require.Len(t, rows, 1)
	assert.Equal(t, Row{Rank: 1, Words: []string{"abcde"}, Score: 0.3, Success: 0.75, Speed: 1.5, Failures: 1}, rows[0])
}

func TestWriteTSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTSV(&buf, sample))
	want := "word0\tword1\tscore\tsuccess\tspeed\n" +
		"abcde\tfghij\t0.56\t1\t2.5\n" +
		"abcde\tklmno\t0.5\t0.8\t2.75\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteTSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTSV(&buf, nil))
	assert.Equal(t, "score\tsuccess\tspeed\n", buf.String())
}

func TestWriteTSV_RaggedRows(t *testing.T) {
	rows := append([]Row(nil), sample...)
	rows = append(rows, Row{Rank: 3, Words: []string{"pqrst"}})
	assert.Error(t, WriteTSV(&bytes.Buffer{}, rows))
}
