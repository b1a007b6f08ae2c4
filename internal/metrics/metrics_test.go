package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/dbseed/pkg/dbseed"
)

func newRecorder(t *testing.T) *Recorder {
	t.Helper()
	r, err := New()
	require.NoError(t, err)
	return r
}

func TestRecorder_CountsReadsAndLoads(t *testing.T) {
	r := newRecorder(t)

	r.FileReading("users.json")
	r.FileRead("users.json", 2)
	r.FileRead("posts.yml", 3)

	r.FixtureLoaded(0, dbseed.Fixture{Table: "users"})
	r.FixtureLoaded(1, dbseed.Fixture{Table: "users"})
	r.FixtureLoaded(2, dbseed.Fixture{Table: "posts"})

	assert.Equal(t, 2.0, testutil.ToFloat64(r.filesRead))
	assert.Equal(t, 5.0, testutil.ToFloat64(r.fixturesRead))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.fixturesLoaded.WithLabelValues("users")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fixturesLoaded.WithLabelValues("posts")))
}

func TestRecorder_ObserveRun(t *testing.T) {
	r := newRecorder(t)
	finished := time.Unix(1700000000, 0)

	r.ObserveRun(1500*time.Millisecond, nil, finished)
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runSuccess))
	assert.Equal(t, 1.5, testutil.ToFloat64(r.runDuration))
	assert.Equal(t, float64(1700000000), testutil.ToFloat64(r.runTimestamp))

	r.ObserveRun(time.Second, errors.New("boom"), finished)
	assert.Equal(t, 0.0, testutil.ToFloat64(r.runSuccess))
}

func TestRecorder_AsObserverFanOut(t *testing.T) {
	r := newRecorder(t)
	obs := dbseed.Observers{dbseed.NopObserver{}, r}
	obs.FileRead("a.json", 4)
	assert.Equal(t, 4.0, testutil.ToFloat64(r.fixturesRead))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := newRecorder(t)
	r.FileRead("users.json", 2)
	r.FixtureLoaded(0, dbseed.Fixture{Table: "users"})

	path := filepath.Join(t.TempDir(), "dbseed.prom")
	require.NoError(t, r.WriteTextfile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "dbseed_files_read_total 1")
	assert.Contains(t, string(content), `dbseed_fixtures_loaded_total{table="users"} 1`)
}

func TestRecorder_WriteTextfileErrors(t *testing.T) {
	r := newRecorder(t)

	assert.ErrorIs(t, r.WriteTextfile(""), dbseed.ErrInvalidArgument)

	err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "dbseed.prom"))
	assert.Error(t, err)
}
