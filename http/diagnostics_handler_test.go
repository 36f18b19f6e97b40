package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/realty-agent-api/internal/redisx"
	"github.com/yourorg/realty-agent-api/internal/store"
)

type fakeSnapshots struct {
	gotDomain string
	gotLimit  int
	snaps     []store.Snapshot
}

func (f *fakeSnapshots) RecentSnapshots(_ context.Context, domain string, limit int) ([]store.Snapshot, error) {
	f.gotDomain, f.gotLimit = domain, limit
	return f.snaps, nil
}

func diagnosticsRouter(d DiagnosticsDeps) http.Handler {
	r := chi.NewRouter()
	RegisterDiagnostics(r, d)
	return r
}

func TestDiagnosticsShapes(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := redisx.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = rc.Close() })

	ctx := context.Background()
	require.NoError(t, rc.IncrShape(ctx, "listings", "parsed", "Output.listings"))
	require.NoError(t, rc.IncrShape(ctx, "listings", "recovered", "listings"))
	require.NoError(t, rc.IncrShape(ctx, "neighborhood", "unrecognized", ""))

	h := diagnosticsRouter(DiagnosticsDeps{Shapes: rc})

	res, env := do(t, h, http.MethodGet, "/api/diagnostics/shapes", "")
	require.Equal(t, http.StatusOK, res.Code)
	var all map[string]map[string]int64
	require.NoError(t, json.Unmarshal(env.Data, &all))
	assert.Len(t, all, 5)
	assert.Equal(t, int64(1), all["listings"]["parsed|Output.listings"])
	assert.Equal(t, int64(1), all["neighborhood"]["unrecognized|-"])
	assert.Empty(t, all["advertisements"])

	res, env = do(t, h, http.MethodGet, "/api/diagnostics/shapes?domain=listings", "")
	require.Equal(t, http.StatusOK, res.Code)
	var one map[string]map[string]int64
	require.NoError(t, json.Unmarshal(env.Data, &one))
	assert.Len(t, one, 1)

	res, _ = do(t, h, http.MethodGet, "/api/diagnostics/shapes?domain=weather", "")
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestDiagnostics_NotConfigured(t *testing.T) {
	h := diagnosticsRouter(DiagnosticsDeps{})

	res, env := do(t, h, http.MethodGet, "/api/diagnostics/shapes", "")
	assert.Equal(t, http.StatusServiceUnavailable, res.Code)
	assert.False(t, env.Success)

	res, _ = do(t, h, http.MethodGet, "/api/diagnostics/snapshots?domain=listings", "")
	assert.Equal(t, http.StatusServiceUnavailable, res.Code)
}

func TestDiagnosticsSnapshots(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	fs := &fakeSnapshots{snaps: []store.Snapshot{{
		ID: "abc", Domain: "agent_profiles", Endpoint: "/api/agent_profiles",
		Variant: "recovered", MatchedPath: "agents", RecordCount: 3,
		Payload: "text {}", PayloadSHA: "ff", FetchedAt: at,
	}}}
	h := diagnosticsRouter(DiagnosticsDeps{Snapshots: fs})

	res, env := do(t, h, http.MethodGet, "/api/diagnostics/snapshots?domain=agent_profiles&limit=5", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "agent_profiles", fs.gotDomain)
	assert.Equal(t, 5, fs.gotLimit)

	var views []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &views))
	require.Len(t, views, 1)
	assert.Equal(t, "recovered", views[0]["variant"])
	assert.NotContains(t, views[0], "payload")

	_, env = do(t, h, http.MethodGet, "/api/diagnostics/snapshots?domain=agent_profiles&payload=true", "")
	require.NoError(t, json.Unmarshal(env.Data, &views))
	assert.Equal(t, "text {}", views[0]["payload"])

	res, _ = do(t, h, http.MethodGet, "/api/diagnostics/snapshots", "")
	assert.Equal(t, http.StatusBadRequest, res.Code)
}
