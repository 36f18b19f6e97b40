package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yourorg/realty-agent-api/internal/store"
	"github.com/yourorg/realty-agent-api/smythos"
)

type ShapeReader interface {
	ShapeCounts(ctx context.Context, domain string) (map[string]int64, error)
}

type SnapshotReader interface {
	RecentSnapshots(ctx context.Context, domain string, limit int) ([]store.Snapshot, error)
}

// DiagnosticsDeps may leave either reader nil; its route then answers 503.
type DiagnosticsDeps struct {
	Shapes    ShapeReader
	Snapshots SnapshotReader
}

var domains = []string{
	smythos.DomainListings,
	smythos.DomainPropertyDetail,
	smythos.DomainAgentProfiles,
	smythos.DomainNeighborhood,
	smythos.DomainAdvertisements,
}

func knownDomain(s string) bool {
	for _, d := range domains {
		if d == s {
			return true
		}
	}
	return false
}

type snapshotView struct {
	ID          string    `json:"id"`
	Domain      string    `json:"domain"`
	Endpoint    string    `json:"endpoint"`
	QueryKey    string    `json:"query_key"`
	Variant     string    `json:"variant"`
	MatchedPath string    `json:"matched_path,omitempty"`
	RecordCount int       `json:"record_count"`
	PayloadSHA  string    `json:"payload_sha256"`
	Payload     string    `json:"payload,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
}

func RegisterDiagnostics(r chi.Router, d DiagnosticsDeps) {
	// counts keyed "<variant>|<matched path>", per domain
	r.Get("/api/diagnostics/shapes", func(w http.ResponseWriter, req *http.Request) {
		if d.Shapes == nil {
			respondFail(w, req, http.StatusServiceUnavailable, "Shape counters are not configured")
			return
		}
		want := domains
		if dom := req.URL.Query().Get("domain"); dom != "" {
			if !knownDomain(dom) {
				respondFail(w, req, http.StatusBadRequest, "Unknown domain")
				return
			}
			want = []string{dom}
		}
		out := make(map[string]map[string]int64, len(want))
		for _, dom := range want {
			counts, err := d.Shapes.ShapeCounts(req.Context(), dom)
			if err != nil {
				respondError(w, req, err)
				return
			}
			out[dom] = counts
		}
		respondOK(w, req, out, "Shape counts retrieved successfully")
	})

	r.Get("/api/diagnostics/snapshots", func(w http.ResponseWriter, req *http.Request) {
		if d.Snapshots == nil {
			respondFail(w, req, http.StatusServiceUnavailable, "Snapshot archive is not configured")
			return
		}
		q := req.URL.Query()
		dom := q.Get("domain")
		if !knownDomain(dom) {
			respondFail(w, req, http.StatusBadRequest, "A known domain is required")
			return
		}
		limit, _ := strconv.Atoi(q.Get("limit"))
		withPayload := q.Get("payload") == "true"

		snaps, err := d.Snapshots.RecentSnapshots(req.Context(), dom, limit)
		if err != nil {
			respondError(w, req, err)
			return
		}
		out := make([]snapshotView, 0, len(snaps))
		for _, s := range snaps {
			v := snapshotView{
				ID:          s.ID,
				Domain:      s.Domain,
				Endpoint:    s.Endpoint,
				QueryKey:    s.QueryKey,
				Variant:     s.Variant,
				MatchedPath: s.MatchedPath,
				RecordCount: s.RecordCount,
				PayloadSHA:  s.PayloadSHA,
				FetchedAt:   s.FetchedAt,
			}
			if withPayload {
				v.Payload = s.Payload
			}
			out = append(out, v)
		}
		respondOK(w, req, out, "Snapshots retrieved successfully")
	})
}
