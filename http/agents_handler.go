package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yourorg/realty-agent-api/internal/canon"
	"github.com/yourorg/realty-agent-api/smythos"
)

type AgentProfilesRequest struct {
	Location    smythos.StringNumber `json:"location"`
	Count       smythos.StringNumber `json:"count,omitempty"`
	Specialties smythos.StringNumber `json:"specialties,omitempty"`
}

func RegisterAgents(r chi.Router, d Deps) {
	r.Post("/api/agents/profiles", func(w http.ResponseWriter, req *http.Request) {
		var body AgentProfilesRequest
		if err := decodeBody(req, &body); err != nil {
			respondFail(w, req, http.StatusBadRequest, "Invalid request data")
			return
		}
		if body.Location == "" {
			respondFail(w, req, http.StatusBadRequest, "Location is required")
			return
		}
		up := map[string]string{
			"location":    string(body.Location),
			"count":       body.Count.Or("10"),
			"specialties": string(body.Specialties),
		}

		raw, v, err := d.fetch(req.Context(), smythos.EndpointAgentProfiles, http.MethodPost, up, nil)
		if err != nil {
			respondError(w, req, err)
			return
		}
		agents, tr := smythos.AgentProfiles(v)
		d.record(smythos.EndpointAgentProfiles, canon.QueryKey(up["location"], up["specialties"]), raw, tr)
		respondOK(w, req, agents, "Agent profiles retrieved successfully")
	})
}
