package httpapi

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/yourorg/realty-agent-api/internal/canon"
	"github.com/yourorg/realty-agent-api/smythos"
)

func RegisterNeighborhoods(r chi.Router, d Deps) {
	r.Get("/api/neighborhoods/data", func(w http.ResponseWriter, req *http.Request) {
		q := smythos.NeighborhoodQuery{
			Neighborhood: req.URL.Query().Get("neighborhood"),
			City:         req.URL.Query().Get("city"),
		}
		if q.Neighborhood == "" || q.City == "" {
			respondFail(w, req, http.StatusBadRequest, "Neighborhood and city are required")
			return
		}
		params := url.Values{}
		params.Set("neighborhood", q.Neighborhood)
		params.Set("city", q.City)

		raw, v, err := d.fetch(req.Context(), smythos.EndpointNeighborhoodData, http.MethodGet, nil, params)
		if err != nil {
			respondError(w, req, err)
			return
		}
		info, tr := smythos.Neighborhood(v, q)
		d.record(smythos.EndpointNeighborhoodData, canon.QueryKey(q.Neighborhood, q.City), raw, tr)
		respondOK(w, req, info, "Neighborhood data retrieved successfully")
	})
}
