package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yourorg/realty-agent-api/internal/canon"
	"github.com/yourorg/realty-agent-api/smythos"
)

type GenerateAdsRequest struct {
	Location     smythos.StringNumber `json:"location"`
	PropertyType smythos.StringNumber `json:"property_type"`
	PriceRange   smythos.StringNumber `json:"price_range,omitempty"`
	AdType       smythos.StringNumber `json:"ad_type,omitempty"`
	Count        smythos.StringNumber `json:"count,omitempty"`
}

func RegisterAds(r chi.Router, d Deps) {
	r.Post("/api/ads/generate", func(w http.ResponseWriter, req *http.Request) {
		var body GenerateAdsRequest
		if err := decodeBody(req, &body); err != nil {
			respondFail(w, req, http.StatusBadRequest, "Invalid request data")
			return
		}
		if body.Location == "" || body.PropertyType == "" {
			respondFail(w, req, http.StatusBadRequest, "Location and property type are required")
			return
		}
		up := map[string]string{
			"location":      string(body.Location),
			"property_type": string(body.PropertyType),
			"price_range":   string(body.PriceRange),
			"ad_type":       body.AdType.Or("general"),
			"count":         body.Count.Or("5"),
		}

		raw, v, err := d.fetch(req.Context(), smythos.EndpointGenerateAds, http.MethodPost, up, nil)
		if err != nil {
			respondError(w, req, err)
			return
		}
		ads, tr := smythos.Advertisements(v)
		d.record(smythos.EndpointGenerateAds, canon.QueryKey(up["location"], up["property_type"], up["ad_type"]), raw, tr)
		respondOK(w, req, ads, "Property ads generated successfully")
	})
}
