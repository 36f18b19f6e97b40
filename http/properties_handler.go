package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yourorg/realty-agent-api/internal/canon"
	"github.com/yourorg/realty-agent-api/smythos"
)

type GenerateListingsRequest struct {
	Location     smythos.StringNumber `json:"location"`
	MinPrice     smythos.StringNumber `json:"min_price,omitempty"`
	MaxPrice     smythos.StringNumber `json:"max_price,omitempty"`
	Bedrooms     smythos.StringNumber `json:"bedrooms,omitempty"`
	Bathrooms    smythos.StringNumber `json:"bathrooms,omitempty"`
	PropertyType smythos.StringNumber `json:"property_type,omitempty"`
	Features     any                  `json:"features,omitempty"` // string or list, forwarded as sent
	Count        smythos.StringNumber `json:"count,omitempty"`
}

type generateListingsBody struct {
	Location     string `json:"location"`
	MinPrice     string `json:"min_price"`
	MaxPrice     string `json:"max_price"`
	Bedrooms     string `json:"bedrooms"`
	Bathrooms    string `json:"bathrooms"`
	PropertyType string `json:"property_type"`
	Features     any    `json:"features"`
	Count        string `json:"count"`
}

type PropertyDetailRequest struct {
	PropertyID   smythos.StringNumber `json:"property_id"`
	PropertyType smythos.StringNumber `json:"property_type"`
	Location     smythos.StringNumber `json:"location"`
}

func RegisterProperties(r chi.Router, d Deps) {
	r.Post("/api/properties/generate-listings", func(w http.ResponseWriter, req *http.Request) {
		var body GenerateListingsRequest
		if err := decodeBody(req, &body); err != nil {
			respondFail(w, req, http.StatusBadRequest, "Invalid request data")
			return
		}
		if body.Location == "" {
			respondFail(w, req, http.StatusBadRequest, "Location is required")
			return
		}
		features := body.Features
		if features == nil {
			features = ""
		}
		up := generateListingsBody{
			Location:     string(body.Location),
			MinPrice:     string(body.MinPrice),
			MaxPrice:     string(body.MaxPrice),
			Bedrooms:     string(body.Bedrooms),
			Bathrooms:    string(body.Bathrooms),
			PropertyType: string(body.PropertyType),
			Features:     features,
			Count:        body.Count.Or("10"),
		}

		raw, v, err := d.fetch(req.Context(), smythos.EndpointGenerateListings, http.MethodPost, up, nil)
		if err != nil {
			respondError(w, req, err)
			return
		}
		listings, tr := smythos.Listings(v)
		d.record(smythos.EndpointGenerateListings, canon.QueryKey(up.Location, up.PropertyType), raw, tr)
		respondOK(w, req, listings, "Property listings generated successfully")
	})

	r.Post("/api/properties/details", func(w http.ResponseWriter, req *http.Request) {
		var body PropertyDetailRequest
		if err := decodeBody(req, &body); err != nil {
			respondFail(w, req, http.StatusBadRequest, "Invalid request data")
			return
		}
		if body.PropertyID == "" || body.PropertyType == "" || body.Location == "" {
			respondFail(w, req, http.StatusBadRequest, "Property ID, property type, and location are required")
			return
		}
		up := map[string]string{
			"property_id":   string(body.PropertyID),
			"property_type": string(body.PropertyType),
			"location":      string(body.Location),
		}

		raw, v, err := d.fetch(req.Context(), smythos.EndpointPropertyDetail, http.MethodPost, up, nil)
		if err != nil {
			respondError(w, req, err)
			return
		}
		detail, tr := smythos.PropertyDetails(v)
		d.record(smythos.EndpointPropertyDetail, canon.QueryKey(up["location"], up["property_type"], up["property_id"]), raw, tr)
		respondOK(w, req, detail, "Property details retrieved successfully")
	})
}
