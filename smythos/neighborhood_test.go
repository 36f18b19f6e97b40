package smythos

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var soma = NeighborhoodQuery{Neighborhood: "SoMa", City: "SF"}

func TestExtractNeighborhoodInfo_EmptyObject(t *testing.T) {
	got := ExtractNeighborhoodInfo(`{}`, soma)
	assert.Equal(t, "SoMa", got.Neighborhood)
	assert.Equal(t, "SF", got.City)
	assert.Equal(t, []string{}, got.Amenities)
	assert.Equal(t, []any{}, got.Schools)
	assert.Nil(t, got.Demographics)
	assert.Nil(t, got.Transportation)
	assert.Nil(t, got.MarketTrends)

	b, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"neighborhood":"SoMa","city":"SF","amenities":[],"schools":[]}`, string(b))
}

func TestExtractNeighborhoodInfo_Full(t *testing.T) {
	raw := `{"Output":{"neighborhood_info":{
		"name": "South of Market",
		"city": "San Francisco",
		"overview": "Dense, central, lively.",
		"demographics": {"population": "45,000", "median_age": 34, "median_income": 98000, "education_level": "Bachelor's"},
		"amenities": {"parks": ["South Park", "Yerba Buena"], "dining": "Dozens of restaurants", "nightlife": "", "gyms": null},
		"schools": [{"name": "Bessie Carmichael", "type": "public", "rating": 6}],
		"transportation": {"public_transit": "BART, Muni", "walkability_score": 97, "bike_score": 88},
		"housing_market": {"median_price": 1250000, "price_trend": "rising", "days_on_market": 21},
		"pros_cons": {"pros": ["transit"], "cons": ["noise"]}
	}}}`
	got, tr := Neighborhood(Decode(raw), soma)
	assert.Equal(t, "Output.neighborhood_info", tr.Path)
	assert.Equal(t, 1, tr.Count)

	assert.Equal(t, "South of Market", got.Neighborhood)
	assert.Equal(t, "San Francisco", got.City)
	require.NotNil(t, got.Demographics)
	assert.Equal(t, 45000.0, got.Demographics.Population)
	assert.Equal(t, 34.0, got.Demographics.MedianAge)
	assert.Equal(t, 98000.0, got.Demographics.MedianIncome)
	assert.Equal(t, "Bachelor's", got.Demographics.EducationLevel)

	assert.Equal(t, []string{"South Park", "Yerba Buena", "Dozens of restaurants"}, got.Amenities)
	require.Len(t, got.Schools, 1)

	require.NotNil(t, got.Transportation)
	assert.Equal(t, []string{"BART, Muni"}, got.Transportation.PublicTransit)
	assert.Equal(t, 97.0, got.Transportation.WalkabilityScore)
	assert.Equal(t, 88.0, got.Transportation.BikeScore)

	require.NotNil(t, got.MarketTrends)
	assert.Equal(t, 1250000.0, got.MarketTrends.MedianHomePrice)
	assert.Equal(t, 5.0, got.MarketTrends.PriceChange1Yr)
	assert.Equal(t, 21.0, got.MarketTrends.DaysOnMarket)

	assert.JSONEq(t, `"Dense, central, lively."`, string(got.Overview))
	assert.JSONEq(t, `{"pros":["transit"],"cons":["noise"]}`, string(got.ProsCons))
	assert.Contains(t, string(got.AmenitiesDetailed), "South Park")
	assert.Nil(t, got.Safety)
}

func TestNeighborhood_FlatTrend(t *testing.T) {
	got := ExtractNeighborhoodInfo(`{"neighborhood_info":{"housing_market":{"median_price":"$800,000","price_trend":"stable"}}}`, soma)
	require.NotNil(t, got.MarketTrends)
	assert.Equal(t, 0.0, got.MarketTrends.PriceChange1Yr)
	assert.Equal(t, 800000.0, got.MarketTrends.MedianHomePrice)
}

func TestNeighborhood_NameStringIsNotAPayload(t *testing.T) {
	got, tr := Neighborhood(Decode(`{"neighborhood":"Capitol Hill","city":"Seattle","schools":[{"name":"x"}]}`), soma)
	assert.Equal(t, "@this", tr.Path)
	assert.Equal(t, "Capitol Hill", got.Neighborhood)
	assert.Equal(t, "Seattle", got.City)
	assert.Len(t, got.Schools, 1)
}

func TestNeighborhood_CandidatePriority(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		path string
		want string
	}{
		{"Output.neighborhood_info", `{"Output":{"neighborhood_info":{"name":"a"}},"neighborhood_info":{"name":"c"}}`, "Output.neighborhood_info", "a"},
		{"result.Output", `{"result":{"Output":{"neighborhood_info":{"name":"b"}}}}`, "result.Output.neighborhood_info", "b"},
		{"neighborhood_info", `{"neighborhood_info":{"name":"c"},"Output":{"name":"e"}}`, "neighborhood_info", "c"},
		{"neighborhood object", `{"neighborhood":{"name":"d"},"Output":{"name":"e"}}`, "neighborhood", "d"},
		{"Output", `{"Output":{"name":"e"}}`, "Output", "e"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, tr := Neighborhood(Decode(tt.raw), soma)
			assert.Equal(t, tt.path, tr.Path)
			assert.Equal(t, tt.want, got.Neighborhood)
		})
	}
}

func TestNeighborhood_PlainText(t *testing.T) {
	got, tr := Neighborhood(Decode("no data for that area"), soma)
	assert.Equal(t, VariantUnrecognized, tr.Variant)
	assert.Equal(t, "SoMa", got.Neighborhood)
	assert.Equal(t, "SF", got.City)
	assert.Empty(t, got.Amenities)
}

func TestNeighborhood_Idempotent(t *testing.T) {
	raw := `{"neighborhood_info":{"name":"Fremont","city":"Seattle",
		"demographics":{"population":25000},
		"amenities":{"parks":["Gas Works"]},
		"transportation":{"public_transit":"Route 40","walkability_score":90},
		"housing_market":{"median_price":900000,"price_trend":"rising","days_on_market":12},
		"overview":"Center of the universe."}}`
	first := ExtractNeighborhoodInfo(raw, soma)
	b, err := json.Marshal(first)
	require.NoError(t, err)

	second := ExtractNeighborhoodInfo(string(b), soma)
	assert.Equal(t, first, second)
}
