package smythos

import (
	"encoding/json"
)

// Listing is a generated property listing. Upstream fields outside the
// canonical set are kept in Extra and written back out alongside them.
type Listing struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Price        *float64 `json:"price"`
	PropertyType string   `json:"property_type"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    int      `json:"bathrooms"`
	Features     []string `json:"features"`
	Location     string   `json:"location"`

	Extra map[string]json.RawMessage `json:"-"`
}

// listingKeys are the canonical keys; Extra never holds them.
var listingKeys = map[string]bool{
	"id": true, "title": true, "price": true, "property_type": true,
	"bedrooms": true, "bathrooms": true, "features": true, "location": true,
}

func (l Listing) MarshalJSON() ([]byte, error) {
	type canonical Listing
	base, err := json.Marshal(canonical(l))
	if err != nil {
		return nil, err
	}
	if len(l.Extra) == 0 {
		return base, nil
	}
	merged := make(map[string]json.RawMessage, len(l.Extra)+len(listingKeys))
	for k, v := range l.Extra {
		if !listingKeys[k] {
			merged[k] = v
		}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// PropertyDetail is free-form; it is whatever object the agent returned.
type PropertyDetail map[string]any

// AgentProfile is a real-estate agent card.
type AgentProfile struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	Experience  string   `json:"experience"`
	Specialties []string `json:"specialties"`
	RecentSales int      `json:"recent_sales"`
	Rating      float64  `json:"rating"`
	Location    string   `json:"location"`

	ProfileImage      *string  `json:"profile_image,omitempty"`
	Title             *string  `json:"title,omitempty"`
	Company           *string  `json:"company,omitempty"`
	YearsExperience   *float64 `json:"years_experience,omitempty"`
	Languages         []string `json:"languages"`
	Awards            []string `json:"awards"`
	Website           *string  `json:"website,omitempty"`
	Availability      *string  `json:"availability,omitempty"`
	ContactPreference *string  `json:"contact_preference,omitempty"`
}

// NeighborhoodInfo summarises a neighborhood. Nested records are omitted,
// not nulled, when the agent did not supply them.
type NeighborhoodInfo struct {
	Neighborhood   string          `json:"neighborhood"`
	City           string          `json:"city"`
	Demographics   *Demographics   `json:"demographics,omitempty"`
	Amenities      []string        `json:"amenities"`
	Schools        []any           `json:"schools"`
	Transportation *Transportation `json:"transportation,omitempty"`
	MarketTrends   *MarketTrends   `json:"market_trends,omitempty"`

	Overview            json.RawMessage `json:"overview,omitempty"`
	Safety              json.RawMessage `json:"safety,omitempty"`
	Lifestyle           json.RawMessage `json:"lifestyle,omitempty"`
	AmenitiesDetailed   json.RawMessage `json:"amenities_detailed,omitempty"`
	ProsCons            json.RawMessage `json:"pros_cons,omitempty"`
	BestFor             json.RawMessage `json:"best_for,omitempty"`
	NearbyNeighborhoods json.RawMessage `json:"nearby_neighborhoods,omitempty"`
	CostOfLiving        json.RawMessage `json:"cost_of_living,omitempty"`
	Weather             json.RawMessage `json:"weather,omitempty"`
	FutureDevelopment   json.RawMessage `json:"future_development,omitempty"`
}

type Demographics struct {
	Population     float64 `json:"population"`
	MedianAge      float64 `json:"median_age"`
	MedianIncome   float64 `json:"median_income"`
	EducationLevel string  `json:"education_level"`
}

type Transportation struct {
	PublicTransit    []string `json:"public_transit"`
	WalkabilityScore float64  `json:"walkability_score"`
	BikeScore        float64  `json:"bike_score"`
}

type MarketTrends struct {
	MedianHomePrice float64 `json:"median_home_price"`
	PriceChange1Yr  float64 `json:"price_change_1yr"`
	DaysOnMarket    float64 `json:"days_on_market"`
}

// NeighborhoodQuery echoes the request parameters; they fill in a missing
// neighborhood name or city.
type NeighborhoodQuery struct {
	Neighborhood string
	City         string
}

// AdRecord is an advertisement exactly as the agent produced it.
type AdRecord = json.RawMessage

// StringNumber accepts string or number JSON and stores it as a string.
// Form fields arrive either way depending on the client.
type StringNumber string

func (s *StringNumber) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = StringNumber(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*s = StringNumber(num.String())
	return nil
}

// Or returns s, or def when s is empty.
func (s StringNumber) Or(def string) string {
	if s == "" {
		return def
	}
	return string(s)
}
