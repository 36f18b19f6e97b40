package smythos

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// risingTrendChange is reported as price_change_1yr when the agent only says
// prices are "rising".
const risingTrendChange = 5

// ExtractNeighborhoodInfo decodes raw and normalizes the neighborhood in it.
func ExtractNeighborhoodInfo(raw string, q NeighborhoodQuery) NeighborhoodInfo {
	out, _ := Neighborhood(Decode(raw), q)
	return out
}

// Neighborhood locates the neighborhood record in v. Name and city fall back
// to the query; nested records are only set when the agent supplied them.
func Neighborhood(v UpstreamValue, q NeighborhoodQuery) (NeighborhoodInfo, Trace) {
	info, tr := locate(DomainNeighborhood, v, NeighborhoodPaths)
	if !info.IsObject() {
		info = emptyObject
	}

	out := NeighborhoodInfo{
		Neighborhood: firstString(info.Get("name"), info.Get("neighborhood")),
		City:         firstString(info.Get("city")),
		Amenities:    flattenAmenities(info.Get("amenities")),
		Schools:      toList(info.Get("schools")),

		Overview:            rawField(info, "overview"),
		Safety:              rawField(info, "safety"),
		Lifestyle:           rawField(info, "lifestyle"),
		AmenitiesDetailed:   rawField(info, "amenities_detailed"),
		ProsCons:            rawField(info, "pros_cons"),
		BestFor:             rawField(info, "best_for"),
		NearbyNeighborhoods: rawField(info, "nearby_neighborhoods"),
		CostOfLiving:        rawField(info, "cost_of_living"),
		Weather:             rawField(info, "weather"),
		FutureDevelopment:   rawField(info, "future_development"),
	}
	if out.Neighborhood == "" {
		out.Neighborhood = q.Neighborhood
	}
	if out.City == "" {
		out.City = q.City
	}
	if am := info.Get("amenities"); truthy(am) && !am.IsArray() {
		out.AmenitiesDetailed = json.RawMessage(am.Raw)
	}

	if d := info.Get("demographics"); truthy(d) {
		out.Demographics = &Demographics{
			Population:     toNumber(d.Get("population")),
			MedianAge:      toNumber(d.Get("median_age")),
			MedianIncome:   toNumber(d.Get("median_income")),
			EducationLevel: toString(d.Get("education_level")),
		}
	}

	if t := info.Get("transportation"); truthy(t) {
		out.Transportation = &Transportation{
			PublicTransit:    publicTransit(t.Get("public_transit")),
			WalkabilityScore: toNumber(t.Get("walkability_score")),
			BikeScore:        toNumber(t.Get("bike_score")),
		}
	}

	if hm := info.Get("housing_market"); truthy(hm) {
		change := 0.0
		if hm.Get("price_trend").String() == "rising" {
			change = risingTrendChange
		}
		out.MarketTrends = &MarketTrends{
			MedianHomePrice: toNumber(hm.Get("median_price")),
			PriceChange1Yr:  change,
			DaysOnMarket:    toNumber(hm.Get("days_on_market")),
		}
	} else if mt := info.Get("market_trends"); mt.IsObject() {
		out.MarketTrends = &MarketTrends{
			MedianHomePrice: toNumber(mt.Get("median_home_price")),
			PriceChange1Yr:  toNumber(mt.Get("price_change_1yr")),
			DaysOnMarket:    toNumber(mt.Get("days_on_market")),
		}
	}

	tr.Count = 1
	if !tr.Matched() {
		tr.Count = 0
	}
	logTrace(tr)
	return out, tr
}

func firstString(rs ...gjson.Result) string {
	for _, r := range rs {
		if truthy(r) {
			if s := toString(r); s != "" {
				return s
			}
		}
	}
	return ""
}

// flattenAmenities collects the values of the amenities object (or list),
// spreading nested lists and dropping falsy entries.
func flattenAmenities(r gjson.Result) []string {
	out := []string{}
	if !r.IsObject() && !r.IsArray() {
		return out
	}
	var walk func(v gjson.Result)
	walk = func(v gjson.Result) {
		if v.IsObject() || v.IsArray() {
			v.ForEach(func(_, child gjson.Result) bool {
				walk(child)
				return true
			})
			return
		}
		if truthy(v) {
			out = append(out, toString(v))
		}
	}
	walk(r)
	return out
}

func publicTransit(r gjson.Result) []string {
	if r.IsArray() {
		return toStringList(r)
	}
	if truthy(r) {
		return []string{toString(r)}
	}
	return []string{}
}

func toList(r gjson.Result) []any {
	if !r.IsArray() {
		return []any{}
	}
	items := r.Array()
	out := make([]any, 0, len(items))
	for _, it := range items {
		out = append(out, it.Value())
	}
	return out
}

func rawField(r gjson.Result, key string) json.RawMessage {
	v := r.Get(key)
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	return json.RawMessage(v.Raw)
}
