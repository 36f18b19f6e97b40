package smythos

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// ExtractListings decodes raw and normalizes every listing in it.
func ExtractListings(raw string) []Listing {
	out, _ := Listings(Decode(raw))
	return out
}

// Listings locates the listing array in v and maps each item. The result is
// never nil.
func Listings(v UpstreamValue) ([]Listing, Trace) {
	arr, tr := locate(DomainListings, v, ListingPaths)
	items := arr.Array()
	out := make([]Listing, 0, len(items))
	for _, it := range items {
		out = append(out, mapListing(it))
	}
	tr.Count = len(out)
	logTrace(tr)
	return out, tr
}

func mapListing(it gjson.Result) Listing {
	l := Listing{
		ID:           toString(it.Get("id")),
		Title:        toString(it.Get("title")),
		Price:        toPrice(it.Get("price")),
		PropertyType: toString(it.Get("property_type")),
		Bedrooms:     toInt(it.Get("bedrooms")),
		Bathrooms:    toInt(it.Get("bathrooms")),
		Features:     toStringList(it.Get("features")),
		Location:     toString(it.Get("location")),
	}
	if it.IsObject() {
		it.ForEach(func(key, value gjson.Result) bool {
			if listingKeys[key.Str] {
				return true
			}
			if l.Extra == nil {
				l.Extra = make(map[string]json.RawMessage)
			}
			l.Extra[key.Str] = json.RawMessage(value.Raw)
			return true
		})
	}
	return l
}
