package smythos

import (
	"encoding/json"
)

// ExtractAdvertisements decodes raw and returns the ads in it untouched.
func ExtractAdvertisements(raw string) []AdRecord {
	out, _ := Advertisements(Decode(raw))
	return out
}

// Advertisements locates the ad array in v. Items are passed through without
// coercion; the result is never nil.
func Advertisements(v UpstreamValue) ([]AdRecord, Trace) {
	arr, tr := locate(DomainAdvertisements, v, AdvertisementPaths)
	items := arr.Array()
	out := make([]AdRecord, 0, len(items))
	for _, it := range items {
		out = append(out, json.RawMessage(it.Raw))
	}
	tr.Count = len(out)
	logTrace(tr)
	return out, tr
}
