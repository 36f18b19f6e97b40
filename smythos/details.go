package smythos

// ExtractPropertyDetail decodes raw and returns the detail object in it.
func ExtractPropertyDetail(raw string) PropertyDetail {
	out, _ := PropertyDetails(Decode(raw))
	return out
}

// PropertyDetails returns the first candidate value as-is. A match that is
// not an object yields an empty detail; the result is never nil.
func PropertyDetails(v UpstreamValue) (PropertyDetail, Trace) {
	r, tr := locate(DomainPropertyDetail, v, PropertyDetailPaths)
	out := PropertyDetail{}
	if r.IsObject() {
		if m, ok := r.Value().(map[string]any); ok {
			out = m
		}
	}
	tr.Count = len(out)
	logTrace(tr)
	return out, tr
}
