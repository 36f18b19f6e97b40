package smythos

import (
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Shape constrains what a candidate location must hold to count as a match.
type Shape int

const (
	// ShapeAny matches any non-null value.
	ShapeAny Shape = iota
	// ShapeArray matches arrays only, including empty ones.
	ShapeArray
	// ShapeObject matches objects only.
	ShapeObject
)

func (s Shape) matches(r gjson.Result) bool {
	if !r.Exists() || r.Type == gjson.Null {
		return false
	}
	switch s {
	case ShapeArray:
		return r.IsArray()
	case ShapeObject:
		return r.IsObject()
	default:
		return true
	}
}

// CandidatePath is one gjson path where a domain payload may live.
// "@this" is the top-level value.
type CandidatePath struct {
	Path  string
	Shape Shape
}

// Trace describes how a payload was located. It is diagnostic only.
type Trace struct {
	Domain  string `json:"domain"`
	Variant string `json:"variant"`
	Path    string `json:"path,omitempty"`
	Count   int    `json:"count"`
}

// Matched reports whether any candidate path resolved.
func (t Trace) Matched() bool { return t.Path != "" }

// Domain names, also used as archive and counter keys.
const (
	DomainListings       = "listings"
	DomainPropertyDetail = "property_detail"
	DomainAgentProfiles  = "agent_profiles"
	DomainNeighborhood   = "neighborhood"
	DomainAdvertisements = "advertisements"
)

func arrayPaths(paths ...string) []CandidatePath {
	out := make([]CandidatePath, 0, len(paths))
	for _, p := range paths {
		out = append(out, CandidatePath{Path: p, Shape: ShapeArray})
	}
	return out
}

// Candidate tables, most specific first.
var (
	ListingPaths = arrayPaths(
		"Output.listings",
		"result.Output.listings",
		"listings",
		"Output",
		"@this",
	)

	PropertyDetailPaths = []CandidatePath{
		{Path: "Output"},
		{Path: "result.Output"},
		{Path: "property_details"},
		{Path: "details"},
		{Path: "@this"},
	}

	AgentProfilePaths = arrayPaths(
		"result.Output.agent_profiles",
		"Output.agent_profiles",
		"agent_profiles",
		"agents",
		"Output",
		"@this",
	)

	// "neighborhood" also appears upstream as a plain name string.
	NeighborhoodPaths = []CandidatePath{
		{Path: "Output.neighborhood_info"},
		{Path: "result.Output.neighborhood_info"},
		{Path: "neighborhood_info"},
		{Path: "neighborhood", Shape: ShapeObject},
		{Path: "Output"},
		{Path: "@this"},
	}

	AdvertisementPaths = arrayPaths(
		"result.Output.advertisements",
		"Output.advertisements",
		"Output.ads",
		"result.Output.ads",
		"ads",
		"advertisements",
		"Output",
		"@this",
	)
)

// locate decodes v and walks paths in order; the first match wins.
func locate(domain string, v UpstreamValue, paths []CandidatePath) (gjson.Result, Trace) {
	doc, variant := resolve(v)
	tr := Trace{Domain: domain, Variant: variant}
	for _, cp := range paths {
		r := doc.Get(cp.Path)
		if cp.Shape.matches(r) {
			tr.Path = cp.Path
			return r, tr
		}
	}
	return gjson.Result{}, tr
}

func logTrace(tr Trace) {
	zap.L().Debug("smythos: extracted",
		zap.String("domain", tr.Domain),
		zap.String("variant", tr.Variant),
		zap.String("path", tr.Path),
		zap.Int("count", tr.Count),
	)
}
