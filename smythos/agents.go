package smythos

import (
	"strings"

	"github.com/tidwall/gjson"
)

const (
	defaultAgentRating   = 4.5
	defaultAgentLocation = "Redmond, WA"
)

// ExtractAgentProfiles decodes raw and normalizes every agent profile in it.
func ExtractAgentProfiles(raw string) []AgentProfile {
	out, _ := AgentProfiles(Decode(raw))
	return out
}

// AgentProfiles locates the profile array in v and maps each item. The
// result is never nil.
func AgentProfiles(v UpstreamValue) ([]AgentProfile, Trace) {
	arr, tr := locate(DomainAgentProfiles, v, AgentProfilePaths)
	items := arr.Array()
	out := make([]AgentProfile, 0, len(items))
	for _, it := range items {
		out = append(out, mapAgent(it))
	}
	tr.Count = len(out)
	logTrace(tr)
	return out, tr
}

func mapAgent(it gjson.Result) AgentProfile {
	years := it.Get("years_experience")
	a := AgentProfile{
		ID:                toString(it.Get("id")),
		Name:              toString(it.Get("name")),
		Email:             toString(it.Get("email")),
		Phone:             toString(it.Get("phone")),
		Experience:        agentExperience(it, years),
		Specialties:       toStringList(it.Get("specialties")),
		RecentSales:       agentRecentSales(it.Get("recent_sales")),
		Rating:            defaultAgentRating,
		Location:          agentLocation(it),
		ProfileImage:      toOptionalString(it.Get("photo_url")),
		Title:             toOptionalString(it.Get("title")),
		Company:           toOptionalString(it.Get("company")),
		YearsExperience:   toOptionalNumber(years),
		Languages:         toStringList(it.Get("languages")),
		Awards:            toStringList(it.Get("awards")),
		Website:           toOptionalString(it.Get("website")),
		Availability:      toOptionalString(it.Get("availability")),
		ContactPreference: toOptionalString(it.Get("contact_preference")),
	}
	if a.ProfileImage == nil {
		a.ProfileImage = toOptionalString(it.Get("profile_image"))
	}
	if r := it.Get("rating"); r.Type == gjson.Number {
		a.Rating = r.Num
	}
	return a
}

// agentExperience prefers the bio, then an already normalized experience
// line, then synthesizes one from years_experience.
func agentExperience(it, years gjson.Result) string {
	if bio := it.Get("bio"); truthy(bio) {
		return toString(bio)
	}
	if exp := it.Get("experience"); exp.Type == gjson.String && exp.Str != "" {
		return exp.Str
	}
	n := "0"
	if truthy(years) {
		n = toString(years)
	}
	return n + " years of experience"
}

func agentRecentSales(r gjson.Result) int {
	if r.IsObject() {
		return toInt(r.Get("count"))
	}
	if r.Type == gjson.Number {
		return int(r.Num)
	}
	return 0
}

func agentLocation(it gjson.Result) string {
	if areas := it.Get("service_areas"); areas.Exists() {
		if joined := strings.Join(toStringList(areas), ", "); joined != "" {
			return joined
		}
	}
	if loc := it.Get("location"); loc.Type == gjson.String && loc.Str != "" {
		return loc.Str
	}
	return defaultAgentLocation
}
