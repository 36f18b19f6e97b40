package canon

import (
	"regexp"
	"strings"
)

var rePunct = regexp.MustCompile(`[^A-Za-z0-9\s]`)

// QueryKey builds a stable grouping key from request parameters.
// Empty parts are skipped; a trailing full state name is abbreviated so
// "Seattle, Washington" and "seattle wa" share a key.
func QueryKey(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		n := normalize(p)
		if n == "" {
			continue
		}
		out = append(out, abbreviateTrailingState(n))
	}
	return strings.Join(out, "|")
}

func normalize(s string) string {
	return collapseSpaces(rePunct.ReplaceAllString(strings.ToUpper(strings.TrimSpace(s)), " "))
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func abbreviateTrailingState(s string) string {
	toks := strings.Fields(s)
	// two-word states first: NEW YORK, WEST VIRGINIA
	for _, n := range []int{2, 1} {
		if len(toks) <= n {
			continue
		}
		tail := strings.Join(toks[len(toks)-n:], " ")
		if ab, ok := states[tail]; ok {
			return strings.Join(append(toks[:len(toks)-n:len(toks)-n], ab), " ")
		}
	}
	return s
}

var states = map[string]string{
	"ALABAMA": "AL", "ALASKA": "AK", "ARIZONA": "AZ", "ARKANSAS": "AR", "CALIFORNIA": "CA", "COLORADO": "CO", "CONNECTICUT": "CT", "DELAWARE": "DE", "FLORIDA": "FL", "GEORGIA": "GA", "HAWAII": "HI", "IDAHO": "ID", "ILLINOIS": "IL", "INDIANA": "IN", "IOWA": "IA", "KANSAS": "KS", "KENTUCKY": "KY", "LOUISIANA": "LA", "MAINE": "ME", "MARYLAND": "MD", "MASSACHUSETTS": "MA", "MICHIGAN": "MI", "MINNESOTA": "MN", "MISSISSIPPI": "MS", "MISSOURI": "MO", "MONTANA": "MT", "NEBRASKA": "NE", "NEVADA": "NV", "NEW HAMPSHIRE": "NH", "NEW JERSEY": "NJ", "NEW MEXICO": "NM", "NEW YORK": "NY", "NORTH CAROLINA": "NC", "NORTH DAKOTA": "ND", "OHIO": "OH", "OKLAHOMA": "OK", "OREGON": "OR", "PENNSYLVANIA": "PA", "RHODE ISLAND": "RI", "SOUTH CAROLINA": "SC", "SOUTH DAKOTA": "SD", "TENNESSEE": "TN", "TEXAS": "TX", "UTAH": "UT", "VERMONT": "VT", "VIRGINIA": "VA", "WASHINGTON": "WA", "WEST VIRGINIA": "WV", "WISCONSIN": "WI", "WYOMING": "WY",
}
