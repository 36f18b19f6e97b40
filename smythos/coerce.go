package smythos

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	nonNumeric    = regexp.MustCompile(`[^0-9.]`)
	leadingNumber = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)`)
)

// parseLooseFloat strips everything but digits and dots, then reads the
// longest numeric prefix. "$450,000" -> 450000.
func parseLooseFloat(s string) (float64, bool) {
	m := leadingNumber.FindString(nonNumeric.ReplaceAllString(s, ""))
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// toPrice returns nil for anything that is neither a number nor a string
// holding one.
func toPrice(r gjson.Result) *float64 {
	switch r.Type {
	case gjson.Number:
		f := r.Num
		return &f
	case gjson.String:
		if f, ok := parseLooseFloat(r.Str); ok {
			return &f
		}
	}
	return nil
}

// toNumber is toPrice with 0 in place of nil.
func toNumber(r gjson.Result) float64 {
	if f := toPrice(r); f != nil {
		return *f
	}
	return 0
}

func toInt(r gjson.Result) int {
	return int(toNumber(r))
}

// toOptionalNumber is nil when the field is absent or unparseable.
func toOptionalNumber(r gjson.Result) *float64 {
	if !r.Exists() {
		return nil
	}
	return toPrice(r)
}

// toString renders scalars as text; null, missing and composite values are "".
func toString(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return r.Raw
	case gjson.True, gjson.False:
		return r.Raw
	}
	return ""
}

// toOptionalString is nil unless the field is present and truthy.
func toOptionalString(r gjson.Result) *string {
	if !truthy(r) {
		return nil
	}
	s := toString(r)
	if s == "" {
		return nil
	}
	return &s
}

// toStringList accepts a native list or a comma separated string.
func toStringList(r gjson.Result) []string {
	if r.IsArray() {
		items := r.Array()
		out := make([]string, 0, len(items))
		for _, it := range items {
			if it.Type == gjson.Null {
				continue
			}
			if it.IsObject() || it.IsArray() {
				out = append(out, it.Raw)
				continue
			}
			out = append(out, toString(it))
		}
		return out
	}
	if r.Type == gjson.String && r.Str != "" {
		parts := strings.Split(r.Str, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			out = append(out, strings.TrimSpace(p))
		}
		return out
	}
	return []string{}
}

// truthy mirrors the loose truthiness the agent's payloads were written for:
// null, false, 0, "" and missing are false.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.Null:
		return false
	case gjson.False:
		return false
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	case gjson.True, gjson.JSON:
		return true
	}
	return false
}
