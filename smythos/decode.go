package smythos

import (
	"strings"

	"github.com/tidwall/gjson"
)

// UpstreamValue is the result of decoding an agent response body. It is
// either Parsed or RawText, never both.
type UpstreamValue interface {
	isUpstreamValue()
}

// Parsed holds a body that was valid JSON as a whole.
type Parsed struct {
	JSON gjson.Result
}

// RawText holds a body that was not valid JSON.
type RawText struct {
	Text string
}

func (Parsed) isUpstreamValue()  {}
func (RawText) isUpstreamValue() {}

// Decode strictly parses raw as JSON. Anything else is returned verbatim as
// RawText; embedded JSON is recovered later by the extractors.
func Decode(raw string) UpstreamValue {
	if gjson.Valid(raw) {
		return Parsed{JSON: gjson.Parse(raw)}
	}
	return RawText{Text: raw}
}

// RecoverJSON parses the span from the first '{' to the last '}' of text.
// Greedy: two concatenated objects yield one invalid span.
func RecoverJSON(text string) (gjson.Result, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return gjson.Result{}, false
	}
	span := text[start : end+1]
	if !gjson.Valid(span) {
		return gjson.Result{}, false
	}
	return gjson.Parse(span), true
}

// Decode variants reported in a Trace.
const (
	VariantParsed       = "parsed"
	VariantRecovered    = "recovered"
	VariantUnrecognized = "unrecognized"
)

var emptyObject = gjson.Parse("{}")

// resolve turns an UpstreamValue into the JSON the candidate paths are walked
// against. Unrecoverable text degrades to an empty object.
func resolve(v UpstreamValue) (gjson.Result, string) {
	switch val := v.(type) {
	case Parsed:
		return val.JSON, VariantParsed
	case RawText:
		if rec, ok := RecoverJSON(val.Text); ok {
			return rec, VariantRecovered
		}
	}
	return emptyObject, VariantUnrecognized
}
