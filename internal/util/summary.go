package util

import (
	"fmt"

	"github.com/tidwall/gjson"
)

const outlineLimit = 500

// StructuredSummary is what the evaluations table keeps of the uploaded JSON.
type StructuredSummary struct {
	Outline     string
	Preferences string
	DocType     string
}

// Summarize reads user_attachment, type and language from the structured
// input. For an array the first element is used.
func Summarize(raw []byte) StructuredSummary {
	doc := gjson.ParseBytes(raw)
	if doc.IsArray() {
		doc = doc.Get("0")
	}

	field := func(name, fallback string) string {
		v := doc.Get(name)
		if !doc.IsObject() || !v.Exists() || v.Type == gjson.Null {
			return fallback
		}
		return v.String()
	}

	return StructuredSummary{
		Outline:     Truncate(field("user_attachment", ""), outlineLimit),
		Preferences: fmt.Sprintf("Type: %s, Language: %s", field("type", "N/A"), field("language", "N/A")),
		DocType:     field("type", "unknown"),
	}
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n < 0 {
		n = 0
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
