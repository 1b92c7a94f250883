package core

import (
	"net/url"
	"strconv"
	"strings"
)

// Strategy tells the pipeline where to go and what to look for. URL,
// TargetElements and DataFields are never empty once Interpret returns.
type Strategy struct {
	URL            string   `json:"url"`
	TargetElements []string `json:"target_elements"`
	DataFields     []string `json:"data_fields"`
	Description    string   `json:"strategy"`
}

// Record is one extracted item. Missing fields are empty strings.
type Record struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Summary  string `json:"summary"`
	Date     string `json:"date"`
	Source   string `json:"source"`
	Category string `json:"category"`
}

// recordFromMap projects an arbitrary model object onto the fixed schema.
func recordFromMap(m map[string]any) Record {
	return Record{
		Title:    scalarString(m["title"]),
		Link:     scalarString(m["link"]),
		Summary:  scalarString(m["summary"]),
		Date:     scalarString(m["date"]),
		Source:   scalarString(m["source"]),
		Category: scalarString(m["category"]),
	}
}

// scalarString renders JSON scalars as text; nested values and null become "".
func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// stringList accepts a JSON array of strings or a comma-separated string.
func stringList(v any) []string {
	var raw []string
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			raw = append(raw, scalarString(item))
		}
	case string:
		raw = strings.Split(t, ",")
	}
	var out []string
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// firstString returns the first non-empty string value among keys.
func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func firstList(m map[string]any, keys ...string) []string {
	for _, k := range keys {
		if l := stringList(m[k]); len(l) > 0 {
			return l
		}
	}
	return nil
}

// NormalizeURL adds an https scheme to bare hosts and rejects values that do
// not name a host, returning "" for those.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	switch {
	case strings.HasPrefix(raw, "//"):
		raw = "https:" + raw
	case !strings.Contains(raw, "://"):
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	host := u.Hostname()
	if host != "localhost" && !strings.Contains(host, ".") {
		return ""
	}
	return u.String()
}
