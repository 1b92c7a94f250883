// Package jsonutils pulls JSON payloads out of free-form LLM output.
package jsonutils

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrNoJSONFound is returned when no parseable JSON payload exists in the text.
var ErrNoJSONFound = eris.New("no JSON found in response")

// ScanMode selects how a JSON span is located in model output.
type ScanMode int

const (
	// ScanBalanced walks from each opening delimiter to its matching close,
	// skipping string literals, and returns the first span that parses.
	ScanBalanced ScanMode = iota
	// ScanGreedy slices from the first opening delimiter to the last closing
	// one. Text holding several JSON blocks produces an unparseable slice.
	ScanGreedy
)

// ParseScanMode maps "balanced" / "greedy" to a ScanMode. Unknown values
// fall back to ScanBalanced.
func ParseScanMode(s string) ScanMode {
	if strings.EqualFold(strings.TrimSpace(s), "greedy") {
		return ScanGreedy
	}
	return ScanBalanced
}

func (m ScanMode) String() string {
	if m == ScanGreedy {
		return "greedy"
	}
	return "balanced"
}

// Extractor locates and decodes JSON embedded in surrounding prose.
type Extractor struct {
	Mode ScanMode
}

// NewExtractor returns an Extractor using the given scan mode.
func NewExtractor(mode ScanMode) *Extractor {
	return &Extractor{Mode: mode}
}

var trailingComma = regexp.MustCompile(`,(\s*[}\]])`)

// ExtractObject returns the first JSON object found in text.
func (e *Extractor) ExtractObject(text string) (map[string]any, error) {
	span, ok := e.locate(text, '{', '}')
	if !ok {
		return nil, ErrNoJSONFound
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(span), &obj); err != nil {
		return nil, eris.Wrap(ErrNoJSONFound, err.Error())
	}
	return obj, nil
}

// ExtractArray returns the first JSON array found in text. When no array
// parses it retries as a single object wrapped in a one-element slice.
//
// In balanced mode a reply that opens with an object is read as that
// object, and arrays holding at least one object win over scalar-only
// arrays such as citation markers.
func (e *Extractor) ExtractArray(text string) ([]any, error) {
	if e.Mode == ScanGreedy {
		if span, ok := e.locate(text, '[', ']'); ok {
			var arr []any
			if err := json.Unmarshal([]byte(span), &arr); err == nil {
				return arr, nil
			}
		}
		return e.wrapObject(text)
	}

	text = stripInvisible(text)
	objAt, arrAt := strings.IndexByte(text, '{'), strings.IndexByte(text, '[')
	if objAt != -1 && (arrAt == -1 || objAt < arrAt) {
		if obj, err := e.ExtractObject(text); err == nil {
			if inner, ok := envelope(obj); ok {
				return inner, nil
			}
			return []any{obj}, nil
		}
	}

	var scalarOnly []any
	for _, span := range e.candidates(text, '[', ']') {
		var arr []any
		if err := json.Unmarshal([]byte(span), &arr); err != nil {
			continue
		}
		if hasObject(arr) {
			return arr, nil
		}
		if scalarOnly == nil {
			scalarOnly = arr
		}
	}
	if arr, err := e.wrapObject(text); err == nil {
		return arr, nil
	}
	if scalarOnly != nil {
		return scalarOnly, nil
	}
	return nil, ErrNoJSONFound
}

func (e *Extractor) wrapObject(text string) ([]any, error) {
	obj, err := e.ExtractObject(text)
	if err != nil {
		return nil, err
	}
	return []any{obj}, nil
}

// envelope unwraps {"items": [{...}, ...]}: an object whose only field is
// an array of objects.
func envelope(obj map[string]any) ([]any, bool) {
	if len(obj) != 1 {
		return nil, false
	}
	for _, v := range obj {
		if arr, ok := v.([]any); ok && hasObject(arr) {
			return arr, true
		}
	}
	return nil, false
}

func hasObject(arr []any) bool {
	for _, v := range arr {
		if _, ok := v.(map[string]any); ok {
			return true
		}
	}
	return false
}

// locate returns the first candidate span that is valid JSON.
func (e *Extractor) locate(text string, open, close byte) (string, bool) {
	spans := e.candidates(stripInvisible(text), open, close)
	if len(spans) == 0 {
		return "", false
	}
	return spans[0], true
}

// candidates returns every span that is valid JSON, in order of appearance.
func (e *Extractor) candidates(text string, open, close byte) []string {
	var spans []string
	if e.Mode == ScanGreedy {
		if span, ok := greedySpan(text, open, close); ok {
			spans = append(spans, span)
		}
	} else {
		spans = balancedSpans(text, open, close)
	}
	valid := spans[:0]
	for _, span := range spans {
		if v, ok := tolerantSpan(span); ok {
			valid = append(valid, v)
		}
	}
	return valid
}

// tolerantSpan accepts span as-is or with trailing commas removed.
func tolerantSpan(span string) (string, bool) {
	if json.Valid([]byte(span)) {
		return span, true
	}
	cleaned := trailingComma.ReplaceAllString(span, "$1")
	if cleaned != span && json.Valid([]byte(cleaned)) {
		return cleaned, true
	}
	return "", false
}

func greedySpan(text string, open, close byte) (string, bool) {
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, close)
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

// balancedSpans returns every balanced span that starts at an opening
// delimiter outside a string literal, in order of appearance. Spans nested
// inside an earlier span are not reported separately.
func balancedSpans(text string, open, close byte) []string {
	var spans []string
	for i := 0; i < len(text); i++ {
		if text[i] != open {
			continue
		}
		end := matchClose(text, i, open, close)
		if end == -1 {
			continue
		}
		spans = append(spans, text[i:end+1])
		i = end
	}
	return spans
}

// matchClose scans forward from start (an opening delimiter) and returns the
// index of its matching close, or -1 when the text ends first. Only the
// requested delimiter pair is counted; quotes and escapes are honoured.
func matchClose(text string, start int, open, close byte) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func stripInvisible(input string) string {
	return strings.Map(func(r rune) rune {
		if r == '\uFEFF' || r == '\u200B' || r == '\u200C' || r == '\u200D' {
			return -1
		}
		return r
	}, input)
}

var defaultExtractor = NewExtractor(ScanBalanced)

// ExtractJSONObject extracts an object using the balanced scanner.
func ExtractJSONObject(text string) (map[string]any, error) {
	return defaultExtractor.ExtractObject(text)
}

// ExtractJSONArray extracts an array using the balanced scanner.
func ExtractJSONArray(text string) ([]any, error) {
	return defaultExtractor.ExtractArray(text)
}

// ToJSON serializes a Go value to a JSON string with indentation.
// Returns an empty string if serialization fails.
func ToJSON(v interface{}) string {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(bytes))
}
