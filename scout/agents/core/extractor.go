package core

import (
	"context"
	"strings"
	"unicode/utf8"

	"scout/scout/agents/configs"
	"scout/scout/services/llm"
	"scout/scout/utils/jsonutils"
	"scout/scout/utils/logging"

	"go.uber.org/zap"
)

const truncationMarker = "..."

// Extractor turns rendered HTML into records with a single model call.
type Extractor struct {
	model llm.LanguageModel
	json  *jsonutils.Extractor
	cfg   *configs.AgentConfig
}

func NewExtractor(model llm.LanguageModel, cfg *configs.AgentConfig, json *jsonutils.Extractor) *Extractor {
	return &Extractor{model: model, json: json, cfg: cfg}
}

// Extract never fails: model and parse errors are logged and yield an empty
// slice.
func (e *Extractor) Extract(ctx context.Context, html string, targetElements []string, query string) []Record {
	defer logging.LogDuration(ctx, "extract_data")()

	prompt := e.extractPrompt(html, targetElements, query)
	text, err := e.model.Complete(ctx, prompt)
	if err != nil {
		logging.ErrorLogger.Error("Error extracting data", zap.String("query", query), zap.Error(err))
		return []Record{}
	}

	items, err := e.json.ExtractArray(text)
	if err != nil {
		logging.AppLogger.Warn("Failed to parse extracted data as JSON", zap.String("query", query))
		return []Record{}
	}

	records := make([]Record, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		records = append(records, recordFromMap(m))
	}
	logging.AppLogger.Info("Extracted items", zap.Int("count", len(records)), zap.Int("dropped", len(items)-len(records)))
	return records
}

func (e *Extractor) extractPrompt(html string, targetElements []string, query string) string {
	return strings.NewReplacer(
		"{{query}}", query,
		"{{elements}}", strings.Join(targetElements, ", "),
		"{{html}}", Truncate(html, e.cfg.MaxHTMLChars),
	).Replace(e.cfg.ExtractPrompt)
}

// Truncate keeps the first limit characters of s and appends "..." when
// anything was cut.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	n := 0
	for idx := range s {
		if n == limit {
			return s[:idx] + truncationMarker
		}
		n++
	}
	return s
}
