package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"scout/scout/agents/configs"
	"scout/scout/services/llm"
	"scout/scout/utils/jsonutils"
	"scout/scout/utils/logging"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrInterpretationFailed is returned when the model could not be asked for
// a strategy. The model error stays in the chain.
var ErrInterpretationFailed = eris.New("failed to interpret query")

type Interpreter struct {
	model    llm.LanguageModel
	resolver *Resolver
	json     *jsonutils.Extractor
	cfg      *configs.AgentConfig
}

func NewInterpreter(model llm.LanguageModel, cfg *configs.AgentConfig, json *jsonutils.Extractor) *Interpreter {
	return &Interpreter{model: model, resolver: NewResolver(cfg), json: json, cfg: cfg}
}

// Resolver exposes the keyword table used for hints.
func (i *Interpreter) Resolver() *Resolver { return i.resolver }

// Interpret asks the model for a scraping strategy. Unparseable answers
// produce the fallback strategy; only model failures return an error.
func (i *Interpreter) Interpret(ctx context.Context, query string) (Strategy, error) {
	defer logging.LogDuration(ctx, "interpret_query")()

	hint, _ := i.resolver.Resolve(query)
	prompt := i.interpretPrompt(query, hint)

	text, err := i.model.Complete(ctx, prompt)
	if err != nil {
		logging.ErrorLogger.Error("Error interpreting query", zap.String("query", query), zap.Error(err))
		return Strategy{}, fmt.Errorf("%w: %w", ErrInterpretationFailed, err)
	}

	obj, err := i.json.ExtractObject(text)
	if err != nil {
		if !errors.Is(err, jsonutils.ErrNoJSONFound) {
			logging.ErrorLogger.Error("Unexpected strategy parse error", zap.Error(err))
		}
		logging.AppLogger.Warn("Failed to parse model response as JSON, using fallback strategy",
			zap.String("query", query))
		return i.fallback(hint), nil
	}

	strategy := i.fromObject(obj, hint)
	logging.AppLogger.Info("Scraping strategy",
		zap.String("url", strategy.URL),
		zap.Strings("target_elements", strategy.TargetElements),
		zap.Strings("data_fields", strategy.DataFields),
	)
	return strategy, nil
}

func (i *Interpreter) interpretPrompt(query, hint string) string {
	if hint == "" {
		hint = "None detected"
	}
	return strings.NewReplacer("{{query}}", query, "{{hint}}", hint).Replace(i.cfg.InterpretPrompt)
}

func (i *Interpreter) fromObject(obj map[string]any, hint string) Strategy {
	return i.normalize(Strategy{
		URL:            firstString(obj, "url", "URL", "target_url", "targetUrl"),
		TargetElements: firstList(obj, "target_elements", "targetElements"),
		DataFields:     firstList(obj, "data_fields", "dataFields"),
		Description:    firstString(obj, "strategy", "strategyDescription", "strategy_description"),
	}, hint)
}

func (i *Interpreter) fallback(hint string) Strategy {
	return i.normalize(Strategy{Description: i.cfg.FallbackStrategy}, hint)
}

// normalize is the single place where Strategy defaults are applied.
func (i *Interpreter) normalize(s Strategy, hint string) Strategy {
	s.URL = NormalizeURL(s.URL)
	if s.URL == "" {
		s.URL = i.urlOrFallback(hint)
	}
	if len(s.TargetElements) == 0 {
		s.TargetElements = clone(i.cfg.DefaultTargetElements)
	}
	if len(s.DataFields) == 0 {
		s.DataFields = clone(i.cfg.DefaultDataFields)
	}
	return s
}

func (i *Interpreter) urlOrFallback(hint string) string {
	if hint != "" {
		return hint
	}
	return i.cfg.FallbackURL
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
