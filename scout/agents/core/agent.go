package core

import (
	"context"
	"strings"

	"scout/scout/agents/configs"
	"scout/scout/services/llm"
	"scout/scout/utils/jsonutils"
	"scout/scout/utils/logging"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

var (
	ErrEmptyQuery  = eris.New("query must not be empty")
	ErrNoUsableURL = eris.New("could not determine target website")
)

// Fetcher returns the rendered HTML of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

const (
	StageResolved  = "resolved"
	StageStrategy  = "strategy"
	StageRendered  = "rendered"
	StageExtracted = "extracted"
)

// Step is a progress notification emitted between pipeline stages.
type Step struct {
	RunID string `json:"run_id"`
	Stage string `json:"stage"`
	Data  any    `json:"data,omitempty"`
}

type Result struct {
	RunID    string   `json:"run_id"`
	URL      string   `json:"url"`
	Strategy Strategy `json:"strategy"`
	Records  []Record `json:"records"`
}

// Agent runs one query end to end: resolve, interpret, render, extract.
type Agent struct {
	Name        string
	model       llm.LanguageModel
	interpreter *Interpreter
	extractor   *Extractor
	fetcher     Fetcher
}

func NewAgent(model llm.LanguageModel, fetcher Fetcher, cfg *configs.AgentConfig, scan jsonutils.ScanMode) *Agent {
	ex := jsonutils.NewExtractor(scan)
	a := &Agent{
		Name:        cfg.AgentName,
		model:       model,
		interpreter: NewInterpreter(model, cfg, ex),
		extractor:   NewExtractor(model, cfg, ex),
		fetcher:     fetcher,
	}
	logging.AppLogger.Info("Agent initialized",
		zap.String("agent_name", a.Name),
		zap.String("model", model.Name()),
		zap.String("json_scan_mode", scan.String()),
	)
	return a
}

func (a *Agent) Interpreter() *Interpreter { return a.interpreter }
func (a *Agent) Extractor() *Extractor     { return a.extractor }

// Ready reports whether a model is wired.
func (a *Agent) Ready() bool { return a != nil && a.model != nil }

// Run executes the pipeline. onStep may be nil. Errors are ErrEmptyQuery,
// ErrNoUsableURL, ErrInterpretationFailed or whatever the fetcher returns.
func (a *Agent) Run(ctx context.Context, query string, onStep func(Step)) (Result, error) {
	runID := uuid.NewString()
	notify := func(stage string, data any) {
		if onStep != nil {
			onStep(Step{RunID: runID, Stage: stage, Data: data})
		}
	}
	logger := logging.AppLogger.With(zap.String("run_id", runID))

	query = strings.TrimSpace(query)
	if query == "" {
		return Result{RunID: runID}, ErrEmptyQuery
	}
	logger.Info("Processing query", zap.String("query", query))

	hint, ok := a.interpreter.Resolver().Resolve(query)
	notify(StageResolved, map[string]any{"url": hint, "matched": ok})

	strategy, err := a.interpreter.Interpret(ctx, query)
	if err != nil {
		return Result{RunID: runID}, err
	}
	if strategy.URL == "" {
		return Result{RunID: runID, Strategy: strategy}, ErrNoUsableURL
	}
	notify(StageStrategy, strategy)
	logger.Info("Target URL", zap.String("url", strategy.URL))

	html, err := a.fetcher.Fetch(ctx, strategy.URL)
	if err != nil {
		logger.Error("Render failed", zap.String("url", strategy.URL), zap.Error(err))
		return Result{RunID: runID, URL: strategy.URL, Strategy: strategy}, err
	}
	notify(StageRendered, map[string]any{"url": strategy.URL, "length": len(html)})

	records := a.extractor.Extract(ctx, html, strategy.TargetElements, query)
	notify(StageExtracted, map[string]any{"count": len(records)})
	logger.Info("Scrape finished", zap.Int("records", len(records)))

	return Result{RunID: runID, URL: strategy.URL, Strategy: strategy, Records: records}, nil
}
