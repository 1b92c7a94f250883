package core

import (
	"context"
	"errors"
	"testing"

	"scout/scout/agents/configs"
	"scout/scout/services/llm"
	"scout/scout/utils/jsonutils"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockModel struct {
	mock.Mock
}

func (m *MockModel) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockModel) Name() string { return "mock" }

var errTransport = errors.New("connection refused")

func modelDown() error {
	return errors.Join(llm.ErrModelUnavailable, errTransport)
}

type fakeFetcher struct {
	html string
	err  error
	urls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.urls = append(f.urls, url)
	return f.html, f.err
}

func testConfig(t *testing.T) *configs.AgentConfig {
	t.Helper()
	cfg, err := configs.LoadConfig()
	require.NoError(t, err)
	return cfg
}

func newTestInterpreter(t *testing.T, m llm.LanguageModel) *Interpreter {
	return NewInterpreter(m, testConfig(t), jsonutils.NewExtractor(jsonutils.ScanBalanced))
}

func newTestExtractor(t *testing.T, m llm.LanguageModel) *Extractor {
	return NewExtractor(m, testConfig(t), jsonutils.NewExtractor(jsonutils.ScanBalanced))
}
