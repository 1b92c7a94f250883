package core

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestExtract_ModelFailureReturnsEmpty(t *testing.T) {
	m := new(MockModel)
	m.On("Complete", mock.Anything, mock.Anything).Return("", modelDown())

	records := newTestExtractor(t, m).Extract(context.Background(), "<html></html>", []string{"article"}, "x")
	require.NotNil(t, records)
	assert.Empty(t, records)
}

func TestExtract_NonJSONReturnsEmpty(t *testing.T) {
	m := new(MockModel)
	m.On("Complete", mock.Anything, mock.Anything).Return("I could not find any articles.", nil)

	records := newTestExtractor(t, m).Extract(context.Background(), "<html></html>", []string{}, "x")
	assert.Empty(t, records)
}

func TestExtract_ProjectsSixFields(t *testing.T) {
	m := new(MockModel)
	m.On("Complete", mock.Anything, mock.Anything).Return(`Here you go:
[
  {"title": "Rates hold", "link": "https://x.test/1", "author": "dropped", "date": 2024},
  "not an object",
  {"summary": "only summary", "source": "X", "category": {"nested": true}, "score": 1.5},
  {"title": true}
]`, nil)

	records := newTestExtractor(t, m).Extract(context.Background(), "<html></html>", []string{"article"}, "rates")
	assert.Equal(t, []Record{
		{Title: "Rates hold", Link: "https://x.test/1", Date: "2024"},
		{Summary: "only summary", Source: "X"},
		{Title: "true"},
	}, records)
}

func TestExtract_SingleObjectIsWrapped(t *testing.T) {
	m := new(MockModel)
	m.On("Complete", mock.Anything, mock.Anything).Return(`{"title": "Solo"}`, nil)

	records := newTestExtractor(t, m).Extract(context.Background(), "<p>solo</p>", nil, "x")
	assert.Equal(t, []Record{{Title: "Solo"}}, records)
}

func TestExtract_SingleObjectWithListField(t *testing.T) {
	m := new(MockModel)
	m.On("Complete", mock.Anything, mock.Anything).Return(`{"title": "Solo", "tags": ["a", "b"]}`, nil)

	records := newTestExtractor(t, m).Extract(context.Background(), "<p>solo</p>", nil, "x")
	assert.Equal(t, []Record{{Title: "Solo"}}, records)
}

func TestExtract_IgnoresCitationBrackets(t *testing.T) {
	m := new(MockModel)
	m.On("Complete", mock.Anything, mock.Anything).
		Return("Per source [1], items:\n[{\"title\": \"A\"}, {\"title\": \"B\"}]", nil)

	records := newTestExtractor(t, m).Extract(context.Background(), "<p>x</p>", nil, "x")
	assert.Equal(t, []Record{{Title: "A"}, {Title: "B"}}, records)
}

func TestExtract_Idempotent(t *testing.T) {
	m := new(MockModel)
	m.On("Complete", mock.Anything, mock.Anything).
		Return(`[{"title": "B"}, {"title": "A"}, {"title": "B"}]`, nil)
	e := newTestExtractor(t, m)

	first := e.Extract(context.Background(), "<html>same</html>", []string{"h2"}, "q")
	second := e.Extract(context.Background(), "<html>same</html>", []string{"h2"}, "q")
	assert.Equal(t, first, second)
	require.Len(t, first, 3)
	assert.Equal(t, "B", first[0].Title)
	assert.Equal(t, "A", first[1].Title)
}

func TestExtract_PromptCarriesElementsAndTruncatedHTML(t *testing.T) {
	html := strings.Repeat("é", 9000)
	var prompt string
	m := new(MockModel)
	m.On("Complete", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { prompt = args.String(1) }).
		Return(`[]`, nil)

	records := newTestExtractor(t, m).Extract(context.Background(), html, []string{"article", "h2"}, "french news")
	assert.Empty(t, records)
	assert.Contains(t, prompt, "Target Elements: article, h2")
	assert.Contains(t, prompt, "Original Query: french news")
	assert.Contains(t, prompt, strings.Repeat("é", 8000)+"...")
	assert.NotContains(t, prompt, strings.Repeat("é", 8001))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exact", Truncate("exact", 5))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))

	out := Truncate(strings.Repeat("日本", 10), 5)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, "日本日本日...", out)
}
