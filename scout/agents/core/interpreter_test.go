package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"scout/scout/services/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestInterpret_HintIsInPrompt(t *testing.T) {
	m := new(MockModel)
	m.On("Complete", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Current website mapping: https://techcrunch.com") &&
			strings.Contains(p, "Query: Get latest tech news from TechCrunch")
	})).Return(`{"target_elements": ["article h2"]}`, nil).Once()

	s, err := newTestInterpreter(t, m).Interpret(context.Background(), "Get latest tech news from TechCrunch")
	require.NoError(t, err)
	assert.Equal(t, "https://techcrunch.com", s.URL)
	assert.Equal(t, []string{"article h2"}, s.TargetElements)
	assert.Equal(t, []string{"title", "link", "summary", "date"}, s.DataFields)
	m.AssertExpectations(t)
}

func TestInterpret_NoHint(t *testing.T) {
	m := new(MockModel)
	m.On("Complete", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Current website mapping: None detected")
	})).Return("```json\n{\"url\": \"allrecipes.com\", \"strategy\": \"recipe cards\"}\n```", nil)

	s, err := newTestInterpreter(t, m).Interpret(context.Background(), "dinner recipes")
	require.NoError(t, err)
	assert.Equal(t, "https://allrecipes.com", s.URL)
	assert.Equal(t, "recipe cards", s.Description)
}

func TestInterpret_CamelCaseKeys(t *testing.T) {
	m := new(MockModel)
	m.On("Complete", mock.Anything, mock.Anything).
		Return(`{"url": "https://www.reuters.com/markets", "targetElements": "article, h3", "dataFields": ["title"]}`, nil)

	s, err := newTestInterpreter(t, m).Interpret(context.Background(), "markets")
	require.NoError(t, err)
	assert.Equal(t, []string{"article", "h3"}, s.TargetElements)
	assert.Equal(t, []string{"title"}, s.DataFields)
}

func TestInterpret_FieldsNeverEmpty(t *testing.T) {
	responses := []string{
		`{}`,
		`{"url": "", "target_elements": [], "data_fields": []}`,
		`{"url": null, "target_elements": [1, "", null], "data_fields": {"a": 1}}`,
		`{"url": "target_website_url"}`,
		`I am not sure what you mean.`,
		``,
	}
	for _, queryHasHint := range []bool{true, false} {
		for _, resp := range responses {
			query := "random topic"
			if queryHasHint {
				query = "reddit threads"
			}
			m := new(MockModel)
			m.On("Complete", mock.Anything, mock.Anything).Return(resp, nil)

			s, err := newTestInterpreter(t, m).Interpret(context.Background(), query)
			require.NoError(t, err, resp)
			assert.NotEmpty(t, s.URL, resp)
			assert.NotEmpty(t, s.TargetElements, resp)
			assert.NotEmpty(t, s.DataFields, resp)
			if queryHasHint {
				assert.Equal(t, "https://www.reddit.com", s.URL, resp)
			} else {
				assert.Equal(t, "https://www.google.com", s.URL, resp)
			}
		}
	}
}

func TestInterpret_FallbackStrategy(t *testing.T) {
	m := new(MockModel)
	m.On("Complete", mock.Anything, mock.Anything).Return("no json here", nil)

	s, err := newTestInterpreter(t, m).Interpret(context.Background(), "bbc headlines")
	require.NoError(t, err)
	assert.Equal(t, Strategy{
		URL:            "https://www.bbc.com/news",
		TargetElements: []string{"article", "div.article", "h1", "h2", "a"},
		DataFields:     []string{"title", "link", "summary", "date"},
		Description:    "Fallback strategy due to parsing error",
	}, s)
}

func TestInterpret_ModelFailurePropagates(t *testing.T) {
	m := new(MockModel)
	m.On("Complete", mock.Anything, mock.Anything).Return("", modelDown())

	s, err := newTestInterpreter(t, m).Interpret(context.Background(), "cnn news")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInterpretationFailed))
	assert.True(t, errors.Is(err, llm.ErrModelUnavailable))
	assert.True(t, errors.Is(err, errTransport))
	assert.Equal(t, Strategy{}, s)
}

func TestInterpret_DefaultsAreNotShared(t *testing.T) {
	m := new(MockModel)
	m.On("Complete", mock.Anything, mock.Anything).Return(`{}`, nil)
	in := newTestInterpreter(t, m)

	s, err := in.Interpret(context.Background(), "q")
	require.NoError(t, err)
	s.TargetElements[0] = "mutated"

	s2, err := in.Interpret(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "article", s2.TargetElements[0])
}
