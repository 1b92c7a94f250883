package jsonutils

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractObject_WrappedInProse(t *testing.T) {
	text := "Sure! Here is the strategy you asked for:\n```json\n{\"url\": \"https://techcrunch.com\", \"target_elements\": [\"article\"]}\n```\nLet me know."

	for _, mode := range []ScanMode{ScanBalanced, ScanGreedy} {
		t.Run(mode.String(), func(t *testing.T) {
			obj, err := NewExtractor(mode).ExtractObject(text)
			require.NoError(t, err)
			assert.Equal(t, "https://techcrunch.com", obj["url"])
			assert.Equal(t, []any{"article"}, obj["target_elements"])
		})
	}
}

func TestExtractObject_ReturnsExactObject(t *testing.T) {
	text := `prefix {"a": 1, "b": {"c": [true, null, "x}"]}} suffix`
	obj, err := ExtractJSONObject(text)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": float64(1),
		"b": map[string]any{"c": []any{true, nil, "x}"}},
	}, obj)
}

func TestExtractObject_NoBraces(t *testing.T) {
	for _, mode := range []ScanMode{ScanBalanced, ScanGreedy} {
		_, err := NewExtractor(mode).ExtractObject("I could not decide on a strategy, sorry.")
		require.Error(t, err)
		assert.True(t, eris.Is(err, ErrNoJSONFound))
	}
}

func TestExtractObject_UnbalancedBraces(t *testing.T) {
	_, err := ExtractJSONObject(`{"url": "https://cnn.com"`)
	assert.True(t, eris.Is(err, ErrNoJSONFound))
}

func TestExtractObject_MultipleBlocks(t *testing.T) {
	text := `First attempt: {"url": "https://bbc.com/news"} and a revision: {"url": "https://cnn.com"}`

	// greedy slices from the first "{" to the last "}" and cannot parse it
	_, err := NewExtractor(ScanGreedy).ExtractObject(text)
	assert.True(t, eris.Is(err, ErrNoJSONFound))

	obj, err := NewExtractor(ScanBalanced).ExtractObject(text)
	require.NoError(t, err)
	assert.Equal(t, "https://bbc.com/news", obj["url"])
}

func TestExtractObject_StrayBraceInProse(t *testing.T) {
	text := `Use {curly} placeholders like {this}. Answer: {"url": "https://wired.com"}`

	_, err := NewExtractor(ScanGreedy).ExtractObject(text)
	assert.True(t, eris.Is(err, ErrNoJSONFound))

	obj, err := NewExtractor(ScanBalanced).ExtractObject(text)
	require.NoError(t, err)
	assert.Equal(t, "https://wired.com", obj["url"])
}

func TestExtractObject_TrailingComma(t *testing.T) {
	obj, err := ExtractJSONObject(`{"url": "https://medium.com", "data_fields": ["title", "link",],}`)
	require.NoError(t, err)
	assert.Equal(t, "https://medium.com", obj["url"])
	assert.Equal(t, []any{"title", "link"}, obj["data_fields"])
}

func TestExtractObject_InvisibleCharacters(t *testing.T) {
	obj, err := ExtractJSONObject("\uFEFF{\"url\":\u200B \"https://reuters.com\"}")
	require.NoError(t, err)
	assert.Equal(t, "https://reuters.com", obj["url"])
}

func TestExtractArray_Records(t *testing.T) {
	text := "Here are the items:\n[{\"title\": \"A\"}, {\"title\": \"B [draft]\"}]\nDone."
	for _, mode := range []ScanMode{ScanBalanced, ScanGreedy} {
		arr, err := NewExtractor(mode).ExtractArray(text)
		require.NoError(t, err)
		require.Len(t, arr, 2)
		assert.Equal(t, map[string]any{"title": "B [draft]"}, arr[1])
	}
}

func TestExtractArray_FallsBackToObject(t *testing.T) {
	arr, err := ExtractJSONArray(`Only one item: {"title": "Solo", "link": "https://x.test"}`)
	require.NoError(t, err)
	require.Len(t, arr, 1)
	assert.Equal(t, "Solo", arr[0].(map[string]any)["title"])
}

func TestExtractArray_ObjectWithListField(t *testing.T) {
	arr, err := ExtractJSONArray(`{"title": "Solo", "tags": ["a", "b"]}`)
	require.NoError(t, err)
	require.Len(t, arr, 1)
	assert.Equal(t, map[string]any{"title": "Solo", "tags": []any{"a", "b"}}, arr[0])
}

func TestExtractArray_UnwrapsEnvelope(t *testing.T) {
	arr, err := ExtractJSONArray(`{"items": [{"title": "A"}, {"title": "B"}]}`)
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"title": "A"}, map[string]any{"title": "B"}}, arr)
}

func TestExtractArray_SkipsScalarArrays(t *testing.T) {
	arr, err := ExtractJSONArray("Per source [1], items:\n[{\"title\": \"A\"}, {\"title\": \"B\"}]")
	require.NoError(t, err)
	require.Len(t, arr, 2)
	assert.Equal(t, map[string]any{"title": "A"}, arr[0])
}

func TestExtractArray_ScalarArrayBeforeObject(t *testing.T) {
	arr, err := ExtractJSONArray(`See [1]. {"title": "Solo"}`)
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"title": "Solo"}}, arr)

	arr, err = ExtractJSONArray(`ids: [1, 2]`)
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), float64(2)}, arr)
}

func TestExtractArray_NothingFound(t *testing.T) {
	_, err := ExtractJSONArray("no structured data on this page")
	assert.True(t, eris.Is(err, ErrNoJSONFound))
}

func TestParseScanMode(t *testing.T) {
	assert.Equal(t, ScanGreedy, ParseScanMode(" Greedy "))
	assert.Equal(t, ScanBalanced, ParseScanMode("balanced"))
	assert.Equal(t, ScanBalanced, ParseScanMode(""))
}

func TestToJSON(t *testing.T) {
	assert.Equal(t, "{\n  \"a\": 1\n}", ToJSON(map[string]int{"a": 1}))
	assert.Equal(t, "", ToJSON(make(chan int)))
}
