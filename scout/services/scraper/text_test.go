package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	doc := `<html><head><title>T</title><style>.a{color:red}</style></head>
<body>
  <script>var x = "hidden";</script>
  <h1>Breaking   news</h1>
  <!-- comment -->
  <p>First <b>bold</b> line.</p>
  <noscript>enable js</noscript>
</body></html>`

	text := CleanText(doc)
	assert.Equal(t, "T Breaking news First bold line.", text)
	assert.Equal(t, 6, WordCount(text))
}

func TestCleanText_Empty(t *testing.T) {
	assert.Equal(t, "", CleanText(""))
	assert.Equal(t, 0, WordCount(""))
}
