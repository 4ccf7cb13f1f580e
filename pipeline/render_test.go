package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"index.md", "index.html"},
		{"docs/guide.md", "docs/guide.html"},
		{"notes.markdown", "notes.html"},
		{"raw.html", "raw.html"},
		{"old.htm", "old.html"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, outputPath(tt.in))
		})
	}
}

func TestRenderHTML(t *testing.T) {
	t.Run("markdown heading becomes the title", func(t *testing.T) {
		out := renderHTML("Example", "docs/guide.md", []byte("# Guide\n\ncontent"))
		assert.Contains(t, out, "<title>Guide | Example</title>")
		assert.Contains(t, out, "<pre>")
	})

	t.Run("html passes through unescaped", func(t *testing.T) {
		out := renderHTML("", "raw.html", []byte("<h1>Raw</h1>"))
		assert.Contains(t, out, "<h1>Raw</h1>")
		assert.Contains(t, out, "<title>raw</title>")
	})

	t.Run("non-html content is escaped", func(t *testing.T) {
		out := renderHTML("", "notes.md", []byte("a < b"))
		assert.Contains(t, out, "a &lt; b")
	})

	t.Run("no site title means no separator", func(t *testing.T) {
		out := renderHTML("", "docs/guide.md", []byte("# Guide"))
		assert.Contains(t, out, "<title>Guide</title>")
	})
}

func TestPageTitle(t *testing.T) {
	assert.Equal(t, "Welcome", pageTitle("index.md", []byte("intro\n# Welcome\ntext")))
	assert.Equal(t, "index", pageTitle("index.md", []byte("no heading here")))
	assert.Equal(t, "guide", pageTitle("docs/guide.html", nil))
}

func TestIsPage(t *testing.T) {
	assert.True(t, isPage("a.md"))
	assert.True(t, isPage("a.MD"))
	assert.True(t, isPage("a.markdown"))
	assert.True(t, isPage("a.html"))
	assert.True(t, isPage("a.htm"))
	assert.False(t, isPage("a.txt"))
	assert.False(t, isPage("a.css"))
}
