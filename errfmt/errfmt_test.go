package errfmt

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitewright/sitewright/structerr"
)

func TestTextRender(t *testing.T) {
	f := NewText()
	f.WithoutColors()

	t.Run("headline carries the source message", func(t *testing.T) {
		e := structerr.Normalize(structerr.Message("pages failed to render"))[0]

		out := f.Render(e)

		assert.Equal(t, "ERROR pages failed to render", out)
	})

	t.Run("details are sorted by key", func(t *testing.T) {
		e := structerr.Normalize(structerr.FromContext(structerr.Context{
			SourceMessage: "plugin exploded",
			Details: map[string]any{
				"path":   "/content/about.md",
				"plugin": "sitemap",
				"code":   12,
			},
		}))[0]

		out := f.Render(e)
		lines := strings.Split(out, "\n")

		require.Len(t, lines, 4)
		assert.Equal(t, "ERROR plugin exploded", lines[0])
		assert.Equal(t, "  code: 12", lines[1])
		assert.Equal(t, "  path: /content/about.md", lines[2])
		assert.Equal(t, "  plugin: sitemap", lines[3])
	})

	t.Run("cause shown when it adds information", func(t *testing.T) {
		e := structerr.Normalize(structerr.Wrap("loading config", errors.New("file not found")))[0]

		out := f.Render(e)

		assert.Contains(t, out, "ERROR loading config file not found")
		assert.Contains(t, out, "caused by: file not found")
	})

	t.Run("cause hidden when identical to message", func(t *testing.T) {
		e := structerr.Normalize(structerr.Cause(errors.New("boom")))[0]

		out := f.Render(e)

		assert.Equal(t, "ERROR boom", out)
		assert.NotContains(t, out, "caused by")
	})

	t.Run("nil error renders empty", func(t *testing.T) {
		assert.Equal(t, "", f.Render(nil))
	})
}

func TestTextWithoutColors(t *testing.T) {
	f := NewText()
	f.WithoutColors()

	e := structerr.Normalize(structerr.FromContext(structerr.Context{
		SourceMessage: "broken",
		Details:       map[string]any{"k": "v"},
	}))[0]

	out := f.Render(e)
	assert.NotContains(t, out, "\x1b[", "plain output must carry no ANSI escapes")
}
