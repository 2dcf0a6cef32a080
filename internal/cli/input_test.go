package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/bastiangx/wordgraph/pkg/config"
	"github.com/bastiangx/wordgraph/pkg/engine"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(input string) (*InputHandler, *bytes.Buffer, *engine.Engine) {
	var out bytes.Buffer
	eng := engine.New(engine.WithLogger(log.New(io.Discard)))
	cfg := config.CliConfig{Placeholder: "None", Color: false}
	return NewInputHandler(eng, strings.NewReader(input), &out, cfg), &out, eng
}

func TestChatLoop(t *testing.T) {
	h, out, eng := newHandler("the quick fox\nthe quick dog\nthe\n")
	require.NoError(t, h.Start())

	text := out.String()
	assert.NotContains(t, text, prompt, "no prompt without a terminal")
	assert.Equal(t, 3, strings.Count(text, "--- End of Response ---"))

	blocks := strings.Split(text, "--- Response ---")
	require.Len(t, blocks, 4)

	assert.Contains(t, blocks[1], "Top Words: the, quick, fox\n")
	assert.Contains(t, blocks[1], "Suggestions for 'fox': fox\n")
	assert.Contains(t, blocks[1], "Next Word Prediction: None\n")
	assert.Contains(t, blocks[1], "Related Words: None\n")

	assert.Contains(t, blocks[3], "Suggestions for 'the': the\n")
	assert.Contains(t, blocks[3], "Next Word Prediction: quick\n")
	assert.Contains(t, blocks[3], "Related Words: quick\n")

	assert.Equal(t, 3, eng.Stats().Sentences)
}

func TestChatLoopExit(t *testing.T) {
	for _, word := range []string{"exit", "EXIT", "  Exit  "} {
		h, out, eng := newHandler("hello world\n" + word + "\nnever seen\n")
		require.NoError(t, h.Start())

		assert.Contains(t, out.String(), "Goodbye!")
		assert.Equal(t, 1, eng.Stats().Sentences, word)
		_, ok := eng.Lookup("never")
		assert.False(t, ok)
	}
}

func TestChatLoopSkipsBlankLines(t *testing.T) {
	h, out, eng := newHandler("\n   \nword\n\n")
	require.NoError(t, h.Start())

	assert.Equal(t, 1, strings.Count(out.String(), "--- End of Response ---"))
	assert.Equal(t, 1, eng.Stats().Sentences)
}

func TestChatLoopCustomPlaceholder(t *testing.T) {
	var out bytes.Buffer
	eng := engine.New(engine.WithLogger(log.New(io.Discard)))
	h := NewInputHandler(eng, strings.NewReader("solo\n"), &out, config.CliConfig{Placeholder: "-"})
	require.NoError(t, h.Start())

	assert.Contains(t, out.String(), "Next Word Prediction: -\n")
	assert.Contains(t, out.String(), "Related Words: -\n")
}
