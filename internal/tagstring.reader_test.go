package internal

import (
	"errors"
	"io"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingHandler resolves bodies from a fixed map and records calls
type recordingHandler struct {
	values   map[string]any
	fallback any
	starts   int
	bodies   []string
	contexts []any
	provider LocationProvider
}

func (h *recordingHandler) StartTag() {
	h.starts++
}

func (h *recordingHandler) EndTag(body string, context any) (any, error) {
	h.bodies = append(h.bodies, body)
	h.contexts = append(h.contexts, context)
	if v, ok := h.values[body]; ok {
		return v, nil
	}
	return h.fallback, nil
}

func (h *recordingHandler) SetLocationProvider(p LocationProvider) {
	h.provider = p
}

type point struct{ X, Y int }

func (p point) String() string {
	return "point"
}

func readAll(t *testing.T, source string, config ReaderConfig, handler TagHandler) (string, *TagReader, error) {
	t.Helper()
	r := NewTagReaderWithConfig(source, config, handler, nil, zap.NewNop())
	out, err := r.ReadAll()
	return out, r, err
}

func TestTagReader_Substitution(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		values   map[string]any
		expected string
	}{
		{
			name:     "plain text",
			input:    "no tags here",
			expected: "no tags here",
		},
		{
			name:     "empty template",
			input:    "",
			expected: "",
		},
		{
			name:     "tag after text",
			input:    "alles ${diedel}",
			values:   map[string]any{"diedel": "V"},
			expected: "alles V",
		},
		{
			name:     "back to back tags",
			input:    "${diedel}${diedel}",
			values:   map[string]any{"diedel": "V"},
			expected: "VV",
		},
		{
			name:     "empty result collapses",
			input:    "${diedel} doedel",
			values:   map[string]any{"diedel": ""},
			expected: " doedel",
		},
		{
			name:     "nil result collapses",
			input:    "${diedel} doedel",
			values:   map[string]any{"diedel": nil},
			expected: " doedel",
		},
		{
			name:     "non-string result is stringified",
			input:    "count=${n}",
			values:   map[string]any{"n": 42},
			expected: "count=42",
		},
		{
			name:     "end marker outside a tag is literal",
			input:    "a } b",
			expected: "a } b",
		},
		{
			name:     "escaped start marker",
			input:    "${${}test}",
			expected: "${test}",
		},
		{
			name:     "escaped start marker between tags",
			input:    "${a}${${}${a}",
			values:   map[string]any{"a": "A"},
			expected: "A${A",
		},
		{
			name:     "multiline text",
			input:    "line 1\n${a}\nline 3",
			values:   map[string]any{"a": "two"},
			expected: "line 1\ntwo\nline 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &recordingHandler{values: tt.values}
			out, _, err := readAll(t, tt.input, DefaultReaderConfig(), h)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestTagReader_Unterminated(t *testing.T) {
	for _, input := range []string{"alles ${diedel", "${diede", "${a${b}"} {
		t.Run(input, func(t *testing.T) {
			h := &recordingHandler{fallback: "x"}
			_, _, err := readAll(t, input, DefaultReaderConfig(), h)
			require.Error(t, err)

			var readerErr *ReaderError
			require.True(t, errors.As(err, &readerErr))
			assert.Equal(t, ErrMsgUnterminatedTag, readerErr.Message)
		})
	}

	t.Run("position of the open marker", func(t *testing.T) {
		h := &recordingHandler{}
		_, _, err := readAll(t, "first\nsecond ${open", DefaultReaderConfig(), h)

		var readerErr *ReaderError
		require.True(t, errors.As(err, &readerErr))
		assert.Equal(t, Position{Offset: 13, Line: 2, Column: 8}, readerErr.Position)
	})
}

func TestTagReader_BodyEscapes(t *testing.T) {
	t.Run("backslash before end marker", func(t *testing.T) {
		h := &recordingHandler{fallback: "ok"}
		out, _, err := readAll(t, `${a\}b}`, DefaultReaderConfig(), h)
		require.NoError(t, err)
		assert.Equal(t, "ok", out)
		assert.Equal(t, []string{"a}b"}, h.bodies)
	})

	t.Run("backslash elsewhere is kept", func(t *testing.T) {
		h := &recordingHandler{fallback: "ok"}
		_, _, err := readAll(t, `${a\b}`, DefaultReaderConfig(), h)
		require.NoError(t, err)
		assert.Equal(t, []string{`a\b`}, h.bodies)
	})

	t.Run("escaped start marker in body", func(t *testing.T) {
		h := &recordingHandler{fallback: "ok"}
		_, _, err := readAll(t, "${a${${}b}", DefaultReaderConfig(), h)
		require.NoError(t, err)
		assert.Equal(t, []string{"a${b"}, h.bodies)
	})
}

func TestTagReader_Nested(t *testing.T) {
	t.Run("inner tag resolves first", func(t *testing.T) {
		h := &recordingHandler{values: map[string]any{"b": "x", "ax": "done"}}
		out, _, err := readAll(t, "[${a${b}}]", DefaultReaderConfig(), h)
		require.NoError(t, err)
		assert.Equal(t, "[done]", out)
		assert.Equal(t, []string{"b", "ax"}, h.bodies)
		assert.Equal(t, 2, h.starts)
	})

	t.Run("result is rescanned once", func(t *testing.T) {
		h := &recordingHandler{values: map[string]any{"x": "<${y}>", "y": "Y"}}
		out, _, err := readAll(t, "${x}", DefaultReaderConfig(), h)
		require.NoError(t, err)
		assert.Equal(t, "<Y>", out)
	})

	t.Run("rescan stops after one pass", func(t *testing.T) {
		h := &recordingHandler{values: map[string]any{"x": "${y}", "y": "${x}"}}
		out, _, err := readAll(t, "${x}", DefaultReaderConfig(), h)
		require.NoError(t, err)
		assert.Equal(t, "${x}", out)
	})

	t.Run("expanded results are not rescanned", func(t *testing.T) {
		h := &recordingHandler{values: map[string]any{"x": Expanded("<${y}>"), "y": "Y"}}
		out, _, err := readAll(t, "${x}", DefaultReaderConfig(), h)
		require.NoError(t, err)
		assert.Equal(t, "<${y}>", out)
		assert.Equal(t, []string{"x"}, h.bodies)
	})

	t.Run("rescan disabled", func(t *testing.T) {
		cfg := DefaultReaderConfig()
		cfg.RescanResults = false
		h := &recordingHandler{values: map[string]any{"x": "${y}"}}
		out, _, err := readAll(t, "${x}", cfg, h)
		require.NoError(t, err)
		assert.Equal(t, "${y}", out)
	})

	t.Run("unterminated marker in a result is literal", func(t *testing.T) {
		h := &recordingHandler{values: map[string]any{"x": "cost ${"}}
		out, _, err := readAll(t, "${x}!", DefaultReaderConfig(), h)
		require.NoError(t, err)
		assert.Equal(t, "cost ${!", out)
	})

	t.Run("escape in a result stays literal", func(t *testing.T) {
		h := &recordingHandler{values: map[string]any{"x": "${${}y}"}}
		out, _, err := readAll(t, "${x}", DefaultReaderConfig(), h)
		require.NoError(t, err)
		assert.Equal(t, "${y}", out)
	})
}

func TestTagReader_ObjectPreserving(t *testing.T) {
	cfg := DefaultReaderConfig()
	cfg.ForceToString = false
	obj := point{X: 1, Y: 2}

	t.Run("template is exactly one tag", func(t *testing.T) {
		h := &recordingHandler{values: map[string]any{"diedel": obj}}
		out, r, err := readAll(t, "${diedel}", cfg, h)
		require.NoError(t, err)
		assert.Equal(t, "", out)
		assert.True(t, r.HasResolvedObject())
		assert.Equal(t, obj, r.ResolvedObject())
		assert.Equal(t, 1, r.ResolvedObjectCount())
	})

	t.Run("leading literal text", func(t *testing.T) {
		h := &recordingHandler{values: map[string]any{"diedel": obj}}
		out, r, err := readAll(t, " ${diedel}", cfg, h)
		require.NoError(t, err)
		assert.Equal(t, " point", out)
		assert.True(t, r.HasResolvedObject())
		assert.Equal(t, obj, r.ResolvedObject())
	})

	t.Run("trailing literal text", func(t *testing.T) {
		h := &recordingHandler{values: map[string]any{"diedel": obj}}
		out, r, err := readAll(t, "${diedel} ", cfg, h)
		require.NoError(t, err)
		assert.Equal(t, "point ", out)
		assert.True(t, r.HasResolvedObject())
	})

	t.Run("two objects", func(t *testing.T) {
		h := &recordingHandler{values: map[string]any{"a": obj, "b": 7}}
		out, r, err := readAll(t, "${a}${b}", cfg, h)
		require.NoError(t, err)
		assert.Equal(t, "point7", out)
		assert.Equal(t, 2, r.ResolvedObjectCount())
		assert.Equal(t, 7, r.ResolvedObject())
	})

	t.Run("string result is not an object", func(t *testing.T) {
		h := &recordingHandler{values: map[string]any{"a": "text"}}
		out, r, err := readAll(t, "${a}", cfg, h)
		require.NoError(t, err)
		assert.Equal(t, "text", out)
		assert.False(t, r.HasResolvedObject())
	})

	t.Run("force to string never holds objects", func(t *testing.T) {
		h := &recordingHandler{values: map[string]any{"a": obj}}
		out, r, err := readAll(t, "${a}", DefaultReaderConfig(), h)
		require.NoError(t, err)
		assert.Equal(t, "point", out)
		assert.False(t, r.HasResolvedObject())
	})
}

func TestTagReader_AlternateMarkers(t *testing.T) {
	cfg := ReaderConfig{StartMarker: "<%", EndMarker: "%>", ForceToString: true, RescanResults: true}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "substitution", input: "alles <%diedel%>", expected: "alles V"},
		{name: "back to back", input: "<%diedel%><%diedel%>", expected: "VV"},
		{name: "escape", input: "<%<%%>test%>", expected: "<%test%>"},
		{name: "dollar is literal", input: "${diedel}", expected: "${diedel}"},
		{name: "escaped end marker", input: `<%a\%>b%>`, expected: "V"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &recordingHandler{values: map[string]any{"diedel": "V"}, fallback: "V"}
			out, _, err := readAll(t, tt.input, cfg, h)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}

	t.Run("unterminated", func(t *testing.T) {
		for _, input := range []string{"alles <%diedel", "<%diede", "<%diedel%"} {
			h := &recordingHandler{fallback: "V"}
			_, _, err := readAll(t, input, cfg, h)
			assert.Error(t, err, input)
		}
	})
}

func TestTagReader_HandlerError(t *testing.T) {
	boom := errors.New("boom")
	handler := TagHandlerFunc(func(body string, context any) (any, error) {
		return nil, boom
	})

	r := NewTagReader("before ${x} after", handler, nil, nil)
	out, err := r.ReadAll()
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "before ", out)
}

func TestTagReader_ContextAndLocation(t *testing.T) {
	h := &recordingHandler{fallback: "v"}
	ctx := map[string]any{"k": 1}
	r := NewTagReader("ab\n${x}", h, ctx, nil)

	require.NotNil(t, h.provider)
	_, err := r.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []any{ctx}, h.contexts)
	assert.Equal(t, Position{Offset: 7, Line: 2, Column: 5}, h.provider.Position())
}

func TestTagReader_SmallReads(t *testing.T) {
	h := &recordingHandler{values: map[string]any{"user": "Ada", "state": "online"}}
	r := NewTagReader("Hello, ${user}. Are you ${state}?", h, nil, nil)

	data, err := io.ReadAll(iotest.OneByteReader(r))
	require.NoError(t, err)
	assert.Equal(t, "Hello, Ada. Are you online?", string(data))
}
