package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wizenheimer/trecsearch"
)

const consoleCollection = `<DOC>
<DOCNO> 1 </DOCNO>
<TEXT>
A zebra and a fox.
</TEXT>
</DOC>
<DOC>
<DOCNO> 2 </DOCNO>
<TEXT>
The fox and the bird.
</TEXT>
</DOC>
`

func newConsoleEngine(t *testing.T) *trecsearch.Engine {
	t.Helper()
	dir := t.TempDir()

	cfg := trecsearch.DefaultConfig()
	cfg.CollectionPath = filepath.Join(dir, "collection.xml")
	cfg.IndexPath = filepath.Join(dir, "index.txt")
	cfg.StopwordPath = filepath.Join(dir, "stop_words.txt")
	require.NoError(t, os.WriteFile(cfg.CollectionPath, []byte(consoleCollection), 0o600))
	require.NoError(t, os.WriteFile(cfg.StopwordPath, []byte("the\na\nand\n"), 0o600))

	engine, err := trecsearch.NewEngine(cfg, trecsearch.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	require.NoError(t, engine.Open())
	return engine
}

func TestRunConsole_Term(t *testing.T) {
	engine := newConsoleEngine(t)
	var out bytes.Buffer

	err := runConsole(engine, trecsearch.MethodTerm, strings.NewReader("fox\nzebra\nEXIT\nbird\n"), &out)
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "Index loaded with 3 terms.")
	assert.Contains(t, got, "with term search")
	assert.Contains(t, got, "[1 2]\nTotal 2 documents found.")
	assert.Contains(t, got, "[1]\nTotal 1 documents found.")
	assert.Contains(t, got, "Good Bye!")
	assert.NotContains(t, got, "[2]\n", "queries after EXIT are not answered")
}

func TestRunConsole_TfIdf(t *testing.T) {
	engine := newConsoleEngine(t)
	var out bytes.Buffer

	err := runConsole(engine, trecsearch.MethodTfIdf, strings.NewReader("zebra\nEXIT\n"), &out)
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "with TFIDF search")
	assert.Contains(t, got, "Top Documents: [(1, 0.3010)]")
	assert.Contains(t, got, "Suggested Terms: [(zebra, 0.3010), (fox, 0.0000)]")
	assert.Contains(t, got, "Total 1 documents found.")
}

func TestRunConsole_EndOfInput(t *testing.T) {
	engine := newConsoleEngine(t)
	var out bytes.Buffer

	require.NoError(t, runConsole(engine, trecsearch.MethodTerm, strings.NewReader("fox"), &out))
	assert.NotContains(t, out.String(), "Good Bye!")
	assert.Contains(t, out.String(), "Total 2 documents found.")
}
