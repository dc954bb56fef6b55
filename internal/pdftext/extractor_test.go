package pdftext

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/joseph-ayodele/purchase-tracker/internal/common"
	"github.com/joseph-ayodele/purchase-tracker/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	mu     sync.Mutex
	calls  [][]string
	plain  string
	layout string
	err    error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{name}, args...))
	f.mu.Unlock()
	if f.err != nil {
		return nil, []byte("Syntax Error: broken xref"), f.err
	}
	if len(args) > 0 && args[0] == "-layout" {
		return []byte(f.layout), nil, nil
	}
	return []byte(f.plain), nil, nil
}

func writePDF(t *testing.T, size int) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "request.pdf")
	require.NoError(t, os.WriteFile(p, []byte(strings.Repeat("x", size)), 0o600))
	return p
}

func newTestExtractor(cfg Config, r Runner, pages func(string) (int, error)) *Extractor {
	e := NewExtractor(cfg, nil).WithRunner(r)
	e.pageCount = pages
	return e
}

func onePage(string) (int, error) { return 1, nil }

func TestExtract_BothRenderings(t *testing.T) {
	r := &fakeRunner{plain: "Solicitação de Compra: 1\r\n", layout: "Requerente   Setor  \n\fX"}
	e := newTestExtractor(Config{Pdftotext: "/usr/bin/pdftotext"}, r, onePage)

	res, err := e.Extract(context.Background(), writePDF(t, 10))
	require.NoError(t, err)

	assert.Equal(t, "Solicitação de Compra: 1", res.Document.Plain)
	assert.Equal(t, "Requerente   Setor\n\nX", res.Document.Layout)
	assert.Equal(t, 1, res.Pages)
	assert.Empty(t, res.Warnings)

	require.Len(t, r.calls, 2)
	var sawLayout bool
	for _, c := range r.calls {
		assert.Equal(t, "/usr/bin/pdftotext", c[0])
		assert.Contains(t, c, "-f")
		assert.Equal(t, "-", c[len(c)-1])
		if c[1] == "-layout" {
			sawLayout = true
		}
	}
	assert.True(t, sawLayout)
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	p := filepath.Join(t.TempDir(), "photo.png")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))

	e := newTestExtractor(Config{}, &fakeRunner{}, onePage)
	_, err := e.Extract(context.Background(), p)
	assert.True(t, errors.Is(err, common.ErrUnsupportedFormat))
}

func TestExtract_TooLarge(t *testing.T) {
	e := newTestExtractor(Config{MaxBytes: 5}, &fakeRunner{}, onePage)
	_, err := e.Extract(context.Background(), writePDF(t, 6))
	assert.True(t, errors.Is(err, common.ErrTooLarge))

	_, err = e.ExtractBytes(context.Background(), make([]byte, 6))
	assert.True(t, errors.Is(err, common.ErrTooLarge))
}

func TestExtract_PreflightWarnsByDefault(t *testing.T) {
	bad := func(string) (int, error) { return 0, errors.New("pdfcpu: corrupt") }
	r := &fakeRunner{plain: "a", layout: "b"}

	res, err := newTestExtractor(Config{}, r, bad).Extract(context.Background(), writePDF(t, 3))
	require.NoError(t, err)
	assert.Equal(t, extract.RawDocumentText{Plain: "a", Layout: "b"}, res.Document)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "corrupt")

	_, err = newTestExtractor(Config{StrictPreflight: true}, r, bad).Extract(context.Background(), writePDF(t, 3))
	assert.True(t, errors.Is(err, common.ErrUnsupportedFormat))
}

func TestExtract_RunnerFailure(t *testing.T) {
	r := &fakeRunner{err: errors.New("exit status 1")}
	_, err := newTestExtractor(Config{}, r, onePage).Extract(context.Background(), writePDF(t, 3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken xref")
}

func TestExtractBytes_RemovesTempFile(t *testing.T) {
	r := &fakeRunner{plain: "p", layout: "l"}
	e := newTestExtractor(Config{}, r, onePage)

	res, err := e.ExtractBytes(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "p", res.Document.Plain)

	require.NotEmpty(t, r.calls)
	path := r.calls[0][len(r.calls[0])-2]
	assert.True(t, strings.HasSuffix(path, ".pdf"))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestNormalize(t *testing.T) {
	decomposed := "Observac\u0327a\u0303o:"
	assert.Equal(t, "Observa\u00e7\u00e3o:", Normalize(decomposed))
	assert.Equal(t, "a  b\nc", Normalize("a  b   \r\nc\n\n"))
	assert.Equal(t, "p1\np2", Normalize("p1\fp2"))
	assert.Equal(t, "", Normalize(""))
}
