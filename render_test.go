package mdh

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestRenderFromReader(t *testing.T) {
	var out bytes.Buffer
	err := Render(RenderRequest{
		Reader: strings.NewReader("# Hi\n\nbody `code`\n"),
		Writer: &out,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "<h1>Hi</h1>\n<p>body <code>code</code></p>\n"
	if out.String() != want {
		t.Fatalf("got %q want %q", out.String(), want)
	}
}

func TestRenderNilArguments(t *testing.T) {
	if err := Render(RenderRequest{Writer: io.Discard}); err == nil {
		t.Fatalf("expected error for nil reader")
	}
	if err := Render(RenderRequest{Reader: strings.NewReader("x")}); err == nil {
		t.Fatalf("expected error for nil writer")
	}
}

func TestRenderPropagatesReadError(t *testing.T) {
	boom := errors.New("boom")
	var out bytes.Buffer
	err := Render(RenderRequest{
		Reader: io.MultiReader(strings.NewReader("# partial\n"), &failingReader{err: boom}),
		Writer: &out,
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped read error, got %v", err)
	}
}

type failingReader struct{ err error }

func (f *failingReader) Read([]byte) (int, error) { return 0, f.err }

func TestRenderChunkingInvisible(t *testing.T) {
	src := "| A | B |\n|---|---|\n| 1 | 2 |\n\n> quote\nlazy\n"
	var whole bytes.Buffer
	if err := Render(RenderRequest{Reader: strings.NewReader(src), Writer: &whole}); err != nil {
		t.Fatalf("render: %v", err)
	}
	var tiny bytes.Buffer
	if err := Render(RenderRequest{Reader: &oneByteReader{s: src}, Writer: &tiny}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if whole.String() != tiny.String() {
		t.Fatalf("chunking changed output: %q vs %q", whole.String(), tiny.String())
	}
}

// oneByteReader yields the source one byte per Read call.
type oneByteReader struct {
	s string
	i int
}

func (r *oneByteReader) Read(p []byte) (int, error) {
	if r.i >= len(r.s) {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}
	p[0] = r.s[r.i]
	r.i++
	return 1, nil
}

func TestRenderWithHTMLOption(t *testing.T) {
	var out bytes.Buffer
	err := Render(RenderRequest{
		Reader:  strings.NewReader("keep <b>this</b>\n"),
		Writer:  &out,
		Options: []Option{WithHTML(true)},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out.String() != "<p>keep <b>this</b></p>\n" {
		t.Fatalf("got %q", out.String())
	}
}
