package main

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"pkt.systems/mdh"
)

func TestDocumentTitle(t *testing.T) {
	if got := documentTitle(nil); got != "Markdown" {
		t.Fatalf("empty args: %q", got)
	}
	if got := documentTitle([]string{"docs/readme.md", "other.md"}); got != "readme" {
		t.Fatalf("file arg: %q", got)
	}
}

func TestHTMLEscapeString(t *testing.T) {
	got := htmlEscapeString(`<t> & "q"`)
	if got != "&lt;t&gt; &amp; &quot;q&quot;" {
		t.Fatalf("got %q", got)
	}
}

func TestWriteHeadEscapesTitle(t *testing.T) {
	var out bytes.Buffer
	writeHead(&out, `<script>`)
	if strings.Contains(out.String(), "<script>") {
		t.Fatalf("title not escaped: %q", out.String())
	}
	if !strings.Contains(out.String(), "<title>&lt;script&gt;</title>") {
		t.Fatalf("missing escaped title: %q", out.String())
	}
}

func TestChunkReaderCapsReads(t *testing.T) {
	r := &chunkReader{r: strings.NewReader("abcdefgh"), maxChunk: 3}
	buf := make([]byte, 8)
	n, err := r.Read(buf)
	if err != nil || n != 3 {
		t.Fatalf("read: n=%d err=%v", n, err)
	}
}

func TestValidatingReaderRejectsBinary(t *testing.T) {
	data := append([]byte("x\x00"), bytes.Repeat([]byte{0}, 64)...)
	r := &validatingReader{r: bytes.NewReader(data)}
	_, err := r.Read(make([]byte, 128))
	if !errors.Is(err, mdh.ErrBinaryInput) {
		t.Fatalf("expected ErrBinaryInput, got %v", err)
	}
}

func TestValidatingReaderToleratesSplitRune(t *testing.T) {
	// first read ends mid-rune; the partial tail must not trip validation
	full := []byte("text é")
	r := &validatingReader{r: bytes.NewReader(full[:len(full)-1])}
	buf := make([]byte, 16)
	if _, err := r.Read(buf); err != nil {
		t.Fatalf("split rune rejected: %v", err)
	}
}

func TestMultiInputReaderConcatenates(t *testing.T) {
	mk := func(s string) inputSource {
		return inputSource{open: func() (io.Reader, io.Closer, error) {
			return strings.NewReader(s), nil, nil
		}}
	}
	r := &multiInputReader{sources: []inputSource{mk("one\n"), mk("two\n")}}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if string(data) != "one\ntwo\n" {
		t.Fatalf("got %q", data)
	}
}

func TestNormalizePathAbsolute(t *testing.T) {
	got := normalizePath("some/relative.md")
	if !filepath.IsAbs(got) {
		t.Fatalf("expected absolute path, got %q", got)
	}
}
