package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/mdh"
	"pkt.systems/version"
)

const defaultChunkSize = 4096

func init() {
	version.SetDefaultModule("pkt.systems/mdh")
}

func main() {
	var (
		outPath    string
		unsafeHTML bool
		standalone bool
		title      string
		chunkSize  int
		noValidate bool
	)

	flags := pflag.NewFlagSet("mdh", pflag.ExitOnError)
	flags.StringVarP(&outPath, "output", "o", "", "Output file instead of stdout")
	flags.BoolVar(&unsafeHTML, "unsafe-html", false, "Pass raw HTML through instead of escaping it")
	flags.BoolVarP(&standalone, "standalone", "s", false, "Wrap the fragment in a complete HTML document")
	flags.StringVarP(&title, "title", "t", "", "Document title for --standalone (defaults to the first input name)")
	flags.IntVar(&chunkSize, "chunk-size", defaultChunkSize, "Max bytes read from input per chunk")
	flags.BoolVar(&noValidate, "no-validate", false, "Skip the binary/UTF-8 sanity check on the first chunk")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, version.Module(), version.Current())
		fmt.Fprintf(os.Stderr, "Usage: mdh [flags] [inputs...]\n")
		fmt.Fprintln(os.Stderr, "\nInputs may be files or http(s) URLs. With no input, Markdown is read from stdin.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	args := flags.Args()
	if len(args) == 0 && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "reading Markdown from terminal; end with ^D (see --help)")
	}

	reader, closer, err := openInputs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open input: %v\n", err)
		os.Exit(1)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	if chunkSize > 0 {
		reader = &chunkReader{r: reader, maxChunk: chunkSize}
	}
	if !noValidate {
		reader = &validatingReader{r: reader}
	}

	writer, closeOut, err := resolveOutput(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open output: %v\n", err)
		os.Exit(1)
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}

	if standalone {
		if title == "" {
			title = documentTitle(args)
		}
		writeHead(writer, title)
	}

	var opts []mdh.Option
	if unsafeHTML {
		opts = append(opts, mdh.WithHTML(true))
	}
	if err := mdh.Render(mdh.RenderRequest{
		Reader:  reader,
		Writer:  writer,
		Options: opts,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(1)
	}
	if standalone {
		fmt.Fprintln(writer, "</body>\n</html>")
	}
}

func documentTitle(args []string) string {
	if len(args) == 0 {
		return "Markdown"
	}
	base := filepath.Base(args[0])
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func writeHead(w io.Writer, title string) {
	fmt.Fprintln(w, "<!doctype html>")
	fmt.Fprintln(w, `<html lang="en">`)
	fmt.Fprintln(w, "<head>")
	fmt.Fprintln(w, `<meta charset="utf-8">`)
	fmt.Fprintf(w, "<title>%s</title>\n", htmlEscapeString(title))
	fmt.Fprintln(w, "</head>")
	fmt.Fprintln(w, "<body>")
}

func htmlEscapeString(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&#39;")
	return r.Replace(s)
}

type inputSource struct {
	open func() (io.Reader, io.Closer, error)
}

// multiInputReader concatenates the configured sources, opening each one
// lazily when the previous source is exhausted.
type multiInputReader struct {
	sources   []inputSource
	idx       int
	cur       io.Reader
	curCloser io.Closer
	closed    bool
}

func (m *multiInputReader) Read(p []byte) (int, error) {
	for {
		if m.closed {
			return 0, io.EOF
		}
		if m.cur == nil {
			if m.idx >= len(m.sources) {
				m.closed = true
				return 0, io.EOF
			}
			reader, closer, err := m.sources[m.idx].open()
			if err != nil {
				return 0, err
			}
			m.cur = reader
			m.curCloser = closer
			m.idx++
		}
		n, err := m.cur.Read(p)
		if n > 0 {
			return n, nil
		}
		if err == io.EOF {
			if m.curCloser != nil {
				_ = m.curCloser.Close()
			}
			m.cur = nil
			m.curCloser = nil
			continue
		}
		if err != nil {
			return 0, err
		}
	}
}

func (m *multiInputReader) Close() error {
	m.closed = true
	if m.curCloser != nil {
		return m.curCloser.Close()
	}
	return nil
}

func openInputs(args []string) (io.Reader, io.Closer, error) {
	if len(args) == 0 {
		return os.Stdin, nil, nil
	}
	sources := make([]inputSource, 0, len(args))
	for _, raw := range args {
		src, err := makeInputSource(raw)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, src)
	}
	return &multiInputReader{sources: sources}, nil, nil
}

func makeInputSource(raw string) (inputSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return inputSource{}, fmt.Errorf("empty input argument")
	}
	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return inputSource{open: func() (io.Reader, io.Closer, error) {
				return openURL(raw)
			}}, nil
		case "file":
			path := u.Path
			if path == "" {
				path = u.Host
			}
			if unescaped, err := url.PathUnescape(path); err == nil {
				path = unescaped
			}
			return inputSource{open: func() (io.Reader, io.Closer, error) {
				return openFile(path)
			}}, nil
		}
	}
	return inputSource{open: func() (io.Reader, io.Closer, error) {
		return openFile(raw)
	}}, nil
}

func openURL(raw string) (io.Reader, io.Closer, error) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, raw, nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, nil, fmt.Errorf("http %s: %s", raw, resp.Status)
	}
	return resp.Body, resp.Body, nil
}

func openFile(path string) (io.Reader, io.Closer, error) {
	clean := normalizePath(path)
	f, err := os.Open(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func resolveOutput(path string) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return os.Stdout, nil, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}

// chunkReader caps the size of individual reads, which exercises the
// streaming path even when the source arrives in one piece.
type chunkReader struct {
	r        io.Reader
	maxChunk int
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if c.maxChunk > 0 && len(p) > c.maxChunk {
		p = p[:c.maxChunk]
	}
	return c.r.Read(p)
}

// validatingReader runs the binary/UTF-8 sanity check on the first chunk.
type validatingReader struct {
	r       io.Reader
	checked bool
}

func (v *validatingReader) Read(p []byte) (int, error) {
	n, err := v.r.Read(p)
	if !v.checked && n > 0 {
		v.checked = true
		sample := p[:n]
		// a chunk boundary may split a rune; don't judge the partial tail
		for i := 0; i < 3 && len(sample) > 0 && sample[len(sample)-1] >= 0x80; i++ {
			if utf8.Valid(sample) {
				break
			}
			sample = sample[:len(sample)-1]
		}
		if verr := mdh.ValidateInput(sample); verr != nil {
			return 0, verr
		}
	}
	return n, err
}
