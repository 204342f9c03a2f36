package mdh

import (
	"fmt"
	"io"
	"sync"
)

var parserPool = sync.Pool{
	New: func() any { return &Parser{} },
}

// RenderRequest configures Render.
type RenderRequest struct {
	// Reader supplies the Markdown source.
	Reader io.Reader
	// Writer receives the rendered HTML.
	Writer io.Writer
	// Options configure the parser for this render.
	Options []Option
}

// Render streams Markdown from req.Reader to req.Writer in fixed-size
// chunks, using a pooled parser. Output order matches input order and the
// writer sees the same bytes regardless of how the reader chunks the source.
func Render(req RenderRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("render: nil reader")
	}
	if req.Writer == nil {
		return fmt.Errorf("render: nil writer")
	}
	p := parserPool.Get().(*Parser)
	p.Reset(req.Options...)
	var retErr error
	buf := p.readArr[:]
	for {
		n, err := req.Reader.Read(buf)
		if n > 0 {
			if ferr := p.Feed(buf[:n], req.Writer); ferr != nil {
				retErr = fmt.Errorf("render: %w", ferr)
				goto done
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			retErr = fmt.Errorf("render: read input: %w", err)
			goto done
		}
	}
	if err := p.Finish(req.Writer); err != nil {
		retErr = fmt.Errorf("render: %w", err)
	}
done:
	p.Reset()
	parserPool.Put(p)
	return retErr
}
