package mdh

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPRenderRequest configures HTTPRender.
type HTTPRenderRequest struct {
	// URL is the http or https address of the Markdown source.
	URL string
	// Writer receives the rendered HTML.
	Writer io.Writer
	// Client is optional; http.DefaultClient is used when nil.
	Client *http.Client
	// Options configure the parser for this render.
	Options []Option
}

// HTTPRender fetches a Markdown document over HTTP and renders it as the
// response body streams in. The context cancels both the fetch and the
// render.
func HTTPRender(ctx context.Context, req HTTPRenderRequest) error {
	if req.URL == "" {
		return fmt.Errorf("http render: empty url")
	}
	if !strings.HasPrefix(req.URL, "http://") && !strings.HasPrefix(req.URL, "https://") {
		return fmt.Errorf("http render: unsupported url scheme in %q", req.URL)
	}
	if req.Writer == nil {
		return fmt.Errorf("http render: nil writer")
	}
	client := req.Client
	if client == nil {
		client = http.DefaultClient
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return fmt.Errorf("http render: build request: %w", err)
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("http render: fetch %s: %w", req.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("http render: fetch %s: unexpected status %s", req.URL, resp.Status)
	}
	return Render(RenderRequest{
		Reader:  resp.Body,
		Writer:  req.Writer,
		Options: req.Options,
	})
}
