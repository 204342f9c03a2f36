// Package mdh renders Markdown to HTML fragments.
//
// This package is built for streaming: bytes are fed incrementally and HTML
// is emitted as soon as a construct is decided. The engine never buffers the
// whole document; it tracks open blocks on a bounded stack and holds only the
// current unterminated line across Feed calls, so unbounded streams can be
// rendered as they arrive.
//
// Core properties:
//   - Single pass, linear in input size, bounded auxiliary memory
//   - Chunk boundaries are invisible: byte-by-byte feeding produces the same
//     bytes as feeding the whole document at once
//   - Malformed markup degrades to literal text instead of failing
//   - Low allocations in hot paths
//
// Example:
//
//	reader := strings.NewReader("# Hello\n\nMarkdown in, HTML out.\n")
//	err := mdh.Render(mdh.RenderRequest{
//		Reader: reader,
//		Writer: os.Stdout,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// For chunked use, create a Parser with NewParser and call Feed for each
// chunk followed by a single Finish. The concatenation of everything written
// to the sink across Feed and Finish is the complete document.
package mdh
