package mdh

import (
	"bytes"
	"fmt"
	"io"
)

// Parser is a streaming Markdown-to-HTML renderer. A logical document is
// processed end to end by one instance: any number of Feed calls followed by
// exactly one Finish. Instances are not safe for concurrent use; Reset makes
// an instance reusable for the next document.
type Parser struct {
	cfg renderConfig

	pending   []byte
	out       []byte
	stack     []blockContext
	aligns    []cellAlign
	front     frontMatterFilter
	hardBreak bool

	pendingArr [4096]byte
	outArr     [8192]byte
	readArr    [4096]byte
	stackArr   [maxBlockDepth]blockContext
	alignsArr  [maxTableColumns]cellAlign
}

// NewParser returns a ready parser. Options may also be applied later with
// SetOptions or on Reset.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	p.Reset(opts...)
	return p
}

// SetOptions applies options to an existing parser. They affect only input
// fed afterwards.
func (p *Parser) SetOptions(opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(&p.cfg)
		}
	}
}

// Reset clears all document state so the parser can be reused.
func (p *Parser) Reset(opts ...Option) {
	p.cfg = renderConfig{}
	p.pending = p.pendingArr[:0]
	p.out = p.outArr[:0]
	p.stack = p.stackArr[:0]
	p.aligns = p.alignsArr[:0]
	p.front.reset()
	p.hardBreak = false
	p.SetOptions(opts...)
}

// Feed appends chunk to the pending input, processes every decidable line,
// and writes the produced HTML to w in a single Write. A line whose fate
// depends on the following line stays pending until that line's terminator
// arrives, which keeps chunk boundaries invisible in the output.
func (p *Parser) Feed(chunk []byte, w io.Writer) error {
	if data := p.front.process(chunk); len(data) > 0 {
		p.pending = append(p.pending, data...)
	}
	if err := p.drain(false); err != nil {
		return err
	}
	return p.flush(w)
}

// Finish processes the unterminated remainder, closes every open block
// innermost first, and writes the tail to w. After Finish the parser must be
// Reset before the next document.
func (p *Parser) Finish(w io.Writer) error {
	if data := p.front.finish(); len(data) > 0 {
		p.pending = append(p.pending, data...)
	}
	if err := p.drain(true); err != nil {
		return err
	}
	if len(p.pending) > 0 {
		line := trimCR(p.pending)
		if _, err := p.processLine(line, nil, false); err != nil {
			return err
		}
		p.pending = p.pending[:0]
	}
	for len(p.stack) > 0 {
		p.pop()
	}
	return p.flush(w)
}

// drain processes complete lines from the pending buffer. When finishing,
// an unterminated trailing line doubles as the lookahead for the line before
// it; otherwise lines that need lookahead wait for more input.
func (p *Parser) drain(finishing bool) error {
	consumed := 0
	for {
		nl := bytes.IndexByte(p.pending[consumed:], '\n')
		if nl < 0 {
			break
		}
		lineEnd := consumed + nl
		line := trimCR(p.pending[consumed:lineEnd])
		next, haveNext := peekLine(p.pending[lineEnd+1:], finishing)
		if !haveNext && !finishing && p.needsLookahead(line) {
			break
		}
		status, err := p.processLine(line, next, haveNext)
		if err != nil {
			return err
		}
		consumed = lineEnd + 1
		if status == lineConsumedNext {
			if j := bytes.IndexByte(p.pending[consumed:], '\n'); j >= 0 {
				consumed += j + 1
			} else {
				consumed = len(p.pending)
			}
		}
	}
	if consumed > 0 {
		n := copy(p.pending, p.pending[consumed:])
		p.pending = p.pending[:n]
	}
	return nil
}

func peekLine(rest []byte, finishing bool) ([]byte, bool) {
	if i := bytes.IndexByte(rest, '\n'); i >= 0 {
		return trimCR(rest[:i]), true
	}
	if finishing && len(rest) > 0 {
		return trimCR(rest), true
	}
	return nil, false
}

// needsLookahead reports whether line cannot be dispatched until the
// following line is buffered. Table headers and definition terms are decided
// by what follows them; everything else is decided from the line alone.
func (p *Parser) needsLookahead(line []byte) bool {
	if top := p.top(); top != nil && (top.kind == blockCode || top.kind == blockMath) {
		return false
	}
	if isBlank(line) {
		return false
	}
	_, rest := quotePrefix(line)
	_, text := splitIndent(rest)
	if len(text) == 0 {
		return false
	}
	if top := p.top(); top != nil && top.kind == blockTable && bytes.IndexByte(text, '|') >= 0 {
		return false
	}
	if looksLikeBlockStart(text) {
		return false
	}
	if bytes.HasPrefix(text, []byte("$$")) {
		return false
	}
	return true
}

func (p *Parser) flush(w io.Writer) error {
	if len(p.out) == 0 {
		return nil
	}
	_, err := w.Write(p.out)
	p.out = p.out[:0]
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
