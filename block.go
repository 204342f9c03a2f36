package mdh

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrBlockDepth reports that block nesting exceeded the parser's stack.
	ErrBlockDepth = errors.New("block nesting too deep")
	// ErrTableColumns reports a table row with more columns than supported.
	ErrTableColumns = errors.New("too many table columns")
)

const (
	maxBlockDepth   = 32
	maxTableColumns = 64
)

type blockKind uint8

const (
	blockParagraph blockKind = iota
	blockQuote
	blockList
	blockOrderedList
	blockDefList
	blockDefDesc
	blockCode
	blockMath
	blockTable
)

// blockContext is one open structural element on the parser stack. indent is
// the column where the block's content starts; marker is the column of a
// list marker, used to match sibling items and to detect type switches.
type blockContext struct {
	kind     blockKind
	indent   int
	marker   int
	fence    byte
	fenceLen int
	bare     bool // paragraph without a <p> wrapper (item or description text)
	filled   bool // container already holds rendered content
}

func isListish(kind blockKind) bool {
	switch kind {
	case blockList, blockOrderedList, blockDefList, blockDefDesc:
		return true
	default:
		return false
	}
}

type lineStatus uint8

const (
	lineDone lineStatus = iota
	lineConsumedNext
)

var headingOpen = [...]string{"", "<h1>", "<h2>", "<h3>", "<h4>", "<h5>", "<h6>"}
var headingClose = [...]string{"", "</h1>\n", "</h2>\n", "</h3>\n", "</h4>\n", "</h5>\n", "</h6>\n"}

// processLine dispatches one complete physical line. next is the following
// buffered line when available; it is consulted for table separators and
// definition terms. The returned status reports whether that following line
// was consumed as well.
func (p *Parser) processLine(line, next []byte, haveNext bool) (lineStatus, error) {
	if top := p.top(); top != nil && (top.kind == blockCode || top.kind == blockMath) {
		p.verbatimLine(line, top)
		return lineDone, nil
	}
	if isBlank(line) {
		p.closeLeaf()
		return lineDone, nil
	}

	level, rest := quotePrefix(line)
	open := p.quoteDepth()
	if level < open && p.inParagraph() && !looksLikeBlockStart(trimLeftWS(rest)) {
		// lazy continuation: the unmarked line stays in the open paragraph
		level = open
	}
	for p.quoteDepth() > level {
		p.pop()
	}
	for p.quoteDepth() < level {
		p.closeLeaf()
		if err := p.push(blockContext{kind: blockQuote}); err != nil {
			return lineDone, err
		}
		p.emit("<blockquote>\n")
	}
	if isBlank(rest) {
		p.closeLeaf()
		return lineDone, nil
	}

	if top := p.top(); top != nil && top.kind == blockTable {
		if bytes.IndexByte(rest, '|') >= 0 {
			return lineDone, p.tableRow(rest)
		}
		p.pop()
	}

	indent, text := splitIndent(rest)

	if isDefMarker(text) {
		return lineDone, p.definitionDescription(indent, text)
	}
	if kind, contentCol, num, body, ok := parseListItem(text, indent); ok {
		return lineDone, p.listItem(kind, indent, contentCol, num, body)
	}
	if level, content, ok := parseHeading(text); ok {
		p.closeLeaf()
		p.closeOutdented(indent)
		p.emit(headingOpen[level])
		p.out = appendInline(p.out, content, p.cfg.html)
		p.emit(headingClose[level])
		return lineDone, nil
	}
	if marker, size, info, ok := parseFence(text); ok {
		p.closeLeaf()
		p.closeOutdented(indent)
		if err := p.push(blockContext{kind: blockCode, indent: indent, fence: marker, fenceLen: size}); err != nil {
			return lineDone, err
		}
		if len(info) > 0 {
			p.emit(`<pre><code class="language-`)
			p.out = appendEscaped(p.out, info)
			p.emit(`">`)
		} else {
			p.emit("<pre><code>")
		}
		return lineDone, nil
	}
	if bytes.HasPrefix(text, []byte("$$")) {
		p.closeLeaf()
		p.closeOutdented(indent)
		return lineDone, p.mathFence(text)
	}
	if isThematicBreak(text) {
		p.closeLeaf()
		p.closeOutdented(indent)
		p.emit("<hr>\n")
		return lineDone, nil
	}
	if bytes.IndexByte(text, '|') >= 0 {
		nextText := lookaheadText(next, haveNext)
		p.closeLeaf()
		p.closeOutdented(indent)
		if isTableSeparator(nextText) {
			if err := p.openTable(text, nextText); err != nil {
				return lineDone, err
			}
			return lineConsumedNext, nil
		}
		// header without separator: the candidate becomes its own paragraph
		return lineDone, p.openText(text)
	}
	if nt := lookaheadText(next, haveNext); isDefMarker(nt) {
		return lineDone, p.definitionTerm(indent, text)
	}

	if top := p.top(); top != nil && top.kind == blockParagraph {
		if p.hardBreak {
			p.emit("<br>")
			p.hardBreak = false
		}
		p.emit("\n")
		p.paragraphText(text)
		return lineDone, nil
	}
	p.closeOutdented(indent)
	return lineDone, p.openText(text)
}

// verbatimLine handles a line while a code or math block is open: either the
// matching closing fence or escaped verbatim content.
func (p *Parser) verbatimLine(line []byte, top *blockContext) {
	body := line
	if depth := p.quoteDepth(); depth > 0 {
		body = stripQuotePrefix(line, depth)
	}
	trimmed := trimWS(body)
	if top.kind == blockCode {
		if closesFence(trimmed, top.fence, top.fenceLen) {
			p.pop()
			return
		}
	} else if bytes.Equal(trimmed, []byte("$$")) {
		p.pop()
		return
	}
	p.out = appendEscaped(p.out, body)
	p.emit("\n")
}

func (p *Parser) mathFence(text []byte) error {
	body := trimWS(text[2:])
	if len(body) >= 2 && bytes.HasSuffix(body, []byte("$$")) {
		// opened and closed on the same line
		p.emit(`<div class="math">`)
		p.out = appendEscaped(p.out, trimWS(body[:len(body)-2]))
		p.emit("</div>\n")
		return nil
	}
	if err := p.push(blockContext{kind: blockMath}); err != nil {
		return err
	}
	p.emit(`<div class="math">`)
	if len(body) > 0 {
		p.out = appendEscaped(p.out, body)
		p.emit("\n")
	}
	return nil
}

func (p *Parser) definitionDescription(indent int, text []byte) error {
	p.closeLeaf()
	if top := p.top(); top != nil && top.kind == blockDefDesc {
		p.pop() // switching descriptions
	}
	if top := p.top(); top == nil || top.kind != blockDefList {
		if err := p.push(blockContext{kind: blockDefList, indent: indent, marker: indent}); err != nil {
			return err
		}
		p.emit("<dl>\n")
	}
	if err := p.push(blockContext{kind: blockDefDesc, indent: indent + 2, marker: indent}); err != nil {
		return err
	}
	p.emit("<dd>")
	body := text[1:]
	if len(body) > 0 && (body[0] == ' ' || body[0] == '\t') {
		body = body[1:]
	}
	return p.openText(body)
}

func (p *Parser) definitionTerm(indent int, text []byte) error {
	p.closeLeaf()
	for {
		top := p.top()
		if top == nil || top.kind == blockDefList {
			break
		}
		if top.kind == blockDefDesc {
			p.pop()
			continue
		}
		if isListish(top.kind) && indent < top.indent {
			p.pop()
			continue
		}
		break
	}
	if top := p.top(); top == nil || top.kind != blockDefList {
		if err := p.push(blockContext{kind: blockDefList, indent: indent, marker: indent}); err != nil {
			return err
		}
		p.emit("<dl>\n")
	}
	p.emit("<dt>")
	body, _ := trimHardBreak(text)
	p.out = appendInline(p.out, body, p.cfg.html)
	p.emit("</dt>\n")
	return nil
}

func (p *Parser) listItem(kind blockKind, markerCol, contentCol, num int, body []byte) error {
	p.closeLeaf()
	for {
		top := p.top()
		if top == nil || !isListish(top.kind) {
			break
		}
		if top.marker > markerCol {
			p.pop()
			continue
		}
		if top.marker == markerCol && (top.kind == blockList || top.kind == blockOrderedList) && top.kind != kind {
			// a type switch starts a new list
			p.pop()
			continue
		}
		break
	}
	if top := p.top(); top != nil && top.kind == blockDefList {
		p.pop() // a list cannot be a direct child of <dl>
	}
	if top := p.top(); top != nil && top.kind == kind && top.marker == markerCol {
		p.emit("</li>\n<li>")
		top.filled = false
	} else {
		if top != nil && isListish(top.kind) && top.filled {
			p.emit("\n")
			top.filled = false
		}
		if err := p.push(blockContext{kind: kind, indent: contentCol, marker: markerCol}); err != nil {
			return err
		}
		switch {
		case kind == blockList:
			p.emit("<ul>\n<li>")
		case num != 1:
			p.emit(`<ol start="`)
			p.out = strconv.AppendInt(p.out, int64(num), 10)
			p.emit("\">\n<li>")
		default:
			p.emit("<ol>\n<li>")
		}
	}
	if checked, rest, ok := parseTaskMarker(body); ok {
		if checked {
			p.emit(`<input type="checkbox" checked disabled> `)
		} else {
			p.emit(`<input type="checkbox"  disabled> `)
		}
		body = rest
	}
	return p.openText(body)
}

// openText renders line content into the innermost container, opening a
// paragraph wrapper unless the container accepts bare text.
func (p *Parser) openText(body []byte) error {
	top := p.top()
	bare := top != nil && (top.kind == blockList || top.kind == blockOrderedList || top.kind == blockDefDesc)
	ctx := blockContext{kind: blockParagraph, bare: bare}
	if top != nil {
		ctx.indent = top.indent
		if bare && top.filled {
			p.emit("\n")
		}
		top.filled = true
	}
	if err := p.push(ctx); err != nil {
		return err
	}
	if !bare {
		p.emit("<p>")
	}
	p.paragraphText(body)
	return nil
}

func (p *Parser) paragraphText(body []byte) {
	body, hard := trimHardBreak(body)
	p.out = appendInline(p.out, body, p.cfg.html)
	p.hardBreak = hard
}

// closeOutdented pops list and definition contexts whose content starts to
// the right of the incoming line. One shared close-before-open rule for all
// leaf openers.
func (p *Parser) closeOutdented(indent int) {
	for {
		top := p.top()
		if top == nil || !isListish(top.kind) || indent >= top.indent {
			break
		}
		p.pop()
	}
	if top := p.top(); top != nil && top.kind == blockDefList {
		p.pop() // only <dt>/<dd> may follow inside a definition list
	}
}

// closeLeaf pops any open leaf block that cannot remain a sibling across a
// block transition.
func (p *Parser) closeLeaf() {
	for {
		top := p.top()
		if top == nil {
			return
		}
		switch top.kind {
		case blockParagraph, blockTable:
			p.pop()
		default:
			return
		}
	}
}

func (p *Parser) top() *blockContext {
	if len(p.stack) == 0 {
		return nil
	}
	return &p.stack[len(p.stack)-1]
}

func (p *Parser) push(ctx blockContext) error {
	if len(p.stack) >= maxBlockDepth {
		return fmt.Errorf("%w (max %d)", ErrBlockDepth, maxBlockDepth)
	}
	p.stack = append(p.stack, ctx)
	return nil
}

// pop closes the innermost open block, emitting its closing markup.
func (p *Parser) pop() {
	top := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	switch top.kind {
	case blockParagraph:
		if !top.bare {
			p.emit("</p>\n")
		}
		p.hardBreak = false
	case blockQuote:
		p.emit("</blockquote>\n")
	case blockList:
		p.emit("</li>\n</ul>\n")
	case blockOrderedList:
		p.emit("</li>\n</ol>\n")
	case blockDefList:
		p.emit("</dl>\n")
	case blockDefDesc:
		p.emit("</dd>\n")
	case blockCode:
		p.emit("</code></pre>\n")
	case blockMath:
		p.emit("</div>\n")
	case blockTable:
		p.emit("</table>\n")
	}
}

func (p *Parser) quoteDepth() int {
	depth := 0
	for i := range p.stack {
		if p.stack[i].kind == blockQuote {
			depth++
		}
	}
	return depth
}

func (p *Parser) inParagraph() bool {
	top := p.top()
	return top != nil && top.kind == blockParagraph
}

func (p *Parser) emit(s string) {
	p.out = append(p.out, s...)
}

// lookaheadText returns the next line stripped of quote markers and
// surrounding whitespace, or nil when no lookahead is available.
func lookaheadText(next []byte, haveNext bool) []byte {
	if !haveNext {
		return nil
	}
	_, rest := quotePrefix(next)
	return trimWS(rest)
}

// quotePrefix counts and strips leading blockquote markers, each optionally
// followed by one space.
func quotePrefix(line []byte) (int, []byte) {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	depth := 0
	j := i
	for j < len(line) && line[j] == '>' {
		depth++
		j++
		if j < len(line) && (line[j] == ' ' || line[j] == '\t') {
			j++
		}
	}
	if depth == 0 {
		return 0, line
	}
	return depth, line[j:]
}

// stripQuotePrefix removes up to max blockquote markers, for verbatim lines
// inside quoted code and math blocks.
func stripQuotePrefix(line []byte, max int) []byte {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	if i >= len(line) || line[i] != '>' {
		return line
	}
	for max > 0 && i < len(line) && line[i] == '>' {
		max--
		i++
		if i < len(line) && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
	}
	return line[i:]
}

func isBlank(line []byte) bool {
	for _, c := range line {
		if c != ' ' && c != '\t' {
			return false
		}
	}
	return true
}

func isDefMarker(text []byte) bool {
	if len(text) == 0 || text[0] != ':' {
		return false
	}
	return len(text) == 1 || text[1] == ' ' || text[1] == '\t'
}

// looksLikeBlockStart reports whether text opens a new block on its own,
// which defeats lazy continuation.
func looksLikeBlockStart(text []byte) bool {
	if len(text) == 0 {
		return false
	}
	if _, _, ok := parseHeading(text); ok {
		return true
	}
	if _, _, _, ok := parseFence(text); ok {
		return true
	}
	if isThematicBreak(text) {
		return true
	}
	if isDefMarker(text) {
		return true
	}
	if _, _, _, _, ok := parseListItem(text, 0); ok {
		return true
	}
	return false
}

func parseHeading(text []byte) (int, []byte, bool) {
	level := 0
	for level < len(text) && text[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return 0, nil, false
	}
	if level >= len(text) || text[level] != ' ' {
		return 0, nil, false
	}
	return level, trimWS(text[level+1:]), true
}

func parseFence(text []byte) (byte, int, []byte, bool) {
	if len(text) < 3 {
		return 0, 0, nil, false
	}
	c := text[0]
	if c != '`' && c != '~' {
		return 0, 0, nil, false
	}
	n := 0
	for n < len(text) && text[n] == c {
		n++
	}
	if n < 3 {
		return 0, 0, nil, false
	}
	info := trimLeftWS(text[n:])
	for i := 0; i < len(info); i++ {
		if info[i] == ' ' || info[i] == '\t' {
			info = info[:i]
			break
		}
	}
	return c, n, info, true
}

func closesFence(trimmed []byte, c byte, n int) bool {
	if len(trimmed) < n {
		return false
	}
	for _, b := range trimmed {
		if b != c {
			return false
		}
	}
	return true
}

func isThematicBreak(text []byte) bool {
	t := trimWS(text)
	if len(t) != 3 {
		return false
	}
	c := t[0]
	if c != '-' && c != '*' && c != '_' {
		return false
	}
	return t[1] == c && t[2] == c
}

// parseListItem recognizes unordered (-, *, + followed by a space) and
// ordered (digits, a dot, a space) markers. col is the marker column;
// the returned content column accounts for marker width and padding.
func parseListItem(text []byte, col int) (blockKind, int, int, []byte, bool) {
	if len(text) < 2 {
		return 0, 0, 0, nil, false
	}
	switch text[0] {
	case '-', '*', '+':
		if text[1] != ' ' {
			return 0, 0, 0, nil, false
		}
		pad := 1
		for 1+pad < len(text) && text[1+pad] == ' ' {
			pad++
		}
		return blockList, col + 1 + pad, 0, text[1+pad:], true
	}
	d := 0
	for d < len(text) && isDigit(text[d]) {
		d++
	}
	if d == 0 || d+1 >= len(text) || text[d] != '.' || text[d+1] != ' ' {
		return 0, 0, 0, nil, false
	}
	num := 0
	for i := 0; i < d; i++ {
		num = num*10 + int(text[i]-'0')
		if num > 1<<30 {
			return 0, 0, 0, nil, false
		}
	}
	pad := 1
	for d+1+pad < len(text) && text[d+1+pad] == ' ' {
		pad++
	}
	return blockOrderedList, col + d + 1 + pad, num, text[d+1+pad:], true
}

func parseTaskMarker(body []byte) (bool, []byte, bool) {
	if len(body) < 4 || body[0] != '[' || body[2] != ']' || body[3] != ' ' {
		return false, nil, false
	}
	switch body[1] {
	case ' ':
		return false, body[4:], true
	case 'x', 'X':
		return true, body[4:], true
	}
	return false, nil, false
}

// trimHardBreak strips the hard-break suffix (two or more trailing spaces,
// or a trailing backslash) and reports whether one was present.
func trimHardBreak(body []byte) ([]byte, bool) {
	n := 0
	for n < len(body) && body[len(body)-1-n] == ' ' {
		n++
	}
	if n >= 2 {
		return body[:len(body)-n], true
	}
	body = body[:len(body)-n]
	if n == 0 && len(body) > 0 && body[len(body)-1] == '\\' {
		return body[:len(body)-1], true
	}
	return body, false
}

func splitIndent(s []byte) (int, []byte) {
	col := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ':
			col++
		case '\t':
			col += 4
		default:
			return col, s[i:]
		}
	}
	return col, nil
}

func trimLeftWS(s []byte) []byte {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[i:]
}

func trimWS(s []byte) []byte {
	s = trimLeftWS(s)
	for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t') {
		s = s[:len(s)-1]
	}
	return s
}

func trimCR(line []byte) []byte {
	if len(line) > 0 && line[len(line)-1] == '\r' {
		return line[:len(line)-1]
	}
	return line
}
