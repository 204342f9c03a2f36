package mdh

import "fmt"

type cellAlign uint8

const (
	alignNone cellAlign = iota
	alignLeft
	alignCenter
	alignRight
)

// isTableSeparator reports whether the trimmed line consists only of the
// bytes a separator row may contain, with at least one dash. Only such a
// line on the lookahead confirms a header candidate as a table.
func isTableSeparator(text []byte) bool {
	if len(text) < 3 {
		return false
	}
	dash := false
	for _, c := range text {
		switch c {
		case '-':
			dash = true
		case ':', '|', ' ', '\t':
		default:
			return false
		}
	}
	return dash
}

func parseAlign(cell []byte) cellAlign {
	if len(cell) == 0 {
		return alignNone
	}
	left := cell[0] == ':'
	right := cell[len(cell)-1] == ':'
	switch {
	case left && right:
		return alignCenter
	case right:
		return alignRight
	case left:
		return alignLeft
	}
	return alignNone
}

func alignStyle(a cellAlign) string {
	switch a {
	case alignLeft:
		return ` style="text-align:left"`
	case alignCenter:
		return ` style="text-align:center"`
	case alignRight:
		return ` style="text-align:right"`
	}
	return ""
}

func (p *Parser) alignAt(col int) cellAlign {
	if col < len(p.aligns) {
		return p.aligns[col]
	}
	return alignNone
}

// forEachCell invokes fn for each cell of a pipe-delimited row. Pipes
// escaped with a backslash do not split; the empty cells produced by a
// leading or trailing pipe are dropped.
func forEachCell(row []byte, fn func(cell []byte) error) error {
	row = trimWS(row)
	if len(row) > 0 && row[0] == '|' {
		row = row[1:]
	}
	start := 0
	for {
		end := start
		for end < len(row) && row[end] != '|' {
			if row[end] == '\\' && end+1 < len(row) {
				end++
			}
			end++
		}
		cell := trimWS(row[start:end])
		last := end >= len(row)
		if !last || len(cell) > 0 {
			if err := fn(cell); err != nil {
				return err
			}
		}
		if last {
			return nil
		}
		start = end + 1
	}
}

// openTable consumes the header line and its separator lookahead: alignments
// come from the separator, the header renders as the <th> row.
func (p *Parser) openTable(header, sep []byte) error {
	p.aligns = p.alignsArr[:0]
	err := forEachCell(sep, func(cell []byte) error {
		if len(p.aligns) >= maxTableColumns {
			return fmt.Errorf("%w (max %d)", ErrTableColumns, maxTableColumns)
		}
		p.aligns = append(p.aligns, parseAlign(cell))
		return nil
	})
	if err != nil {
		return err
	}
	if err := p.push(blockContext{kind: blockTable}); err != nil {
		return err
	}
	p.emit("<table>\n<tr>")
	col := 0
	err = forEachCell(header, func(cell []byte) error {
		if col >= maxTableColumns {
			return fmt.Errorf("%w (max %d)", ErrTableColumns, maxTableColumns)
		}
		p.emit("<th")
		p.emit(alignStyle(p.alignAt(col)))
		p.emit(">")
		p.out = appendInline(p.out, cell, p.cfg.html)
		p.emit("</th>")
		col++
		return nil
	})
	if err != nil {
		return err
	}
	p.emit("</tr>\n")
	return nil
}

func (p *Parser) tableRow(row []byte) error {
	p.emit("<tr>")
	col := 0
	err := forEachCell(row, func(cell []byte) error {
		if col >= maxTableColumns {
			return fmt.Errorf("%w (max %d)", ErrTableColumns, maxTableColumns)
		}
		p.emit("<td")
		p.emit(alignStyle(p.alignAt(col)))
		p.emit(">")
		p.out = appendInline(p.out, cell, p.cfg.html)
		p.emit("</td>")
		col++
		return nil
	})
	if err != nil {
		return err
	}
	p.emit("</tr>\n")
	return nil
}
