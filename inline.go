package mdh

import "bytes"

// appendInline renders one span of raw text to HTML. It is a single
// left-to-right pass that bulk-skips bytes outside inlineSpecials and
// recurses into emphasis, strikethrough, and link labels. Unmatched openers
// degrade to literal text; the scan never drops input bytes.
func appendInline(dst []byte, s []byte, htmlOK bool) []byte {
	i := 0
	for i < len(s) {
		start := i
		for i < len(s) && !inlineSpecials.has(s[i]) {
			i++
		}
		dst = append(dst, s[start:i]...)
		if i >= len(s) {
			break
		}
		switch c := s[i]; c {
		case '\\':
			if i+1 < len(s) && isPunct(s[i+1]) {
				dst = appendEscapedByte(dst, s[i+1])
				i += 2
				continue
			}
			if i+1 == len(s) {
				// trailing lone backslash is a hard break
				dst = append(dst, "<br>"...)
				i++
				continue
			}
			dst = append(dst, '\\')
			i++
		case '*', '_':
			n := delimiterRun(s[i:], c)
			if end := findRun(s[i+n:], c, n); end >= 0 {
				open, close := emphasisTags(n)
				dst = append(dst, open...)
				dst = appendInline(dst, s[i+n:i+n+end], htmlOK)
				dst = append(dst, close...)
				i += n + end + n
				continue
			}
			dst = append(dst, s[i:i+n]...)
			i += n
		case '`':
			n := delimiterRun(s[i:], '`')
			if end := findRun(s[i+n:], '`', n); end >= 0 {
				dst = append(dst, "<code>"...)
				dst = appendEscaped(dst, s[i+n:i+n+end])
				dst = append(dst, "</code>"...)
				i += n + end + n
				continue
			}
			dst = append(dst, s[i:i+n]...)
			i += n
		case '~':
			if i+1 < len(s) && s[i+1] == '~' {
				if end := bytes.Index(s[i+2:], []byte("~~")); end >= 0 {
					dst = append(dst, "<del>"...)
					dst = appendInline(dst, s[i+2:i+2+end], htmlOK)
					dst = append(dst, "</del>"...)
					i += 2 + end + 2
					continue
				}
			}
			dst = append(dst, '~')
			i++
		case '[':
			if label, url, end, ok := parseLinkAt(s, i); ok {
				dst = append(dst, `<a href="`...)
				dst = appendEscaped(dst, url)
				dst = append(dst, `">`...)
				dst = appendInline(dst, label, htmlOK)
				dst = append(dst, "</a>"...)
				i = end
				continue
			}
			dst = append(dst, '[')
			i++
		case '!':
			if i+1 < len(s) && s[i+1] == '[' {
				if label, url, end, ok := parseLinkAt(s, i+1); ok {
					dst = append(dst, `<img src="`...)
					dst = appendEscaped(dst, url)
					dst = append(dst, `" alt="`...)
					dst = appendEscaped(dst, label)
					dst = append(dst, `">`...)
					i = end
					continue
				}
			}
			dst = append(dst, '!')
			i++
		case 'h':
			if url, ok := scanBareURL(s[i:]); ok {
				dst = append(dst, `<a href="`...)
				dst = appendEscaped(dst, url)
				dst = append(dst, `">`...)
				dst = appendEscaped(dst, url)
				dst = append(dst, "</a>"...)
				i += len(url)
				continue
			}
			dst = append(dst, 'h')
			i++
		case '<':
			if htmlOK {
				if end, ok := scanRawHTML(s[i:]); ok {
					dst = append(dst, s[i:i+end]...)
					i += end
					continue
				}
			}
			dst = append(dst, "&lt;"...)
			i++
		case '$':
			if end := bytes.IndexByte(s[i+1:], '$'); end > 0 {
				dst = append(dst, `<span class="math">`...)
				dst = appendEscaped(dst, s[i+1:i+1+end])
				dst = append(dst, "</span>"...)
				i += 1 + end + 1
				continue
			}
			dst = append(dst, '$')
			i++
		default:
			dst = appendEscapedByte(dst, c)
			i++
		}
	}
	return dst
}

func isPunct(b byte) bool {
	switch {
	case b >= '!' && b <= '/':
		return true
	case b >= ':' && b <= '@':
		return true
	case b >= '[' && b <= '`':
		return true
	case b >= '{' && b <= '~':
		return true
	}
	return false
}

// delimiterRun returns the length of the marker run at the start of s.
func delimiterRun(s []byte, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}

// findRun locates a run of exactly n consecutive c bytes in s and returns
// the offset of its first byte, or -1.
func findRun(s []byte, c byte, n int) int {
	for j := 0; j < len(s); {
		if s[j] != c {
			j++
			continue
		}
		runStart := j
		for j < len(s) && s[j] == c {
			j++
		}
		if j-runStart == n {
			return runStart
		}
	}
	return -1
}

func emphasisTags(n int) (string, string) {
	switch n {
	case 1:
		return "<em>", "</em>"
	case 2:
		return "<strong>", "</strong>"
	default:
		return "<strong><em>", "</em></strong>"
	}
}

// parseLinkAt parses [label](url) with i at the opening bracket. The label
// scan is bracket-depth aware and honors backslash escapes; the url runs to
// the first unescaped closing parenthesis.
func parseLinkAt(s []byte, i int) (label, url []byte, end int, ok bool) {
	depth := 1
	j := i + 1
	for j < len(s) && depth > 0 {
		switch s[j] {
		case '\\':
			j++
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				goto closed
			}
		}
		j++
	}
	return nil, nil, 0, false
closed:
	if j+1 >= len(s) || s[j+1] != '(' {
		return nil, nil, 0, false
	}
	k := j + 2
	for k < len(s) && s[k] != ')' {
		if s[k] == '\\' {
			k++
		}
		k++
	}
	if k >= len(s) {
		return nil, nil, 0, false
	}
	return s[i+1 : j], s[j+2 : k], k + 1, true
}

// scanBareURL recognizes a plain http:// or https:// URL at the start of s,
// trimming trailing punctuation.
func scanBareURL(s []byte) ([]byte, bool) {
	scheme := 0
	if bytes.HasPrefix(s, []byte("http://")) {
		scheme = len("http://")
	} else if bytes.HasPrefix(s, []byte("https://")) {
		scheme = len("https://")
	} else {
		return nil, false
	}
	j := scheme
	for j < len(s) {
		c := s[j]
		if c == ' ' || c == '\t' || c == '<' || c == '>' {
			break
		}
		j++
	}
	for j > scheme {
		switch s[j-1] {
		case '.', ',', ';', ':', '!', '?', ')', '"', '\'':
			j--
			continue
		}
		break
	}
	if j == scheme {
		return nil, false
	}
	return s[:j], true
}

// scanRawHTML recognizes comment, CDATA, processing-instruction, doctype,
// and standard tag forms at the start of s (s[0] == '<'). It returns the
// length of the construct when well formed.
func scanRawHTML(s []byte) (int, bool) {
	if len(s) < 3 {
		return 0, false
	}
	switch {
	case bytes.HasPrefix(s, []byte("<!--")):
		if end := bytes.Index(s[4:], []byte("-->")); end >= 0 {
			return 4 + end + 3, true
		}
		return 0, false
	case bytes.HasPrefix(s, []byte("<![CDATA[")):
		if end := bytes.Index(s[9:], []byte("]]>")); end >= 0 {
			return 9 + end + 3, true
		}
		return 0, false
	case s[1] == '?':
		if end := bytes.Index(s[2:], []byte("?>")); end >= 0 {
			return 2 + end + 2, true
		}
		return 0, false
	case s[1] == '!':
		if !isAlpha(s[2]) {
			return 0, false
		}
		if end := bytes.IndexByte(s[2:], '>'); end >= 0 {
			return 2 + end + 1, true
		}
		return 0, false
	}
	j := 1
	if s[j] == '/' {
		j++
	}
	if j >= len(s) || !isAlpha(s[j]) {
		return 0, false
	}
	for j < len(s) && (isAlpha(s[j]) || isDigit(s[j]) || s[j] == '-') {
		j++
	}
	var quote byte
	for j < len(s) {
		c := s[j]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			j++
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '>':
			return j + 1, true
		case '<':
			return 0, false
		}
		j++
	}
	return 0, false
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
