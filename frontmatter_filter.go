package mdh

import "bytes"

// maxFrontMatterProbe caps how many bytes may be withheld while deciding
// whether the stream opens with a metadata block. Past the cap an unclosed
// candidate is released as content.
const maxFrontMatterProbe = 64 * 1024

// frontMatterFilter drops a leading metadata block (fenced by ---, +++ or
// ;;;) before the parser sees the stream. Until the block is confirmed or
// ruled out, fed bytes are withheld in the probe buffer.
type frontMatterFilter struct {
	passthrough bool
	probe       []byte
	probeArr    [1024]byte
}

func (f *frontMatterFilter) reset() {
	f.passthrough = false
	f.probe = f.probeArr[:0]
}

// process returns the bytes the parser may consume now. Once the decision is
// made, every subsequent chunk passes through untouched.
func (f *frontMatterFilter) process(chunk []byte) []byte {
	if f.passthrough {
		return chunk
	}
	f.probe = append(f.probe, chunk...)
	out, decided := f.decide(false)
	if !decided && len(f.probe) > maxFrontMatterProbe {
		out = f.probe
		decided = true
	}
	if decided {
		f.passthrough = true
		return out
	}
	return nil
}

// finish releases whatever is still withheld at end of input. An unclosed
// candidate block is treated as ordinary content.
func (f *frontMatterFilter) finish() []byte {
	if f.passthrough || len(f.probe) == 0 {
		return nil
	}
	out, decided := f.decide(true)
	f.passthrough = true
	if !decided {
		out = f.probe
	}
	return out
}

func (f *frontMatterFilter) decide(eof bool) ([]byte, bool) {
	first, n := cutLine(f.probe, eof)
	if n < 0 {
		return nil, false
	}
	delim := bytes.TrimSpace(trimByteOrderMark(first))
	if !isFrontMatterDelimiter(delim) {
		return f.probe, true
	}
	second, m := cutLine(f.probe[n:], eof)
	if m < 0 {
		return nil, false
	}
	if !metadataLikely(second) {
		return f.probe, true
	}
	off := n + m
	for {
		line, k := cutLine(f.probe[off:], eof)
		if k < 0 {
			if eof {
				return f.probe, true
			}
			return nil, false
		}
		off += k
		if bytes.Equal(bytes.TrimSpace(line), delim) {
			return f.probe[off:], true
		}
	}
}

// cutLine returns the first line of src and the offset just past its
// terminator; the offset is -1 when no complete line is available.
func cutLine(src []byte, eof bool) ([]byte, int) {
	if i := bytes.IndexByte(src, '\n'); i >= 0 {
		return trimCR(src[:i]), i + 1
	}
	if eof && len(src) > 0 {
		return trimCR(src), len(src)
	}
	return nil, -1
}

func isFrontMatterDelimiter(line []byte) bool {
	switch string(line) {
	case "---", "+++", ";;;":
		return true
	}
	return false
}

// metadataLikely reports whether the line after the opening delimiter reads
// like metadata rather than document text, so a thematic break followed by
// prose is not swallowed.
func metadataLikely(line []byte) bool {
	t := bytes.TrimSpace(line)
	if len(t) == 0 {
		return false
	}
	if t[0] == '{' || t[0] == '[' || t[0] == '#' {
		return true
	}
	return bytes.IndexByte(t, ':') >= 0 || bytes.IndexByte(t, '=') >= 0
}

func trimByteOrderMark(line []byte) []byte {
	return bytes.TrimPrefix(line, []byte("\xef\xbb\xbf"))
}
