package mdh

// htmlEntities maps bytes to their HTML entity. Bytes without a mapping are
// emitted as-is.
var htmlEntities = [256]string{
	'&':  "&amp;",
	'<':  "&lt;",
	'>':  "&gt;",
	'"':  "&quot;",
	'\'': "&#39;",
}

// byteSet is a 256-bit membership set used to pause the inline fast scan.
type byteSet [4]uint64

func (s *byteSet) add(b byte) {
	s[b>>6] |= 1 << (b & 63)
}

func (s *byteSet) has(b byte) bool {
	return s[b>>6]&(1<<(b&63)) != 0
}

func makeByteSet(bytes string) byteSet {
	var s byteSet
	for i := 0; i < len(bytes); i++ {
		s.add(bytes[i])
	}
	return s
}

// inlineSpecials holds the bytes that interrupt the inline renderer's bulk
// skip: markup openers plus everything with an entity mapping.
var inlineSpecials = makeByteSet("\\[]*`&<>\"'_~!$h")

func appendEscapedByte(dst []byte, b byte) []byte {
	if ent := htmlEntities[b]; ent != "" {
		return append(dst, ent...)
	}
	return append(dst, b)
}

// appendEscaped appends s with HTML entities substituted. Runs of unmapped
// bytes are copied in bulk.
func appendEscaped(dst []byte, s []byte) []byte {
	start := 0
	for i := 0; i < len(s); i++ {
		ent := htmlEntities[s[i]]
		if ent == "" {
			continue
		}
		dst = append(dst, s[start:i]...)
		dst = append(dst, ent...)
		start = i + 1
	}
	return append(dst, s[start:]...)
}
