package mdh

import "testing"

func inlineString(src string, htmlOK bool) string {
	return string(appendInline(nil, []byte(src), htmlOK))
}

func TestInlineEmphasis(t *testing.T) {
	cases := []struct{ in, want string }{
		{"*em*", "<em>em</em>"},
		{"_em_", "<em>em</em>"},
		{"**strong**", "<strong>strong</strong>"},
		{"***both***", "<strong><em>both</em></strong>"},
		{"**a _b_ c**", "<strong>a <em>b</em> c</strong>"},
		{"*alone", "*alone"},
		{"**bold*", "**bold*"},
		{"a * b", "a * b"},
	}
	for _, tc := range cases {
		if got := inlineString(tc.in, false); got != tc.want {
			t.Fatalf("%q: got %q want %q", tc.in, got, tc.want)
		}
	}
}

func TestInlineCodeSpan(t *testing.T) {
	cases := []struct{ in, want string }{
		{"`x`", "<code>x</code>"},
		{"`a<b`", "<code>a&lt;b</code>"},
		{"``a`b``", "<code>a`b</code>"},
		{"`*not em*`", "<code>*not em*</code>"},
		{"`open", "`open"},
	}
	for _, tc := range cases {
		if got := inlineString(tc.in, false); got != tc.want {
			t.Fatalf("%q: got %q want %q", tc.in, got, tc.want)
		}
	}
}

func TestInlineStrikethrough(t *testing.T) {
	if got := inlineString("~~gone~~", false); got != "<del>gone</del>" {
		t.Fatalf("strikethrough: %q", got)
	}
	if got := inlineString("~single~", false); got != "~single~" {
		t.Fatalf("single tilde: %q", got)
	}
}

func TestInlineLinks(t *testing.T) {
	cases := []struct{ in, want string }{
		{"[text](http://x)", `<a href="http://x">text</a>`},
		{"[**b**](u)", `<a href="u"><strong>b</strong></a>`},
		{"[a[b]c](u)", `<a href="u">a[b]c</a>`},
		{"![alt](img.png)", `<img src="img.png" alt="alt">`},
		{"[no url]", "[no url]"},
		{"![no url]", "![no url]"},
		{"!plain", "!plain"},
	}
	for _, tc := range cases {
		if got := inlineString(tc.in, false); got != tc.want {
			t.Fatalf("%q: got %q want %q", tc.in, got, tc.want)
		}
	}
}

func TestInlineAutolink(t *testing.T) {
	got := inlineString("see https://example.com/a.", false)
	want := `see <a href="https://example.com/a">https://example.com/a</a>.`
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if got := inlineString("höher", false); got != "höher" {
		t.Fatalf("plain h word mangled: %q", got)
	}
}

func TestInlineBackslashEscapes(t *testing.T) {
	if got := inlineString(`\*not\*`, false); got != "*not*" {
		t.Fatalf("escaped asterisks: %q", got)
	}
	if got := inlineString(`\a`, false); got != `\a` {
		t.Fatalf("non-punct escape: %q", got)
	}
}

func TestInlineEntities(t *testing.T) {
	got := inlineString(`a & b < c > d "e" 'f'`, false)
	want := "a &amp; b &lt; c &gt; d &quot;e&quot; &#39;f&#39;"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestInlineRawHTML(t *testing.T) {
	cases := []struct {
		in, want string
		htmlOK   bool
	}{
		{"<b>x</b>", "<b>x</b>", true},
		{"<b>x</b>", "&lt;b&gt;x&lt;/b&gt;", false},
		{"<!-- c -->", "<!-- c -->", true},
		{`<a href="q>uote">x</a>`, `<a href="q>uote">x</a>`, true},
		{"<1bad>", "&lt;1bad&gt;", true},
		{"<unclosed", "&lt;unclosed", true},
	}
	for _, tc := range cases {
		if got := inlineString(tc.in, tc.htmlOK); got != tc.want {
			t.Fatalf("%q htmlOK=%v: got %q want %q", tc.in, tc.htmlOK, got, tc.want)
		}
	}
}

func TestInlineMath(t *testing.T) {
	if got := inlineString("$a<b$", false); got != `<span class="math">a&lt;b</span>` {
		t.Fatalf("inline math: %q", got)
	}
	if got := inlineString("$5", false); got != "$5" {
		t.Fatalf("lone dollar: %q", got)
	}
}

func TestInlineNeverDropsBytes(t *testing.T) {
	// pathological delimiter soup must round-trip as literal text
	in := "*_`~[]!$h**``~~"
	got := inlineString(in, false)
	if got != in {
		t.Fatalf("got %q want %q", got, in)
	}
}
