package mdh

import "testing"

func TestTableBasic(t *testing.T) {
	got := renderAll(t, "| A | B |\n|---|---|\n| 1 | 2 |")
	want := "<table>\n<tr><th>A</th><th>B</th></tr>\n<tr><td>1</td><td>2</td></tr>\n</table>\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestTableAlignments(t *testing.T) {
	got := renderAll(t, "| L | C | R |\n|:--|:-:|--:|\n| a | b | c |\n")
	want := "<table>\n<tr>" +
		`<th style="text-align:left">L</th>` +
		`<th style="text-align:center">C</th>` +
		`<th style="text-align:right">R</th>` +
		"</tr>\n<tr>" +
		`<td style="text-align:left">a</td>` +
		`<td style="text-align:center">b</td>` +
		`<td style="text-align:right">c</td>` +
		"</tr>\n</table>\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestTableHeaderWithoutSeparator(t *testing.T) {
	got := renderAll(t, "| A | B |\n| 1 | 2 |\n")
	want := "<p>| A | B |</p>\n<p>| 1 | 2 |</p>\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestTableClosedByPlainLine(t *testing.T) {
	got := renderAll(t, "| A |\n|---|\n| 1 |\nafter\n")
	want := "<table>\n<tr><th>A</th></tr>\n<tr><td>1</td></tr>\n</table>\n<p>after</p>\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestTableEscapedPipe(t *testing.T) {
	got := renderAll(t, "| a \\| b |\n|---|\n")
	want := "<table>\n<tr><th>a | b</th></tr>\n</table>\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestTableCellInlineMarkup(t *testing.T) {
	got := renderAll(t, "| **H** |\n|---|\n| *v* |\n")
	want := "<table>\n<tr><th><strong>H</strong></th></tr>\n<tr><td><em>v</em></td></tr>\n</table>\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestTableHeaderAtEndOfInput(t *testing.T) {
	// a trailing header with no following line degrades to a paragraph
	got := renderAll(t, "| A | B |")
	want := "<p>| A | B |</p>\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestSeparatorDetection(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"|---|---|", true},
		{"---", true},
		{":-:", true},
		{"| :--- | ---: |", true},
		{"--", false},
		{"|:::|", false},
		{"| a |", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := isTableSeparator([]byte(tc.in)); got != tc.ok {
			t.Fatalf("isTableSeparator(%q) = %v want %v", tc.in, got, tc.ok)
		}
	}
}
