package mdh

import "testing"

func TestEscapeEntities(t *testing.T) {
	got := string(appendEscaped(nil, []byte(`<a href="x">&'</a>`)))
	want := "&lt;a href=&quot;x&quot;&gt;&amp;&#39;&lt;/a&gt;"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestEscapeIdentityForUnmappedBytes(t *testing.T) {
	var in []byte
	for b := 0; b < 256; b++ {
		if htmlEntities[b] == "" {
			in = append(in, byte(b))
		}
	}
	got := appendEscaped(nil, in)
	if string(got) != string(in) {
		t.Fatalf("escaping unmapped bytes is not the identity")
	}
}

func TestInlineSpecialsMembership(t *testing.T) {
	for _, b := range []byte("\\[]*`&<>\"'_~!$h") {
		if !inlineSpecials.has(b) {
			t.Fatalf("expected %q to be special", b)
		}
	}
	for _, b := range []byte("aBz09 .,|#-+") {
		if inlineSpecials.has(b) {
			t.Fatalf("did not expect %q to be special", b)
		}
	}
}
