package textclean

import "testing"

func TestStripMarkup(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"<b>AI</b> news", "AI news"},
		{"AI news", "AI news"},
		{"", ""},
		{`<p class="x">Hello <a href="/y">world</a></p>`, "Hello world"},
		{"Tom &amp; Jerry", "Tom &amp; Jerry"},
		{"a < b and c > d", "a  d"},
	}

	for _, tc := range cases {
		if got := StripMarkup(tc.in); got != tc.want {
			t.Fatalf("StripMarkup(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStripMarkupIdempotent(t *testing.T) {
	t.Parallel()

	once := StripMarkup("<i>GPT</i> ships <br/>today")
	if twice := StripMarkup(once); twice != once {
		t.Fatalf("second pass changed text: %q -> %q", once, twice)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := Truncate("héllo", 2); got != "hé" {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := Truncate("abc", 0); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
	if Length("héllo") != 5 {
		t.Fatalf("expected 5 characters")
	}
}
