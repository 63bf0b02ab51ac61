package repository

import "testing"

func TestEscapeLikeMatchesLiterally(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"arjun", "arjun"},
		{"100%", `100\%`},
		{"RES_1", `RES\_1`},
		{`a\b`, `a\\b`},
		{`%_\`, `\%\_\\`},
		{"", ""},
	}
	for _, c := range cases {
		if got := escapeLike(c.in); got != c.want {
			t.Errorf("escapeLike(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
