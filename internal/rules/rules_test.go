package rules_test

import (
	"strings"
	"testing"

	"github.com/msolvik/fintrans/internal/rules"
)

func TestFor(t *testing.T) {
	hu, ok := rules.For("hu")
	if !ok {
		t.Fatal("expected a Hungarian rule sheet")
	}
	if hu.Name != "Hungarian" {
		t.Errorf("sheet name = %q", hu.Name)
	}
	if !strings.Contains(hu.Guidelines, "singular") {
		t.Error("Hungarian guidelines should cover the quantity + singular rule")
	}

	if _, ok := rules.For("HU"); !ok {
		t.Error("lookup should be case-insensitive")
	}
	if _, ok := rules.For("fi"); ok {
		t.Error("no sheet expected for Finnish")
	}
}

func TestLanguageName(t *testing.T) {
	cases := []struct{ code, want string }{
		{"hu", "Hungarian"},
		{"de", "German"},
		{"fi", "Finnish"},
		{"zz!", "ZZ!"},
	}
	for _, c := range cases {
		if got := rules.LanguageName(c.code); got != c.want {
			t.Errorf("LanguageName(%q) = %q, want %q", c.code, got, c.want)
		}
	}
}
