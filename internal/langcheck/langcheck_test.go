package langcheck_test

import (
	"testing"

	"github.com/msolvik/fintrans/internal/langcheck"
)

func TestCheck(t *testing.T) {
	c := langcheck.New()

	cases := []struct {
		name    string
		text    string
		target  string
		wantErr bool
	}{
		{
			name:   "hungarian detected as hungarian",
			text:   "Üdvözöljük az oldalon, itt összehasonlíthatja a brókereket és a kereskedési díjakat.",
			target: "hu",
		},
		{
			name:    "english flagged when hungarian expected",
			text:    "Welcome to the site, here you can compare brokers and their trading fees in detail.",
			target:  "hu",
			wantErr: true,
		},
		{
			name:   "target case-insensitive",
			text:   "Willkommen auf der Seite, hier können Sie Broker und ihre Handelsgebühren vergleichen.",
			target: "DE",
		},
		{
			name:   "short text passes unchecked",
			text:   "Hello world",
			target: "hu",
		},
		{
			name:   "empty target skips the check",
			text:   "Whatever text at all, long enough to be detected.",
			target: "",
		},
		{
			name:    "empty text errors",
			text:    "   ",
			target:  "hu",
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := c.Check(tc.text, tc.target)
			if tc.wantErr && err == nil {
				t.Errorf("Check(%q, %q) expected an error", tc.text, tc.target)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Check(%q, %q) unexpected error: %v", tc.text, tc.target, err)
			}
		})
	}
}
