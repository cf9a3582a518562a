// Package langcheck verifies that a translation actually came back in the
// requested target language.
package langcheck

import (
	"fmt"
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// minLength is the minimum rune count required to attempt detection.
// Shorter texts produce unreliable results and pass without checking.
const minLength = 20

// Checker detects the language of translated text. The underlying detector
// is expensive to build; construct one and reuse it.
type Checker struct {
	detector lingua.LanguageDetector
}

// New builds a Checker over all languages lingua knows.
func New() *Checker {
	return &Checker{
		detector: lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			Build(),
	}
}

// Check returns an error when text is confidently detected as a language
// other than target (an ISO 639-1 code). Empty text always errors; short or
// ambiguous texts pass.
func (c *Checker) Check(text, target string) error {
	if target == "" {
		return nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("translation is empty")
	}
	if len([]rune(text)) < minLength {
		return nil
	}

	lang, ok := c.detector.DetectLanguageOf(text)
	if !ok {
		return nil
	}

	detected := lang.IsoCode639_1().String()
	if !strings.EqualFold(detected, target) {
		return fmt.Errorf("expected %s but detected %s", target, detected)
	}
	return nil
}
