// Package placeholder protects dynamic parameters embedded in source text
// ([brokerName], [countryName], …) during translation by replacing them with
// numbered markers [PH0], [PH1], … that LLMs are instructed to preserve.
// After translation, Unmask substitutes the original values back and fails
// loudly when the model dropped a marker: a missing financial parameter is a
// correctness violation, not a quality nuance.
package placeholder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	// dynamic parameter: a bracketed identifier, e.g. [brokerName]
	reParam = regexp.MustCompile(`\[[a-zA-Z][a-zA-Z0-9_]*\]`)

	// marker reference in translated text
	reMarker = regexp.MustCompile(`\[PH(\d+)\]`)
)

// Mapping records one masked parameter: the marker that replaced it and the
// original bracketed value.
type Mapping struct {
	Marker   string
	Original string
}

// Mask replaces every bracketed parameter with a numbered marker in the
// order it appears in text. It returns the masked text and the substitution
// mapping Unmask needs to put the values back. A text without parameters
// comes back unchanged with a nil mapping.
func Mask(text string) (string, []Mapping) {
	var mappings []Mapping
	counter := 0

	masked := reParam.ReplaceAllStringFunc(text, func(match string) string {
		marker := fmt.Sprintf("[PH%d]", counter)
		mappings = append(mappings, Mapping{Marker: marker, Original: match})
		counter++
		return marker
	})

	return masked, mappings
}

// MissingPlaceholderError reports markers that were present in the mapping
// but absent from the translated text, meaning the model dropped them.
type MissingPlaceholderError struct {
	Missing []Mapping
}

func (e *MissingPlaceholderError) Error() string {
	tokens := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		tokens[i] = m.Original
	}
	return fmt.Sprintf("translation dropped %d placeholder(s): %s",
		len(e.Missing), strings.Join(tokens, ", "))
}

// Unmask substitutes markers in text back with the originals captured by
// Mask, in any order. It returns a *MissingPlaceholderError when any marker
// from the mapping no longer appears in the text. Markers with indices
// outside the mapping are left as-is.
func Unmask(text string, mappings []Mapping) (string, error) {
	var missing []Mapping
	for _, m := range mappings {
		if !strings.Contains(text, m.Marker) {
			missing = append(missing, m)
		}
	}
	if len(missing) > 0 {
		return "", &MissingPlaceholderError{Missing: missing}
	}

	restored := reMarker.ReplaceAllStringFunc(text, func(match string) string {
		sub := reMarker.FindStringSubmatch(match)
		idx, err := strconv.Atoi(sub[1])
		if err != nil || idx < 0 || idx >= len(mappings) {
			return match
		}
		return mappings[idx].Original
	})

	return restored, nil
}

// OnlyPlaceholders reports whether text contains no translatable content
// beyond parameters and punctuation. Such texts need no model call: the
// masked form round-trips unchanged.
func OnlyPlaceholders(text string) bool {
	stripped := reParam.ReplaceAllString(text, "")
	for _, r := range stripped {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return strings.TrimSpace(text) != ""
}

// InstructionHint returns the prompt sentence that tells the model to leave
// markers intact.
func InstructionHint() string {
	return "Preserve all [PHn] markers exactly as they appear — do not translate, move, or remove them."
}
