package translator

import (
	"fmt"
	"strings"

	"github.com/msolvik/fintrans/internal/placeholder"
	"github.com/msolvik/fintrans/internal/rules"
)

// systemPrompt builds the translation instruction for one target language,
// injecting the language's rule sheet when one exists.
func systemPrompt(lang string) string {
	name := rules.LanguageName(lang)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are a professional translator specializing in financial and investment content. Translate the user's text into %s. Follow these rules strictly:\n", name))
	sb.WriteString("1. " + placeholder.InstructionHint() + "\n")
	sb.WriteString(fmt.Sprintf("2. Apply %s grammatical integration around [PHn] markers (case suffixes, articles, prepositions) so each sentence reads naturally once the marker values are substituted back.\n", name))
	sb.WriteString(fmt.Sprintf("3. Use the numeric formatting conventions of the %s locale (decimal separator, thousands grouping, currency placement).\n", name))
	sb.WriteString("4. Respond with the translation only — no explanations, no quotes.")

	if sheet, ok := rules.For(lang); ok {
		sb.WriteString("\n\n")
		sb.WriteString(sheet.Guidelines)
		if sheet.TranslationExamples != "" {
			sb.WriteString("\n\n")
			sb.WriteString(sheet.TranslationExamples)
		}
	}

	return sb.String()
}
