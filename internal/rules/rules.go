// Package rules carries per-language translation rule sheets that are
// injected into translation and evaluation prompts. The sheets encode
// grammar pitfalls observed in financial content; languages without a sheet
// translate with the generic prompt only.
package rules

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Sheet is the rule set for one target language.
type Sheet struct {
	Code                string
	Name                string
	Guidelines          string
	TranslationExamples string
	EvaluationExamples  string
}

var sheets = map[string]Sheet{
	"hu": hungarian,
	"de": german,
}

// For returns the rule sheet for a target language code, if one exists.
func For(code string) (Sheet, bool) {
	s, ok := sheets[strings.ToLower(code)]
	return s, ok
}

// LanguageName returns the English display name for a language code, used
// in prompts ("translate into Hungarian", not "into hu"). Unparseable codes
// fall back to their upper-cased form.
func LanguageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return strings.ToUpper(code)
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return strings.ToUpper(code)
}

var hungarian = Sheet{
	Code: "hu",
	Name: "Hungarian",
	Guidelines: `Hungarian Translation Guidelines:

1. Quantity + Singular Noun Rule:
   - Nouns preceded by numerals or quantity expressions ALWAYS remain singular
   - "5 books" → "5 könyv" (NOT "5 könyvek")
   - "several parameters" → "több paraméter" (NOT "több paraméterek")

2. Parameter Integration:
   - When a parameter represents a quantity, the following noun stays singular
   - "across [PH0]+ criteria" → "[PH0]+ kritérium mentén"
   - Case suffixes attach directly to the marker: "in [PH0]" → "[PH0]-ban/-ben"

3. "To" Preposition Translations:
   - "Alternatives to X" → "Alternatívák X helyett" ("helyett" = instead of)
   - "Guide to X" → "Útmutató az X-hez" (-hez/-hoz/-höz allative case)

4. Common Patterns:
   - "X compared to Y" → "X Y-hoz képest"
   - "according to X" → "X szerint"
   - "similar to X" → "X-hez hasonló"`,
	TranslationExamples: `Examples of correct translations:
- "10 customers purchased" → "10 ügyfél vásárolt"
- "Alternatives to [PH0]" → "Alternatívák [PH0] helyett"
- "Available in [PH0]" → "Elérhető [PH0]-ban"
- "Comparison to market average" → "Összehasonlítás a piaci átlaggal"`,
	EvaluationExamples: `Examples:
| English | Correct Hungarian | Incorrect Hungarian | Note |
|---------|-------------------|---------------------|------|
| "10 customers purchased" | "10 ügyfél vásárolt" | "10 ügyfelek vásároltak" | Noun and verb remain singular |
| "Alternatives to [brokerName]" | "Alternatívák [brokerName] helyett" | "Alternatívák a [brokerName] számára" | "helyett" vs "számára" changes meaning |
| "Comparison to market average" | "Összehasonlítás a piaci átlaggal" | "Összehasonlítás a piaci átlag számára" | Use instrumental case (-val/-vel) |`,
}

var german = Sheet{
	Code: "de",
	Name: "German",
	Guidelines: `German Translation Guidelines:

1. Noun Capitalization:
   - All nouns MUST be capitalized
   - "our company's services" → "die Dienstleistungen unserer Firma"

2. Compound Words:
   - Combine where German does: "investment strategy" → "Anlagestrategie"
   - "market analysis report" → "Marktanalysebericht"

3. Parameter Integration:
   - Parameters take the article and case the sentence requires
   - "data from [PH0]" → "Daten von [PH0]" (dative)
   - "according to [PH0]" → "laut [PH0]" (dative)

4. Sentence Structure:
   - Verb second in main clauses, last in subordinate clauses`,
	TranslationExamples: `Examples of correct translations:
- "Market Report for 2023" → "Marktbericht für 2023"
- "Investment Strategy by [PH0]" → "Anlagestrategie von [PH0]"
- "Comparison to industry standards" → "Vergleich mit Branchenstandards"`,
	EvaluationExamples: `Examples:
| English | Correct German | Incorrect German | Note |
|---------|---------------|-----------------|------|
| "Financial Report" | "Finanzbericht" | "finanzbericht" | Nouns must be capitalized |
| "Data from [providerName]" | "Daten von [providerName]" | "Daten aus [providerName]" | "von" is the right preposition |
| "market analysis tools" | "Marktanalysetools" | "Markt Analyse Tools" | Compound into a single word |`,
}
