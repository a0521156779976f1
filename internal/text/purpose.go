// File path: internal/text/purpose.go

// Package text cleans free-text fields from company records.
package text

import (
	_ "embed"
	"regexp"
	"sort"
	"strings"
)

//go:embed stopwords.txt
var stopWordsData string

// PurposeProcessor strips registration boilerplate from company purpose
// strings so only the substantive purpose remains.
type PurposeProcessor struct {
	pattern    *regexp.Regexp
	whitespace *regexp.Regexp
	stopWords  []string
}

// NewPurposeProcessor compiles the embedded stop-phrase list into a single
// alternation. Longer phrases are matched first so a short phrase never
// shadows a longer one it is contained in.
func NewPurposeProcessor() *PurposeProcessor {
	stopWords := readStopWords()
	sorted := make([]string, len(stopWords))
	copy(sorted, stopWords)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})
	escaped := make([]string, len(sorted))
	for i, phrase := range sorted {
		escaped[i] = regexp.QuoteMeta(phrase)
	}
	return &PurposeProcessor{
		pattern:    regexp.MustCompile(`(?:` + strings.Join(escaped, "|") + `)`),
		whitespace: regexp.MustCompile(`\s+`),
		stopWords:  stopWords,
	}
}

// Clean returns the purpose text with boilerplate phrases removed and
// whitespace normalised.
func (p *PurposeProcessor) Clean(purpose string) string {
	cleaned := p.pattern.ReplaceAllString(purpose, "")
	cleaned = p.whitespace.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.TrimSuffix(cleaned, ".")
	return strings.TrimSpace(cleaned)
}

// StopWords returns the embedded stop-phrase list in file order.
func (p *PurposeProcessor) StopWords() []string {
	out := make([]string, len(p.stopWords))
	copy(out, p.stopWords)
	return out
}

func readStopWords() []string {
	var stopWords []string
	for _, line := range strings.Split(stopWordsData, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		stopWords = append(stopWords, trimmed)
	}
	return stopWords
}
