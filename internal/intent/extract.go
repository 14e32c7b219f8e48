package intent

import (
	"regexp"
	"strings"
)

// Known object and place words, Hindi alongside the English and
// transliterated forms heard in practice. Matching is case-insensitive
// substring; Devanagari has no case so lowering only affects the Latin
// entries.
var itemVocab = []string{
	"चार्जर", "charger",
	"चाबी", "keys",
	"फोन", "phone",
	"पर्स", "wallet",
	"चश्मा", "glasses",
}

var locationVocab = []string{
	"अलमारी", "almari", "cupboard", "drawer",
	"बैग", "bag",
	"टेबल", "table",
}

// LocationUnspecified ("somewhere") marks an item stored without a
// recognizable place. Storing with it is allowed; queries never resolve
// against it.
const LocationUnspecified = "कहीं"

var (
	placementRe       = regexp.MustCompile(`(?i)(मैंने|maine)\s*(.+?)\s*(रखा|rakha)`)
	placementMarkerRe = regexp.MustCompile(`(?i)(मैंने|maine|रखा|rakha)`)
	queryMarkerRe     = regexp.MustCompile(`(?i)(कहाँ|where|है|is)`)
)

func vocabMatch(text string, vocab []string) (string, bool) {
	lower := strings.ToLower(text)
	for _, w := range vocab {
		if strings.Contains(lower, strings.ToLower(w)) {
			return w, true
		}
	}
	return "", false
}

// ExtractItemName pulls the object name out of a placement utterance.
// Known vocabulary wins; otherwise the phrase between the first-person
// placement markers is isolated. Returns false when neither succeeds.
func ExtractItemName(text string) (string, bool) {
	if w, ok := vocabMatch(text, itemVocab); ok {
		return w, true
	}
	if m := placementRe.FindString(text); m != "" {
		name := strings.TrimSpace(placementMarkerRe.ReplaceAllString(m, ""))
		if name != "" {
			return name, true
		}
	}
	return "", false
}

// ExtractLocation pulls the place word out of a placement utterance,
// falling back to LocationUnspecified.
func ExtractLocation(text string) string {
	if w, ok := vocabMatch(text, locationVocab); ok {
		return w
	}
	return LocationUnspecified
}

// ExtractQuerySubject pulls the lookup subject out of a "where is X"
// utterance. Known vocabulary wins; otherwise the query marker words are
// stripped and whatever remains is the subject.
func ExtractQuerySubject(text string) string {
	if w, ok := vocabMatch(text, itemVocab); ok {
		return w
	}
	return strings.TrimSpace(queryMarkerRe.ReplaceAllString(text, ""))
}
