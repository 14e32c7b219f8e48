package intent

import (
	"regexp"
	"time"
)

// Spoken patterns are a fixed Hindi/English mix; matching is literal, no
// language model involved. Families are ordered task > item placement >
// item query so that "I kept the charger in the cupboard today" is read as
// a placement, not a task, only when no task wording matches first.
var taskPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(.+?)\s*(कल|tomorrow)\s*(करना|लेना|भेजना|जाना|खरीदना|है)`),
	regexp.MustCompile(`(?i)(.+?)\s*(आज|today)\s*(करना|लेना|भेजना|जाना|खरीदना|है)`),
	regexp.MustCompile(`(?i)(याद रखना|remember|reminder)\s*(.+)`),
	regexp.MustCompile(`(?i)(.+?)\s*(बजे|o'clock|AM|PM)\s*(करना|लेना|भेजना|जाना|है)`),
	regexp.MustCompile(`(?i)(दवाई|medicine|tablet|pill)\s*(लेना|take)`),
	regexp.MustCompile(`(?i)(बिल|bill|payment)\s*(जमा|pay|submit)`),
	regexp.MustCompile(`(?i)(प्रेजेंटेशन|presentation|report)\s*(भेजना|send|submit)`),
}

var storePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(मैंने|maine|I)\s*(.+?)\s*(रखा|rakha|kept|placed)\s*(.+?)\s*(में|me|in)`),
	regexp.MustCompile(`(?i)(.+?)\s*(अलमारी|almari|cupboard|drawer)\s*(में|me|in)\s*(रखा|rakha|kept)`),
}

var queryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(.+?)\s*(कहाँ|kahan|where)\s*(है|hai|is)`),
	regexp.MustCompile(`(?i)(कहाँ|where)\s*(है|is)\s*(.+)`),
}

// rule pairs one spoken pattern with the builder that turns a matching
// utterance into an Intent.
type rule struct {
	pattern *regexp.Regexp
	build   func(text, matched string, now time.Time) Intent
}

// Classifier runs the ordered rule cascade over final transcripts.
// Classification is pure: no state is read or written here.
type Classifier struct {
	rules []rule
	now   func() time.Time
}

// NewClassifier builds a Classifier with the full rule cascade.
func NewClassifier() *Classifier {
	c := &Classifier{now: time.Now}
	for _, p := range taskPatterns {
		c.rules = append(c.rules, rule{pattern: p, build: buildTask})
	}
	for _, p := range storePatterns {
		c.rules = append(c.rules, rule{pattern: p, build: buildStoreItem})
	}
	for _, p := range queryPatterns {
		c.rules = append(c.rules, rule{pattern: p, build: buildFindItem})
	}
	return c
}

// Classify returns the Intent for one utterance. The first matching rule
// wins outright; later rules and families are never consulted. An
// utterance matching nothing yields KindNone.
func (c *Classifier) Classify(text string) Intent {
	for _, r := range c.rules {
		if m := r.pattern.FindString(text); m != "" {
			return r.build(text, m, c.now())
		}
	}
	return Intent{Kind: KindNone}
}

// buildTask keeps the matched phrase as the task text; the due time is
// derived from cues inside that phrase, not the whole utterance.
func buildTask(_, matched string, now time.Time) Intent {
	return Intent{
		Kind:     KindTask,
		TaskText: matched,
		DueTime:  ExtractDueTime(matched, now),
	}
}

func buildStoreItem(text, _ string, _ time.Time) Intent {
	name, _ := ExtractItemName(text)
	return Intent{
		Kind:     KindStoreItem,
		ItemName: name,
		Location: ExtractLocation(text),
	}
}

func buildFindItem(text, _ string, _ time.Time) Intent {
	return Intent{
		Kind:    KindFindItem,
		Subject: ExtractQuerySubject(text),
	}
}
