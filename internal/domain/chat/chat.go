// Package chat holds the chat widget's response model and the message
// heuristics that route a message through the orchestrator.
package chat

import (
	"strings"
)

// ResponseType tells the widget how a reply was produced.
type ResponseType string

// Response types.
const (
	TypeBookSearch  ResponseType = "book_search"
	TypeBookDetail  ResponseType = "book_detail"
	TypeAIGenerated ResponseType = "ai_generated"
	TypeRuleBased   ResponseType = "rule_based"
	TypeError       ResponseType = "error"
)

// Fixed confidences reported by the orchestrator branches.
const (
	SearchConfidence = 0.9
	DetailConfidence = 0.8
	AIConfidence     = 0.8
)

// Response is one chat reply. Confidence is in [0,1].
type Response struct {
	Text       string
	Type       ResponseType
	Confidence float64
}

// Turn is one earlier message of the conversation, as sent by the widget.
type Turn struct {
	Text   string
	Sender string // "user" or "bot"; may be empty
}

// LastTurns returns at most n trailing turns of history.
func LastTurns(history []Turn, n int) []Turn {
	if n <= 0 || len(history) == 0 {
		return nil
	}
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

var (
	searchVerbs = []string{
		"cari", "carikan", "mencari", "ada buku", "punya buku", "search", "find",
	}
	bookQuestionCues = []string{
		"tentang apa", "sinopsis", "ringkasan", "summary", "review", "ulasan",
		"isi buku", "what is it about",
	}
	simpleWords = []string{
		"halo", "hallo", "hai", "hello", "selamat pagi", "selamat siang", "selamat sore",
		"selamat malam", "assalamualaikum", "terima kasih", "makasih", "thanks", "thank you",
	}
	acknowledgements = map[string]bool{
		"ok": true, "oke": true, "okay": true, "baik": true, "siap": true, "sip": true,
		"ya": true, "iya": true, "noted": true, "mantap": true,
	}
	hoursLocationWords = []string{
		"jam buka", "jam operasional", "buka jam", "tutup jam", "alamat", "lokasi", "di mana", "dimana",
	}
	complexCues = []string{
		"bagaimana cara", "how to", "apakah ada program khusus", "is there a special program",
		"tolong jelaskan", "please explain",
	}
)

// Word-count thresholds for the escalation heuristics.
const (
	simpleMaxWords        = 3
	shortRequestMaxWords  = 6
	complexQuestionWords  = 6
	complexStatementWords = 8
)

func normalize(msg string) string {
	return strings.ToLower(strings.TrimSpace(msg))
}

func wordCount(msg string) int {
	return len(strings.Fields(msg))
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// IsExplicitSearch reports whether msg asks to search the catalog: a search verb,
// or a short "buku tentang X" request. Messages with a question mark never qualify.
func IsExplicitSearch(msg string) bool {
	m := normalize(msg)
	if strings.Contains(m, "?") {
		return false
	}
	if containsAny(m, searchVerbs) {
		return true
	}
	return strings.Contains(m, "buku tentang") && wordCount(m) <= shortRequestMaxWords
}

// IsBookQuestion reports whether msg asks about the content of a specific book.
func IsBookQuestion(msg string) bool {
	m := normalize(msg)
	if containsAny(m, bookQuestionCues) {
		return true
	}
	return strings.Contains(m, "buku") && strings.Contains(m, "tentang")
}

// IsSimple reports whether msg is a greeting, thanks, an acknowledgement, at most
// three words, or an hours/location question. Simple messages never go to the model.
func IsSimple(msg string) bool {
	m := normalize(msg)
	if wordCount(m) <= simpleMaxWords {
		return true
	}
	if acknowledgements[strings.Trim(m, ".!")] {
		return true
	}
	return containsAny(m, simpleWords) || containsAny(m, hoursLocationWords)
}

// IsComplex reports whether msg is a long question, a long statement, or uses an
// explanatory cue.
func IsComplex(msg string) bool {
	m := normalize(msg)
	n := wordCount(m)
	if strings.Contains(m, "?") && n > complexQuestionWords {
		return true
	}
	if containsAny(m, complexCues) {
		return true
	}
	return n > complexStatementWords
}

// ShouldEscalate decides whether a message goes to the completion model given the
// rule-based confidence.
func ShouldEscalate(msg string, ruleConfidence, threshold float64) bool {
	if IsSimple(msg) {
		return false
	}
	return ruleConfidence < threshold || IsComplex(msg)
}
