// Package intent is the rule-based classifier behind the chat widget.
// It is pure: no I/O, and the rule table is never mutated.
package intent

import (
	"math"
	"strings"
)

// Scoring constants.
const (
	// Threshold is the lowest confidence accepted before falling back to CatchAll.
	Threshold = 0.3
	// CatchAllConfidence is reported when no rule clears Threshold.
	CatchAllConfidence = 0.1
	// MaxConfidence caps every rule-based score.
	MaxConfidence = 0.95

	qualityPhrase   = 0.8
	qualityWord     = 0.6
	qualityWeakWord = 0.4
	// Single-word hits in messages longer than this are weak evidence.
	weakWordAfter = 4
)

// CatchAllResponse is returned when nothing matches well enough.
const CatchAllResponse = "Maaf, saya belum memahami pertanyaan Anda. Coba tanyakan tentang jam buka, " +
	"lokasi, keanggotaan, peminjaman, atau koleksi perpustakaan. Anda juga bisa mengetik " +
	"\"cari buku <topik>\" untuk mencari di katalog."

// Rule maps a set of substring patterns to a canned response.
type Rule struct {
	Name       string
	Patterns   []string
	Response   string
	Confidence float64
}

// Match is the classifier outcome.
type Match struct {
	Rule       string // empty for the catch-all
	Response   string
	Confidence float64
}

// IsCatchAll reports whether no rule matched.
func (m Match) IsCatchAll() bool { return m.Rule == "" }

// Classify scores message against every pattern of every rule and returns the
// best candidate. Ties keep the first candidate in rule order.
func Classify(message string, rules []Rule) Match {
	msg := strings.ToLower(strings.TrimSpace(message))
	wordCount := len(strings.Fields(msg))

	var best Match
	for _, r := range rules {
		for _, p := range r.Patterns {
			p = strings.ToLower(p)
			if p == "" || !strings.Contains(msg, p) {
				continue
			}
			score := math.Min(MaxConfidence, r.Confidence*matchQuality(p, wordCount))
			if score > best.Confidence {
				best = Match{Rule: r.Name, Response: r.Response, Confidence: score}
			}
		}
	}

	if best.Confidence < Threshold {
		return Match{Response: CatchAllResponse, Confidence: CatchAllConfidence}
	}
	best.Confidence = round2(best.Confidence)
	return best
}

func matchQuality(pattern string, wordCount int) float64 {
	switch {
	case len(strings.Fields(pattern)) > 1:
		return qualityPhrase
	case wordCount > weakWordAfter:
		return qualityWeakWord
	default:
		return qualityWord
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
