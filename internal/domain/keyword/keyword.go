// Package keyword reduces free text to a short search phrase.
package keyword

import (
	"strings"
	"unicode"
)

// MaxTokens is the number of tokens kept by Extract.
const MaxTokens = 3

// MinTokenLen is the shortest token Extract keeps.
const MinTokenLen = 3

// StopWords is a set of lowercase tokens to discard.
type StopWords map[string]struct{}

// NewStopWords builds a StopWords set.
func NewStopWords(words ...string) StopWords {
	s := make(StopWords, len(words))
	for _, w := range words {
		s[strings.ToLower(w)] = struct{}{}
	}
	return s
}

// Contains reports whether w is a stop word.
func (s StopWords) Contains(w string) bool {
	_, ok := s[w]
	return ok
}

// GeneralStopWords strips chit-chat and search verbs from catalog search requests.
var GeneralStopWords = NewStopWords(
	"cari", "carikan", "mencari", "tolong", "saya", "aku", "mau", "ingin", "ada", "punya",
	"buku", "buku2", "tentang", "mengenai", "soal", "yang", "dan", "atau", "dengan", "untuk",
	"dari", "apa", "apakah", "ini", "itu", "judul", "karya", "bisa", "minta", "dong", "kak",
	"search", "find", "book", "books", "about", "the", "and", "for", "please", "any",
)

// BookQuestionStopWords strips question scaffolding from questions about a specific book.
var BookQuestionStopWords = NewStopWords(
	"buku", "tentang", "apa", "apakah", "isi", "isinya", "sinopsis", "ringkasan", "summary",
	"review", "ulasan", "ceritakan", "jelaskan", "bercerita", "membahas", "bagaimana", "yang",
	"ini", "itu", "dong", "kak", "saya", "mau", "tahu", "judul", "karya", "dari", "dan",
	"what", "about", "the", "book", "tell",
)

// Extract lowercases text, strips punctuation, drops stop words and short tokens,
// and joins the first MaxTokens survivors with single spaces.
// An empty result means no usable keyword.
func Extract(text string, stop StopWords) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)

	kept := make([]string, 0, MaxTokens)
	for _, tok := range strings.Fields(cleaned) {
		if len([]rune(tok)) < MinTokenLen || stop.Contains(tok) {
			continue
		}
		kept = append(kept, tok)
		if len(kept) == MaxTokens {
			break
		}
	}
	return strings.Join(kept, " ")
}
