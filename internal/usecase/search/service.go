// Package search ranks catalog records against a free-text query.
package search

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pustaka-digital/pustaka/internal/domain/book"
	"github.com/pustaka-digital/pustaka/internal/logger"
	"github.com/pustaka-digital/pustaka/internal/repository/catalog"
)

// CandidateLimit caps how many records are fetched before ranking.
const CandidateLimit = 10

// MinTermLen is the shortest query that triggers a search.
const MinTermLen = 2

// Per-field weights added for each matching sub-term.
const (
	titleWeight     = 3
	authorWeight    = 2
	publisherWeight = 1
	physDescWeight  = 1
)

// Result is either a ranked list of books or, for too-short queries, catalog stats.
type Result struct {
	Books []book.Book
	Stats *book.Stats
}

// IsStats reports whether r carries the default stats shape.
func (r Result) IsStats() bool { return r.Stats != nil }

// Service handles relevance search over the catalog.
type Service struct {
	catalog Catalog
	logger  *zap.Logger
}

// New creates a search service.
func New(c Catalog, logger *zap.Logger) *Service {
	return &Service{catalog: c, logger: logger}
}

// Search returns books matching term, most relevant first. It never fails:
// store errors produce an empty result.
func (s *Service) Search(ctx context.Context, term string) Result {
	term = strings.TrimSpace(term)
	log := logger.FromContext(ctx, s.logger)

	if utf8.RuneCountInString(term) < MinTermLen {
		stats, err := s.catalog.Stats(ctx)
		if err != nil {
			log.Warn("Catalog stats failed", zap.Error(err))
			stats = book.Stats{RecentTitles: []string{}}
		}
		return Result{Stats: &stats}
	}

	candidates, err := s.catalog.Contains(ctx, term, catalog.FieldTitle|catalog.FieldAuthor|catalog.FieldPublisher, CandidateLimit)
	if err != nil {
		log.Warn("Catalog search failed", zap.String("term", term), zap.Error(err))
		return Result{Books: []book.Book{}}
	}

	return Result{Books: Rank(candidates, term)}
}

// Rank scores candidates against term and sorts them by descending score.
// Equal scores keep candidate order.
func Rank(candidates []book.Book, term string) []book.Book {
	subTerms := strings.Fields(strings.ToLower(term))
	out := make([]book.Book, len(candidates))
	for i, b := range candidates {
		out[i] = b.WithScore(Score(b, subTerms))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score() > out[j].Score()
	})
	return out
}

// Score sums the field weights of every lowercased sub-term found in b.
func Score(b book.Book, subTerms []string) int {
	title := strings.ToLower(b.Title())
	author := strings.ToLower(b.Author())
	publisher := strings.ToLower(b.Publisher())
	physDesc := strings.ToLower(b.PhysicalDescription())

	score := 0
	for _, t := range subTerms {
		if strings.Contains(title, t) {
			score += titleWeight
		}
		if strings.Contains(author, t) {
			score += authorWeight
		}
		if strings.Contains(publisher, t) {
			score += publisherWeight
		}
		if physDesc != "" && strings.Contains(physDesc, t) {
			score += physDescWeight
		}
	}
	return score
}
