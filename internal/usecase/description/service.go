// Package description generates and caches book descriptions.
package description

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pustaka-digital/pustaka/internal/domain"
	"github.com/pustaka-digital/pustaka/internal/domain/metadata"
	"github.com/pustaka-digital/pustaka/internal/logger"
	"github.com/pustaka-digital/pustaka/internal/metrics"
)

// Source tells the caller where a description came from.
type Source string

// Sources.
const (
	SourceCache     Source = "database-cache-full"
	SourceGenerated Source = "ai-generated-full"
	SourceFailed    Source = "ai-failed-empty"
)

// Request identifies the book to describe.
type Request struct {
	BookID             string
	Title              string
	Year               string
	Author             string
	CurrentDescription string
}

// Service implements description generation.
type Service struct {
	repo   Repository
	books  BookReader
	gen    Generator
	now    func() time.Time
	logger *zap.Logger
}

// New creates a description service.
func New(repo Repository, books BookReader, gen Generator, logger *zap.Logger) *Service {
	return &Service{repo: repo, books: books, gen: gen, now: time.Now, logger: logger}
}

// Describe returns the cached description when it is reusable, otherwise
// generates one and stores it. A placeholder is stored too, with low confidence.
func (s *Service) Describe(ctx context.Context, req Request) (metadata.BookDescription, Source, error) {
	req.BookID = strings.TrimSpace(req.BookID)
	if req.BookID == "" {
		return metadata.BookDescription{}, "", fmt.Errorf("%w: bookId is required", domain.ErrInvalidRequest)
	}
	log := logger.FromContext(ctx, s.logger).With(zap.String("book_id", req.BookID))

	cached, err := s.repo.Get(ctx, req.BookID)
	switch {
	case err == nil && cached.Reusable():
		metrics.MetadataGenerationTotal.WithLabelValues("book", "cached").Inc()
		return cached, SourceCache, nil
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return metadata.BookDescription{}, "", fmt.Errorf("get description: %w", err)
	}

	subject, err := s.subject(ctx, req)
	if err != nil {
		return metadata.BookDescription{}, "", err
	}

	out := s.gen.Generate(ctx, subject, req.CurrentDescription)

	d := metadata.BookDescription{
		BookID:      req.BookID,
		Description: out.Description,
		Source:      metadata.SourceAIEnhanced,
		Confidence:  metadata.AIEnhancedConfidence,
		Metadata:    out.Metadata,
		GeneratedAt: s.now().UTC(),
	}
	source := SourceGenerated
	if out.Failed() {
		d.Source = metadata.SourceAIFailed
		d.Confidence = metadata.AIFailedConfidence
		source = SourceFailed
	}

	if err := s.repo.Save(ctx, d); err != nil {
		metrics.MetadataGenerationTotal.WithLabelValues("book", "error").Inc()
		return metadata.BookDescription{}, "", fmt.Errorf("save description: %w", err)
	}

	outcome := "generated"
	if out.Failed() {
		outcome = "failed"
	}
	metrics.MetadataGenerationTotal.WithLabelValues("book", outcome).Inc()
	log.Info("Book description stored", zap.String("source", d.Source), zap.String("strategy", out.Strategy))

	return d, source, nil
}

// subject fills missing title, author and year from the catalog.
func (s *Service) subject(ctx context.Context, req Request) (metadata.Subject, error) {
	subj := metadata.Subject{
		Title:  strings.TrimSpace(req.Title),
		Year:   strings.TrimSpace(req.Year),
		Author: strings.TrimSpace(req.Author),
	}
	if subj.Title != "" {
		return subj, nil
	}

	b, err := s.books.Get(ctx, req.BookID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return metadata.Subject{}, fmt.Errorf("%w: book %s", domain.ErrNotFound, req.BookID)
		}
		return metadata.Subject{}, fmt.Errorf("get book: %w", err)
	}
	subj.Title = b.Title()
	if subj.Author == "" {
		subj.Author = b.Author()
	}
	if subj.Year == "" {
		subj.Year = b.PublicationYear()
	}
	return subj, nil
}
