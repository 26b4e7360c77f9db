// Package chat orchestrates one chat widget reply: catalog search, book
// questions, rule-based answers and escalation to the completion model.
package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pustaka-digital/pustaka/internal/domain"
	"github.com/pustaka-digital/pustaka/internal/domain/book"
	domchat "github.com/pustaka-digital/pustaka/internal/domain/chat"
	"github.com/pustaka-digital/pustaka/internal/domain/intent"
	"github.com/pustaka-digital/pustaka/internal/domain/keyword"
	"github.com/pustaka-digital/pustaka/internal/logger"
	"github.com/pustaka-digital/pustaka/internal/metrics"
	"github.com/pustaka-digital/pustaka/internal/repository/catalog"
)

// Context sizes.
const (
	bookQuestionCandidates = 2
	contextLookupLimit     = 3
)

// Config holds library-specific chat settings.
type Config struct {
	LibraryName     string
	ContactWhatsApp string
	LibraryContext  string
	HistoryTurns    int
	Rules           []intent.Rule // defaults to intent.DefaultRules
	MaxTokens       int
	Temperature     *float32
}

// Service produces exactly one response per message and never fails.
type Service struct {
	search  Searcher
	catalog Catalog
	ai      Completer
	cfg     Config
	logger  *zap.Logger
}

// New creates a chat orchestrator.
func New(s Searcher, c Catalog, ai Completer, cfg Config, logger *zap.Logger) *Service {
	if cfg.Rules == nil {
		cfg.Rules = intent.DefaultRules(cfg.LibraryName, cfg.ContactWhatsApp)
	}
	if cfg.HistoryTurns <= 0 {
		cfg.HistoryTurns = 2
	}
	return &Service{search: s, catalog: c, ai: ai, cfg: cfg, logger: logger}
}

// Respond answers message. history is the widget's trailing conversation.
// Panics inside the pipeline become a TypeError reply with the contact number.
func (s *Service) Respond(ctx context.Context, message string, history []domchat.Turn) (resp domchat.Response) {
	log := logger.FromContext(ctx, s.logger)
	defer func() {
		if r := recover(); r != nil {
			log.Error("Chat pipeline panicked", zap.Any("panic", r), zap.Stack("stack"))
			resp = s.ErrorResponse()
		}
		metrics.ChatResponsesTotal.WithLabelValues(string(resp.Type)).Inc()
	}()

	message = strings.TrimSpace(message)

	if domchat.IsExplicitSearch(message) {
		if term := keyword.Extract(message, keyword.GeneralStopWords); term != "" {
			return s.searchCatalog(ctx, term)
		}
	}

	if domchat.IsBookQuestion(message) {
		return s.answerBookQuestion(ctx, message)
	}

	match := intent.Classify(message, s.cfg.Rules)

	if domchat.ShouldEscalate(message, match.Confidence, intent.Threshold) {
		if text, ok := s.askModel(ctx, message, history); ok {
			return domchat.Response{Text: text, Type: domchat.TypeAIGenerated, Confidence: domchat.AIConfidence}
		}
		log.Debug("Escalation produced no answer, using rule-based reply", zap.String("rule", match.Rule))
	}

	return domchat.Response{Text: match.Response, Type: domchat.TypeRuleBased, Confidence: match.Confidence}
}

// ErrorResponse is the reply used when the pipeline cannot answer.
func (s *Service) ErrorResponse() domchat.Response {
	text := "Maaf, terjadi kendala pada sistem kami."
	if s.cfg.ContactWhatsApp != "" {
		text += " Silakan hubungi pustakawan kami melalui WhatsApp " + s.cfg.ContactWhatsApp + "."
	}
	return domchat.Response{Text: text, Type: domchat.TypeError, Confidence: 0}
}

func (s *Service) searchCatalog(ctx context.Context, term string) domchat.Response {
	res := s.search.Search(ctx, term)
	if len(res.Books) == 0 {
		return domchat.Response{Text: formatNotFound(term), Type: domchat.TypeBookSearch, Confidence: domchat.SearchConfidence}
	}
	return domchat.Response{
		Text:       formatSearchResults(term, res.Books),
		Type:       domchat.TypeBookSearch,
		Confidence: domchat.SearchConfidence,
	}
}

func (s *Service) answerBookQuestion(ctx context.Context, message string) domchat.Response {
	var candidates []book.Book
	if term := keyword.Extract(message, keyword.BookQuestionStopWords); term != "" {
		res := s.search.Search(ctx, term)
		candidates = res.Books[:min(bookQuestionCandidates, len(res.Books))]
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Pengunjung %s bertanya tentang sebuah buku: \"%s\"\n\n", s.cfg.LibraryName, message)
	if len(candidates) > 0 {
		prompt.WriteString("Buku di katalog yang mungkin dimaksud:\n")
		prompt.WriteString(describeBooks(candidates))
		prompt.WriteString("\n")
	}
	prompt.WriteString("Jelaskan secara singkat (maksimal 4 kalimat) isi atau topik buku tersebut dalam bahasa Indonesia. " +
		"Jika tidak yakin, katakan terus terang dan sarankan pengunjung menanyakan pustakawan.")

	if text, ok := s.ai.Complete(ctx, prompt.String(), s.options()); ok {
		return domchat.Response{Text: text, Type: domchat.TypeBookDetail, Confidence: domchat.DetailConfidence}
	}

	return domchat.Response{Text: s.bookQuestionFallback(), Type: domchat.TypeBookDetail, Confidence: domchat.DetailConfidence}
}

func (s *Service) bookQuestionFallback() string {
	text := "Maaf, saya belum bisa menjelaskan isi buku tersebut saat ini. " +
		"Coba ketik \"cari buku <judul atau topik>\" untuk melihat data katalognya"
	if s.cfg.ContactWhatsApp != "" {
		text += ", atau tanyakan langsung kepada pustakawan melalui WhatsApp " + s.cfg.ContactWhatsApp
	}
	return text + "."
}

func (s *Service) askModel(ctx context.Context, message string, history []domchat.Turn) (string, bool) {
	var prompt strings.Builder
	if catalogContext := s.catalogContext(ctx, message); catalogContext != "" {
		prompt.WriteString("Data katalog:\n")
		prompt.WriteString(catalogContext)
		prompt.WriteString("\n")
	}
	if turns := domchat.LastTurns(history, s.cfg.HistoryTurns); len(turns) > 0 {
		prompt.WriteString("Percakapan sebelumnya:\n")
		prompt.WriteString(formatHistory(turns))
		prompt.WriteString("\n")
	}
	fmt.Fprintf(&prompt, "Pertanyaan pengunjung: %s\n\n", message)
	prompt.WriteString("Jawab dengan ramah, singkat, dan dalam bahasa Indonesia.")

	return s.ai.Complete(ctx, prompt.String(), s.options())
}

// catalogContext gathers stats and keyword lookups concurrently. Failed lookups
// are left out of the context and never cancel their siblings.
func (s *Service) catalogContext(ctx context.Context, message string) string {
	log := logger.FromContext(ctx, s.logger)
	term := keyword.Extract(message, keyword.GeneralStopWords)

	var (
		stats                    book.Stats
		statsOK                  bool
		byTitle, byAuthor, topic []book.Book
	)

	var g errgroup.Group
	g.Go(func() error {
		st, err := s.catalog.Stats(ctx)
		if err != nil {
			return fmt.Errorf("stats: %w", err)
		}
		stats, statsOK = st, true
		return nil
	})
	if term != "" {
		lookup := func(dst *[]book.Book, fields catalog.Field) func() error {
			return func() error {
				books, err := s.catalog.Contains(ctx, term, fields, contextLookupLimit)
				if err != nil {
					return fmt.Errorf("contains %q: %w", term, err)
				}
				*dst = books
				return nil
			}
		}
		g.Go(lookup(&byTitle, catalog.FieldTitle))
		g.Go(lookup(&byAuthor, catalog.FieldAuthor))
		g.Go(lookup(&topic, catalog.FieldPublisher|catalog.FieldPhysicalDescription))
	}
	if err := g.Wait(); err != nil {
		log.Warn("Catalog context incomplete", zap.Error(err))
	}

	var sb strings.Builder
	if statsOK {
		fmt.Fprintf(&sb, "- Koleksi: %d judul, %d pengarang, %d penerbit\n",
			stats.TotalBooks, stats.DistinctAuthors, stats.DistinctPublishers)
	}
	related := dedupe(byTitle, byAuthor, topic)
	if len(related) > 0 {
		sb.WriteString("- Buku terkait:\n")
		sb.WriteString(describeBooks(related))
	}
	return sb.String()
}

func (s *Service) options() domain.CompletionOptions {
	system := fmt.Sprintf("Anda adalah asisten virtual %s.", s.cfg.LibraryName)
	if s.cfg.LibraryContext != "" {
		system += " " + s.cfg.LibraryContext
	}
	if s.cfg.ContactWhatsApp != "" {
		system += " Kontak pustakawan: WhatsApp " + s.cfg.ContactWhatsApp + "."
	}
	return domain.CompletionOptions{System: system, MaxTokens: s.cfg.MaxTokens, Temperature: s.cfg.Temperature}
}

func dedupe(groups ...[]book.Book) []book.Book {
	seen := make(map[string]bool)
	var out []book.Book
	for _, g := range groups {
		for _, b := range g {
			if seen[b.ID()] {
				continue
			}
			seen[b.ID()] = true
			out = append(out, b)
		}
	}
	return out
}
