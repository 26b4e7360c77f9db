package recovery

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/pustaka-digital/pustaka/internal/domain/metadata"
)

// Strategy names, reported on Output.
const (
	StrategyTwoStep     = "two_step"
	StrategyMarker      = "marker"
	StrategySections    = "sections"
	StrategyDirectJSON  = "direct_json"
	StrategyPlaceholder = "placeholder"
)

var (
	errUnavailable = errors.New("completion unavailable")
	errNoContent   = errors.New("no metadata fields recovered")
	errNoDesc      = errors.New("no description recovered")
)

// Markers of the marker strategy.
const (
	markerDesc  = "DESKRIPSI:"
	markerStart = "METADATA_JSON_START"
	markerEnd   = "METADATA_JSON_END"
)

var sectionRe = regexp.MustCompile(`(?im)^\s*#{2,3}\s*(DESKRIPSI|METADATA)\s*$`)

type strategy struct {
	name string
	run  func(g *Generator, ctx context.Context, s metadata.Subject, current string) (Output, error)
}

var strategies = []strategy{
	{StrategyTwoStep, (*Generator).twoStep},
	{StrategyMarker, (*Generator).marker},
	{StrategySections, (*Generator).sections},
	{StrategyDirectJSON, (*Generator).directJSON},
}

const metadataShape = `{
  "key_themes": ["tema 1", "tema 2"],
  "geographic_focus": ["wilayah"],
  "historical_period": ["periode"],
  "content_type": "jenis isi, misalnya sejarah, biografi, novel",
  "subject_categories": ["kategori"],
  "temporal_coverage": "YYYY-YYYY atau kosong"
}`

func subjectLine(s metadata.Subject) string {
	line := fmt.Sprintf("Judul: %s", s.Title)
	if s.Author != "" {
		line += "\nPengarang: " + s.Author
	}
	if s.Year != "" {
		line += "\nTahun: " + s.Year
	}
	return line
}

func (g *Generator) twoStep(ctx context.Context, s metadata.Subject, current string) (Output, error) {
	desc := strings.TrimSpace(current)
	if desc == "" {
		prompt := "Tulis deskripsi singkat (3-5 kalimat, bahasa Indonesia) untuk buku berikut. " +
			"Tulis hanya deskripsinya.\n\n" + subjectLine(s)
		text, ok := g.ai.Complete(ctx, prompt, g.opts)
		if !ok {
			return Output{}, fmt.Errorf("description: %w", errUnavailable)
		}
		desc = strings.TrimSpace(text)
	}
	if desc == "" {
		return Output{}, errNoDesc
	}

	prompt := "Berdasarkan deskripsi buku berikut, isi metadata dengan format JSON persis seperti ini:\n" +
		metadataShape + "\n\n" + subjectLine(s) + "\nDeskripsi: " + desc + "\n\nBalas hanya dengan JSON."
	text, ok := g.ai.Complete(ctx, prompt, g.opts)
	if !ok {
		return Output{}, fmt.Errorf("metadata: %w", errUnavailable)
	}

	m := ExtractFields(text)
	if !m.HasContent() {
		return Output{}, errNoContent
	}
	return Output{Description: desc, Metadata: m}, nil
}

func (g *Generator) marker(ctx context.Context, s metadata.Subject, _ string) (Output, error) {
	prompt := "Buat deskripsi dan metadata untuk buku berikut.\n\n" + subjectLine(s) + "\n\n" +
		"Gunakan format persis:\n" + markerDesc + " <deskripsi 3-5 kalimat>\n" +
		markerStart + "\n" + metadataShape + "\n" + markerEnd
	text, ok := g.ai.Complete(ctx, prompt, g.opts)
	if !ok {
		return Output{}, errUnavailable
	}

	descStart := strings.Index(text, markerDesc)
	jsonStart := strings.Index(text, markerStart)
	if descStart < 0 || jsonStart < descStart {
		return Output{}, errors.New("markers not found")
	}
	desc := strings.TrimSpace(text[descStart+len(markerDesc) : jsonStart])

	body := text[jsonStart+len(markerStart):]
	if end := strings.Index(body, markerEnd); end >= 0 {
		body = body[:end]
	}
	return parsed(desc, body)
}

func (g *Generator) sections(ctx context.Context, s metadata.Subject, _ string) (Output, error) {
	prompt := "Buat deskripsi dan metadata untuk buku berikut.\n\n" + subjectLine(s) + "\n\n" +
		"Tulis dua bagian:\n### DESKRIPSI\n<deskripsi 3-5 kalimat>\n### METADATA\n" + metadataShape
	text, ok := g.ai.Complete(ctx, prompt, g.opts)
	if !ok {
		return Output{}, errUnavailable
	}

	idx := sectionRe.FindAllStringSubmatchIndex(text, -1)
	parts := make(map[string]string, 2)
	for i, loc := range idx {
		end := len(text)
		if i+1 < len(idx) {
			end = idx[i+1][0]
		}
		parts[strings.ToUpper(text[loc[2]:loc[3]])] = strings.TrimSpace(text[loc[1]:end])
	}
	if parts["METADATA"] == "" {
		return Output{}, errors.New("metadata section not found")
	}
	return parsed(parts["DESKRIPSI"], parts["METADATA"])
}

func (g *Generator) directJSON(ctx context.Context, s metadata.Subject, _ string) (Output, error) {
	prompt := "Balas hanya dengan satu objek JSON berisi deskripsi dan metadata buku berikut:\n" +
		`{"description": "<deskripsi 3-5 kalimat>", "metadata": ` + metadataShape + "}\n\n" + subjectLine(s)
	text, ok := g.ai.Complete(ctx, prompt, g.opts)
	if !ok {
		return Output{}, errUnavailable
	}

	obj, _, err := ParseObject(text)
	if err != nil {
		return Output{}, fmt.Errorf("parse: %w", err)
	}
	raw := obj
	if nested, ok := obj["metadata"].(map[string]any); ok {
		raw = nested
	}
	m := metadata.FromMap(raw)
	desc := metadata.String(obj["description"])
	if desc == "" {
		return Output{}, errNoDesc
	}
	if !m.HasContent() {
		return Output{}, errNoContent
	}
	return Output{Description: desc, Metadata: m}, nil
}

// parsed decodes a JSON body recovered from marked-up output.
func parsed(desc, body string) (Output, error) {
	if desc == "" {
		return Output{}, errNoDesc
	}
	obj, _, err := ParseObject(body)
	if err != nil {
		return Output{}, fmt.Errorf("parse: %w", err)
	}
	m := metadata.FromMap(obj)
	if !m.HasContent() {
		return Output{}, errNoContent
	}
	return Output{Description: desc, Metadata: m}, nil
}
