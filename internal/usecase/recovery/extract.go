package recovery

import (
	"regexp"
	"strings"

	"github.com/pustaka-digital/pustaka/internal/domain/metadata"
)

var (
	quotedItemRe = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"`)
	arrayFieldRe = fieldPatterns(metadata.ArrayFields, `\[(.*?)(?:\]|$)`)
	strFieldRe   = fieldPatterns(metadata.StringFields, `(?:"((?:[^"\\]|\\.)*)"|([^,\n}\]]+))`)
)

// fieldPatterns compiles one pattern per field matching `field: <value>` with
// either key spelling, quoted or bare.
func fieldPatterns(fields []string, value string) map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(fields))
	for _, f := range fields {
		key := regexp.QuoteMeta(f) + "|" + regexp.QuoteMeta(metadata.CamelCase(f))
		out[f] = regexp.MustCompile(`(?is)["']?(?:` + key + `)["']?\s*[:=]\s*` + value)
	}
	return out
}

// ExtractFields pulls every metadata field out of text with per-field patterns.
// It tolerates any syntax damage; fields without a match are empty.
func ExtractFields(text string) metadata.BookMetadata {
	raw := make(map[string]any, len(arrayFieldRe)+len(strFieldRe))
	for field, re := range arrayFieldRe {
		if m := re.FindStringSubmatch(text); m != nil {
			raw[field] = splitItems(m[1])
		}
	}
	for field, re := range strFieldRe {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v := m[1]
		if v == "" {
			v = strings.TrimSpace(m[2])
		}
		if strings.EqualFold(v, "null") {
			v = ""
		}
		raw[field] = unescape(v)
	}
	return metadata.FromMap(raw)
}

func splitItems(body string) []string {
	var items []string
	if quoted := quotedItemRe.FindAllStringSubmatch(body, -1); len(quoted) > 0 {
		for _, q := range quoted {
			items = append(items, unescape(q[1]))
		}
		return items
	}
	for _, part := range strings.Split(body, ",") {
		part = strings.Trim(strings.TrimSpace(part), `'"`)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}

var unescaper = strings.NewReplacer(`\"`, `"`, `\\`, `\`, `\n`, " ", `\t`, " ", `\/`, "/")

func unescape(s string) string {
	return unescaper.Replace(s)
}
