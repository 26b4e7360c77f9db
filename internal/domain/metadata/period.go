package metadata

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	periodRange   = regexp.MustCompile(`^(\d{4})\s*(?:-|–|—|s\.?\s?d\.?|sampai|hingga|to)\s*(\d{4})$`)
	periodYear    = regexp.MustCompile(`^(\d{4})$`)
	periodDecade  = regexp.MustCompile(`^(?:tahun\s+)?(\d{3})0(?:-?an|'?s)$`)
	centuryEN     = regexp.MustCompile(`(early|mid|middle|late)?[\s-]*(\d{1,2})(?:st|nd|rd|th)[\s-]+century`)
	centuryID     = regexp.MustCompile(`(awal|pertengahan|akhir)?\s*abad\s+(?:ke[\s-]*)?(\d{1,2}|[ivxlc]+)\b`)
	romanNumerals = map[byte]int{'i': 1, 'v': 5, 'x': 10, 'l': 50, 'c': 100}
)

// namedEras maps well-known Indonesian historical eras to their span.
var namedEras = []struct {
	phrase string
	span   string
}{
	{"orde baru", "1966-1998"},
	{"orde lama", "1945-1966"},
	{"pendudukan jepang", "1942-1945"},
	{"revolusi nasional", "1945-1949"},
	{"reformasi", "1998-2004"},
}

// NormalizePeriod maps a period phrase to "YYYY-YYYY", or returns "" when the
// phrase is not recognized. It never guesses.
func NormalizePeriod(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	if m := periodRange.FindStringSubmatch(s); m != nil {
		return span(m[1], m[2])
	}
	if m := periodYear.FindStringSubmatch(s); m != nil {
		return m[1] + "-" + m[1]
	}
	if m := periodDecade.FindStringSubmatch(s); m != nil {
		start, _ := strconv.Atoi(m[1] + "0")
		return fmt.Sprintf("%04d-%04d", start, start+9)
	}
	if m := centuryEN.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[2])
		return centurySpan(n, m[1])
	}
	if m := centuryID.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			n = parseRoman(m[2])
		}
		return centurySpan(n, m[1])
	}
	for _, era := range namedEras {
		if strings.Contains(s, era.phrase) {
			return era.span
		}
	}
	return ""
}

func span(from, to string) string {
	a, _ := strconv.Atoi(from)
	b, _ := strconv.Atoi(to)
	if a > b {
		return ""
	}
	return from + "-" + to
}

// centurySpan returns the span of the n-th century narrowed by a qualifier:
// early 00-30, mid 30-70, late 70-99, none 00-99.
func centurySpan(n int, qualifier string) string {
	if n < 1 || n > 21 {
		return ""
	}
	base := (n - 1) * 100
	from, to := base, base+99
	switch qualifier {
	case "early", "awal":
		to = base + 30
	case "mid", "middle", "pertengahan":
		from, to = base+30, base+70
	case "late", "akhir":
		from = base + 70
	}
	return fmt.Sprintf("%04d-%04d", from, to)
}

func parseRoman(s string) int {
	total := 0
	for i := 0; i < len(s); i++ {
		v := romanNumerals[s[i]]
		if v == 0 {
			return 0
		}
		if i+1 < len(s) && romanNumerals[s[i+1]] > v {
			total -= v
		} else {
			total += v
		}
	}
	return total
}
