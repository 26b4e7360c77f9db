package recovery

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"unicode"
)

// ErrNoJSON is returned when the text holds no JSON object.
var ErrNoJSON = errors.New("no json object in text")

var (
	fenceRe         = regexp.MustCompile("```[A-Za-z]*")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	bareKeyRe       = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
)

// Repaired is the outcome of the repair pipeline.
type Repaired struct {
	Text      string
	Truncated bool // closers or a closing quote had to be appended
}

// Repair strips code fences, isolates the first JSON object and closes any
// unterminated string, array or object.
func Repair(text string) (Repaired, error) {
	s := fenceRe.ReplaceAllString(text, "")
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return Repaired{}, ErrNoJSON
	}
	s = s[start:]

	st := scan(s)
	if st.end > 0 {
		return Repaired{Text: s[:st.end]}, nil
	}
	return Repaired{Text: balance(s, st), Truncated: true}, nil
}

// ParseObject repairs text and decodes it. Trailing commas and bare keys are
// only rewritten when a plain decode fails.
func ParseObject(text string) (map[string]any, Repaired, error) {
	r, err := Repair(text)
	if err != nil {
		return nil, r, err
	}

	candidates := []string{r.Text}
	stripped := trailingCommaRe.ReplaceAllString(r.Text, "$1")
	candidates = append(candidates, stripped, bareKeyRe.ReplaceAllString(stripped, `$1"$2":`))

	var lastErr error
	for _, c := range candidates {
		var obj map[string]any
		if err := json.Unmarshal([]byte(c), &obj); err != nil {
			lastErr = err
			continue
		}
		if obj == nil {
			return nil, r, ErrNoJSON
		}
		return obj, r, nil
	}
	return nil, r, lastErr
}

type scanState struct {
	end      int    // index after the closing brace of a complete object, or -1
	open     []byte // unclosed openers, outermost first
	sep      []int  // per opener, index of the last '{' or ',' seen at that depth
	colon    []bool // per opener, whether a ':' followed sep
	inString bool
	escape   bool
}

// scan walks s, which starts with '{', tracking string literals and nesting.
// Mismatched closers are ignored.
func scan(s string) scanState {
	st := scanState{end: -1}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if st.inString {
			switch {
			case st.escape:
				st.escape = false
			case c == '\\':
				st.escape = true
			case c == '"':
				st.inString = false
			}
			continue
		}
		switch c {
		case '"':
			st.inString = true
		case '{', '[':
			st.open = append(st.open, c)
			st.sep = append(st.sep, i)
			st.colon = append(st.colon, false)
		case ',':
			if n := len(st.open); n > 0 {
				st.sep[n-1], st.colon[n-1] = i, false
			}
		case ':':
			if n := len(st.open); n > 0 {
				st.colon[n-1] = true
			}
		case '}', ']':
			if n := len(st.open); n > 0 && st.open[n-1] == opener(c) {
				st.open, st.sep, st.colon = st.open[:n-1], st.sep[:n-1], st.colon[:n-1]
				if len(st.open) == 0 {
					st.end = i + 1
					return st
				}
			}
		}
	}
	return st
}

// balance closes whatever scan left open. A key cut off before its ':' is
// dropped together with the separator that introduced it.
func balance(s string, st scanState) string {
	if n := len(st.open); n > 0 && st.open[n-1] == '{' && !st.colon[n-1] {
		if cut := st.sep[n-1]; s[cut] == ',' {
			s = s[:cut]
		} else {
			s = s[:cut+1]
		}
	} else {
		if st.inString {
			if st.escape {
				s = s[:len(s)-1]
			}
			s += `"`
		}
		s = strings.TrimRightFunc(s, unicode.IsSpace)
		if strings.HasSuffix(s, ":") {
			s += "null"
		}
	}

	var sb strings.Builder
	sb.WriteString(s)
	for i := len(st.open) - 1; i >= 0; i-- {
		sb.WriteByte(closer(st.open[i]))
	}
	return sb.String()
}

func opener(c byte) byte {
	if c == '}' {
		return '{'
	}
	return '['
}

func closer(c byte) byte {
	if c == '{' {
		return '}'
	}
	return ']'
}
