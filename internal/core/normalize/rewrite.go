package normalize

import (
	"bufio"
	"io"
	"strings"

	perr "oraflow/internal/platform/errors"
)

// Rule replaces every occurrence of From with To
type Rule struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to"`
}

// Rewriter applies caller supplied substring rules, e.g. "steroid sulfatase, mouse" -> "Sts"
// at any position the earliest listed rule wins; a nil Rewriter is the identity
type Rewriter struct {
	rules []Rule
	r     *strings.Replacer
}

// NewRewriter builds a Rewriter; rules with an empty From are ignored
func NewRewriter(rules ...Rule) *Rewriter {
	pairs := make([]string, 0, 2*len(rules))
	kept := make([]Rule, 0, len(rules))
	for _, rl := range rules {
		if rl.From == "" {
			continue
		}
		kept = append(kept, rl)
		pairs = append(pairs, rl.From, rl.To)
	}
	return &Rewriter{rules: kept, r: strings.NewReplacer(pairs...)}
}

// Rules returns a copy of the active rules
func (w *Rewriter) Rules() []Rule {
	if w == nil {
		return nil
	}
	return append([]Rule(nil), w.rules...)
}

// Apply rewrites s and trims the outcome
func (w *Rewriter) Apply(s string) string {
	if w == nil || len(w.rules) == 0 {
		return s
	}
	return strings.TrimSpace(w.r.Replace(s))
}

// ReadRules parses "from<TAB>to" lines; blank lines and # comments are skipped
func ReadRules(r io.Reader) ([]Rule, error) {
	var out []Rule
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		txt := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(txt) == "" || strings.HasPrefix(strings.TrimSpace(txt), "#") {
			continue
		}
		from, to, ok := strings.Cut(txt, "\t")
		if !ok || strings.TrimSpace(from) == "" {
			return nil, perr.Inputf("rewrite rules line %d: want from<TAB>to", line)
		}
		out = append(out, Rule{From: strings.TrimSpace(from), To: strings.TrimSpace(to)})
	}
	if err := sc.Err(); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInput, "read rewrite rules")
	}
	return out, nil
}
