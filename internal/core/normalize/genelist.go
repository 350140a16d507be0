package normalize

import (
	"bufio"
	"io"
	"strings"

	perr "oraflow/internal/platform/errors"
)

// GeneList is an ordered list of raw identifiers: no blanks, no duplicates, first occurrence wins
type GeneList []string

// maxLine bounds one identifier line
const maxLine = 64 << 10

// Build cleans, rewrites and dedups raw entries in order
func Build(raw []string, rw *Rewriter) GeneList {
	out := make(GeneList, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, s := range raw {
		s = Clean(rw.Apply(Clean(s)))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Read parses one identifier per line; blank lines and lines starting with # are skipped
// an empty result is an input error
func Read(r io.Reader, rw *Rewriter) (GeneList, error) {
	var raw []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLine)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		raw = append(raw, line)
	}
	if err := sc.Err(); err != nil {
		return nil, perr.WithOp(perr.Wrap(err, perr.ErrorCodeInput, "read gene list"), "input")
	}
	gl := Build(raw, rw)
	if len(gl) == 0 {
		return nil, perr.WithOp(perr.Inputf("gene list is empty after normalization"), "input")
	}
	return gl, nil
}
