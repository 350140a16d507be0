package service

import (
	"bufio"
	"io"
	"strings"

	"oraflow/internal/core/geneid"
	perr "oraflow/internal/platform/errors"
	dom "oraflow/internal/services/idmap/domain"
)

// ReadOverrides parses "raw<TAB>canonical_id" lines; blank and # lines are skipped, the last entry for a raw id wins
func ReadOverrides(r io.Reader) (dom.Overrides, error) {
	out := dom.Overrides{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		txt := strings.TrimSpace(sc.Text())
		if txt == "" || strings.HasPrefix(txt, "#") {
			continue
		}
		raw, id, ok := strings.Cut(txt, "\t")
		raw, id = strings.TrimSpace(raw), strings.TrimSpace(id)
		if !ok || raw == "" || id == "" {
			return nil, perr.WithField(perr.Inputf("overrides line %d: want raw<TAB>canonical_id", line), "overrides")
		}
		out[raw] = geneid.CanonicalID(id)
	}
	if err := sc.Err(); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInput, "read overrides")
	}
	return out, nil
}
