package blob

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// maxRunsPerDay bounds the claim loop
const maxRunsPerDay = 10000

// RunName formats a run prefix, i.e. RunName("2026-10-19", 3) = "2026-10-19_3"
func RunName(date string, n int) string { return date + "_" + strconv.Itoa(n) }

// ClaimRun reserves the first free {date}_{n} prefix, n starting at 1
// existing keys seed the search so busy days do not probe from 1; Claim arbitrates races
func ClaimRun(ctx context.Context, s Store, date string) (string, error) {
	if date == "" {
		return "", errors.New("blob: empty run date")
	}
	n := 1
	if keys, err := s.List(ctx, date+"_"); err == nil {
		n = nextRunNumber(date, keys)
	}
	for tries := 0; tries < maxRunsPerDay; tries++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		name := RunName(date, n)
		err := s.Claim(ctx, name)
		switch {
		case err == nil:
			return name, nil
		case errors.Is(err, ErrExists):
			n++
		default:
			return "", fmt.Errorf("blob: claim %s: %w", name, err)
		}
	}
	return "", fmt.Errorf("blob: no free run slot for %s after %d attempts", date, maxRunsPerDay)
}

// nextRunNumber returns one past the highest n seen among keys shaped {date}_{n}/...
func nextRunNumber(date string, keys []string) int {
	highest := 0
	for _, k := range keys {
		rest, ok := strings.CutPrefix(k, date+"_")
		if !ok {
			continue
		}
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			rest = rest[:i]
		}
		if n, err := strconv.Atoi(rest); err == nil && n > highest {
			highest = n
		}
	}
	return highest + 1
}
