package payslip

import (
	"errors"
	"strconv"
	"strings"
)

// ErrNotRepresentable marks a competency that matches none of the accepted
// shapes. Callers must treat it as a validation failure, not as "no match".
var ErrNotRepresentable = errors.New("competency is not representable as year and month")

// NormalizeCompetency parses the heterogeneous pay-period shapes the import
// runs produce (YYYY-MM, YYYYMM, YYYY/MM, MM/YYYY) into the canonical
// six-digit YYYYMM token.
func NormalizeCompetency(raw string) (string, error) {
	s := strings.TrimSpace(raw)

	var year, month string
	switch {
	case len(s) == 6 && allDigits(s):
		year, month = s[:4], s[4:]
	case len(s) == 7 && (s[4] == '-' || s[4] == '/') && allDigits(s[:4]) && allDigits(s[5:]):
		year, month = s[:4], s[5:]
	case len(s) == 7 && s[2] == '/' && allDigits(s[:2]) && allDigits(s[3:]):
		month, year = s[:2], s[3:]
	default:
		return "", ErrNotRepresentable
	}

	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return "", ErrNotRepresentable
	}

	return year + month, nil
}

// DigitToken strips every non-digit character and keeps the first six
// digits. It never fails: a string without digits yields an empty,
// unmatchable token. Header and footer competencies are sometimes stored at
// a finer granularity (YYYYMMDD-like), which this rule collapses back to
// year and month.
func DigitToken(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == 6 {
				break
			}
		}
	}
	return b.String()
}

// SameCompetency reports whether two raw competency values name the same pay
// period. Both are normalized first; when either is not representable the
// comparison falls back to the digit-stripped tokens. The fallback is what
// lets a six-digit event competency match a header stored as a full date.
func SameCompetency(a, b string) bool {
	na, errA := NormalizeCompetency(a)
	nb, errB := NormalizeCompetency(b)
	if errA == nil && errB == nil {
		return na == nb
	}

	ta, tb := DigitToken(a), DigitToken(b)
	if ta == "" || tb == "" {
		return false
	}
	return ta == tb
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
