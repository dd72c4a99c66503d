package s1_universe

import (
	"strings"
	"unicode"
)

// Rejection reasons recorded in Universe.Rejected
const (
	RejectEmpty       = "empty symbol"
	RejectShareClass  = "contains '.' or '-'"
	RejectNonAlphabet = "non-alphabetic"
)

// CleanSymbols normalizes raw symbols into tradable tickers
// ⭐ SSOT: 티커 정제 규칙은 여기서만
//
// Symbols are trimmed and uppercased; duplicates keep their first position.
// Anything with '.' or '-' (warrants, preferreds, class shares) or any
// non-alphabetic rune is rejected.
func CleanSymbols(raw []string) ([]string, map[string]string) {
	clean := make([]string, 0, len(raw))
	rejected := make(map[string]string)
	seen := make(map[string]struct{}, len(raw))

	for _, r := range raw {
		sym := strings.ToUpper(strings.TrimSpace(r))
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}

		if reason := checkSymbol(sym); reason != "" {
			rejected[r] = reason
			continue
		}
		clean = append(clean, sym)
	}

	return clean, rejected
}

// checkSymbol returns the rejection reason, or "" when the symbol is clean
func checkSymbol(sym string) string {
	if sym == "" {
		return RejectEmpty
	}
	if strings.ContainsAny(sym, ".-") {
		return RejectShareClass
	}
	for _, c := range sym {
		if c > unicode.MaxASCII || !unicode.IsLetter(c) {
			return RejectNonAlphabet
		}
	}
	return ""
}
