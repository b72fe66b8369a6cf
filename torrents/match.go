package torrents

import (
	"strconv"
	"strings"
	"unicode"
)

// scoreTitle returns the share of title tokens present in name. The second
// result is false when name carries a release year other than year, or has no
// comparable tokens at all.
func scoreTitle(titleTokens []string, name string, year int) (float64, bool) {
	tokens := tokenizeTitle(name)
	if len(tokens) == 0 {
		return 0, false
	}

	score := computeTokenMatch(titleTokens, tokens)
	if year > 0 {
		for _, yr := range extractYearTokens(tokens) {
			// A title token like "1917" is part of the name, not a release year.
			if yr != year && !containsToken(titleTokens, strconv.Itoa(yr)) {
				return score, false
			}
		}
	}

	return score, true
}

// tokenizeTitle splits a title or torrent name into normalized tokens for comparison.
func tokenizeTitle(input string) []string {
	clean := normalizeTitle(input)
	if clean == "" {
		return nil
	}
	return strings.Fields(clean)
}

// normalizeTitle lowercases input and keeps only letters and digits, separated by single spaces.
func normalizeTitle(input string) string {
	var b strings.Builder
	lastSpace := true

	for _, r := range strings.ToLower(input) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}

	return strings.TrimSpace(b.String())
}

func extractYearTokens(tokens []string) []int {
	var years []int
	for _, token := range tokens {
		if len(token) != 4 {
			continue
		}
		year, err := strconv.Atoi(token)
		if err != nil {
			continue
		}
		if year >= 1900 && year <= 2100 {
			years = append(years, year)
		}
	}
	return years
}

// computeTokenMatch returns the proportion of desired tokens found in candidate.
func computeTokenMatch(desired, candidate []string) float64 {
	if len(desired) == 0 || len(candidate) == 0 {
		return 0
	}

	candidateSet := make(map[string]struct{}, len(candidate))
	for _, token := range candidate {
		candidateSet[token] = struct{}{}
	}

	var matches int
	for _, token := range desired {
		if _, ok := candidateSet[token]; ok {
			matches++
		}
	}

	return float64(matches) / float64(len(desired))
}

func containsToken(tokens []string, token string) bool {
	for _, t := range tokens {
		if t == token {
			return true
		}
	}
	return false
}
