package scam

import (
	"regexp"
	"strings"

	"github.com/forPelevin/gomoji"
	"golang.org/x/text/unicode/norm"
)

// nonWordRe matches everything except word characters and apostrophes
var nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}\p{M}_']+`)

// normalizeWord folds compatibility forms (full-width and styled letters), drops emoji,
// lowercases and keeps only word characters and apostrophes.
func normalizeWord(s string) string {
	s = norm.NFKC.String(s)
	s = gomoji.RemoveEmojis(s)
	return nonWordRe.ReplaceAllString(strings.ToLower(s), "")
}

// ParsePhrase splits a phrase definition into needle tokens.
// Tokens keep their leading "!" markers, the rest of the token is normalized.
func ParsePhrase(phrase string) []string {
	fields := strings.Fields(phrase)
	res := make([]string, 0, len(fields))
	for _, f := range fields {
		bangs := len(f) - len(strings.TrimLeft(f, "!"))
		w := normalizeWord(f[bangs:])
		if w == "" {
			continue
		}
		res = append(res, strings.Repeat("!", bangs)+w)
	}
	return res
}
