package scam

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

const (
	// MinConfidence is the recognition confidence floor, less confident words are ignored by the matcher
	MinConfidence = 70

	maxStarts    = 5 // number of leading needle tokens tried as an anchor
	maxLookAhead = 5 // skip-ahead window for needle and haystack recovery
	maxSimilar   = 2 // maximum edit distance of similar words
)

// needleToken is a phrase token with its weight in the maximum possible distance
type needleToken struct {
	text   string
	weight int
}

// parseNeedle strips leading "!" markers, each marker adds one more token length to the weight
func parseNeedle(tokens []string) []needleToken {
	res := make([]needleToken, len(tokens))
	for i, t := range tokens {
		stripped := strings.TrimLeft(t, "!")
		bangs := len(t) - len(stripped)
		res[i] = needleToken{text: stripped, weight: utf8.RuneCountInString(stripped) * (bangs + 1)}
	}
	return res
}

func distance(a, b string) int { return levenshtein.ComputeDistance(a, b) }

// similar checks if two words are close enough to be the same word misread or misspelled.
func similar(a, b string, d int) bool {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return false
	}
	return d <= maxSimilar && float64(d)/float64(longest) < 0.5
}

func weights(tokens []needleToken) (res int) {
	for _, t := range tokens {
		res += t.weight
	}
	return res
}

func lengths(words []*Word) (res int) {
	for _, w := range words {
		res += utf8.RuneCountInString(w.Text)
	}
	return res
}

// walk aligns needle against words starting at words[start] and needle[testStart].
// It records seen distances on the current trial frame and returns the score and
// the indexes of words matched along the way.
func walk(words []*Word, needle []needleToken, start, testStart int) (score float64, touched []int) {
	overall := weights(needle[:testStart])
	maximum := overall

	cur, tcur := start, testStart
	for cur < len(words) && tcur < len(needle) {
		word := words[cur].Text
		test := needle[tcur]
		d := distance(word, test.text)
		if similar(word, test.text, d) {
			words[cur].setDistance(d)
			touched = append(touched, cur)
			overall += d
			maximum += max(utf8.RuneCountInString(word), test.weight)
			cur++
			tcur++
			continue
		}

		// two needle tokens squashed together into one word
		if tcur+1 < len(needle) {
			next := needle[tcur+1]
			squashed := test.text + next.text
			if sd := distance(word, squashed); similar(word, squashed, sd) {
				overall += sd + 1
				maximum += max(utf8.RuneCountInString(word), test.weight+next.weight)
				words[cur].setDistance(sd + 1)
				touched = append(touched, cur)
				tcur += 2
				cur++
				continue
			}
		}

		// the word may be found later in the needle (needle token missing from haystack)
		bestTest, bestTestIdx := 1000, -1
		for i := tcur + 1; i < min(tcur+1+maxLookAhead, len(needle)); i++ {
			if td := distance(word, needle[i].text); similar(word, needle[i].text, td) && td < bestTest {
				bestTest, bestTestIdx = td, i
			}
		}

		// the needle token may be found later in the haystack (extra words in haystack)
		bestGroup, bestGroupIdx := 1001, -1
		for i := cur + 1; i < min(cur+1+maxLookAhead, len(words)); i++ {
			if gd := distance(words[i].Text, test.text); similar(words[i].Text, test.text, gd) && gd < bestGroup {
				bestGroup, bestGroupIdx = gd, i
			}
		}

		switch {
		case bestTestIdx < 0 && bestGroupIdx < 0:
			// lost the phrase, charge everything left in the needle and stop
			rest := weights(needle[tcur:])
			overall += rest
			maximum += rest
			cur, tcur = len(words), len(needle)
		case bestGroupIdx < 0 || bestTest < bestGroup:
			penalty := max(bestTest, weights(needle[tcur:bestTestIdx]))
			overall += penalty
			maximum += penalty
			tcur = bestTestIdx + 1
			cur++
		default:
			penalty := max(bestGroup, lengths(words[cur:bestGroupIdx]))
			overall += penalty
			maximum += penalty
			cur = bestGroupIdx + 1
			tcur++
		}
	}

	if maximum == 0 {
		return 0, touched
	}
	return 1 - float64(overall)/float64(maximum), touched
}

type anchor struct{ word, test int }

// anchors finds plausible alignment starts: a haystack word similar to one of the leading needle tokens
func anchors(words []*Word, needle []needleToken) []anchor {
	var res []anchor
	n := len(needle)
	for i := 0; i < len(words) && len(words)-i >= n; i++ {
		for j := 0; j < min(n, maxStarts); j++ {
			if float64(n-j-1)/float64(n) < 0.5 {
				break
			}
			if similar(words[i].Text, needle[j].text, distance(words[i].Text, needle[j].text)) {
				res = append(res, anchor{word: i, test: j})
			}
		}
	}
	return res
}

// BestMatch scores needle tokens against the group and returns the best score over all plausible
// alignment starts, 0 if there is no evidence at all. Each start is evaluated in its own trial
// "<name>-leven-<k>" and only the winning trial is committed into the current frame.
// Needle tokens are expected in the form returned by ParsePhrase.
func BestMatch(g *Group, needle []string, name string) float64 {
	if g.Empty() || len(needle) == 0 {
		return 0
	}
	words := g.confident(MinConfidence)
	tokens := parseNeedle(needle)
	starts := anchors(words, tokens)
	if len(starts) == 0 {
		return 0
	}

	prefix := name + "-leven-"
	best, bestIdx := -1.0, 0
	for k, st := range starts {
		g.Push(prefix + strconv.Itoa(k))
		score, _ := walk(words, tokens, st.word, st.test)
		g.Pop()
		if score > best {
			best, bestIdx = score, k
		}
	}

	// replay the winner in its own trial and commit it
	g.Push(prefix + strconv.Itoa(bestIdx))
	_, touched := walk(words, tokens, starts[bestIdx].word, starts[bestIdx].test)
	if float64(len(touched)) > max(2, 0.1*float64(len(tokens))) {
		for _, idx := range touched {
			words[idx].setConsecutive()
		}
	}
	g.KeepOnly(prefix, &bestIdx)
	return max(best, 0)
}

// MatchPhrases scores every phrase against the group, each one in its own trial "<name>-scam-<i>".
// The best phrase is committed only if it reaches the threshold, otherwise all trials are dropped.
// Returns the best score and its phrase index, -1 if nothing matched at all.
func MatchPhrases(g *Group, phrases [][]string, name string, threshold float64) (best float64, idx int) {
	idx = -1
	if g.Empty() || len(phrases) == 0 {
		return 0, idx
	}
	prefix := name + "-scam-"
	for i, needle := range phrases {
		g.Push(prefix + strconv.Itoa(i))
		score := BestMatch(g, needle, name)
		g.Pop()
		if score > best {
			best, idx = score, i
		}
	}
	if idx >= 0 && best >= threshold {
		g.Push(prefix + strconv.Itoa(idx))
		BestMatch(g, phrases[idx], name)
		g.KeepOnly(prefix, &idx)
	}
	return best, idx
}
