// Package wordcloud turns free text into term frequencies.
package wordcloud

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"needsnet.app/api/internal/model"
)

// MinTermLength is the shortest term (in runes) that is counted.
const MinTermLength = 3

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		the and for are but not you all any can had her was one our out has him his how man new now old see two way who its did get may
		she use this that with have from they will would there their what about which when make like time just know take into year
		your good some could them than then look only come over also back after work first well even want because these give most
		very been were being does done here more much such should where while each other those many thank thanks please
		les des une est pour que qui dans par sur pas plus avec tout mais ont sont comme nous vous ils elles aux ses cette leur
		`) {
		stopwords[w] = struct{}{}
	}
}

// Tokenize splits text into lowercase terms, dropping stopwords, numbers and
// terms shorter than MinTermLength.
func Tokenize(text string) []string {
	lower := cases.Lower(language.Und).String(norm.NFC.String(text))

	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})

	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if len([]rune(f)) < MinTermLength || isNumeric(f) {
			continue
		}
		if _, stop := stopwords[f]; stop {
			continue
		}
		terms = append(terms, f)
	}
	return terms
}

// Count returns the frequency of each term in text.
func Count(text string) map[string]int {
	counts := make(map[string]int)
	for _, t := range Tokenize(text) {
		counts[t]++
	}
	return counts
}

// Merge adds the counts of src into dst.
func Merge(dst, src map[string]int) {
	for term, n := range src {
		dst[term] += n
	}
}

// Top returns the limit most frequent terms, ties broken alphabetically.
func Top(terms map[string]int, limit int) []model.TermCount {
	out := make([]model.TermCount, 0, len(terms))
	for term, n := range terms {
		out = append(out, model.TermCount{Term: term, Count: n})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Term < out[j].Term
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}
