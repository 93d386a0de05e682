package tui

import (
	"math"
	"regexp"
	"unicode"
)

// counter measures task content with weighted character counts. Links and
// hashtags count as fixed units; other characters weigh by script so the
// limit tightens for text dominated by Japanese.
type counter struct {
	latinLimit int
	cjkLimit   int
}

const (
	urlWeight         = 23
	japaneseThreshold = 0.3
	defaultLatinLimit = 280
	defaultCJKLimit   = 140
)

var (
	urlPattern     = regexp.MustCompile(`https?://\S+`)
	hashtagPattern = regexp.MustCompile(`#[\w\p{Hiragana}\p{Katakana}\p{Han}ー]+`)
)

func newCounter(latinLimit, cjkLimit int) counter {
	if latinLimit <= 0 {
		latinLimit = defaultLatinLimit
	}
	if cjkLimit <= 0 {
		cjkLimit = defaultCJKLimit
	}
	return counter{latinLimit: latinLimit, cjkLimit: cjkLimit}
}

// Count returns the weighted length of text: each URL counts 23, each
// hashtag 1, each newline 1, other non-ASCII runes 1, ASCII runes 0.5,
// rounded to the nearest integer.
func (c counter) Count(text string) int {
	weight := float64(urlWeight * len(urlPattern.FindAllString(text, -1)))
	text = urlPattern.ReplaceAllString(text, "")
	weight += float64(len(hashtagPattern.FindAllString(text, -1)))
	text = hashtagPattern.ReplaceAllString(text, "")

	for _, r := range text {
		switch {
		case r == '\n':
			weight++
		case r > unicode.MaxASCII:
			weight++
		default:
			weight += 0.5
		}
	}
	return int(math.Round(weight))
}

// Limit returns the applicable limit for text: the tighter CJK limit when
// more than 30% of its runes are Japanese, the latin limit otherwise.
func (c counter) Limit(text string) int {
	total := 0
	japanese := 0
	for _, r := range text {
		total++
		if isJapanese(r) {
			japanese++
		}
	}
	if float64(japanese) > float64(total)*japaneseThreshold {
		return c.cjkLimit
	}
	return c.latinLimit
}

// isJapanese matches the kana and kanji scripts plus the prolonged sound mark,
// which Unicode files under Common rather than Katakana.
func isJapanese(r rune) bool {
	return r == 'ー' || unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han)
}

// Over reports whether text exceeds its applicable limit.
func (c counter) Over(text string) bool {
	return c.Count(text) > c.Limit(text)
}
