package wallpaper

import (
	"regexp"
	"strings"
)

// urlPattern accepts absolute http(s) URLs with a domain name, "localhost"
// or a dotted-quad host, an optional port, and an optional path or query.
var urlPattern = regexp.MustCompile(`(?i)^https?://` +
	`(?:(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,6}\.?|` +
	`localhost|` +
	`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
	`(?::\d+)?` +
	`(?:/?|[/?]\S+)$`)

// excludedKeywords is matched whole-word against the candidate's combined
// description, author and tags. The list is heuristic and deliberately kept
// as-is; see filter_test.go for the behavior it pins down.
var excludedKeywords = []string{
	// People
	"person", "people", "human", "man", "woman", "girl", "boy",
	"face", "portrait", "model", "selfie", "crowd", "group", "children",
	// Body parts
	"hand", "hands", "eye", "eyes", "body", "finger", "fingers",
	// Common animals
	"dog", "cat", "bird", "horse", "cow", "pig", "sheep",
	// Religious content
	"church", "temple", "mosque", "cross", "jesus", "buddha",
	// Text overlays
	"text", "writing", "letter", "letters", "sign", "signage",
	"billboard", "poster", "graffiti",
	// Adult content
	"nude", "naked", "sexy", "bikini", "lingerie",
	// Violence
	"violence", "blood", "weapon", "gun", "knife", "fight",
}

var keywordPatterns = compileKeywordPatterns()

func compileKeywordPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(excludedKeywords))
	for i, kw := range excludedKeywords {
		patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
	}
	return patterns
}

// scriptRanges are non-Latin script ranges treated as a proxy for embedded
// foreign-language text overlays.
var scriptRanges = []struct{ lo, hi rune }{
	{0x3040, 0x309F}, // Hiragana
	{0x30A0, 0x30FF}, // Katakana
	{0x4E00, 0x9FFF}, // CJK Unified Ideographs
	{0x0590, 0x05FF}, // Hebrew
	{0x0600, 0x06FF}, // Arabic
}

// ValidURL reports whether the candidate URL is a well-formed absolute
// http(s) URL.
func (w Wallpaper) ValidURL() bool {
	if w.URL == "" {
		return false
	}
	return urlPattern.MatchString(w.URL)
}

// ContainsExcludedContent checks the candidate's free-text fields against the
// keyword blocklist and the non-Latin script ranges. Matching is whole-word,
// case-insensitive, over the concatenation of description, author and tags.
func (w Wallpaper) ContainsExcludedContent() bool {
	parts := []string{strings.ToLower(w.Description), strings.ToLower(w.Author)}
	for _, tag := range w.Tags {
		parts = append(parts, strings.ToLower(tag))
	}
	all := strings.Join(parts, " ")

	for _, p := range keywordPatterns {
		if p.MatchString(all) {
			return true
		}
	}

	for _, r := range all {
		for _, sr := range scriptRanges {
			if r >= sr.lo && r <= sr.hi {
				return true
			}
		}
	}

	return false
}

// Valid is the full acceptance predicate: technical validity, mobile fit and
// content safety. It is pure and deterministic over the candidate's fields.
func (w Wallpaper) Valid() bool {
	return w.URL != "" &&
		w.Width > 0 &&
		w.Height > 0 &&
		w.ValidURL() &&
		w.MobileFriendly() &&
		!w.ContainsExcludedContent()
}
