package app

import (
	"regexp"
	"strings"

	"techmart/internal/domain"
)

// Natural-language search mapping. Two shallow patterns cover the storefront
// search box: "buy a X" / "looking for X" / "need a X" names the category,
// and a trailing "for ..." clause names the use case.
var (
	itemPattern    = regexp.MustCompile(`(?i)(?:buy a|looking for|need a?)\s+(\w+)`)
	purposePattern = regexp.MustCompile(`(?i)for\s+([\w\s]+)$`)
)

// useCasePhrases maps spoken purposes onto use-case tags. Phrases not in the
// table pass through verbatim; the filter simply matches nothing for them.
var useCasePhrases = map[string]string{
	"teaching online": "teaching-online",
	"online teaching": "teaching-online",
	"presentations":   "presentations",
	"programming":     "programming",
	"coding":          "programming",
	"design":          "graphic-design",
	"video editing":   "video-editing",
	"research":        "research",
	"writing":         "writing",
	"meetings":        "meetings",
	"printing":        "printing",
	"homework":        "homework",
	"notes":           "note-taking",
	"note taking":     "note-taking",
}

func ParseSearchIntent(q string) domain.SearchIntent {
	var intent domain.SearchIntent
	if m := itemPattern.FindStringSubmatch(q); m != nil {
		intent.Category = strings.ToLower(m[1])
	}
	if m := purposePattern.FindStringSubmatch(q); m != nil {
		purpose := strings.ToLower(strings.TrimSpace(m[1]))
		if mapped, ok := useCasePhrases[purpose]; ok {
			intent.UseCase = mapped
		} else {
			intent.UseCase = purpose
		}
	}
	return intent
}
