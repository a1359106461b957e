package analysis

import (
	"os"
	"strings"
)

// DefaultFactCheckKeywords is the built-in term list the trigger fallback
// scans for when the zero-shot model is unreachable. Terms match as
// case-insensitive substrings of the tweet text.
var DefaultFactCheckKeywords = []string{
	"vaccine", "covid", "coronavirus", "pandemic", "government", "conspiracy",
	"fake", "hoax", "secret", "hidden", "truth", "lie", "fraud", "scam",
	"election", "voting", "rigged", "stolen", "climate change", "global warming",
	"cure", "medicine", "drug", "treatment", "scientist", "research", "study",
	"flat earth", "nasa", "space", "moon landing", "5g", "microchip", "tracking",
}

// FactCheckKeywords returns the active fallback term list, honoring the
// FACT_CHECK_FALLBACK_KEYWORDS override when set.
func FactCheckKeywords() []string {
	raw := os.Getenv("FACT_CHECK_FALLBACK_KEYWORDS")
	if raw == "" {
		return DefaultFactCheckKeywords
	}

	var keywords []string
	for _, term := range strings.Split(raw, ",") {
		term = strings.TrimSpace(term)
		if term != "" {
			keywords = append(keywords, strings.ToLower(term))
		}
	}
	if len(keywords) == 0 {
		return DefaultFactCheckKeywords
	}
	return keywords
}
