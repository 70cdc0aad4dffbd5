package model

import (
	"strings"
	"unicode"
)

// Fallback values returned when a classification response cannot be
// normalized to a vocabulary entry.
const (
	EmotionFallback  = "Neutral"
	LanguageFallback = "Unknown"
)

// Emotions is the canonical emotion vocabulary, in prompt order.
var Emotions = []string{
	"Joy",
	"Sadness",
	"Anger",
	"Fear",
	"Surprise",
	"Disgust",
	"Trust",
	"Anticipation",
	"Love",
	"Hope",
	"Pride",
	"Shame",
	"Guilt",
	"Envy",
	"Jealousy",
	"Gratitude",
	"Awe",
	"Contempt",
	"Boredom",
	"Calm",
	"Excitement",
	"Nostalgia",
	"Relief",
}

// Languages is the canonical language vocabulary, in prompt order.
var Languages = []string{
	"English",
	"Spanish",
	"French",
	"German",
	"Italian",
	"Portuguese",
	"Dutch",
	"Russian",
	"Polish",
	"Turkish",
	"Greek",
	"Arabic",
	"Hebrew",
	"Hindi",
	"Bengali",
	"Chinese (Simplified)",
	"Chinese (Traditional)",
	"Japanese",
	"Korean",
	"Vietnamese",
	"Thai",
	"Indonesian",
	"Swedish",
}

var (
	emotionLookup  map[string]string
	languageLookup map[string]string
)

func init() {
	emotionLookup = buildLookup(Emotions)
	languageLookup = buildLookup(Languages)
}

func buildLookup(names []string) map[string]string {
	m := make(map[string]string, len(names))
	for _, name := range names {
		m[strings.ToLower(name)] = name
	}
	return m
}

// MatchEmotion normalizes a free-text model reply to a canonical emotion.
// Exact lowercase match first, then a scan over letter runs; anything else
// resolves to EmotionFallback.
func MatchEmotion(reply string) string {
	return match(reply, emotionLookup, EmotionFallback, false)
}

// MatchLanguage normalizes a free-text model reply to a canonical language.
// The token scan keeps parentheses so parenthesized entries stay matchable.
func MatchLanguage(reply string) string {
	return match(reply, languageLookup, LanguageFallback, true)
}

func match(reply string, lookup map[string]string, fallback string, keepParens bool) string {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return fallback
	}

	lowered := strings.ToLower(reply)
	if canonical, ok := lookup[lowered]; ok {
		return canonical
	}

	tokens := strings.FieldsFunc(lowered, func(r rune) bool {
		if unicode.IsLetter(r) {
			return false
		}
		if keepParens && (r == '(' || r == ')') {
			return false
		}
		return true
	})
	for _, tok := range tokens {
		if canonical, ok := lookup[tok]; ok {
			return canonical
		}
	}

	return fallback
}
