package recommend

import "github.com/emotune/emotune/internal/domain"

const (
	// DefaultTerm is the only term searched for an unrecognized emotion
	DefaultTerm = "pop"
	// MaxTracks is both the early-exit threshold and the result size
	MaxTracks = 10
	// SearchLimit caps each catalog search
	SearchLimit = 30
	// EmbedURLPrefix builds the embeddable player URL for a track id
	EmbedURLPrefix = "https://open.spotify.com/embed/track/"
)

// Search terms per emotion, tried in order.
var searchTerms = map[domain.Emotion][]string{
	domain.EmotionHappy:    {"happy", "joyful", "party", "feel good"},
	domain.EmotionSad:      {"sad", "melancholy", "emotional", "slow"},
	domain.EmotionAngry:    {"rock", "aggressive", "power", "metal"},
	domain.EmotionNeutral:  {"chill", "lofi", "calm", "relax"},
	domain.EmotionSurprise: {"upbeat", "electronic", "excited", "fun"},
	domain.EmotionFear:     {"ambient", "dark", "cinematic"},
	domain.EmotionDisgust:  {"metal", "hard rock"},
}

// Free-text filter appended to every query for a language. English is a no-op.
var languageClauses = map[domain.Language]string{
	domain.LanguageEnglish:   "",
	domain.LanguageHindi:     "Bollywood OR Hindi OR Indian pop",
	domain.LanguageTelugu:    "Telugu OR Tollywood",
	domain.LanguageTamil:     "Tamil OR Kollywood",
	domain.LanguageKannada:   "Kannada OR Sandalwood",
	domain.LanguageMalayalam: "Malayalam",
	domain.LanguagePunjabi:   "Punjabi OR Bhangra",
	domain.LanguageGujarati:  "Gujarati",
	domain.LanguageBengali:   "Bengali OR Bangla",
}

// TermsFor returns a copy of the search terms for a raw emotion string.
// Matching is case-insensitive; unknown emotions get DefaultTerm.
func TermsFor(emotion string) []string {
	e, ok := domain.ParseEmotion(emotion)
	if !ok {
		return []string{DefaultTerm}
	}
	return append([]string(nil), searchTerms[e]...)
}

// ClauseFor returns the language clause. Names match exactly; unknown names
// get the empty clause.
func ClauseFor(language string) string {
	l, ok := domain.ParseLanguage(language)
	if !ok {
		return ""
	}
	return languageClauses[l]
}
