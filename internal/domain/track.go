package domain

// Language is a recommendation language preference. Only the display names
// below are recognised; anything else means "no language filter".
type Language int

const (
	LanguageEnglish Language = iota
	LanguageHindi
	LanguageTelugu
	LanguageTamil
	LanguageKannada
	LanguageMalayalam
	LanguagePunjabi
	LanguageGujarati
	LanguageBengali
)

// DefaultLanguage is used when the caller does not send one.
const DefaultLanguage = "English"

var languageNames = map[Language]string{
	LanguageEnglish:   "English",
	LanguageHindi:     "Hindi",
	LanguageTelugu:    "Telugu",
	LanguageTamil:     "Tamil",
	LanguageKannada:   "Kannada",
	LanguageMalayalam: "Malayalam",
	LanguagePunjabi:   "Punjabi",
	LanguageGujarati:  "Gujarati",
	LanguageBengali:   "Bengali",
}

func (l Language) String() string {
	if name, ok := languageNames[l]; ok {
		return name
	}
	return "unknown"
}

// ParseLanguage matches the display name exactly.
func ParseLanguage(name string) (Language, bool) {
	for lang, n := range languageNames {
		if n == name {
			return lang, true
		}
	}
	return 0, false
}

// Track is a recommendation entry as returned to clients.
type Track struct {
	Title      string  `json:"title"`
	Artist     string  `json:"artist"`
	AlbumArt   *string `json:"album_art"`
	PreviewURL *string `json:"preview_url"`
	EmbedURL   string  `json:"embed_url"`
}
