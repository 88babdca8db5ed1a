package detection

import (
	"strings"

	"voiceguard-server-go/internal/platform/errors"
)

// Language enumerates the speech languages the detector accepts.
type Language string

const (
	LanguageTamil     Language = "tamil"
	LanguageEnglish   Language = "english"
	LanguageHindi     Language = "hindi"
	LanguageMalayalam Language = "malayalam"
	LanguageTelugu    Language = "telugu"
)

// SupportedLanguages lists the accepted languages in presentation order.
var SupportedLanguages = []Language{
	LanguageTamil,
	LanguageEnglish,
	LanguageHindi,
	LanguageMalayalam,
	LanguageTelugu,
}

// ParseLanguage normalizes and validates a declared language value.
func ParseLanguage(raw string) (Language, error) {
	lang := Language(strings.ToLower(strings.TrimSpace(raw)))
	for _, supported := range SupportedLanguages {
		if lang == supported {
			return lang, nil
		}
	}
	return "", errors.New(errors.KindLanguage, "parse_language",
		"unsupported language: "+raw)
}

// Title renders the language with a leading capital for presentation.
func (l Language) Title() string {
	s := string(l)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Label tags the binary classification outcome.
type Label string

const (
	LabelAIGenerated Label = "AI_GENERATED"
	LabelHumanSpeech Label = "HUMAN_SPEECH"
)

// AudioPayload is the validated, request-scoped audio content.
type AudioPayload struct {
	Bytes           []byte
	Size            int64
	DurationSeconds float64
	ValidSignature  bool
}

// Classification pairs the label with its confidence value in [0,1].
type Classification struct {
	Label      Label
	Confidence float64
}

// Explanation is the human-readable rationale attached to a classification.
type Explanation struct {
	PrimaryIndicators        []string           `json:"primary_indicators"`
	LanguageSpecificAnalysis string             `json:"language_specific_analysis"`
	ConfidenceFactors        map[string]float64 `json:"confidence_factors"`
}

// Result is the full detection outcome returned to the transport layer.
type Result struct {
	Classification       Label       `json:"classification"`
	Confidence           float64     `json:"confidence"`
	Language             Language    `json:"language"`
	ProcessingTimeMs     float64     `json:"processing_time_ms"`
	AudioDurationSeconds float64     `json:"audio_duration_seconds"`
	Explanation          Explanation `json:"explanation"`

	// FingerprintHex and PayloadBytes identify the analysed content for
	// audit purposes. They are not part of the public response schema.
	FingerprintHex string `json:"-"`
	PayloadBytes   int64  `json:"-"`
}
