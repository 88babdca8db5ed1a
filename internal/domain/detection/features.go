package detection

import (
	"encoding/binary"
	"math"
)

// Canonical pseudo-feature names, in presentation order.
const (
	FeatureSpectral = "spectral_analysis"
	FeatureProsodic = "prosodic_features"
	FeatureArtifact = "artifact_detection"
)

// FeatureNames lists the simulated features in the order they are reported.
var FeatureNames = []string{
	FeatureSpectral,
	FeatureProsodic,
	FeatureArtifact,
}

// languageOffsets shift the simulated features per declared language so the
// same audio yields systematically different values across languages.
var languageOffsets = map[Language]float64{
	LanguageTamil:     0.00,
	LanguageEnglish:   0.04,
	LanguageHindi:     0.08,
	LanguageMalayalam: 0.12,
	LanguageTelugu:    0.16,
}

// FeatureSet holds the simulated pseudo-acoustic indicators, each in [0,1).
type FeatureSet struct {
	Spectral float64
	Prosodic float64
	Artifact float64
}

// SimulateFeatures derives the pseudo-features from the fingerprint and the
// declared language. Each feature comes from an independent 8-byte slice of
// the digest, normalized to [0,1), with the language offset folded back into
// the unit interval. Pure and total for any valid Language.
func SimulateFeatures(fp Fingerprint, lang Language) FeatureSet {
	offset := languageOffsets[lang]
	return FeatureSet{
		Spectral: normalizeSlice(fp[0:8], offset),
		Prosodic: normalizeSlice(fp[8:16], offset),
		Artifact: normalizeSlice(fp[16:24], offset),
	}
}

// normalizeSlice maps an 8-byte digest slice to [0,1) and applies the
// language offset modulo 1.
func normalizeSlice(slice []byte, offset float64) float64 {
	v := binary.BigEndian.Uint64(slice)
	base := float64(v) / math.Exp2(64)
	return math.Mod(base+offset, 1.0)
}

// Map renders the features keyed by their canonical names.
func (fs FeatureSet) Map() map[string]float64 {
	return map[string]float64{
		FeatureSpectral: fs.Spectral,
		FeatureProsodic: fs.Prosodic,
		FeatureArtifact: fs.Artifact,
	}
}

// value returns the feature by canonical name.
func (fs FeatureSet) value(name string) float64 {
	switch name {
	case FeatureSpectral:
		return fs.Spectral
	case FeatureProsodic:
		return fs.Prosodic
	case FeatureArtifact:
		return fs.Artifact
	}
	return 0
}
