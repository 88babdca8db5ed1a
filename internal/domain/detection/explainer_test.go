package detection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"voiceguard-server-go/internal/domain/detection"
)

func TestExplainer_AIIndicators(t *testing.T) {
	explainer := detection.NewExplainer()

	fs := detection.FeatureSet{Spectral: 0.9, Prosodic: 0.85, Artifact: 0.9}
	cls := detection.Classification{Label: detection.LabelAIGenerated, Confidence: 0.9}

	exp := explainer.Explain(fs, detection.LanguageEnglish, cls)

	assert.Contains(t, exp.PrimaryIndicators, "Unnatural pitch consistency detected")
	assert.Contains(t, exp.PrimaryIndicators, "Spectral anomalies in high-frequency range")
	assert.Contains(t, exp.PrimaryIndicators, "Irregular breathing pattern intervals")
	assert.Equal(t, "English phonetic patterns analyzed", exp.LanguageSpecificAnalysis)
}

func TestExplainer_HumanIndicators(t *testing.T) {
	explainer := detection.NewExplainer()

	fs := detection.FeatureSet{Spectral: 0.1, Prosodic: 0.1, Artifact: 0.1}
	cls := detection.Classification{Label: detection.LabelHumanSpeech, Confidence: 0.9}

	exp := explainer.Explain(fs, detection.LanguageTamil, cls)

	assert.Contains(t, exp.PrimaryIndicators, "Natural voice tremor patterns detected")
	assert.Contains(t, exp.PrimaryIndicators, "Organic breathing sounds present")
	assert.Equal(t, "Tamil phonetic patterns analyzed", exp.LanguageSpecificAnalysis)
}

func TestExplainer_NoIndicatorsIsEmptyNotNil(t *testing.T) {
	explainer := detection.NewExplainer()

	// Mid-range features fire no rule in the human catalog.
	fs := detection.FeatureSet{Spectral: 0.48, Prosodic: 0.48, Artifact: 0.48}
	cls := detection.Classification{Label: detection.LabelHumanSpeech, Confidence: 0.52}

	exp := explainer.Explain(fs, detection.LanguageHindi, cls)

	assert.NotNil(t, exp.PrimaryIndicators)
	assert.Empty(t, exp.PrimaryIndicators)
}

func TestExplainer_ConfidenceFactorKeys(t *testing.T) {
	explainer := detection.NewExplainer()

	fs := detection.FeatureSet{Spectral: 0.123456, Prosodic: 0.5, Artifact: 0.9}
	cls := detection.Classification{Label: detection.LabelAIGenerated, Confidence: 0.7}

	exp := explainer.Explain(fs, detection.LanguageTelugu, cls)

	assert.Len(t, exp.ConfidenceFactors, len(detection.FeatureNames))
	for _, name := range detection.FeatureNames {
		assert.Contains(t, exp.ConfidenceFactors, name)
	}

	// Factors are rounded to 3 decimals.
	assert.Equal(t, 0.123, exp.ConfidenceFactors[detection.FeatureSpectral])
}

func TestExplainer_Deterministic(t *testing.T) {
	explainer := detection.NewExplainer()

	fs := detection.FeatureSet{Spectral: 0.7, Prosodic: 0.82, Artifact: 0.6}
	cls := detection.Classification{Label: detection.LabelAIGenerated, Confidence: 0.71}

	first := explainer.Explain(fs, detection.LanguageMalayalam, cls)
	second := explainer.Explain(fs, detection.LanguageMalayalam, cls)

	assert.Equal(t, first, second)
}
