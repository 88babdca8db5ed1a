package detection

import (
	"fmt"
	"math"
)

// indicatorRule maps a feature threshold to a fixed catalog sentence.
// Above rules fire when the feature value is >= the threshold, the others
// when it is <= the threshold.
type indicatorRule struct {
	Feature   string
	Threshold float64
	Above     bool
	Text      string
}

// Indicator catalogs per label. Rules are evaluated in order so indicator
// sequences are deterministic.
var aiIndicators = []indicatorRule{
	{FeatureProsodic, 0.80, true, "Unnatural pitch consistency detected"},
	{FeatureSpectral, 0.55, true, "Spectral anomalies in high-frequency range"},
	{FeatureArtifact, 0.85, true, "Irregular breathing pattern intervals"},
	{FeatureArtifact, 0.55, true, "Phase coherence artifacts present"},
	{FeatureProsodic, 0.55, true, "Prosody smoothness exceeds human baseline"},
}

var humanIndicators = []indicatorRule{
	{FeatureProsodic, 0.20, false, "Natural voice tremor patterns detected"},
	{FeatureArtifact, 0.15, false, "Organic breathing sounds present"},
	{FeatureProsodic, 0.45, false, "Micro-variations in pitch consistent with human speech"},
	{FeatureArtifact, 0.45, false, "Formant transitions show natural articulatory movement"},
	{FeatureSpectral, 0.45, false, "Background noise characteristics indicate real recording"},
}

// Explainer renders the rationale for a classification.
type Explainer struct{}

// NewExplainer builds an explainer over the fixed indicator catalog.
func NewExplainer() *Explainer {
	return &Explainer{}
}

// Explain produces the Explanation for a classified FeatureSet. It never
// fails for valid inputs; when no catalog rule fires the indicator list is
// empty, not nil.
func (e *Explainer) Explain(fs FeatureSet, lang Language, cls Classification) Explanation {
	catalog := humanIndicators
	if cls.Label == LabelAIGenerated {
		catalog = aiIndicators
	}

	indicators := make([]string, 0, len(catalog))
	for _, rule := range catalog {
		v := fs.value(rule.Feature)
		if rule.Above && v >= rule.Threshold {
			indicators = append(indicators, rule.Text)
		}
		if !rule.Above && v <= rule.Threshold {
			indicators = append(indicators, rule.Text)
		}
	}

	factors := make(map[string]float64, len(FeatureNames))
	for _, name := range FeatureNames {
		factors[name] = math.Round(fs.value(name)*1000) / 1000
	}

	return Explanation{
		PrimaryIndicators:        indicators,
		LanguageSpecificAnalysis: fmt.Sprintf("%s phonetic patterns analyzed", lang.Title()),
		ConfidenceFactors:        factors,
	}
}
