package detection

import "math"

// Feature weights for the aggregate score. They sum to 1 so the aggregate
// stays in [0,1].
const (
	weightSpectral = 0.40
	weightProsodic = 0.35
	weightArtifact = 0.25
)

// Classifier applies the fixed decision rule to a FeatureSet.
type Classifier struct {
	threshold float64
}

// NewClassifier builds a classifier with the given decision threshold in
// (0,1). Out-of-range values fall back to 0.5.
func NewClassifier(threshold float64) *Classifier {
	if threshold <= 0 || threshold >= 1 {
		threshold = 0.5
	}
	return &Classifier{threshold: threshold}
}

// Aggregate computes the weighted mean of the features.
func (c *Classifier) Aggregate(fs FeatureSet) float64 {
	return weightSpectral*fs.Spectral +
		weightProsodic*fs.Prosodic +
		weightArtifact*fs.Artifact
}

// Classify maps the FeatureSet to a label and confidence. An aggregate at or
// above the threshold classifies AI_GENERATED. Confidence is the distance
// from the threshold rescaled to [0.5, 1] for the winning label, so a larger
// margin always means higher confidence, and an aggregate exactly at the
// threshold reports 0.5. Rounded to 4 decimals for reproducible output.
func (c *Classifier) Classify(fs FeatureSet) Classification {
	aggregate := c.Aggregate(fs)

	var label Label
	var confidence float64
	if aggregate >= c.threshold {
		label = LabelAIGenerated
		confidence = 0.5 + 0.5*(aggregate-c.threshold)/(1-c.threshold)
	} else {
		label = LabelHumanSpeech
		confidence = 0.5 + 0.5*(c.threshold-aggregate)/c.threshold
	}

	confidence = math.Round(confidence*10000) / 10000
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return Classification{
		Label:      label,
		Confidence: confidence,
	}
}
