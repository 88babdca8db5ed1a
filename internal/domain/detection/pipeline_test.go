package detection_test

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voiceguard-server-go/internal/domain/detection"
	"voiceguard-server-go/internal/platform/errors"
)

func newTestEngine(t *testing.T) *detection.Engine {
	t.Helper()
	engine, err := detection.NewEngine(testDetectionConfig(), nil)
	require.NoError(t, err)
	return engine
}

func TestEngine_Detect_Deterministic(t *testing.T) {
	engine := newTestEngine(t)
	encoded := base64.StdEncoding.EncodeToString(sampleMP3(100))

	first, err := engine.Detect(context.Background(), encoded, detection.LanguageEnglish)
	require.NoError(t, err)
	second, err := engine.Detect(context.Background(), encoded, detection.LanguageEnglish)
	require.NoError(t, err)

	assert.Equal(t, first.Classification, second.Classification)
	assert.Equal(t, first.Confidence, second.Confidence)
	assert.Equal(t, first.Explanation, second.Explanation)
	assert.Equal(t, first.AudioDurationSeconds, second.AudioDurationSeconds)
	assert.Equal(t, first.FingerprintHex, second.FingerprintHex)
}

func TestEngine_Detect_ResultShape(t *testing.T) {
	engine := newTestEngine(t)
	encoded := base64.StdEncoding.EncodeToString(sampleMP3(100))

	result, err := engine.Detect(context.Background(), encoded, detection.LanguageEnglish)
	require.NoError(t, err)

	assert.Contains(t, []detection.Label{
		detection.LabelAIGenerated,
		detection.LabelHumanSpeech,
	}, result.Classification)
	assert.GreaterOrEqual(t, result.Confidence, 0.0)
	assert.LessOrEqual(t, result.Confidence, 1.0)
	assert.Equal(t, detection.LanguageEnglish, result.Language)
	assert.Greater(t, result.AudioDurationSeconds, 0.0)
	assert.GreaterOrEqual(t, result.ProcessingTimeMs, 0.0)

	for _, name := range detection.FeatureNames {
		assert.Contains(t, result.Explanation.ConfidenceFactors, name)
	}
	assert.Len(t, result.Explanation.ConfidenceFactors, len(detection.FeatureNames))
	assert.NotNil(t, result.Explanation.PrimaryIndicators)
	assert.Equal(t, "English phonetic patterns analyzed", result.Explanation.LanguageSpecificAnalysis)
}

func TestEngine_Detect_LabelConsistentAcrossLanguages(t *testing.T) {
	engine := newTestEngine(t)
	encoded := base64.StdEncoding.EncodeToString(sampleMP3(100))

	for _, lang := range detection.SupportedLanguages {
		result, err := engine.Detect(context.Background(), encoded, lang)
		require.NoError(t, err)

		// Each request's label must be consistent with its own feature set.
		fp := detection.ComputeFingerprint(sampleMP3(100))
		fs := detection.SimulateFeatures(fp, lang)
		expected := detection.NewClassifier(0.5).Classify(fs)
		assert.Equal(t, expected.Label, result.Classification, "language %s", lang)
		assert.Equal(t, expected.Confidence, result.Confidence, "language %s", lang)
	}
}

func TestEngine_DetectBytes_MatchesDetect(t *testing.T) {
	engine := newTestEngine(t)
	raw := sampleMP3(42)

	fromBytes, err := engine.DetectBytes(context.Background(), raw, detection.LanguageHindi)
	require.NoError(t, err)
	fromBase64, err := engine.Detect(context.Background(),
		base64.StdEncoding.EncodeToString(raw), detection.LanguageHindi)
	require.NoError(t, err)

	assert.Equal(t, fromBytes.Classification, fromBase64.Classification)
	assert.Equal(t, fromBytes.Confidence, fromBase64.Confidence)
	assert.Equal(t, fromBytes.FingerprintHex, fromBase64.FingerprintHex)
}

func TestEngine_Detect_Rejections(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name    string
		encoded string
		kind    errors.Kind
	}{
		{
			name:    "invalid base64",
			encoded: "@@@ not base64 @@@",
			kind:    errors.KindDecode,
		},
		{
			name:    "no audio signature",
			encoded: base64.StdEncoding.EncodeToString([]byte("hello world")),
			kind:    errors.KindFormat,
		},
		{
			name:    "empty payload",
			encoded: "",
			kind:    errors.KindDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Detect(context.Background(), tt.encoded, detection.LanguageEnglish)
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, tt.kind),
				"expected kind %s, got %v", tt.kind, err)
		})
	}
}

func TestEngine_Detect_ProcessingTimeout(t *testing.T) {
	cfg := testDetectionConfig()
	cfg.Timeout = time.Nanosecond
	engine, err := detection.NewEngine(cfg, nil)
	require.NoError(t, err)

	encoded := base64.StdEncoding.EncodeToString(sampleMP3(100))
	_, err = engine.Detect(context.Background(), encoded, detection.LanguageEnglish)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindTimeout))
}
