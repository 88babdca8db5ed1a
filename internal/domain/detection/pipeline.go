package detection

import (
	"context"
	"math"
	"time"

	"voiceguard-server-go/internal/platform/config"
	"voiceguard-server-go/internal/platform/errors"
	"voiceguard-server-go/internal/platform/logging"
)

// Engine runs the detection pipeline:
// decode -> fingerprint -> simulate features -> classify -> explain.
// Every stage is a pure function of its inputs; the engine holds only
// read-only configuration and is safe for concurrent use.
type Engine struct {
	cfg        *config.DetectionConfig
	decoder    *Decoder
	classifier *Classifier
	explainer  *Explainer
	logger     *logging.Logger
}

// NewEngine builds the pipeline from static configuration.
func NewEngine(cfg *config.DetectionConfig, logger *logging.Logger) (*Engine, error) {
	if cfg == nil {
		return nil, errors.New(errors.KindConfig, "detection.new", "detection config is required")
	}
	if logger == nil {
		logger = logging.DefaultLogger
	}

	return &Engine{
		cfg:        cfg,
		decoder:    NewDecoder(cfg, logger),
		classifier: NewClassifier(cfg.Threshold),
		explainer:  NewExplainer(),
		logger:     logger,
	}, nil
}

// Detect decodes a base64 payload and classifies it.
func (e *Engine) Detect(ctx context.Context, audioBase64 string, lang Language) (*Result, error) {
	ctx, cancel := e.withBudget(ctx)
	defer cancel()

	start := time.Now()

	payload, err := e.decoder.Decode(audioBase64)
	if err != nil {
		return nil, err
	}

	return e.run(ctx, start, payload, lang)
}

// DetectBytes classifies raw audio bytes that were obtained outside the
// base64 surface (e.g. downloaded from a URL).
func (e *Engine) DetectBytes(ctx context.Context, raw []byte, lang Language) (*Result, error) {
	ctx, cancel := e.withBudget(ctx)
	defer cancel()

	start := time.Now()

	payload, err := e.decoder.Validate(raw)
	if err != nil {
		return nil, err
	}

	return e.run(ctx, start, payload, lang)
}

func (e *Engine) withBudget(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	budget := e.cfg.Timeout
	if budget <= 0 {
		budget = 5 * time.Second
	}
	return context.WithTimeout(ctx, budget)
}

// run executes the remaining stages over a validated payload. The pipeline
// is CPU-bound with no suspension points, so the wall-clock budget is
// enforced by checking the deadline between stages.
func (e *Engine) run(ctx context.Context, start time.Time, payload *AudioPayload, lang Language) (*Result, error) {
	fingerprint := ComputeFingerprint(payload.Bytes)

	if err := e.checkBudget(ctx, "fingerprint"); err != nil {
		return nil, err
	}

	features := SimulateFeatures(fingerprint, lang)

	if err := e.checkBudget(ctx, "simulate_features"); err != nil {
		return nil, err
	}

	classification := e.classifier.Classify(features)
	explanation := e.explainer.Explain(features, lang, classification)

	if err := e.checkBudget(ctx, "classify"); err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	e.logger.DebugTag("DETECT", "pipeline done: label=%s confidence=%.4f language=%s size=%d elapsed=%s",
		classification.Label, classification.Confidence, lang, payload.Size, elapsed)

	return &Result{
		Classification:       classification.Label,
		Confidence:           classification.Confidence,
		Language:             lang,
		ProcessingTimeMs:     round2(float64(elapsed.Microseconds()) / 1000),
		AudioDurationSeconds: round2(payload.DurationSeconds),
		Explanation:          explanation,
		FingerprintHex:       fingerprint.Hex(),
		PayloadBytes:         payload.Size,
	}, nil
}

func (e *Engine) checkBudget(ctx context.Context, stage string) error {
	select {
	case <-ctx.Done():
		e.logger.WarnTag("DETECT", "processing budget exceeded after stage %s", stage)
		return errors.New(errors.KindTimeout, "detect."+stage, "processing budget exceeded")
	default:
		return nil
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
