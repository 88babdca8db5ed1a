package eventbus

// Detection lifecycle topics.
const (
	EventDetectionCompleted = "detection:completed"
	EventDetectionRejected  = "detection:rejected"
)

// DetectionCompletedData describes a finished detection request.
type DetectionCompletedData struct {
	RequestID            string  `json:"request_id"`
	FingerprintHex       string  `json:"fingerprint_hex"`
	Language             string  `json:"language"`
	Classification       string  `json:"classification"`
	Confidence           float64 `json:"confidence"`
	AudioDurationSeconds float64 `json:"audio_duration_seconds"`
	ProcessingTimeMs     float64 `json:"processing_time_ms"`
	PayloadBytes         int64   `json:"payload_bytes"`
	ExplanationJSON      []byte  `json:"-"`
}

// DetectionRejectedData describes a request that failed before producing a
// classification.
type DetectionRejectedData struct {
	RequestID string `json:"request_id"`
	Language  string `json:"language"`
	Reason    string `json:"reason"`
	ErrorKind string `json:"error_kind"`
}
