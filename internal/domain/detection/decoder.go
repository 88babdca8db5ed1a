package detection

import (
	"bytes"
	"encoding/base64"
	"fmt"

	mp3 "github.com/hajimehoshi/go-mp3"

	"voiceguard-server-go/internal/platform/config"
	"voiceguard-server-go/internal/platform/errors"
	"voiceguard-server-go/internal/platform/logging"
)

// mp3Signatures are the container markers accepted as audio input: a raw
// MPEG-1 Layer III frame sync or an ID3v2 tag header.
var mp3Signatures = [][]byte{
	{0xFF, 0xFB},
	[]byte("ID3"),
}

// Decoder turns base64 payloads into validated audio bytes.
type Decoder struct {
	maxPayloadBytes int64
	logger          *logging.Logger
}

// NewDecoder builds a decoder enforcing the configured payload cap.
func NewDecoder(cfg *config.DetectionConfig, logger *logging.Logger) *Decoder {
	max := int64(10 * 1024 * 1024)
	if cfg != nil && cfg.MaxPayloadBytes > 0 {
		max = cfg.MaxPayloadBytes
	}
	if logger == nil {
		logger = logging.DefaultLogger
	}
	return &Decoder{
		maxPayloadBytes: max,
		logger:          logger,
	}
}

// Decode validates and decodes a base64 string into an AudioPayload.
func (d *Decoder) Decode(encoded string) (*AudioPayload, error) {
	if encoded == "" {
		return nil, errors.New(errors.KindDecode, "decode_audio", "empty audio payload")
	}

	// The decoded size is bounded by 3/4 of the encoded length, so oversized
	// payloads are rejected before any decoding work.
	if estimated := int64(len(encoded)) / 4 * 3; estimated > d.maxPayloadBytes {
		d.logger.WarnTag("DETECT", "rejected oversized payload: encoded_len=%d max_bytes=%d",
			len(encoded), d.maxPayloadBytes)
		return nil, errors.New(errors.KindPayload, "decode_audio",
			fmt.Sprintf("payload exceeds maximum size of %d bytes", d.maxPayloadBytes))
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.Wrap(errors.KindDecode, "decode_audio", "invalid base64 encoding", err)
	}

	return d.Validate(raw)
}

// Validate checks raw audio bytes against the size cap and container
// signature, and derives the estimated duration.
func (d *Decoder) Validate(raw []byte) (*AudioPayload, error) {
	if len(raw) == 0 {
		return nil, errors.New(errors.KindFormat, "validate_audio", "decoded payload is empty")
	}
	if int64(len(raw)) > d.maxPayloadBytes {
		return nil, errors.New(errors.KindPayload, "validate_audio",
			fmt.Sprintf("payload size %d exceeds maximum of %d bytes", len(raw), d.maxPayloadBytes))
	}

	if !hasMP3Signature(raw) {
		header := raw[:min(len(raw), 8)]
		d.logger.WarnTag("DETECT", "unrecognized container signature: header=%x", header)
		return nil, errors.New(errors.KindFormat, "validate_audio",
			"not a recognized MP3 container (expected frame sync or ID3 tag)")
	}

	return &AudioPayload{
		Bytes:           raw,
		Size:            int64(len(raw)),
		DurationSeconds: estimateDuration(raw),
		ValidSignature:  true,
	}, nil
}

func hasMP3Signature(raw []byte) bool {
	for _, sig := range mp3Signatures {
		if bytes.HasPrefix(raw, sig) {
			return true
		}
	}
	return false
}

// estimateDuration prefers the real decoded length when the payload is a
// decodable MP3 stream, falling back to a size-based estimate (~16 KiB per
// second) for payloads that only carry a valid header.
func estimateDuration(raw []byte) float64 {
	if decoder, err := mp3.NewDecoder(bytes.NewReader(raw)); err == nil {
		if rate := decoder.SampleRate(); rate > 0 && decoder.Length() > 0 {
			// go-mp3 emits 16-bit stereo samples, 4 bytes per sample.
			return float64(decoder.Length()) / float64(rate*4)
		}
	}
	return float64(len(raw)) / 1024 / 16
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
