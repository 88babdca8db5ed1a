package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"voiceguard-server-go/internal/platform/config"
	"voiceguard-server-go/internal/platform/errors"
	"voiceguard-server-go/internal/platform/logging"
)

// Fetcher downloads remote audio payloads for the audio_url request variant.
// Downloads are size-capped and bounded by the configured timeout.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
	logger   *logging.Logger
}

// NewFetcher builds a fetcher honoring the detection payload cap.
func NewFetcher(cfg *config.DetectionConfig, logger *logging.Logger) *Fetcher {
	timeout := 15 * time.Second
	maxBytes := int64(10 * 1024 * 1024)
	if cfg != nil {
		if cfg.FetchTimeout > 0 {
			timeout = cfg.FetchTimeout
		}
		if cfg.MaxPayloadBytes > 0 {
			maxBytes = cfg.MaxPayloadBytes
		}
	}
	if logger == nil {
		logger = logging.DefaultLogger
	}
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Fetch downloads the audio file at rawURL. A failed or oversized download
// is the caller's fault and reported as a decode/payload error, matching the
// inline base64 path.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.New(errors.KindDecode, "fetch_audio",
			"audio_url must be a valid http(s) URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.KindDecode, "fetch_audio", "create request", err)
	}
	req.Header.Set("User-Agent", "VoiceGuard/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.WarnTag("FETCH", "download failed: url=%s err=%v", rawURL, err)
		return nil, errors.Wrap(errors.KindDecode, "fetch_audio", "failed to download audio", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.KindDecode, "fetch_audio",
			fmt.Sprintf("failed to download audio: unexpected status %s", resp.Status))
	}

	if resp.ContentLength > 0 && resp.ContentLength > f.maxBytes {
		return nil, errors.New(errors.KindPayload, "fetch_audio",
			fmt.Sprintf("remote audio exceeds maximum size of %d bytes", f.maxBytes))
	}

	limited := &io.LimitedReader{R: resp.Body, N: f.maxBytes + 1}
	raw, err := io.ReadAll(limited)
	if err != nil {
		return nil, errors.Wrap(errors.KindDecode, "fetch_audio", "read audio body", err)
	}
	if limited.N <= 0 {
		return nil, errors.New(errors.KindPayload, "fetch_audio",
			fmt.Sprintf("remote audio exceeds maximum size of %d bytes", f.maxBytes))
	}

	f.logger.DebugTag("FETCH", "downloaded audio: url=%s bytes=%d", rawURL, len(raw))
	return raw, nil
}
