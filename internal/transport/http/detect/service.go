package detect

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"voiceguard-server-go/internal/domain/auth"
	"voiceguard-server-go/internal/domain/detection"
	"voiceguard-server-go/internal/domain/eventbus"
	"voiceguard-server-go/internal/domain/fetch"
	"voiceguard-server-go/internal/platform/config"
	"voiceguard-server-go/internal/platform/errors"
	"voiceguard-server-go/internal/platform/logging"
	"voiceguard-server-go/internal/platform/storage"
	httptransport "voiceguard-server-go/internal/transport/http"
)

const (
	serviceName    = "AI Voice Detection API"
	serviceVersion = "1.0.0"
	apiKeyHeader   = "X-API-Key"
)

// Service is the HTTP transport for the detection engine.
type Service struct {
	logger   *logging.Logger
	config   *config.Config
	engine   *detection.Engine
	fetcher  *fetch.Fetcher
	verifier *auth.APIKeyVerifier
	audit    *storage.DetectionRepository
	started  time.Time
}

// NewService wires the detection engine behind the HTTP surface. The audit
// repository is optional; without it the history endpoint reports storage
// as disabled.
func NewService(
	cfg *config.Config,
	logger *logging.Logger,
	engine *detection.Engine,
	audit *storage.DetectionRepository,
) (*Service, error) {
	if cfg == nil {
		return nil, errors.New(errors.KindConfig, "detect.new", "config is required")
	}
	if logger == nil {
		return nil, errors.New(errors.KindConfig, "detect.new", "logger is required")
	}
	if engine == nil {
		return nil, errors.New(errors.KindConfig, "detect.new", "detection engine is required")
	}

	verifier, err := auth.NewAPIKeyVerifier(cfg.Server.APIKey)
	if err != nil {
		return nil, err
	}

	return &Service{
		logger:   logger,
		config:   cfg,
		engine:   engine,
		fetcher:  fetch.NewFetcher(&cfg.Detection, logger),
		verifier: verifier,
		audit:    audit,
		started:  time.Now(),
	}, nil
}

// Register mounts the detection routes.
func (s *Service) Register(ctx context.Context, engine *gin.Engine, api *gin.RouterGroup) error {
	engine.GET("/", s.handleRoot)
	engine.GET("/health", s.handleHealth)
	api.POST("/v1/detect", s.handleDetect)
	api.GET("/v1/detections", s.handleRecentDetections)

	s.logger.InfoTag("HTTP", "detection routes registered")
	return nil
}

// detectRequest is the request schema. Exactly one of AudioBase64 and
// AudioURL must be set.
type detectRequest struct {
	AudioBase64 string `json:"audio_base64"`
	AudioURL    string `json:"audio_url"`
	Language    string `json:"language"`
}

func (s *Service) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": serviceName,
		"version": serviceVersion,
		"status":  "operational",
		"endpoints": gin.H{
			"detect": "/api/v1/detect",
			"health": "/health",
		},
	})
}

func (s *Service) handleHealth(c *gin.Context) {
	languages := make([]string, 0, len(detection.SupportedLanguages))
	for _, lang := range detection.SupportedLanguages {
		languages = append(languages, string(lang))
	}

	payload := gin.H{
		"status":              "healthy",
		"timestamp":           time.Now().UTC().Format(time.RFC3339),
		"supported_languages": languages,
		"uptime_seconds":      int64(time.Since(s.started).Seconds()),
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if memInfo, err := proc.MemoryInfo(); err == nil && memInfo != nil {
			payload["process_rss_bytes"] = memInfo.RSS
		}
	}
	if vm, err := mem.VirtualMemory(); err == nil && vm != nil {
		payload["system_memory_used_percent"] = vm.UsedPercent
	}

	c.JSON(http.StatusOK, payload)
}

func (s *Service) handleDetect(c *gin.Context) {
	requestID := c.GetString(httptransport.RequestIDKey)

	if err := s.verifier.Verify(c.GetHeader(apiKeyHeader)); err != nil {
		s.logger.WarnTag("AUTH", "rejected detect request: request_id=%s err=%v", requestID, err)
		httptransport.RespondError(c, err)
		return
	}

	var req detectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, errors.Wrap(errors.KindTransport,
			"detect.parse_request", "invalid request body", err))
		return
	}

	lang, err := detection.ParseLanguage(req.Language)
	if err != nil {
		s.publishRejected(requestID, req.Language, err)
		httptransport.RespondError(c, err)
		return
	}

	result, err := s.runDetection(c.Request.Context(), req, lang)
	if err != nil {
		s.publishRejected(requestID, req.Language, err)
		s.logger.WarnTag("DETECT", "request failed: request_id=%s kind=%s err=%v",
			requestID, errors.KindOf(err), err)
		httptransport.RespondError(c, err)
		return
	}

	s.logger.InfoTag("DETECT", "request done: request_id=%s label=%s confidence=%.4f language=%s",
		requestID, result.Classification, result.Confidence, result.Language)

	s.publishCompleted(requestID, result)

	c.JSON(http.StatusOK, result)
}

func (s *Service) handleRecentDetections(c *gin.Context) {
	if err := s.verifier.Verify(c.GetHeader(apiKeyHeader)); err != nil {
		httptransport.RespondError(c, err)
		return
	}

	if s.audit == nil {
		httptransport.RespondError(c, errors.New(errors.KindStorage,
			"detect.recent", "audit storage is disabled"))
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httptransport.RespondError(c, errors.New(errors.KindTransport,
				"detect.recent", "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	records, err := s.audit.FindRecent(c.Request.Context(), limit)
	if err != nil {
		httptransport.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":      len(records),
		"detections": records,
	})
}

func (s *Service) runDetection(ctx context.Context, req detectRequest, lang detection.Language) (*detection.Result, error) {
	switch {
	case req.AudioBase64 != "" && req.AudioURL != "":
		return nil, errors.New(errors.KindTransport, "detect.parse_request",
			"audio_base64 and audio_url are mutually exclusive")
	case req.AudioURL != "":
		raw, err := s.fetcher.Fetch(ctx, req.AudioURL)
		if err != nil {
			return nil, err
		}
		return s.engine.DetectBytes(ctx, raw, lang)
	default:
		return s.engine.Detect(ctx, req.AudioBase64, lang)
	}
}

func (s *Service) publishCompleted(requestID string, result *detection.Result) {
	explanationJSON, err := sonic.Marshal(result.Explanation)
	if err != nil {
		s.logger.WarnTag("EVENT", "marshal explanation failed: request_id=%s err=%v", requestID, err)
		explanationJSON = []byte("{}")
	}

	eventbus.PublishAsync(eventbus.EventDetectionCompleted, eventbus.DetectionCompletedData{
		RequestID:            requestID,
		FingerprintHex:       result.FingerprintHex,
		Language:             string(result.Language),
		Classification:       string(result.Classification),
		Confidence:           result.Confidence,
		AudioDurationSeconds: result.AudioDurationSeconds,
		ProcessingTimeMs:     result.ProcessingTimeMs,
		PayloadBytes:         result.PayloadBytes,
		ExplanationJSON:      explanationJSON,
	})
}

func (s *Service) publishRejected(requestID, language string, err error) {
	eventbus.PublishAsync(eventbus.EventDetectionRejected, eventbus.DetectionRejectedData{
		RequestID: requestID,
		Language:  language,
		Reason:    err.Error(),
		ErrorKind: string(errors.KindOf(err)),
	})
}
