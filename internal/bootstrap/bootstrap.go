package bootstrap

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"voiceguard-server-go/internal/domain/detection"
	"voiceguard-server-go/internal/domain/eventbus"
	platformconfig "voiceguard-server-go/internal/platform/config"
	platformerrors "voiceguard-server-go/internal/platform/errors"
	platformlogging "voiceguard-server-go/internal/platform/logging"
	platformstorage "voiceguard-server-go/internal/platform/storage"
	httptransport "voiceguard-server-go/internal/transport/http"
	httpdetect "voiceguard-server-go/internal/transport/http/detect"
)

type stepFn func(context.Context, *appState) error

type initStep struct {
	ID        string
	Title     string
	DependsOn []string
	Kind      platformerrors.Kind
	Execute   stepFn
}

type appState struct {
	config     *platformconfig.Config
	configPath string
	logger     *platformlogging.Logger
	engine     *detection.Engine
	auditRepo  *platformstorage.DetectionRepository
}

// Run drives the full service lifecycle: configuration, dependency
// initialisation, serving, and graceful shutdown.
func Run(ctx context.Context) error {
	state := &appState{}

	steps := InitGraph()
	if err := executeInitSteps(ctx, steps, state); err != nil {
		return err
	}

	config := state.config
	logger := state.logger
	if config == nil || logger == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"bootstrap.validate_state",
			"config/logger not initialised",
		)
	}
	if state.engine == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"bootstrap.validate_state",
			"detection engine not initialised",
		)
	}

	logBootstrapGraph(steps, logger)

	defer eventbus.Shutdown()
	defer logger.Close()

	rootCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	signalCtx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(rootCtx)

	if _, err := startHTTPServer(state, group, groupCtx); err != nil {
		cancel()
		return err
	}

	logger.InfoTag("BOOT", "service started")

	return waitForShutdown(signalCtx, cancel, logger, group)
}

func logBootstrapGraph(steps []initStep, logger *platformlogging.Logger) {
	if logger == nil {
		return
	}
	for _, step := range steps {
		logger.InfoTag("BOOT", "init step done: %s", step.Title)
	}
}

func executeInitSteps(ctx context.Context, steps []initStep, state *appState) error {
	if state == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"bootstrap.execute_init_steps",
			"nil bootstrap state",
		)
	}

	completed := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		for _, dep := range step.DependsOn {
			if _, ok := completed[dep]; !ok {
				return platformerrors.New(
					platformerrors.KindBootstrap,
					step.ID,
					fmt.Sprintf("dependency %s not satisfied", dep),
				)
			}
		}
		if step.Execute == nil {
			return platformerrors.New(
				platformerrors.KindBootstrap,
				step.ID,
				"missing execute function",
			)
		}
		if err := step.Execute(ctx, state); err != nil {
			var typed *platformerrors.Error
			if stderrors.As(err, &typed) {
				return err
			}

			kind := step.Kind
			if kind == "" {
				kind = platformerrors.KindBootstrap
			}
			return platformerrors.Wrap(kind, step.ID, "bootstrap step failed", err)
		}
		completed[step.ID] = struct{}{}
	}
	return nil
}

// InitGraph lists the startup steps in dependency order.
func InitGraph() []initStep {
	return []initStep{
		{
			ID:      "config:load",
			Title:   "load configuration",
			Kind:    platformerrors.KindConfig,
			Execute: loadConfigStep,
		},
		{
			ID:        "logging:init",
			Title:     "initialise logging",
			DependsOn: []string{"config:load"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initLoggingStep,
		},
		{
			ID:        "storage:init-database",
			Title:     "initialise audit database",
			DependsOn: []string{"config:load", "logging:init"},
			Kind:      platformerrors.KindStorage,
			Execute:   initDatabaseStep,
		},
		{
			ID:        "events:subscribe-audit",
			Title:     "subscribe audit event handlers",
			DependsOn: []string{"storage:init-database", "logging:init"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   subscribeAuditStep,
		},
		{
			ID:        "detection:init-engine",
			Title:     "initialise detection engine",
			DependsOn: []string{"config:load", "logging:init"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initEngineStep,
		},
	}
}

func loadConfigStep(_ context.Context, state *appState) error {
	result, err := platformconfig.NewLoader().WithDotEnv(true).Load()
	if err != nil {
		return err
	}
	if err := platformconfig.Validate(result.Config); err != nil {
		return err
	}

	state.config = result.Config
	state.configPath = result.Path
	return nil
}

func initLoggingStep(_ context.Context, state *appState) error {
	if state.config == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"logging:init",
			"config not loaded",
		)
	}

	logger, err := platformlogging.New(platformlogging.Config{
		Level:    state.config.Log.Level,
		Dir:      state.config.Log.Dir,
		Filename: state.config.Log.File,
	})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap,
			"logging:init", "failed to initialise logging", err)
	}

	state.logger = logger
	platformlogging.DefaultLogger = logger

	logger.InfoTag("BOOT", "logging ready [%s] config=%s", state.config.Log.Level, state.configPath)
	return nil
}

func initDatabaseStep(_ context.Context, state *appState) error {
	if state.config == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"storage:init-database",
			"config not loaded",
		)
	}
	if !state.config.Storage.Enabled {
		state.logger.InfoTag("STORE", "audit storage disabled")
		return nil
	}

	if err := platformstorage.InitDatabase(&state.config.Storage); err != nil {
		return err
	}
	state.auditRepo = platformstorage.NewDetectionRepository(platformstorage.GetDB())
	state.logger.InfoTag("STORE", "audit database ready: %s", state.config.Storage.File)
	return nil
}

// subscribeAuditStep persists completed detections and logs rejected ones.
// Handlers run on the async bus so the request path never waits on storage.
func subscribeAuditStep(_ context.Context, state *appState) error {
	logger := state.logger

	if state.auditRepo != nil {
		repo := state.auditRepo
		err := eventbus.SubscribeAsync(eventbus.EventDetectionCompleted, func(data eventbus.DetectionCompletedData) {
			record := &platformstorage.DetectionRecord{
				RequestID:            data.RequestID,
				FingerprintHex:       data.FingerprintHex,
				Language:             data.Language,
				Classification:       data.Classification,
				Confidence:           data.Confidence,
				AudioDurationSeconds: data.AudioDurationSeconds,
				ProcessingTimeMs:     data.ProcessingTimeMs,
				PayloadBytes:         data.PayloadBytes,
				Explanation:          datatypes.JSON(data.ExplanationJSON),
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := repo.Save(ctx, record); err != nil {
				logger.WarnTag("STORE", "failed to persist detection %s: %v", data.RequestID, err)
			}
		})
		if err != nil {
			return platformerrors.Wrap(platformerrors.KindBootstrap,
				"events:subscribe-audit", "failed to subscribe completion handler", err)
		}
	}

	err := eventbus.SubscribeAsync(eventbus.EventDetectionRejected, func(data eventbus.DetectionRejectedData) {
		logger.InfoTag("EVENT", "detection rejected: request_id=%s kind=%s reason=%s",
			data.RequestID, data.ErrorKind, data.Reason)
	})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap,
			"events:subscribe-audit", "failed to subscribe rejection handler", err)
	}
	return nil
}

func initEngineStep(_ context.Context, state *appState) error {
	engine, err := detection.NewEngine(&state.config.Detection, state.logger)
	if err != nil {
		return err
	}
	state.engine = engine
	return nil
}

func startHTTPServer(
	state *appState,
	g *errgroup.Group,
	groupCtx context.Context,
) (*http.Server, error) {
	config := state.config
	logger := state.logger

	httpRouter, err := httptransport.Build(httptransport.Options{
		Config: config,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	router := httpRouter.Engine

	router.NoRoute(func(c *gin.Context) {
		httptransport.RespondError(c, platformerrors.New(
			platformerrors.KindTransport,
			"http.no_route",
			"not found",
		))
	})

	detectService, err := httpdetect.NewService(config, logger, state.engine, state.auditRepo)
	if err != nil {
		return nil, err
	}
	if err := detectService.Register(groupCtx, router, httpRouter.API); err != nil {
		return nil, err
	}

	httpServer := &http.Server{
		Addr:    config.Server.IP + ":" + strconv.Itoa(config.Server.Port),
		Handler: router,
	}

	g.Go(func() error {
		logger.InfoTag("HTTP", "listening on http://%s", httpServer.Addr)
		logger.InfoTag("HTTP", "detect endpoint: POST /api/v1/detect")

		go func() {
			<-groupCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.ErrorTag("HTTP", "server shutdown failed: %v", err)
			} else {
				logger.InfoTag("HTTP", "server shut down cleanly")
			}
		}()

		if err := httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			logger.ErrorTag("HTTP", "server failed: %v", err)
			return err
		}
		return nil
	})

	return httpServer, nil
}

func waitForShutdown(
	ctx context.Context,
	cancel context.CancelFunc,
	logger *platformlogging.Logger,
	g *errgroup.Group,
) error {
	<-ctx.Done()
	logger.InfoTag("BOOT", "shutdown signal received: %v", context.Cause(ctx))

	cancel()

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.ErrorTag("BOOT", "error during shutdown: %v", err)
			return err
		}
		logger.InfoTag("BOOT", "all services stopped")
	case <-time.After(15 * time.Second):
		logger.ErrorTag("BOOT", "shutdown timed out, exiting")
		return stderrors.New("shutdown timed out")
	}
	return nil
}
