package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/unidoc/unioffice/common/license"
	"go.uber.org/zap"

	"github.com/futig/cbam-wizard/internal/api"
	factorapi "github.com/futig/cbam-wizard/internal/api/emissionfactor"
	wizardapi "github.com/futig/cbam-wizard/internal/api/wizard"
	"github.com/futig/cbam-wizard/internal/catalog"
	"github.com/futig/cbam-wizard/internal/config"
	"github.com/futig/cbam-wizard/internal/integration/cbam"
	"github.com/futig/cbam-wizard/internal/pkg/formatter"
	"github.com/futig/cbam-wizard/internal/pkg/validator"
	"github.com/futig/cbam-wizard/internal/telegram"
	"github.com/futig/cbam-wizard/internal/usecase/emissionfactor"
	wizarduc "github.com/futig/cbam-wizard/internal/usecase/wizard"
	wz "github.com/futig/cbam-wizard/internal/wizard"
)

// backend is everything the usecases need from the CBAM service
type backend interface {
	wizarduc.CBAMConnector
	catalog.QuestionSource
	emissionfactor.CBAMConnector
}

type sessionStore interface {
	wizarduc.SessionRepository
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type chatStore interface {
	Get(ctx context.Context, chatID int64) (string, error)
	Set(ctx context.Context, chatID int64, calculationID string) error
	Delete(ctx context.Context, chatID int64) error
}

// core is the wiring shared by the HTTP service and the Telegram bot
type core struct {
	cfg     *config.Config
	logger  *zap.Logger
	storage *storage
	wizard  *wizarduc.WizardUsecase
	factors *emissionfactor.EmissionFactorUsecase
}

func buildCore(ctx context.Context, cfg *config.Config) (*core, error) {
	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("storage", cfg.StorageCfg.Driver),
	)

	store, err := setupStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Repositories initialized")

	var conn backend
	if cfg.EnableMocks {
		logger.Info("Using mock CBAM backend")
		mock, err := cbam.NewMockConnector(logger)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("create mock connector: %w", err)
		}
		conn = mock
	} else {
		logger.Info("Using CBAM backend", zap.String("url", cfg.CBAMConnectorCfg.Url))
		conn = cbam.NewConnector(cfg.CBAMConnectorCfg, logger)
	}

	factors := emissionfactor.NewUsecase(conn, cfg.WizardCfg.FactorTTL, logger)

	wizardUC := wizarduc.NewUsecase(
		conn,
		store.sessions,
		catalog.NewClient(conn, cfg.WizardCfg.CatalogTTL),
		factors,
		formatter.NewFactory(setupDOCXLicense(cfg.ReportsCfg.UniofficeLicenseKey, logger)),
		wz.NewRouter(cfg.WizardCfg.BasePath, cfg.Categories),
		cfg.WizardCfg.DashboardPath,
		logger,
	)
	logger.Info("Use cases initialized", zap.Int("categories", len(cfg.Categories)))

	return &core{
		cfg:     cfg,
		logger:  logger,
		storage: store,
		wizard:  wizardUC,
		factors: factors,
	}, nil
}

// Build wires the HTTP service
func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	c, err := buildCore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger := c.logger

	// Setup API handlers
	wizardHandler := wizardapi.NewHandler(c.wizard, validator.New())
	factorHandler := factorapi.NewHandler(c.factors)
	logger.Info("API handlers initialized")

	router := api.SetupRouter(wizardHandler, factorHandler, cfg.CORSOrigins, logger)
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	return &App{
		server:          server,
		storage:         c.storage,
		sessionTTL:      cfg.WizardCfg.SessionTTL,
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot.
// The returned cleanup closes the storage once the bot has stopped.
func BuildTelegramBot() (telegram.Bot, *zap.Logger, func(), error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.TelegramCfg.BotToken == "" {
		return nil, nil, nil, telegram.ErrMissingBotToken
	}

	c, err := buildCore(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	bot, err := telegram.NewBot(&cfg.TelegramCfg, c.storage.chats, c.wizard, cfg.WizardCfg.BasePath, c.logger)
	if err != nil {
		c.storage.Close()
		return nil, nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	c.logger.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return bot, c.logger, c.storage.Close, nil
}

// setupDOCXLicense registers the unioffice metered key and reports whether DOCX reports can be rendered
func setupDOCXLicense(key string, logger *zap.Logger) bool {
	if key == "" {
		logger.Info("DOCX reports disabled, REPORTS_UNIOFFICE_LICENSE_KEY is not set")
		return false
	}
	if err := license.SetMeteredKey(key); err != nil {
		logger.Warn("DOCX reports disabled, unioffice rejected the license key", zap.Error(err))
		return false
	}
	return true
}
