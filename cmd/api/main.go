package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pill-dispenser/internal/adapters/notify/telegram"
	"pill-dispenser/internal/adapters/notify/twilio"
	"pill-dispenser/internal/adapters/speech/deepgram"
	"pill-dispenser/internal/adapters/speech/openaistt"
	"pill-dispenser/internal/adapters/storage/memory"
	pg "pill-dispenser/internal/adapters/storage/postgres"
	"pill-dispenser/internal/adapters/storage/sqlite"
	"pill-dispenser/internal/domain/alerts"
	"pill-dispenser/internal/domain/attendance"
	"pill-dispenser/internal/domain/medications"
	"pill-dispenser/internal/domain/monitor"
	"pill-dispenser/internal/domain/speech"
	"pill-dispenser/internal/domain/vitals"
	"pill-dispenser/internal/platform/clock"
	"pill-dispenser/internal/platform/config"
	"pill-dispenser/internal/platform/logger"
	"pill-dispenser/internal/router"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := pflag.String("config", os.Getenv("CONFIG_FILE"), "YAML config file (optional)")
	envFile := pflag.String("env", ".env", ".env file to load (optional)")
	port := pflag.String("port", "", "HTTP port (overrides PORT)")
	logLevel := pflag.String("log-level", "", "debug|info|warn|error (overrides LOG_LEVEL)")
	noMonitor := pflag.Bool("no-monitor", false, "do not run the stock/dose monitor")
	pflag.Parse()

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *noMonitor {
		cfg.Monitor.Disabled = true
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})
	if zl, ok := log.(*logger.ZapLogger); ok {
		defer func() { _ = zl.Sync() }()
	}

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", map[string]any{"err": err})
		os.Exit(1)
	}
}

func run(cfg config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Validate ya comprobó la zona.
	loc, _ := time.LoadLocation(cfg.Monitor.Timezone)
	clk := clock.New(loc)

	store, closeStore, err := openStorage(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer closeStore()

	hub := alerts.NewHub(log)
	alertsSvc := alerts.NewService(buildAlertOptions(cfg, hub, log))

	tr := buildTranscriber(cfg, log)

	handler := router.NewRouter(router.Options{
		Logger:      log,
		Clock:       clk,
		Medications: store.medications,
		Attendance:  store.attendance,
		Vitals:      store.vitals,
		Transcriber: tr,
		Alerts:      alertsSvc,
		Hub:         hub,
		DeviceKey:   cfg.DeviceAPIKey,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second, // subida de audio a /stt
		WriteTimeout:      60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "db_driver": cfg.Database.Driver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down server", nil)
		return srv.Shutdown(shutdownCtx)
	})

	if !cfg.Monitor.Disabled {
		medsSvc := medications.NewService(store.medications, clk)
		mon := monitor.New(monitor.Options{
			Stock:          medsSvc,
			Schedule:       medsSvc,
			Attendance:     attendance.NewService(store.attendance),
			Alerter:        alertsSvc,
			Clock:          clk,
			Logger:         log,
			StockInterval:  cfg.Monitor.StockInterval,
			TimingInterval: cfg.Monitor.TimingInterval,
		})
		g.Go(func() error { return mon.Run(gctx) })
	} else {
		log.Warn("monitor disabled", nil)
	}

	return g.Wait()
}

type repos struct {
	medications medications.Repository
	attendance  attendance.Repository
	vitals      vitals.Repository
}

func openStorage(ctx context.Context, dbCfg config.Database, log logger.Logger) (repos, func(), error) {
	noop := func() {}

	var db *sql.DB
	var out repos

	switch dbCfg.Driver {
	case config.DriverPostgres:
		opened, err := pg.Open(dbCfg.PostgresDSN())
		if err != nil {
			return repos{}, noop, fmt.Errorf("open postgres: %w", err)
		}
		if err := pg.Migrate(ctx, opened); err != nil {
			_ = opened.Close()
			return repos{}, noop, err
		}
		db = opened
		out = repos{
			medications: pg.NewMedicationsRepo(db),
			attendance:  pg.NewAttendanceRepo(db),
			vitals:      pg.NewVitalsRepo(db),
		}

	case config.DriverSQLite:
		opened, err := sqlite.Open(dbCfg.SQLitePath)
		if err != nil {
			return repos{}, noop, err
		}
		db = opened
		out = repos{
			medications: sqlite.NewMedicationsRepo(db),
			attendance:  sqlite.NewAttendanceRepo(db),
			vitals:      sqlite.NewVitalsRepo(db),
		}

	default:
		log.Warn("no database configured, using in-memory storage", nil)
		meds, att := memory.NewDispenserRepos()
		return repos{medications: meds, attendance: att, vitals: memory.NewVitalsRepo()}, noop, nil
	}

	return out, func() { _ = db.Close() }, nil
}

func buildTranscriber(cfg config.Config, log logger.Logger) speech.Transcriber {
	switch cfg.Speech.Provider {
	case config.STTOpenAI:
		if cfg.Speech.OpenAIAPIKey == "" {
			break
		}
		c, err := openaistt.New(openaistt.Options{APIKey: cfg.Speech.OpenAIAPIKey})
		if err != nil {
			log.Error("openai transcriber disabled", map[string]any{"err": err})
			return nil
		}
		return c
	default:
		if cfg.Speech.DeepgramAPIKey == "" {
			break
		}
		c, err := deepgram.New(deepgram.Options{APIKey: cfg.Speech.DeepgramAPIKey, BaseURL: cfg.Speech.DeepgramURL})
		if err != nil {
			log.Error("deepgram transcriber disabled", map[string]any{"err": err})
			return nil
		}
		return c
	}

	log.Warn("speech-to-text not configured, /stt will fail", map[string]any{"provider": cfg.Speech.Provider})
	return nil
}

func buildAlertOptions(cfg config.Config, hub *alerts.Hub, log logger.Logger) alerts.Options {
	opts := alerts.Options{
		Publisher: hub,
		Timeout:   cfg.Monitor.AlertTimeout,
		Logger:    log,
	}

	if cfg.Twilio.Configured() {
		tw, err := twilio.New(twilio.Options{
			BaseURL:    cfg.Twilio.BaseURL,
			AccountSID: cfg.Twilio.AccountSID,
			AuthToken:  cfg.Twilio.AuthToken,
			From:       cfg.Twilio.FromNumber,
			To:         cfg.Twilio.AlertNumber,
			Timeout:    cfg.Monitor.AlertTimeout,
		})
		if err != nil {
			log.Error("twilio disabled", map[string]any{"err": err})
		} else {
			opts.SMS = tw
			opts.Caller = tw
		}
	} else {
		log.Warn("twilio not configured, sms and call alerts will only be logged", nil)
	}

	if cfg.Telegram.BotToken != "" {
		tg, err := telegram.New(telegram.Options{Token: cfg.Telegram.BotToken, ChatID: cfg.Telegram.ChatID})
		if err != nil {
			log.Error("telegram disabled", map[string]any{"err": err})
		} else {
			opts.Notifiers = append(opts.Notifiers, tg)
		}
	}

	return opts
}
