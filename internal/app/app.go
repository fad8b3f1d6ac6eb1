package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/alareon123/spina-bot/internal/config"
	"github.com/alareon123/spina-bot/internal/scheduler"
	"github.com/alareon123/spina-bot/internal/service"
	"github.com/alareon123/spina-bot/internal/store"
	"github.com/alareon123/spina-bot/internal/telegram"
)

type App struct {
	cfg config.Config
	log *zap.Logger
	bot *tgbotapi.BotAPI
	loc *time.Location
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	return &App{cfg: cfg, log: log, bot: bot, loc: loc}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting spina-bot",
		zap.String("bot", a.bot.Self.UserName),
		zap.String("http", a.cfg.HTTPAddr),
		zap.String("tz", a.loc.String()),
		zap.Int("admins", len(a.cfg.AdminIDs)),
	)

	repo, err := store.Open(ctx, a.cfg.DatabaseURL)
	if err != nil {
		a.log.Error("open store failed", zap.Error(err))
		return err
	}
	defer func() { _ = repo.Close() }()
	a.log.Info("store ready")

	sender := telegram.NewSender(a.bot, a.log)
	limiter := rate.NewLimiter(rate.Limit(a.cfg.BroadcastRate), 1)
	broadcaster := scheduler.NewBroadcaster(repo, a.log, sender, limiter)
	sched := scheduler.New(a.log, a.loc, broadcaster.Fire)
	settings := service.NewSettings(repo, sched, a.log)

	router := telegram.NewRouter(a.bot, a.log, telegram.Deps{
		Repo:     repo,
		Intake:   service.NewIntake(repo, a.log),
		Catalog:  service.NewCatalog(repo),
		Settings: settings,
		Stats:    service.NewStats(repo),
		Admins:   a.cfg.Admins(),
		Loc:      a.loc,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := settings.ApplySchedule(ctx); err != nil {
		a.log.Error("apply schedule failed", zap.Error(err))
		return err
	}
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		sched.Run(ctx)
	}()

	httpSrv := &http.Server{
		Addr:         a.cfg.HTTPAddr,
		Handler:      newHealthRouter(repo),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")
			a.bot.StopReceivingUpdates()

			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := httpSrv.Shutdown(shCtx)
			cancel()
			if err != nil {
				a.log.Warn("http server shutdown error", zap.Error(err))
			}
			wg.Wait()
			return nil

		case upd := <-updCh:
			router.HandleUpdate(ctx, upd)
		}
	}
}
