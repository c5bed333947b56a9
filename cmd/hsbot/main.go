package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v4"

	"hsbot/internal/bot"
	"hsbot/internal/config"
	"hsbot/internal/hsapi"
	"hsbot/internal/hsdata"
	"hsbot/internal/httpapi"
	"hsbot/internal/kstream"
	"hsbot/internal/model"
	"hsbot/internal/render"
	"hsbot/internal/session"
	"hsbot/internal/stats"
	"hsbot/internal/telegram"
)

const statsGroup = "hsbot-stats"

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	log := logrus.NewEntry(logger)

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ref := hsdata.MustLoad()
	store := session.Open(ctx, cfg.Storage, log)
	defer store.Close()

	api := hsapi.NewClient(cfg.API)
	events := kstream.NewPublisher(cfg.Kafka, log)
	defer events.Close()

	// Search statistics live in Redis and are fed from the search stream, so
	// they need both.
	var statsReader *stats.Reader
	if cfg.Kafka.Broker != "" {
		rdb := session.NewRedisClient(cfg.Storage)
		defer rdb.Close()
		statsReader = stats.NewReader(rdb)
		projector := stats.NewProjector(rdb)

		go func() {
			log.Info("starting statistics projector")
			err := kstream.ConsumeSearches(ctx, cfg.Kafka, statsGroup, log, func(ctx context.Context, evt model.SearchEvent) error {
				return projector.Apply(ctx, evt)
			})
			if err != nil {
				log.WithError(err).Error("statistics projector stopped")
			}
		}()
	}

	// Handlers enqueue per chat; running them in the poll loop keeps arrival
	// order.
	tb, err := telebot.NewBot(telebot.Settings{
		Token:       cfg.Bot.Token,
		Poller:      &telebot.LongPoller{Timeout: cfg.Bot.PollTimeout},
		ParseMode:   telebot.ModeHTML,
		OnError:     telegram.OnError(log),
		Synchronous: true,
	})
	if err != nil {
		log.WithError(err).Fatal("connect to telegram")
	}

	deps := bot.Deps{
		Store:     store,
		Messenger: telegram.NewMessenger(tb, log),
		API:       api,
		Events:    events,
		Ref:       ref,
		Renderer:  render.New(ref, cfg.API.MediaURL()),
		Limits:    cfg.Limits,
		AdminID:   cfg.Bot.AdminID,
		Log:       log,
	}
	if statsReader != nil {
		deps.Stats = statsReader
	}
	machine := bot.New(deps)

	handlers := telegram.NewHandlers(ctx, machine, log)
	if err := handlers.Register(tb); err != nil {
		log.WithError(err).Warn("publish command menu")
	}

	srv := &httpapi.Server{Store: store, Upstream: api, Log: log.WithField("component", "http")}
	if statsReader != nil {
		srv.Stats = statsReader
	}
	r := mux.NewRouter()
	srv.RegisterRoutes(r)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info("shutting down")
		cancel()
		tb.Stop()
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()
		_ = server.Shutdown(sctx)
	}()

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http server")
		}
	}()

	log.WithField("bot", tb.Me.Username).Info("polling for updates")
	tb.Start()
	handlers.Wait()
}
