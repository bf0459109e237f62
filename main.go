package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"judgewatch/handler"
	"judgewatch/middleware"
	"judgewatch/service/db"
	"judgewatch/service/etc"
	"judgewatch/service/judge"
	"judgewatch/service/poll"
	"judgewatch/service/translate"
	"judgewatch/view"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	ginlogrus "github.com/toorop/gin-logrus"
	"golang.org/x/text/language"
)

func setupRouter(locale language.Tag, supported []language.Tag) *gin.Engine {
	r := gin.New()

	r.Use(ginlogrus.Logger(log.StandardLogger()), gin.Recovery())

	r.GET("/ping", handler.HandlePing)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/")
	api.Use(middleware.LocaleMiddleware(locale, supported...))
	{
		j := api.Group("/judge")
		{
			j.GET("/idle", handler.HandleIdleJudge)
			j.GET("/:judge_id/job/:id", handler.HandleJobWait)
			j.GET("/:judge_id/history/:name", handler.HandleJobHistory)
		}

		api.GET("/task/:name", handler.HandleTaskGet)
		api.POST("/task/:name", handler.HandleTaskSubmit)
		api.POST("/task/:name/test", handler.HandleTestSubmit)
	}

	return r
}

func setupJudges(c *etc.Configuration) {
	poller := &poll.Poller{
		Interval:       c.Poll.Interval,
		MaxAttempts:    c.Poll.MaxAttempts,
		RequestTimeout: c.Poll.RequestTimeout,
	}
	if poller.Interval <= 0 {
		poller.Interval = poll.DefaultInterval
	}
	if poller.MaxAttempts <= 0 {
		poller.MaxAttempts = poll.DefaultMaxAttempts
	}
	for id, j := range c.Judges {
		log.WithField("id", id).Debug("Initializing judge")
		if err := judge.AddAndStart(id, j.Host, j.Token, j.Timeout, poller); err != nil {
			log.WithError(err).WithField("id", id).Fatal("Failed to initialize judge")
		}
	}
}

// setupPresenter returns the default locale and the shipped locales.
func setupPresenter(c *etc.Configuration) (language.Tag, []language.Tag) {
	t, err := translate.New(c.Translation.Endpoint, c.Translation.Locale, db.RDB, c.Translation.CacheTTL)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize translations")
	}
	handler.Presenter = view.New(t)
	if c.Cache.ResultTTL > 0 {
		handler.ResultTTL = c.Cache.ResultTTL
	}
	return t.Locale, t.Catalog.Tags()
}

func main() {
	db.SetupRedis()
	setupJudges(etc.Config)
	locale, supported := setupPresenter(etc.Config)

	// Running polls are bound to requests, stopping rootCtx ends them on shutdown.
	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	router := setupRouter(locale, supported)
	srv := &http.Server{
		Addr:        etc.Config.Listen,
		Handler:     router,
		BaseContext: func(net.Listener) context.Context { return rootCtx },
	}

	go func() {
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Error listening")
		}
	}()
	log.WithField("addr", etc.Config.Listen).Info("Listening")

	// Wait for interrupt signal to gracefully shut down the server with a timeout of 10 seconds.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("Server shutdown failed")
	}
	if db.RDB != nil {
		_ = db.RDB.Close()
	}
	log.Info("Server exiting")
}
