package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	streamless "github.com/streamless/streamless"
	redissink "github.com/streamless/streamless/event/redis"
	"github.com/streamless/streamless/httpapi"
	"github.com/streamless/streamless/scheduler"
	"github.com/streamless/streamless/scheduler/local"
	"github.com/streamless/streamless/store"
	memorystore "github.com/streamless/streamless/store/memory"
	mongostore "github.com/streamless/streamless/store/mongo"
	postgresstore "github.com/streamless/streamless/store/postgres"
	custody "github.com/streamless/streamless/transfer/memory"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the billing engine and HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *viper.Viper) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	funds := custody.New()
	if opening := cfg.GetUint64("custody.opening_balance"); opening > 0 {
		funds.Receive(opening)
	}

	opts := []streamless.Option{
		streamless.WithLogger(logger),
		streamless.WithDriftTolerance(cfg.GetDuration("engine.drift_tolerance")),
	}

	var redisSink *redissink.Sink
	if addr := cfg.GetString("events.redis.addr"); addr != "" {
		redisSink, err = redissink.New(ctx, &redis.Options{
			Addr:     addr,
			Password: cfg.GetString("events.redis.password"),
			DB:       cfg.GetInt("events.redis.db"),
		})
		if err != nil {
			return fmt.Errorf("connect redis sink: %w", err)
		}
		defer redisSink.Close()
		opts = append(opts, streamless.WithSink(redisSink))
	}

	// The driver delivers back into the engine; the engine is created after
	// the driver, so delivery goes through this indirection.
	var engine *streamless.Engine
	driver := local.New(func(ctx context.Context, req scheduler.Request) error {
		if req.Function != scheduler.FuncExecutePayment || len(req.Args) != 2 {
			return fmt.Errorf("unknown delivery: %s %v", req.Function, req.Args)
		}
		_, err := engine.ExecutePayment(ctx, req.Args[0], req.Args[1])
		return err
	}, local.WithLogger(logger))
	defer driver.Close()

	engine = streamless.New(st, funds, driver, opts...)
	defer engine.Close()

	handler := httpapi.NewHandler(engine, httpapi.WithFunder(
		func(_ context.Context, _ string, amount uint64) error {
			funds.Receive(amount)
			return nil
		},
	))

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	httpapi.SetupRouter(router, logger, handler, engine)

	srv := &http.Server{
		Addr:    cfg.GetString("http.addr"),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *viper.Viper) (store.KeyedStore, error) {
	switch backend := cfg.GetString("store.backend"); backend {
	case "memory":
		return memorystore.New(), nil
	case "postgres":
		st, err := postgresstore.New(ctx, cfg.GetString("store.postgres.url"))
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			_ = st.Close()
			return nil, err
		}
		return st, nil
	case "mongo":
		return mongostore.New(ctx, cfg.GetString("store.mongo.uri"),
			mongostore.WithDatabase(cfg.GetString("store.mongo.database")))
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
