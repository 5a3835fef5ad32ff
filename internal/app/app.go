package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hitoshi/usersapi/internal/apidoc"
	"github.com/hitoshi/usersapi/internal/config"
	"github.com/hitoshi/usersapi/internal/handler"
	"github.com/hitoshi/usersapi/internal/logger"
	"github.com/hitoshi/usersapi/internal/metrics"
	"github.com/hitoshi/usersapi/internal/middleware"
	"github.com/hitoshi/usersapi/internal/store"
	"github.com/hitoshi/usersapi/internal/user"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、LOG_LEVELに従ってJSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) *config.Config {
	cfg := config.Load()
	logger.SetupDefault(w, cfg.LogLevel)
	return cfg
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd, known := ParseCommand(args)

	// healthcheck と help は軽量サブコマンドのため、ロガーの初期化をスキップする
	switch cmd {
	case CommandHealthcheck:
		return runHealthcheck(config.Load().Port)
	case CommandHelp:
		WriteUsage(w)
		return nil
	}

	cfg := Init(w)

	if !known {
		slog.Warn("unknown command, falling back to serve",
			slog.String("command", args[0]),
		)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.Port),
		slog.String("environment", cfg.Environment),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return runServe(ctx, cfg)
}

// runServe はAPIサーバーモードで起動する。
// ctxがキャンセルされる（SIGINTまたはSIGTERMを受信する）とグレースフルシャットダウンを行う。
func runServe(ctx context.Context, cfg *config.Config) error {
	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr(), err)
	}
	return serve(ctx, cfg, ln)
}

// serve はlnでHTTPサーバーを起動し、ctxのキャンセルまたはサーバーエラーまでブロックする。
func serve(ctx context.Context, cfg *config.Config, ln net.Listener) error {
	router, cleanup, err := buildRouter(cfg, slog.Default())
	if err != nil {
		ln.Close()
		return err
	}
	defer cleanup()

	server := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server starting",
			slog.String("addr", ln.Addr().String()),
		)
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server listen error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down API server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// buildRouter は全依存関係をワイヤリングしてルーターを構築する。
// 戻り値のcleanupはサーバー停止後に呼び出す。
func buildRouter(cfg *config.Config, log *slog.Logger) (http.Handler, func(), error) {
	// 1. ストアの初期化（シードデータ投入済み）
	userStore := store.New(store.DefaultSeed())

	// 2. メトリクス
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg, userStore.Count)

	// 3. サービス層
	userService := user.NewService(userStore, collector)

	// 4. APIドキュメント
	docs, err := handler.NewDocsHandler(apidoc.Build(apidoc.DefaultInfo()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build api document: %w", err)
	}

	// 5. レート制限（0以下で無効）
	var rateLimiter *middleware.RateLimiter
	cleanup := func() {}
	if cfg.RateLimitPerMinute > 0 {
		rateLimiter = middleware.NewRateLimiter(middleware.NewRateLimiterConfig(cfg.RateLimitPerMinute))
		cleanup = rateLimiter.Stop
	}

	// 6. ルーターの構築
	router := handler.NewRouter(&handler.RouterDeps{
		Logger:            log,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		TrustProxy:        cfg.TrustProxy,
		RateLimiter:       rateLimiter,
		Metrics:           collector,
		MetricsHandler:    metrics.Handler(reg),
		UserService:       userService,
		Environment:       cfg.Environment,
		Docs:              docs,
	})

	return router, cleanup, nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}
