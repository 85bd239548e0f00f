package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hitoshi/workerhub/internal/backend"
	"github.com/hitoshi/workerhub/internal/config"
	"github.com/hitoshi/workerhub/internal/guard"
	"github.com/hitoshi/workerhub/internal/handler"
	"github.com/hitoshi/workerhub/internal/logger"
	"github.com/hitoshi/workerhub/internal/metrics"
	"github.com/hitoshi/workerhub/internal/middleware"
	"github.com/hitoshi/workerhub/internal/notice"
	"github.com/hitoshi/workerhub/internal/security"
	"github.com/hitoshi/workerhub/internal/tokenstore"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w, logger.ParseLevel(os.Getenv("LOG_LEVEL")))

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。CLIコマンドの結果はwに出力する。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	switch cmd {
	case CommandHealthcheck:
		// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	case CommandLogin, CommandLogout, CommandStatus:
		return runCLI(w, cmd, args[1:], os.Stdin)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
		slog.String("backend_base_url", cfg.BackendBaseURL),
	)

	return runServe(cfg)
}

// newBackendClient は設定からバックエンドクライアントを構築する。
// BACKEND_TIMEOUTが0の場合はタイムアウトを設定しない。
func newBackendClient(cfg *config.Config, collector metrics.MetricsCollector) *backend.Client {
	return backend.NewClient(
		&http.Client{Timeout: cfg.BackendTimeout},
		cfg.BackendBaseURL,
		slog.Default(),
		collector,
	)
}

// NewServerHandler は設定から全依存関係をワイヤリングしたHTTPハンドラーを構築する。
// 返されるstop関数はバックグラウンド処理を停止する。
func NewServerHandler(cfg *config.Config, reg *prometheus.Registry) (http.Handler, func(), error) {
	collector := metrics.NewCollector(reg)
	client := newBackendClient(cfg, collector)

	flash := notice.NewFlash(security.NewMessageSanitizer(), cfg.CookieSecure)
	renderer, err := handler.NewRenderer(flash, slog.Default())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load templates: %w", err)
	}

	rateLimiter := middleware.NewRateLimiter(
		middleware.RateLimiterConfigPerMinute(cfg.RateLimitGeneral, cfg.RateLimitSubmit),
	)

	deps := &handler.RouterDeps{
		Backend:  client,
		Renderer: renderer,
		Logger:   slog.Default(),

		Session: middleware.SessionConfig{
			Cookie: tokenstore.CookieConfig{
				Name:   cfg.TokenCookieName,
				Domain: cfg.CookieDomain,
				Secure: cfg.CookieSecure,
				MaxAge: cfg.TokenMaxAge,
			},
			Authenticator: client,
			Metrics:       collector,
			Logger:        slog.Default(),
		},
		CSRF: middleware.CSRFConfig{
			CookieSecure: cfg.CookieSecure,
			CookieDomain: cfg.CookieDomain,
		},
		RateLimiter:   rateLimiter,
		InFlight:      middleware.NewInFlight(),
		TrailingSlash: cfg.TrailingSlash,

		Routes:         guard.DefaultTable(),
		Metrics:        collector,
		MetricsHandler: metrics.Handler(reg),
	}

	return handler.NewRouter(deps), rateLimiter.Stop, nil
}

// runServe はWebサーバーモードで起動する。
// 全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router, stopBackground, err := NewServerHandler(cfg, reg)
	if err != nil {
		return err
	}
	defer stopBackground()

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("web server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	select {
	case <-stop:
	case err := <-serveErr:
		return fmt.Errorf("server listen error: %w", err)
	}
	slog.Info("shutting down web server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("web server stopped gracefully")
	return nil
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
