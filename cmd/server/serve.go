package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"liyu1981.xyz/device-health-service/pkg/auth"
	"liyu1981.xyz/device-health-service/pkg/cache"
	"liyu1981.xyz/device-health-service/pkg/common"
	dhGrpc "liyu1981.xyz/device-health-service/pkg/grpc"
	"liyu1981.xyz/device-health-service/pkg/health"
	dhHttp "liyu1981.xyz/device-health-service/pkg/http"
	"liyu1981.xyz/device-health-service/pkg/notify"
	"liyu1981.xyz/device-health-service/pkg/quiz"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and gRPC servers",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("http-addr", "", "HTTP listen address, overrides server.http_addr")
	serveCmd.Flags().String("grpc-addr", "", "gRPC listen address, overrides server.grpc_addr; \"-\" disables gRPC")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := common.GetLogger()

	if addr, _ := cmd.Flags().GetString("http-addr"); addr != "" {
		cfg.Server.HTTPAddr = addr
	}
	if addr, _ := cmd.Flags().GetString("grpc-addr"); addr != "" {
		cfg.Server.GRPCAddr = addr
	}

	dbInstance, err := openDatabase()
	if err != nil {
		return err
	}
	defer dbInstance.Close()

	healthCore := &health.Health{
		Db:       *dbInstance,
		Analyzer: quiz.NewAnalyzer(nil, cfg.Quiz.Timeout),
	}

	if cfg.Quiz.GeminiAPIKey != "" {
		delegate, err := quiz.NewGeminiDelegate(cmd.Context(), cfg.Quiz.GeminiAPIKey, cfg.Quiz.Model)
		if err != nil {
			return err
		}
		defer delegate.Close()
		healthCore.Analyzer.Delegate = delegate
		logger.Info("Quiz analysis delegated", zap.String("model", cfg.Quiz.Model))
	}

	if cfg.Redis.Addr != "" {
		settingsCache, err := cache.NewRedisSettingsCache(cache.Options{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			PoolSize:    cfg.Redis.PoolSize,
			DialTimeout: cfg.Redis.DialTimeout,
			TTL:         cfg.Redis.TTL,
		})
		if err != nil {
			return err
		}
		defer settingsCache.Close()
		healthCore.SettingsCache = settingsCache
		logger.Info("Settings cache enabled", zap.String("redis_addr", cfg.Redis.Addr))
	}

	notifier, err := openNotifier()
	if err != nil {
		return err
	}
	defer notifier.Close()
	healthCore.Notifier = notifier

	healthCore.WithDefaultServices()

	var authenticator *auth.Authenticator
	if cfg.Auth.Secret != "" {
		if authenticator, err = auth.NewAuthenticator(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL); err != nil {
			return err
		}
	} else {
		logger.Warn("auth.secret is not set, centro admin API will reject every request")
	}

	defaultLimiter := zap.String("default_limiter",
		fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", cfg.Limiter.Rate, cfg.Limiter.Burst))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)

	var grpcServer *grpc.Server
	if cfg.Server.GRPCAddr != "" && cfg.Server.GRPCAddr != "-" {
		dhGrpcServer := &dhGrpc.DeviceHealthServer{
			Health:           healthCore,
			RateLimiterStore: health.NewRateLimiterStore(rate.Limit(cfg.Limiter.Rate), cfg.Limiter.Burst),
		}
		interceptor := dhGrpcServer.CreateRateLimitInterceptor(dhGrpc.AllMethods())
		grpcServer = grpc.NewServer(grpc.UnaryInterceptor(interceptor))
		dhGrpc.RegisterDeviceHealthServiceServer(grpcServer, dhGrpcServer)
		logger.Info("gRPC server created with:", defaultLimiter)

		listener, err := net.Listen("tcp", cfg.Server.GRPCAddr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", cfg.Server.GRPCAddr, err)
		}

		go func() {
			logger.Info("Starting gRPC server on: " + cfg.Server.GRPCAddr)
			if err := grpcServer.Serve(listener); err != nil {
				errCh <- fmt.Errorf("grpc server failed to serve: %w", err)
			}
		}()
	}

	if common.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	rs := &dhHttp.RestfulServer{
		Server:           gin.Default(),
		Health:           healthCore,
		RateLimiterStore: health.NewRateLimiterStore(rate.Limit(cfg.Limiter.Rate), cfg.Limiter.Burst),
		Auth:             authenticator,
	}
	rs.Setup()
	logger.Info("http server created with:", defaultLimiter)

	httpServer := &http.Server{
		Addr:         cfg.Server.HTTPAddr,
		Handler:      rs.Server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("Starting HTTP server on: " + cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server failed to serve: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	case serveErr = <-errCh:
		logger.Error("Server stopped", zap.Error(serveErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown", zap.Error(err))
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}

	logger.Info("Server shutdown complete")
	return serveErr
}

// openNotifier fans out to every configured channel, or does nothing when
// none is configured.
func openNotifier() (notify.Dispatcher, error) {
	var dispatchers []notify.Dispatcher

	if cfg.MQTT.BrokerURL != "" {
		mqttDispatcher, err := notify.NewMQTTDispatcher(notify.MQTTOptions{
			BrokerURL:      cfg.MQTT.BrokerURL,
			ClientID:       cfg.MQTT.ClientID,
			Username:       cfg.MQTT.Username,
			Password:       cfg.MQTT.Password,
			TopicPrefix:    cfg.MQTT.TopicPrefix,
			QoS:            cfg.MQTT.QoS,
			ConnectTimeout: cfg.MQTT.ConnectTimeout,
		})
		if err != nil {
			return nil, err
		}
		dispatchers = append(dispatchers, mqttDispatcher)
	}

	if cfg.ServiceBus.ConnectionString != "" {
		sbDispatcher, err := notify.NewServiceBusDispatcher(cfg.ServiceBus.ConnectionString, cfg.ServiceBus.QueueName)
		if err != nil {
			_ = notify.Combine(dispatchers...).Close()
			return nil, err
		}
		dispatchers = append(dispatchers, sbDispatcher)
	}

	return notify.Combine(dispatchers...), nil
}
