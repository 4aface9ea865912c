package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"liyu1981.xyz/battery-fleet-service/pkg/common"
	"liyu1981.xyz/battery-fleet-service/pkg/config"
	"liyu1981.xyz/battery-fleet-service/pkg/db"
	"liyu1981.xyz/battery-fleet-service/pkg/events"
	"liyu1981.xyz/battery-fleet-service/pkg/fleet"
	fleetGrpc "liyu1981.xyz/battery-fleet-service/pkg/grpc"
	fleetHttp "liyu1981.xyz/battery-fleet-service/pkg/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		if common.IsDevelopment() {
			log.Fatal("Error loading config, copy .env.example to .env and adjust it: ", err)
		}
		log.Fatal("Error loading config: ", err)
	}

	if common.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.DB.Type == "file" {
		// a path from the yaml file only reaches the sqlite dialector through the env
		_ = os.Setenv(common.EnvKeyFleetDbPath, cfg.DB.Path)
	}
	dialector, ok := db.UseDialector(cfg.DB.Type, cfg.DB.DSN)
	if !ok {
		log.Fatal("Unknown " + common.EnvKeyFleetDBType + ": " + cfg.DB.Type)
	}
	dbInstance := db.GetInstance(dialector)

	logger := common.GetLogger()
	defer common.SyncLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub, publisher, closeEvents := setupEvents(cfg, logger)
	defer closeEvents()

	fleetCore := (&fleet.Fleet{
		Db:     *dbInstance,
		Events: publisher,
	}).WithDefaultServices()

	defaultRate := rate.Limit(cfg.Limiter.Rate)
	defaultBurst := cfg.Limiter.Burst
	// one store for both surfaces, a battery's budget is shared across http and grpc
	limiterStore := fleet.NewRateLimiterStore(defaultRate, defaultBurst)
	limiterField := zap.String("default_limiter",
		fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", cfg.Limiter.Rate, cfg.Limiter.Burst))

	if cfg.GrpcHostPort != "" {
		logger.Info("Starting gRPC server on port " + cfg.GrpcHostPort)
		go func() {
			fleetGrpcServer := fleetGrpc.BatteryFleetServer{
				Fleet:            fleetCore,
				RateLimiterStore: limiterStore,
			}
			interceptor := fleetGrpcServer.CreateRateLimitInterceptor(fleetGrpc.RateLimitedMethods)
			s := grpc.NewServer(grpc.UnaryInterceptor(interceptor))
			fleetGrpc.RegisterBatteryFleetServer(s, &fleetGrpcServer)
			logger.Info("gRPC server created with:", limiterField)

			listener, err := net.Listen("tcp", cfg.GrpcHostPort)
			if err != nil {
				log.Fatalf("failed to listen: %v", err)
			}

			go func() {
				<-ctx.Done()
				s.GracefulStop()
			}()

			logger.Info("start gRPC server on " + cfg.GrpcHostPort)
			if err := s.Serve(listener); err != nil {
				log.Fatalf("grpc server failed to serve: %v", err)
			}
		}()
	}

	if cfg.TickInterval > 0 {
		go runTicker(ctx, fleetCore, cfg.TickInterval, logger)
	}

	rs := &fleetHttp.RestfulServer{
		Server:           gin.Default(),
		Fleet:            fleetCore,
		RateLimiterStore: limiterStore,
		Hub:              hub,
	}
	rs.Setup()

	logger.Info("http server created with:", limiterField)

	httpServer := &http.Server{Addr: cfg.HttpHostPort, Handler: rs.Server}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("Starting HTTP server on: " + cfg.HttpHostPort)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("http server failed to serve: %v", err)
	}
	logger.Info("Server stopped")
}

// setupEvents wires every configured sink. Sinks that cannot connect are
// logged and left out, the service runs without them.
func setupEvents(cfg *config.Config, logger *zap.Logger) (*events.Hub, events.Publisher, func()) {
	var hub *events.Hub
	sinks := events.Multi{}
	closers := []func(){}

	if cfg.Events.Websocket {
		hub = events.NewHub()
		sinks = append(sinks, hub)
	}

	if cfg.Events.RedisAddr != "" {
		publisher, err := events.NewRedisPublisher(cfg.Events.RedisAddr, cfg.Events.RedisChannel)
		if err != nil {
			logger.Error("Failed to connect redis event sink", zap.String("addr", cfg.Events.RedisAddr), zap.Error(err))
		} else {
			logger.Info("Publishing events to redis", zap.String("channel", cfg.Events.RedisChannel))
			sinks = append(sinks, publisher)
			closers = append(closers, func() { _ = publisher.Close() })
		}
	}

	if cfg.Events.MQTTBroker != "" {
		clientID := "battery-fleet-" + uuid.NewString()[:8]
		publisher, err := events.NewMQTTPublisher(cfg.Events.MQTTBroker, clientID, cfg.Events.MQTTTopic)
		if err != nil {
			logger.Error("Failed to connect mqtt event sink", zap.String("broker", cfg.Events.MQTTBroker), zap.Error(err))
		} else {
			logger.Info("Publishing events to mqtt", zap.String("topic", cfg.Events.MQTTTopic))
			sinks = append(sinks, publisher)
			closers = append(closers, publisher.Close)
		}
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if len(sinks) == 0 {
		return nil, events.Nop{}, closeAll
	}
	return hub, sinks, closeAll
}

func runTicker(ctx context.Context, fleetCore *fleet.Fleet, interval time.Duration, logger *zap.Logger) {
	logger.Info("Simulation ticker started", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if _, err := fleetCore.Simulation.Tick(now); err != nil {
				logger.Error("Simulation tick failed", zap.Error(err))
			}
		}
	}
}
