package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	v1 "github.com/thesrcielos/CodeClash/api/v1"
	"github.com/thesrcielos/CodeClash/internal/battle"
	"github.com/thesrcielos/CodeClash/internal/challenge"
	"github.com/thesrcielos/CodeClash/internal/config"
	"github.com/thesrcielos/CodeClash/internal/dashboard"
	"github.com/thesrcielos/CodeClash/internal/events"
	"github.com/thesrcielos/CodeClash/internal/game"
	"github.com/thesrcielos/CodeClash/internal/prompt"
	"github.com/thesrcielos/CodeClash/internal/scheduler"
	"github.com/thesrcielos/CodeClash/internal/user"
	"github.com/thesrcielos/CodeClash/pkg/db"
	applogger "github.com/thesrcielos/CodeClash/pkg/logger"
	"github.com/thesrcielos/CodeClash/websocket"
	"github.com/thesrcielos/CodeClash/websocket/router"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("File .env not found, using system values")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := applogger.New(cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("error building logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Init(cfg.Database, cfg.IsDevelopment())
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}
	err = database.AutoMigrate(
		&user.User{},
		&prompt.Prompt{},
		&game.Session{},
		&game.Round{},
		&battle.Lobby{},
		&battle.Battle{},
		&battle.BattleRound{},
	)
	if err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	rdb, err := db.InitRedis(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Fatal("redis init failed", zap.Error(err))
	}

	var notifier battle.Notifier = battle.NewLocalNotifier()
	var schedulerOpts []gocron.SchedulerOption
	if rdb != nil {
		defer rdb.Close()
		redisNotifier := battle.NewRedisNotifier(rdb, logger)
		if err := redisNotifier.Subscribe(ctx); err != nil {
			logger.Fatal("redis subscribe failed", zap.Error(err))
		}
		notifier = redisNotifier
		elector := scheduler.NewRedisElector(rdb, cfg.InstanceID, 2*cfg.LobbySweepInterval)
		schedulerOpts = append(schedulerOpts, gocron.WithDistributedElector(elector))
	} else {
		logger.Info("redis not configured, notifications stay on this instance")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		writer := events.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer writer.Close()
		publisher = events.NewKafkaPublisher(writer, logger)
		logger.Info("publishing match events", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	ai := challenge.NewService(challenge.NewClient(cfg.AI, logger), logger)
	prompts := prompt.NewPromptService(prompt.NewPromptRepository(database), logger)
	users := user.NewUserService(user.NewUserRepository(database))
	games := game.NewGameService(database, ai, ai, prompts, publisher, logger)
	lobbies := battle.NewLobbyService(database, notifier, logger)
	battles := battle.NewBattleService(database, ai, ai, prompts, notifier, publisher, logger)
	dash := dashboard.NewDashboardService(database, logger)

	sched, err := scheduler.New(lobbies, cfg.LobbySweepInterval, cfg.LobbyIdleTTL, logger, schedulerOpts...)
	if err != nil {
		logger.Fatal("scheduler init failed", zap.Error(err))
	}
	sched.Start()

	e := echo.New()
	e.HideBanner = true
	e.Validator = v1.NewValidator()
	e.HTTPErrorHandler = v1.HTTPErrorHandler(logger)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			logger.Info("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: cfg.CORSOrigins}))

	v1.RegisterRoutes(e.Group("/api/v1"), v1.Handlers{
		Users:   v1.NewUserHandler(users),
		Games:   v1.NewGameHandler(games),
		Lobbies: v1.NewLobbyHandler(lobbies),
		Battles: v1.NewBattleHandler(battles),
		Admin:   v1.NewAdminHandler(users, prompts, dash),
	})

	ws := websocket.NewHandler(router.NewRouter(lobbies, battles, logger), logger)
	e.GET("/ws", ws.WebSocketHandler)

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("instance", cfg.InstanceID))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	if err := sched.Shutdown(); err != nil {
		logger.Error("scheduler shutdown failed", zap.Error(err))
	}
}
