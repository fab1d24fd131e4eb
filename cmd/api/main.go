package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/patrocinios/internal/config"
	"github.com/xavierca1/patrocinios/internal/entity"
	"github.com/xavierca1/patrocinios/internal/infra/database"
	"github.com/xavierca1/patrocinios/internal/infra/http/handlers"
	"github.com/xavierca1/patrocinios/internal/infra/mail"
	"github.com/xavierca1/patrocinios/internal/infra/queue"
	"github.com/xavierca1/patrocinios/internal/infra/store/firestore"
	"github.com/xavierca1/patrocinios/internal/infra/store/memory"
	redisstore "github.com/xavierca1/patrocinios/internal/infra/store/redis"
	"github.com/xavierca1/patrocinios/internal/infra/worker"
	"github.com/xavierca1/patrocinios/internal/logger"
	"github.com/xavierca1/patrocinios/internal/usecase"
)

// backends guarda as conexões abertas pelo store escolhido, para o health check
// e para o shutdown.
type backends struct {
	store entity.DocumentStore
	db    *sql.DB
	redis *redis.Client
}

func (b *backends) Close() {
	if b.db != nil {
		b.db.Close()
	}
	if b.redis != nil {
		b.redis.Close()
	}
}

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuração inválida: %v", err)
	}

	zapLogger, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "patrocinios-api")
	if err != nil {
		log.Fatalf("falha ao criar logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Store
	b, err := openStore(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("falha ao abrir store", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	defer b.Close()

	// 2. Eventos (opcional)
	var events usecase.EventPublisher
	var rabbitConn *amqp.Connection
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			zapLogger.Fatal("falha ao conectar no RabbitMQ", zap.Error(err))
		}
		defer rabbitMQ.Close()
		rabbitConn = rabbitMQ.Conn
		events = queue.NewProducer(rabbitMQ.Ch)

		activity := queue.NewWorker(rabbitMQ.Ch, queue.NewActivityRecorder(zapLogger), zapLogger)
		go func() {
			if err := activity.Start(ctx, queue.QueueName); err != nil {
				zapLogger.Error("worker de atividade parou", zap.Error(err))
			}
		}()
	} else {
		zapLogger.Info("RABBITMQ_URL vazio, eventos desabilitados")
	}

	// 3. Mail (opcional)
	var mailer handlers.DossierSender
	if cfg.MailEnabled() {
		mailer = mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From)
	}

	// 4. UseCases
	clock := usecase.SystemClock{}
	registry := usecase.NewSessionRegistry(clock)
	repo := usecase.NewSponsorRepository(b.store, cfg.Store.Collection)
	lifecycle := usecase.NewLifecycleEngine(repo, events, clock, zapLogger)
	conversations := usecase.NewConversationLog(repo, events, clock, zapLogger)

	// 5. Handlers
	router := handlers.NewRouter(handlers.RouterConfig{
		Sponsors:       handlers.NewSponsorHandler(repo, lifecycle, conversations, mailer, zapLogger),
		Sessions:       handlers.NewSessionHandler(registry, zapLogger),
		Health:         handlers.NewHealthHandler(cfg.Store.Backend, b.db, b.redis, rabbitConn),
		Registry:       registry,
		AllowedOrigins: cfg.HTTP.CORSOrigins,
		RequestLogging: true,
	})

	// 6. Workers
	go worker.NewSessionReaper(registry, cfg.SessionIdleTTL, zapLogger).Start(ctx)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLogger.Info("servidor de patrocinadores no ar",
			zap.String("addr", cfg.HTTP.Addr),
			zap.String("backend", cfg.Store.Backend),
			zap.Bool("mail", mailer != nil),
			zap.Bool("events", events != nil),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("falha no servidor HTTP", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("encerrando")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("shutdown incompleto", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) (*backends, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		zapLogger.Warn("usando store em memória, os dados somem ao reiniciar")
		return &backends{store: memory.NewStore()}, nil

	case config.BackendFirestore:
		store, err := firestore.NewStore(firestore.Config{
			BaseURL:   cfg.Firestore.BaseURL,
			ProjectID: cfg.Firestore.ProjectID,
			APIKey:    cfg.Firestore.APIKey,
			Timeout:   cfg.Store.Timeout,
		}, zapLogger)
		if err != nil {
			return nil, err
		}
		return &backends{store: store}, nil

	case config.BackendPostgres:
		db, err := database.NewDBConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &backends{store: database.NewDocumentStore(db, cfg.Store.Timeout), db: db}, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("falha ao conectar no Redis: %w", err)
		}
		return &backends{store: redisstore.NewStore(client, redisstore.DefaultPrefix, cfg.Store.Timeout), redis: client}, nil
	}
	return nil, fmt.Errorf("backend desconhecido: %s", cfg.Store.Backend)
}
