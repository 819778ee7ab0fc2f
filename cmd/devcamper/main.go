package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	bootcampApp "github.com/davicafu/devcamper/internal/bootcamp/application"
	bootcampEvents "github.com/davicafu/devcamper/internal/bootcamp/infra/inbound/events"
	bootcampHttp "github.com/davicafu/devcamper/internal/bootcamp/infra/inbound/http"
	bootcampRepo "github.com/davicafu/devcamper/internal/bootcamp/infra/outbound/db/document"
	"github.com/davicafu/devcamper/internal/config"
	courseApp "github.com/davicafu/devcamper/internal/course/application"
	courseHttp "github.com/davicafu/devcamper/internal/course/infra/inbound/http"
	courseRepo "github.com/davicafu/devcamper/internal/course/infra/outbound/db/document"
	reviewApp "github.com/davicafu/devcamper/internal/review/application"
	reviewHttp "github.com/davicafu/devcamper/internal/review/infra/inbound/http"
	reviewRepo "github.com/davicafu/devcamper/internal/review/infra/outbound/db/document"
	infraEvents "github.com/davicafu/devcamper/internal/shared/infra/events"
	"github.com/davicafu/devcamper/internal/shared/infra/http/middleware"
	sharedBus "github.com/davicafu/devcamper/internal/shared/infra/platform/bus"
	sharedCache "github.com/davicafu/devcamper/internal/shared/infra/platform/cache"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/db/memory"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/db/mongodb"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/geo"
	sharedQuery "github.com/davicafu/devcamper/internal/shared/infra/platform/query"
	"github.com/davicafu/devcamper/internal/shared/infra/relayer"
	sharedUtils "github.com/davicafu/devcamper/internal/shared/infra/utils"
	userApp "github.com/davicafu/devcamper/internal/user/application"
	"github.com/davicafu/devcamper/internal/user/infra/auth"
	userHttp "github.com/davicafu/devcamper/internal/user/infra/inbound/http"
	userRepo "github.com/davicafu/devcamper/internal/user/infra/outbound/db/document"
	"github.com/davicafu/devcamper/pkg/logger"
	"github.com/davicafu/devcamper/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const geocodeCacheTTL = 24 * 60 * 60

// repositories agrupa los adaptadores de persistencia del backend elegido.
type repositories struct {
	users     *userRepo.UserRepo
	bootcamps *bootcampRepo.BootcampRepo
	courses   *courseRepo.CourseRepo
	reviews   *reviewRepo.ReviewRepo
	outbox    *relayer.OutboxRepo
	close     func(context.Context) error
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

// ---------------- Main ----------------
func main() {
	cfg, err := config.LoadConfig(config.DefaultFile)
	if err != nil {
		panic(err)
	}

	logger.Init(cfg.LogLevel, cfg.AppEnv)
	log := logger.Logger()

	// run devuelve después de ejecutar todos sus defers (storage, kafka, cache).
	if err := run(cfg, log); err != nil {
		log.Error("devcamper stopped", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---------------- DB ----------------
	execOpts := []sharedQuery.ExecOption{sharedQuery.WithFilteredTotal(cfg.PaginationFilteredTotal)}
	repos, err := openRepositories(ctx, cfg, execOpts, log)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := repos.close(context.Background()); err != nil {
			log.Warn("failed to close storage", zap.Error(err))
		}
	}()

	for _, idx := range []indexer{repos.users, repos.bootcamps, repos.courses, repos.reviews, repos.outbox} {
		if err := idx.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("ensure indexes: %w", err)
		}
	}

	// ---------------- Cache ----------------
	var cacheInstance sharedCache.Cache
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unavailable, using in-memory cache", zap.Error(err))
		memCache := sharedCache.NewInMemoryCache(cfg.CacheTTL, 3*cfg.CacheTTL)
		defer memCache.Stop()
		cacheInstance = memCache
	} else {
		defer rdb.Close()
		cacheInstance = sharedCache.NewRedisCache(rdb, cfg.CacheTTL)
		log.Info("Redis connected, cache enabled")
	}

	// ---------------- Events ---------------
	// El bus se crea antes que los servicios; los consumidores se arrancan después.
	var eventBus sharedBus.EventBus
	var startConsumer func(handler infraEvents.MessageHandler)

	if cfg.UseKafka {
		writer := &kafka.Writer{
			Addr:     kafka.TCP(cfg.KafkaBrokers...),
			Topic:    cfg.KafkaTopic,
			Balancer: &kafka.Hash{},
		}
		publisher := infraEvents.NewKafkaPublisher(writer, log)
		defer publisher.Close()
		eventBus = publisher

		startConsumer = func(handler infraEvents.MessageHandler) {
			reader := kafka.NewReader(kafka.ReaderConfig{
				Brokers:  cfg.KafkaBrokers,
				Topic:    cfg.KafkaTopic,
				GroupID:  cfg.KafkaGroupID,
				MinBytes: 1,
				MaxBytes: 10e6, // 10MB
			})
			infraEvents.NewConsumerAdapter(reader, handler, log).Start(ctx)
		}
	} else {
		memBus := infraEvents.NewInMemoryEventBus(cfg.KafkaTopic)
		defer memBus.Close()
		eventBus = memBus
		log.Debug("Kafka disabled, events stay in process", zap.String("topic", memBus.Topic()))

		startConsumer = func(handler infraEvents.MessageHandler) {
			infraEvents.BackgroundConsumerChan(ctx, memBus.Subscribe(100), handler, log)
		}
	}
	// Los servicios publican a través del outbox; el worker reintenta con el bus real.
	go relayer.NewOutboxWorker(repos.outbox, eventBus, cfg.OutboxPeriod, cfg.OutboxLimit, log).Start(ctx)
	servicesBus := relayer.NewOutboxPublisher(eventBus, repos.outbox, log)
	busKind := "in-memory"
	if cfg.UseKafka {
		busKind = "kafka"
	}
	log.Info("Event bus ready", zap.String("kind", busKind), zap.String("topic", cfg.KafkaTopic))

	// --------------- Servicios --------------
	bootcampOpts := []bootcampApp.Option{
		bootcampApp.WithStats(repos.courses, repos.reviews),
		bootcampApp.WithDependents(repos.courses, repos.reviews),
	}
	if cfg.GeocoderAPIKey != "" {
		mapQuest := geo.NewMapQuestGeocoder(cfg.GeocoderAPIKey, cfg.GeocoderBaseURL, cfg.GeocoderTimeout)
		bootcampOpts = append(bootcampOpts, bootcampApp.WithGeocoder(geo.NewCachedGeocoder(mapQuest, cacheInstance, geocodeCacheTTL, log)))
	} else {
		log.Warn("GEOCODER_API_KEY not set: addresses are not geocoded and radius search is disabled")
	}

	bootcampService := bootcampApp.NewBootcampService(repos.bootcamps, cacheInstance, log, bootcampOpts...)
	courseService := courseApp.NewCourseService(repos.courses, bootcampService, servicesBus, log)
	reviewService := reviewApp.NewReviewService(repos.reviews, bootcampService, servicesBus, log)
	userService := userApp.NewUserService(repos.users, cacheInstance, log)
	authService := userApp.NewAuthService(repos.users, userService, auth.NewJWTIssuer(cfg.JWTSecret, cfg.JWTExpire), log)

	startConsumer(bootcampEvents.NewStatsConsumer(bootcampService, log))

	// ---------------- HTTP ----------------
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 10*time.Minute)
	limiter.StartCleanupLoop(time.Minute, ctx.Done())

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		middleware.CORS(cfg.CORSAllowedOrigins),
		limiter.Middleware(),
	)
	protect := middleware.Protect(authService, log)

	api := router.Group("/api/v1")
	bootcampHttp.RegisterBootcampRoutes(api, bootcampHttp.NewBootcampHandler(bootcampService, log), protect, log)
	courseHttp.RegisterCourseRoutes(api, courseHttp.NewCourseHandler(courseService, log), protect, log)
	reviewHttp.RegisterReviewRoutes(api, reviewHttp.NewReviewHandler(reviewService, log), protect, log)
	cookie := userHttp.CookieConfig{ExpireDays: cfg.JWTCookieExpireDays, Secure: cfg.IsProduction()}
	userHttp.RegisterAuthRoutes(api, userHttp.NewAuthHandler(authService, cookie, log), protect)
	userHttp.RegisterUserRoutes(api, userHttp.NewUserHandler(userService, log), protect, log)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.NoRoute(func(c *gin.Context) {
		utils.SendNotFound(c, "route not found: "+c.Request.URL.Path)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Sugar().Infof("Server running in %s mode on port %s (storage: %s)", cfg.AppEnv, cfg.HTTPPort, cfg.Storage)
	if err := serve(ctx, srv, log); err != nil {
		// Cancela worker y consumidores antes de los defers.
		stop()
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// serve atiende hasta que ctx se cancela (apagado ordenado, devuelve nil) o hasta que
// ListenAndServe falla, en cuyo caso devuelve ese error sin salir del proceso.
func serve(ctx context.Context, srv *http.Server, log *zap.Logger) error {
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	return nil
}

// openRepositories construye los repositorios sobre MongoDB o sobre el almacén en memoria.
func openRepositories(ctx context.Context, cfg *config.Config, opts []sharedQuery.ExecOption, log *zap.Logger) (*repositories, error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn("Using in-memory document store, data is lost on restart")
		db := memory.NewDatabase()
		return &repositories{
			users:     userRepo.NewUserRepoMemory(db, opts...),
			bootcamps: bootcampRepo.NewBootcampRepoMemory(db, opts...),
			courses:   courseRepo.NewCourseRepoMemory(db, opts...),
			reviews:   reviewRepo.NewReviewRepoMemory(db, opts...),
			outbox:    relayer.NewOutboxRepoMemory(db),
			close:     func(context.Context) error { return nil },
		}, nil
	}

	var client *mongo.Client
	err := sharedUtils.Retry(ctx, 3, 2*time.Second, func() error {
		c, err := mongodb.Connect(ctx, cfg.MongoURI, 10*time.Second)
		if err != nil {
			log.Warn("MongoDB not reachable yet", zap.Error(err))
			return err
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info("MongoDB connected", zap.String("database", cfg.MongoDatabase))

	db := client.Database(cfg.MongoDatabase)
	return &repositories{
		users:     userRepo.NewUserRepoMongo(db, opts...),
		bootcamps: bootcampRepo.NewBootcampRepoMongo(db, opts...),
		courses:   courseRepo.NewCourseRepoMongo(db, opts...),
		reviews:   reviewRepo.NewReviewRepoMongo(db, opts...),
		outbox:    relayer.NewOutboxRepoMongo(db),
		close:     client.Disconnect,
	}, nil
}
