package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain"
	mysqlRepo "github.com/Guyuepp/Go-Clean-Architecture-Novel/internal/repository/mysql"
	"github.com/Guyuepp/Go-Clean-Architecture-Novel/internal/repository/mysql/model"
	myRedisCache "github.com/Guyuepp/Go-Clean-Architecture-Novel/internal/repository/redis"
	"github.com/Guyuepp/Go-Clean-Architecture-Novel/internal/rest"
	"github.com/Guyuepp/Go-Clean-Architecture-Novel/internal/rest/middleware"
	"github.com/Guyuepp/Go-Clean-Architecture-Novel/internal/usecase/ranking"
	"github.com/Guyuepp/Go-Clean-Architecture-Novel/internal/usecase/vote"
	"github.com/Guyuepp/Go-Clean-Architecture-Novel/internal/workers"
)

const (
	defaultTimeout            = 30
	defaultAddress            = ":9090"
	defaultCacheDB            = 0
	defaultRankingCacheTTLSec = 60
	defaultToggleRateLimit    = 30
	defaultToggleRateWindow   = 60
	dbMaxRetry                = 10
	dbRetryIntervalSec        = 2
)

func init() {
	// 没有 .env 时直接使用环境变量
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file loaded, using process environment")
	}
}

// envInt reads an integer variable, falling back to def when unset or malformed.
func envInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		logrus.Warnf("failed to parse %s=%q, using default %d", key, raw, def)
		return def
	}
	return v
}

func setupLogger() {
	if os.Getenv("LOG_FORMAT") == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.Warnf("unknown LOG_LEVEL %q, keeping %s", lvl, logrus.GetLevel())
			return
		}
		logrus.SetLevel(level)
	}
}

func openDB(dsn string) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	for i := range dbMaxRetry {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
		if err != nil {
			logrus.Warnf("failed to open connection to database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
		} else {
			sqlDB, dbErr := db.DB()
			if dbErr != nil {
				err = dbErr
				logrus.Warnf("failed to get sql.DB from gorm.DB (attempt %d/%d): %v", i+1, dbMaxRetry, err)
			} else if err = sqlDB.Ping(); err == nil {
				return db, nil
			} else {
				logrus.Warnf("failed to ping database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
				_ = sqlDB.Close()
			}
		}
		time.Sleep(dbRetryIntervalSec * time.Second)
	}
	return nil, err
}

func main() {
	setupLogger()

	//prepare database
	dbHost := os.Getenv("DATABASE_HOST")
	dbPort := os.Getenv("DATABASE_PORT")
	dbUser := os.Getenv("DATABASE_USER")
	dbPass := os.Getenv("DATABASE_PASS")
	dbName := os.Getenv("DATABASE_NAME")
	connection := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", dbUser, dbPass, dbHost, dbPort, dbName)
	val := url.Values{}
	val.Add("parseTime", "1")
	val.Add("loc", "Local")
	dsn := fmt.Sprintf("%s?%s", connection, val.Encode())

	db, err := openDB(dsn)
	if err != nil {
		logrus.Fatalf("could not connect to database after retries: %v", err)
	}
	defer func() {
		sqlDB, err := db.DB()
		if err != nil {
			logrus.Errorf("got error when getting sql.DB from gorm.DB: %v", err)
			return
		}
		if err := sqlDB.Close(); err != nil {
			logrus.Errorf("got error when closing the DB connection: %v", err)
		}
	}()

	if os.Getenv("DB_AUTO_MIGRATE") == "true" {
		if err := db.AutoMigrate(&model.Vote{}, &model.NovelVoteAggregate{}); err != nil {
			logrus.Fatalf("failed to migrate vote tables: %v", err)
		}
	}

	// prepare cache
	client := redis.NewClient(&redis.Options{
		Addr:     os.Getenv("CACHE_HOST") + ":" + os.Getenv("CACHE_PORT"),
		Password: os.Getenv("CACHE_PASS"),
		DB:       envInt("CACHE_DB", defaultCacheDB),
	})
	defer func() {
		if err := client.Close(); err != nil {
			logrus.Errorf("got error when closing the cache connection: %v", err)
		}
	}()
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		// 缓存与限流都允许降级，不阻止启动
		logrus.Warnf("failed to ping cache, rankings will be computed uncached: %v", err)
	}

	// prepare gin
	route := gin.Default()
	route.Use(middleware.CORS())
	route.Use(middleware.Prometheus())
	timeoutContext := time.Duration(envInt("CONTEXT_TIMEOUT", defaultTimeout)) * time.Second
	route.Use(middleware.SetRequestContextWithTimeout(timeoutContext))

	// Prepare Repository
	voteRepo := mysqlRepo.NewVoteRepository(db)
	novelRepo := mysqlRepo.NewNovelRepository(db)
	userRepo := mysqlRepo.NewUserRepository(db)
	categoryRepo := mysqlRepo.NewCategoryRepository(db)
	rankingCache := myRedisCache.NewRankingCache(client)
	throttle := myRedisCache.NewToggleThrottle(client,
		int64(envInt("TOGGLE_RATE_LIMIT", defaultToggleRateLimit)),
		time.Duration(envInt("TOGGLE_RATE_WINDOW_SEC", defaultToggleRateWindow))*time.Second)

	// Start worker
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reconciler := workers.NewReconcileWorker(voteRepo, voteRepo,
		time.Duration(envInt("RECONCILE_INTERVAL_SEC", int(workers.DefaultReconcileInterval/time.Second)))*time.Second)
	wg := startWorkers(ctx, reconciler)

	// Build service Layer
	voteSvc := vote.NewService(voteRepo, voteRepo, novelRepo, userRepo, throttle, reconciler, vote.Config{
		MaxAttempts: envInt("VOTE_MAX_ATTEMPTS", vote.DefaultMaxAttempts),
		RetryBase:   time.Duration(envInt("VOTE_RETRY_BASE_MS", int(vote.DefaultRetryBase/time.Millisecond))) * time.Millisecond,
	})
	rankingSvc := ranking.NewService(
		mysqlRepo.NewNovelRankSource(db),
		mysqlRepo.NewAuthorRankSource(db),
		mysqlRepo.NewUserRankSource(db),
		categoryRepo,
		rankingCache,
		ranking.Config{
			CacheTTL:    time.Duration(envInt("RANKING_CACHE_TTL_SEC", defaultRankingCacheTTLSec)) * time.Second,
			MaxPageSize: envInt("RANKING_MAX_PAGE_SIZE", 0),
		},
	)
	voteHandler := rest.NewVoteHandler(voteSvc)
	rankingHandler := rest.NewRankingHandler(rankingSvc)

	// Register routes
	route.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	route.GET("/metrics", gin.WrapH(promhttp.Handler()))

	route.GET("/novels/:id/votes", voteHandler.GetVoteStats)
	route.GET("/rankings/novels", rankingHandler.RankNovels)
	route.GET("/rankings/authors", rankingHandler.RankAuthors)
	route.GET("/rankings/users", rankingHandler.RankUsers)

	authorized := route.Group("/")
	authorized.Use(middleware.UserIdentity())
	{
		authorized.POST("/novels/:id/votes/toggle", voteHandler.ToggleVote)
		authorized.GET("/novels/:id/votes/status", voteHandler.GetVoteStatus)
	}

	// Start Server
	address := os.Getenv("SERVER_ADDRESS")
	if address == "" {
		address = defaultAddress
	}
	srv := &http.Server{
		Addr:    address,
		Handler: route,
	}
	go func() {
		logrus.Infof("Server is running on %s", address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("listen: %s", err) // nolint
		}
	}()

	// shutdown
	<-ctx.Done()
	logrus.Info("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// worker 退出前会把剩余任务刷完，等它结束再关闭 DB 和 Redis
	logrus.Info("Waiting for workers to cleanup...")
	wg.Wait()

	logrus.Info("Server exiting")
}

// startWorkers runs every worker until ctx is done. The returned group is
// released once all of them have returned.
func startWorkers(ctx context.Context, ws ...domain.ReconcileWorker) *sync.WaitGroup {
	var wg sync.WaitGroup
	for _, w := range ws {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Start(ctx)
		}()
	}
	return &wg
}
