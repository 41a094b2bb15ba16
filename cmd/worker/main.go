// Command worker consumes thumbnail jobs from the queue and writes scaled
// copies next to the originals. It shares the datastore and queue settings
// with the API server so the two can run side by side.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/OliverMaketso/alx-files-manager/internal/observability/logging"
	"github.com/OliverMaketso/alx-files-manager/internal/queue"
	"github.com/OliverMaketso/alx-files-manager/internal/storage"
	"github.com/OliverMaketso/alx-files-manager/internal/thumbnail"
)

func main() {
	dataPathFlag := flag.String("data", "", "path to the JSON data file (overrides FILES_MANAGER_DATA_PATH)")
	storageDriverFlag := flag.String("storage-driver", "", "storage driver: json or postgres (overrides FILES_MANAGER_STORAGE_DRIVER)")
	postgresDSNFlag := flag.String("postgres-dsn", "", "PostgreSQL connection string (overrides FILES_MANAGER_POSTGRES_DSN and DATABASE_URL)")
	redisAddrFlag := flag.String("redis-addr", "", "Redis address host:port (overrides FILES_MANAGER_REDIS_ADDR)")
	redisAddrsFlag := flag.String("redis-addrs", "", "comma separated Redis addresses for failover setups (overrides FILES_MANAGER_REDIS_ADDRS)")
	redisUsernameFlag := flag.String("redis-username", "", "Redis username (overrides FILES_MANAGER_REDIS_USERNAME)")
	redisPasswordFlag := flag.String("redis-password", "", "Redis password (overrides FILES_MANAGER_REDIS_PASSWORD)")
	redisMasterFlag := flag.String("redis-master", "", "Redis sentinel master name (overrides FILES_MANAGER_REDIS_MASTER)")
	redisTLSCAFlag := flag.String("redis-tls-ca", "", "path to the Redis TLS CA bundle (overrides FILES_MANAGER_REDIS_TLS_CA)")
	redisTLSCertFlag := flag.String("redis-tls-cert", "", "path to the Redis TLS client certificate (overrides FILES_MANAGER_REDIS_TLS_CERT)")
	redisTLSKeyFlag := flag.String("redis-tls-key", "", "path to the Redis TLS client key (overrides FILES_MANAGER_REDIS_TLS_KEY)")
	redisTLSServerNameFlag := flag.String("redis-tls-server-name", "", "expected Redis TLS server name (overrides FILES_MANAGER_REDIS_TLS_SERVER_NAME)")
	redisTLSInsecureFlag := flag.Bool("redis-tls-insecure", false, "skip Redis TLS certificate verification (overrides FILES_MANAGER_REDIS_TLS_INSECURE)")
	queueStreamFlag := flag.String("queue-stream", "", "Redis stream for thumbnail jobs (overrides FILES_MANAGER_QUEUE_STREAM)")
	queueGroupFlag := flag.String("queue-group", "", "Redis consumer group for thumbnail jobs (overrides FILES_MANAGER_QUEUE_GROUP)")
	queueBufferFlag := flag.Int("queue-buffer", 0, "queue delivery buffer size (overrides FILES_MANAGER_QUEUE_BUFFER)")
	consumersFlag := flag.Int("consumers", 0, "number of concurrent queue consumers (overrides FILES_MANAGER_WORKER_CONSUMERS)")
	logLevelFlag := flag.String("log-level", "", "log level: debug, info, warn or error (overrides FILES_MANAGER_LOG_LEVEL)")
	logFormatFlag := flag.String("log-format", "", "log format: json or text (overrides FILES_MANAGER_LOG_FORMAT)")
	flag.Parse()

	logger := logging.Init(logging.Config{
		Level:  firstNonEmpty(*logLevelFlag, os.Getenv("FILES_MANAGER_LOG_LEVEL")),
		Format: firstNonEmpty(*logFormatFlag, os.Getenv("FILES_MANAGER_LOG_FORMAT")),
	})
	logger = logging.WithComponent(logger, "worker")

	store, storeCleanup, err := openStorage(logger, firstNonEmpty(*storageDriverFlag, os.Getenv("FILES_MANAGER_STORAGE_DRIVER")),
		firstNonEmpty(*dataPathFlag, os.Getenv("FILES_MANAGER_DATA_PATH")),
		firstNonEmpty(*postgresDSNFlag, os.Getenv("FILES_MANAGER_POSTGRES_DSN"), os.Getenv("DATABASE_URL")))
	if err != nil {
		logger.Error("failed to initialise storage", "error", err)
		os.Exit(1)
	}
	defer storeCleanup()

	redisAddr := firstNonEmpty(*redisAddrFlag, os.Getenv("FILES_MANAGER_REDIS_ADDR"))
	redisAddrs := splitAndTrim(firstNonEmpty(*redisAddrsFlag, os.Getenv("FILES_MANAGER_REDIS_ADDRS")))
	if redisAddr == "" && len(redisAddrs) == 0 {
		logger.Error("redis address required", "hint", "set --redis-addr or FILES_MANAGER_REDIS_ADDR; the memory queue only exists inside the API process")
		os.Exit(1)
	}

	jobs, err := queue.NewRedisQueue(queue.RedisQueueConfig{
		Addr:       redisAddr,
		Addrs:      redisAddrs,
		Username:   firstNonEmpty(*redisUsernameFlag, os.Getenv("FILES_MANAGER_REDIS_USERNAME")),
		Password:   firstNonEmpty(*redisPasswordFlag, os.Getenv("FILES_MANAGER_REDIS_PASSWORD")),
		MasterName: firstNonEmpty(*redisMasterFlag, os.Getenv("FILES_MANAGER_REDIS_MASTER")),
		Stream:     firstNonEmpty(*queueStreamFlag, os.Getenv("FILES_MANAGER_QUEUE_STREAM")),
		Group:      firstNonEmpty(*queueGroupFlag, os.Getenv("FILES_MANAGER_QUEUE_GROUP")),
		Buffer:     resolveInt(*queueBufferFlag, os.Getenv("FILES_MANAGER_QUEUE_BUFFER")),
		Logger:     logger,
		TLS: queue.RedisTLSConfig{
			CAFile:             firstNonEmpty(*redisTLSCAFlag, os.Getenv("FILES_MANAGER_REDIS_TLS_CA")),
			CertFile:           firstNonEmpty(*redisTLSCertFlag, os.Getenv("FILES_MANAGER_REDIS_TLS_CERT")),
			KeyFile:            firstNonEmpty(*redisTLSKeyFlag, os.Getenv("FILES_MANAGER_REDIS_TLS_KEY")),
			ServerName:         firstNonEmpty(*redisTLSServerNameFlag, os.Getenv("FILES_MANAGER_REDIS_TLS_SERVER_NAME")),
			InsecureSkipVerify: *redisTLSInsecureFlag || parseBoolEnv(os.Getenv("FILES_MANAGER_REDIS_TLS_INSECURE")),
		},
	})
	if err != nil {
		logger.Error("failed to initialise thumbnail queue", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closer, ok := jobs.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				logger.Warn("failed to close thumbnail queue", "error", err)
			}
		}
	}()

	consumers := resolveInt(*consumersFlag, os.Getenv("FILES_MANAGER_WORKER_CONSUMERS"))
	if consumers <= 0 {
		consumers = 2
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker := thumbnail.NewWorker(store, thumbnail.NewGenerator(logger), logger)
	errs := make(chan error, 1)
	go func() {
		errs <- worker.Run(ctx, jobs, consumers)
	}()
	logger.Info("worker started", "consumers", consumers, "redis_addr", redisAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutdown signal received", "signal", sig.String())
		cancel()
		select {
		case err := <-errs:
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("worker stopped with error", "error", err)
			}
		case <-time.After(10 * time.Second):
			logger.Warn("worker did not stop within the shutdown window")
		}
	case err := <-errs:
		if err != nil {
			logger.Error("worker terminated unexpectedly", "error", err)
			os.Exit(1)
		}
	}
}

func openStorage(logger *slog.Logger, driver, dataPath, dsn string) (storage.Repository, func(), error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if driver == "" {
		if strings.TrimSpace(dsn) != "" {
			driver = "postgres"
		} else {
			driver = "json"
		}
	}
	switch driver {
	case "json":
		if dataPath == "" {
			dataPath = "data/files_manager.json"
		}
		store, err := storage.NewStorage(dataPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open json store %s: %w", dataPath, err)
		}
		logger.Info("using JSON storage", "path", dataPath)
		return store, func() {}, nil
	case "postgres":
		if strings.TrimSpace(dsn) == "" {
			return nil, nil, errors.New("postgres storage requires a DSN")
		}
		store, err := storage.NewPostgresRepository(dsn,
			storage.WithPostgresApplicationName("files-manager-worker"))
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		logger.Info("using PostgreSQL storage")
		cleanup := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if closer, ok := store.(interface{ Close(context.Context) error }); ok {
				if err := closer.Close(ctx); err != nil {
					logger.Warn("failed to close postgres pool", "error", err)
				}
			}
		}
		return store, cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func resolveInt(flagValue int, envValue string) int {
	if flagValue != 0 {
		return flagValue
	}
	if trimmed := strings.TrimSpace(envValue); trimmed != "" {
		if parsed, err := strconv.Atoi(trimmed); err == nil {
			return parsed
		}
	}
	return 0
}

func parseBoolEnv(value string) bool {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		if parsed, err := strconv.ParseBool(trimmed); err == nil {
			return parsed
		}
	}
	return false
}
