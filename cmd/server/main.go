package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/OliverMaketso/alx-files-manager/internal/api"
	"github.com/OliverMaketso/alx-files-manager/internal/auth"
	"github.com/OliverMaketso/alx-files-manager/internal/blob"
	"github.com/OliverMaketso/alx-files-manager/internal/observability/logging"
	"github.com/OliverMaketso/alx-files-manager/internal/queue"
	"github.com/OliverMaketso/alx-files-manager/internal/server"
	"github.com/OliverMaketso/alx-files-manager/internal/storage"
	"github.com/OliverMaketso/alx-files-manager/internal/thumbnail"
)

func main() {
	addrFlag := flag.String("addr", "", "listen address (overrides FILES_MANAGER_ADDR and PORT)")
	dataPathFlag := flag.String("data", "", "path to the JSON data file (overrides FILES_MANAGER_DATA_PATH)")
	storageDriverFlag := flag.String("storage-driver", "", "storage driver: json or postgres (overrides FILES_MANAGER_STORAGE_DRIVER)")
	postgresDSNFlag := flag.String("postgres-dsn", "", "PostgreSQL connection string (overrides FILES_MANAGER_POSTGRES_DSN and DATABASE_URL)")
	postgresMaxConnsFlag := flag.Int("postgres-max-conns", 0, "maximum PostgreSQL pool size (overrides FILES_MANAGER_POSTGRES_MAX_CONNS)")
	postgresMinConnsFlag := flag.Int("postgres-min-conns", 0, "minimum PostgreSQL pool size (overrides FILES_MANAGER_POSTGRES_MIN_CONNS)")
	postgresConnLifetimeFlag := flag.Duration("postgres-conn-lifetime", 0, "maximum PostgreSQL connection lifetime (overrides FILES_MANAGER_POSTGRES_CONN_LIFETIME)")
	postgresConnIdleFlag := flag.Duration("postgres-conn-idle", 0, "maximum PostgreSQL connection idle time (overrides FILES_MANAGER_POSTGRES_CONN_IDLE)")
	postgresConnectTimeoutFlag := flag.Duration("postgres-connect-timeout", 0, "PostgreSQL connect timeout (overrides FILES_MANAGER_POSTGRES_CONNECT_TIMEOUT)")
	folderPathFlag := flag.String("folder-path", "", "directory for uploaded file content (overrides FOLDER_PATH)")
	sessionStoreFlag := flag.String("session-store", "", "session store driver: memory or redis (overrides FILES_MANAGER_SESSION_STORE)")
	sessionTTLFlag := flag.Duration("session-ttl", 0, "authentication token lifetime (overrides FILES_MANAGER_SESSION_TTL)")
	sessionPurgeIntervalFlag := flag.Duration("session-purge-interval", 0, "interval between expired session sweeps for the memory store (overrides FILES_MANAGER_SESSION_PURGE_INTERVAL)")
	redisAddrFlag := flag.String("redis-addr", "", "Redis address host:port (overrides FILES_MANAGER_REDIS_ADDR)")
	redisAddrsFlag := flag.String("redis-addrs", "", "comma separated Redis addresses for failover setups (overrides FILES_MANAGER_REDIS_ADDRS)")
	redisUsernameFlag := flag.String("redis-username", "", "Redis username (overrides FILES_MANAGER_REDIS_USERNAME)")
	redisPasswordFlag := flag.String("redis-password", "", "Redis password (overrides FILES_MANAGER_REDIS_PASSWORD)")
	redisDBFlag := flag.Int("redis-db", 0, "Redis database index (overrides FILES_MANAGER_REDIS_DB)")
	redisMasterFlag := flag.String("redis-master", "", "Redis sentinel master name (overrides FILES_MANAGER_REDIS_MASTER)")
	redisTLSCAFlag := flag.String("redis-tls-ca", "", "path to the Redis TLS CA bundle (overrides FILES_MANAGER_REDIS_TLS_CA)")
	redisTLSCertFlag := flag.String("redis-tls-cert", "", "path to the Redis TLS client certificate (overrides FILES_MANAGER_REDIS_TLS_CERT)")
	redisTLSKeyFlag := flag.String("redis-tls-key", "", "path to the Redis TLS client key (overrides FILES_MANAGER_REDIS_TLS_KEY)")
	redisTLSServerNameFlag := flag.String("redis-tls-server-name", "", "expected Redis TLS server name (overrides FILES_MANAGER_REDIS_TLS_SERVER_NAME)")
	redisTLSInsecureFlag := flag.Bool("redis-tls-insecure", false, "skip Redis TLS certificate verification (overrides FILES_MANAGER_REDIS_TLS_INSECURE)")
	queueDriverFlag := flag.String("queue-driver", "", "thumbnail queue driver: memory or redis (overrides FILES_MANAGER_QUEUE_DRIVER)")
	queueStreamFlag := flag.String("queue-stream", "", "Redis stream for thumbnail jobs (overrides FILES_MANAGER_QUEUE_STREAM)")
	queueGroupFlag := flag.String("queue-group", "", "Redis consumer group for thumbnail jobs (overrides FILES_MANAGER_QUEUE_GROUP)")
	queueBufferFlag := flag.Int("queue-buffer", 0, "queue delivery buffer size (overrides FILES_MANAGER_QUEUE_BUFFER)")
	thumbnailWorkersFlag := flag.Int("thumbnail-workers", -1, "in-process thumbnail consumers; -1 selects a default per queue driver (overrides FILES_MANAGER_THUMBNAIL_WORKERS)")
	tlsCertFlag := flag.String("tls-cert", "", "path to the TLS certificate (overrides FILES_MANAGER_TLS_CERT)")
	tlsKeyFlag := flag.String("tls-key", "", "path to the TLS private key (overrides FILES_MANAGER_TLS_KEY)")
	logLevelFlag := flag.String("log-level", "", "log level: debug, info, warn or error (overrides FILES_MANAGER_LOG_LEVEL)")
	logFormatFlag := flag.String("log-format", "", "log format: json or text (overrides FILES_MANAGER_LOG_FORMAT)")
	rateLimitRPSFlag := flag.Float64("rate-limit-rps", 0, "sustained requests per second per instance (overrides FILES_MANAGER_RATE_LIMIT_RPS)")
	rateLimitBurstFlag := flag.Int("rate-limit-burst", 0, "request burst allowance (overrides FILES_MANAGER_RATE_LIMIT_BURST)")
	loginLimitFlag := flag.Int("login-limit", 0, "login attempts allowed per source address per window (overrides FILES_MANAGER_LOGIN_LIMIT)")
	loginWindowFlag := flag.Duration("login-window", 0, "login throttle window (overrides FILES_MANAGER_LOGIN_WINDOW)")
	corsOriginsFlag := flag.String("cors-origins", "", "comma separated list of allowed CORS origins (overrides FILES_MANAGER_CORS_ORIGINS)")
	flag.Parse()

	logger := logging.Init(logging.Config{
		Level:  firstNonEmpty(*logLevelFlag, os.Getenv("FILES_MANAGER_LOG_LEVEL")),
		Format: firstNonEmpty(*logFormatFlag, os.Getenv("FILES_MANAGER_LOG_FORMAT")),
	})

	addr := resolveListenAddr(*addrFlag)

	redisAddr := firstNonEmpty(*redisAddrFlag, os.Getenv("FILES_MANAGER_REDIS_ADDR"))
	redisAddrs := splitAndTrim(firstNonEmpty(*redisAddrsFlag, os.Getenv("FILES_MANAGER_REDIS_ADDRS")))
	redisPassword := firstNonEmpty(*redisPasswordFlag, os.Getenv("FILES_MANAGER_REDIS_PASSWORD"))
	redisTLS := auth.RedisTLSConfig{
		CAFile:             firstNonEmpty(*redisTLSCAFlag, os.Getenv("FILES_MANAGER_REDIS_TLS_CA")),
		CertFile:           firstNonEmpty(*redisTLSCertFlag, os.Getenv("FILES_MANAGER_REDIS_TLS_CERT")),
		KeyFile:            firstNonEmpty(*redisTLSKeyFlag, os.Getenv("FILES_MANAGER_REDIS_TLS_KEY")),
		ServerName:         firstNonEmpty(*redisTLSServerNameFlag, os.Getenv("FILES_MANAGER_REDIS_TLS_SERVER_NAME")),
		InsecureSkipVerify: resolveBool(*redisTLSInsecureFlag, os.Getenv("FILES_MANAGER_REDIS_TLS_INSECURE")),
	}

	store, storeCleanup, err := configureStorage(logger, storageSettings{
		driver:         firstNonEmpty(*storageDriverFlag, os.Getenv("FILES_MANAGER_STORAGE_DRIVER")),
		dataPath:       firstNonEmpty(*dataPathFlag, os.Getenv("FILES_MANAGER_DATA_PATH")),
		dsn:            firstNonEmpty(*postgresDSNFlag, os.Getenv("FILES_MANAGER_POSTGRES_DSN"), os.Getenv("DATABASE_URL")),
		maxConns:       resolveInt(*postgresMaxConnsFlag, os.Getenv("FILES_MANAGER_POSTGRES_MAX_CONNS")),
		minConns:       resolveInt(*postgresMinConnsFlag, os.Getenv("FILES_MANAGER_POSTGRES_MIN_CONNS")),
		connLifetime:   resolveDuration(*postgresConnLifetimeFlag, os.Getenv("FILES_MANAGER_POSTGRES_CONN_LIFETIME")),
		connIdle:       resolveDuration(*postgresConnIdleFlag, os.Getenv("FILES_MANAGER_POSTGRES_CONN_IDLE")),
		connectTimeout: resolveDuration(*postgresConnectTimeoutFlag, os.Getenv("FILES_MANAGER_POSTGRES_CONNECT_TIMEOUT")),
	})
	if err != nil {
		logger.Error("failed to initialise storage", "error", err)
		os.Exit(1)
	}
	defer storeCleanup()

	sessionTTL := resolveDuration(*sessionTTLFlag, os.Getenv("FILES_MANAGER_SESSION_TTL"))
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	sessions, memoryStore, sessionCleanup, err := configureSessions(logger, sessionSettings{
		driver:        firstNonEmpty(*sessionStoreFlag, os.Getenv("FILES_MANAGER_SESSION_STORE")),
		ttl:           sessionTTL,
		redisAddr:     redisAddr,
		redisAddrs:    redisAddrs,
		redisUsername: firstNonEmpty(*redisUsernameFlag, os.Getenv("FILES_MANAGER_REDIS_USERNAME")),
		redisPassword: redisPassword,
		redisDB:       resolveInt(*redisDBFlag, os.Getenv("FILES_MANAGER_REDIS_DB")),
		redisMaster:   firstNonEmpty(*redisMasterFlag, os.Getenv("FILES_MANAGER_REDIS_MASTER")),
		redisTLS:      redisTLS,
	})
	if err != nil {
		logger.Error("failed to initialise session store", "error", err)
		os.Exit(1)
	}
	defer sessionCleanup()

	jobs, queueDriver, err := configureQueue(logger, queueSettings{
		driver:        firstNonEmpty(*queueDriverFlag, os.Getenv("FILES_MANAGER_QUEUE_DRIVER")),
		stream:        firstNonEmpty(*queueStreamFlag, os.Getenv("FILES_MANAGER_QUEUE_STREAM")),
		group:         firstNonEmpty(*queueGroupFlag, os.Getenv("FILES_MANAGER_QUEUE_GROUP")),
		buffer:        resolveInt(*queueBufferFlag, os.Getenv("FILES_MANAGER_QUEUE_BUFFER")),
		redisAddr:     redisAddr,
		redisAddrs:    redisAddrs,
		redisUsername: firstNonEmpty(*redisUsernameFlag, os.Getenv("FILES_MANAGER_REDIS_USERNAME")),
		redisPassword: redisPassword,
		redisTLS:      redisTLS,
	})
	if err != nil {
		logger.Error("failed to initialise thumbnail queue", "error", err)
		os.Exit(1)
	}

	folderPath := firstNonEmpty(*folderPathFlag, os.Getenv("FOLDER_PATH"))
	blobs := blob.NewDiskStore(folderPath)

	handler := api.NewHandler(store, sessions, jobs, blobs, logger)

	srv, err := server.New(handler, server.Config{
		Addr: addr,
		TLS: server.TLSConfig{
			CertFile: firstNonEmpty(*tlsCertFlag, os.Getenv("FILES_MANAGER_TLS_CERT")),
			KeyFile:  firstNonEmpty(*tlsKeyFlag, os.Getenv("FILES_MANAGER_TLS_KEY")),
		},
		RateLimit: server.RateLimitConfig{
			GlobalRPS:     resolveFloat(*rateLimitRPSFlag, os.Getenv("FILES_MANAGER_RATE_LIMIT_RPS")),
			GlobalBurst:   resolveInt(*rateLimitBurstFlag, os.Getenv("FILES_MANAGER_RATE_LIMIT_BURST")),
			LoginLimit:    resolveInt(*loginLimitFlag, os.Getenv("FILES_MANAGER_LOGIN_LIMIT")),
			LoginWindow:   resolveDuration(*loginWindowFlag, os.Getenv("FILES_MANAGER_LOGIN_WINDOW")),
			RedisAddr:     redisAddr,
			RedisPassword: redisPassword,
		},
		CORS: server.CORSConfig{
			AllowedOrigins: splitAndTrim(firstNonEmpty(*corsOriginsFlag, os.Getenv("FILES_MANAGER_CORS_ORIGINS"))),
		},
		Logger:      logger,
		AuditLogger: logging.WithComponent(logger, "audit"),
	})
	if err != nil {
		logger.Error("failed to initialise server", "error", err)
		os.Exit(1)
	}

	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()

	purgeInterval := resolveDuration(*sessionPurgeIntervalFlag, os.Getenv("FILES_MANAGER_SESSION_PURGE_INTERVAL"))
	if purgeInterval <= 0 {
		purgeInterval = time.Hour
	}
	stopReaper := func() {}
	if memoryStore != nil {
		stopReaper = startTokenReaper(rootCtx, logger, memoryStore, purgeInterval)
	}
	defer stopReaper()

	workerErrs := make(chan error, 1)
	consumers := resolveThumbnailWorkers(*thumbnailWorkersFlag, os.Getenv("FILES_MANAGER_THUMBNAIL_WORKERS"), queueDriver)
	if consumers > 0 {
		worker := thumbnail.NewWorker(store, thumbnail.NewGenerator(logger), logger)
		go func() {
			workerErrs <- worker.Run(rootCtx, jobs, consumers)
		}()
		logger.Info("thumbnail workers started", "consumers", consumers, "queue_driver", queueDriver)
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "storage_driver", storageDriverName(store), "queue_driver", queueDriver)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-errs:
		logger.Error("server terminated unexpectedly", "error", err)
	case err := <-workerErrs:
		logger.Error("thumbnail worker terminated unexpectedly", "error", err)
	}

	cancelRoot()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}

	if closer, ok := jobs.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("failed to close thumbnail queue", "error", err)
		}
	}
}

type storageSettings struct {
	driver         string
	dataPath       string
	dsn            string
	maxConns       int
	minConns       int
	connLifetime   time.Duration
	connIdle       time.Duration
	connectTimeout time.Duration
}

// configureStorage selects the repository implementation. The JSON file store
// is the default; PostgreSQL is chosen explicitly or implied by a DSN.
func configureStorage(logger *slog.Logger, settings storageSettings) (storage.Repository, func(), error) {
	driver := strings.ToLower(strings.TrimSpace(settings.driver))
	if driver == "" {
		if strings.TrimSpace(settings.dsn) != "" {
			driver = "postgres"
		} else {
			driver = "json"
		}
	}
	switch driver {
	case "json":
		path := settings.dataPath
		if path == "" {
			path = "data/files_manager.json"
		}
		store, err := storage.NewStorage(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open json store %s: %w", path, err)
		}
		logger.Info("using JSON storage", "path", path)
		return store, func() {}, nil
	case "postgres":
		if strings.TrimSpace(settings.dsn) == "" {
			return nil, nil, errors.New("postgres storage requires a DSN")
		}
		ensureCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := storage.EnsurePostgresSchema(ensureCtx, settings.dsn); err != nil {
			return nil, nil, fmt.Errorf("ensure postgres schema: %w", err)
		}
		opts := []storage.PostgresOption{
			storage.WithPostgresApplicationName("files-manager-api"),
		}
		if settings.maxConns > 0 || settings.minConns > 0 {
			opts = append(opts, storage.WithPostgresPoolLimits(int32(settings.maxConns), int32(settings.minConns)))
		}
		if settings.connLifetime > 0 || settings.connIdle > 0 {
			opts = append(opts, storage.WithPostgresPoolDurations(settings.connLifetime, settings.connIdle, 0))
		}
		if settings.connectTimeout > 0 {
			opts = append(opts, storage.WithPostgresConnectTimeout(settings.connectTimeout))
		}
		store, err := storage.NewPostgresRepository(settings.dsn, opts...)
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
		return nil, nil, fmt.Errorf("unsupported storage driver %q", settings.driver)
	}
}

type sessionSettings struct {
	driver        string
	ttl           time.Duration
	redisAddr     string
	redisAddrs    []string
	redisUsername string
	redisPassword string
	redisDB       int
	redisMaster   string
	redisTLS      auth.RedisTLSConfig
}

// configureSessions builds the session manager. When the memory store is
// selected the store is also returned so the caller can run the purge loop.
func configureSessions(logger *slog.Logger, settings sessionSettings) (*auth.SessionManager, *auth.MemorySessionStore, func(), error) {
	driver := strings.ToLower(strings.TrimSpace(settings.driver))
	if driver == "" {
		if settings.redisAddr != "" || len(settings.redisAddrs) > 0 {
			driver = "redis"
		} else {
			driver = "memory"
		}
	}
	switch driver {
	case "memory":
		store := auth.NewMemorySessionStore()
		logger.Info("using in-memory session store")
		return auth.NewSessionManager(settings.ttl, auth.WithStore(store)), store, func() {}, nil
	case "redis":
		store, err := auth.NewRedisSessionStore(auth.RedisSessionStoreConfig{
			Addr:       settings.redisAddr,
			Addrs:      settings.redisAddrs,
			Username:   settings.redisUsername,
			Password:   settings.redisPassword,
			DB:         settings.redisDB,
			MasterName: settings.redisMaster,
			TLS:        settings.redisTLS,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("using Redis session store", "addr", settings.redisAddr)
		cleanup := func() {
			if err := store.Close(); err != nil {
				logger.Warn("failed to close session store", "error", err)
			}
		}
		return auth.NewSessionManager(settings.ttl, auth.WithStore(store)), nil, cleanup, nil
	default:
		return nil, nil, nil, fmt.Errorf("unsupported session store %q", settings.driver)
	}
}

type queueSettings struct {
	driver        string
	stream        string
	group         string
	buffer        int
	redisAddr     string
	redisAddrs    []string
	redisUsername string
	redisPassword string
	redisTLS      auth.RedisTLSConfig
}

// configureQueue builds the thumbnail job queue and reports the driver that
// was chosen so worker defaults can depend on it.
func configureQueue(logger *slog.Logger, settings queueSettings) (queue.Queue, string, error) {
	driver := strings.ToLower(strings.TrimSpace(settings.driver))
	if driver == "" {
		if settings.redisAddr != "" || len(settings.redisAddrs) > 0 {
			driver = "redis"
		} else {
			driver = "memory"
		}
	}
	switch driver {
	case "memory":
		buffer := settings.buffer
		if buffer <= 0 {
			buffer = 128
		}
		logger.Info("using in-memory thumbnail queue", "buffer", buffer)
		return queue.NewMemoryQueue(buffer), driver, nil
	case "redis":
		q, err := queue.NewRedisQueue(queue.RedisQueueConfig{
			Addr:     settings.redisAddr,
			Addrs:    settings.redisAddrs,
			Username: settings.redisUsername,
			Password: settings.redisPassword,
			Stream:   settings.stream,
			Group:    settings.group,
			Buffer:   settings.buffer,
			Logger:   logger,
			TLS: queue.RedisTLSConfig{
				CAFile:             settings.redisTLS.CAFile,
				CertFile:           settings.redisTLS.CertFile,
				KeyFile:            settings.redisTLS.KeyFile,
				ServerName:         settings.redisTLS.ServerName,
				InsecureSkipVerify: settings.redisTLS.InsecureSkipVerify,
			},
		})
		if err != nil {
			return nil, "", err
		}
		logger.Info("using Redis thumbnail queue", "addr", settings.redisAddr)
		return q, driver, nil
	default:
		return nil, "", fmt.Errorf("unsupported queue driver %q", settings.driver)
	}
}

// resolveThumbnailWorkers picks the number of in-process queue consumers.
// The memory queue only exists inside this process, so jobs published to it
// must also be consumed here; with Redis the dedicated worker binary is
// expected to do the consuming unless a count is set explicitly.
func resolveThumbnailWorkers(flagValue int, envValue string, queueDriver string) int {
	if flagValue >= 0 {
		return flagValue
	}
	if trimmed := strings.TrimSpace(envValue); trimmed != "" {
		if parsed, err := strconv.Atoi(trimmed); err == nil && parsed >= 0 {
			return parsed
		}
	}
	if queueDriver == "memory" {
		return 2
	}
	return 0
}

// resolveListenAddr honours the flag first, then FILES_MANAGER_ADDR, then the
// conventional PORT variable.
func resolveListenAddr(flagValue string) string {
	if addr := strings.TrimSpace(flagValue); addr != "" {
		return addr
	}
	if addr := strings.TrimSpace(os.Getenv("FILES_MANAGER_ADDR")); addr != "" {
		return addr
	}
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		return ":" + port
	}
	return ":5000"
}

func storageDriverName(store storage.Repository) string {
	if _, ok := store.(*storage.Storage); ok {
		return "json"
	}
	return "postgres"
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

func resolveFloat(flagValue float64, envValue string) float64 {
	if flagValue != 0 {
		return flagValue
	}
	if trimmed := strings.TrimSpace(envValue); trimmed != "" {
		if parsed, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return parsed
		}
	}
	return 0
}

func resolveDuration(flagValue time.Duration, envValue string) time.Duration {
	if flagValue != 0 {
		return flagValue
	}
	if trimmed := strings.TrimSpace(envValue); trimmed != "" {
		if parsed, err := time.ParseDuration(trimmed); err == nil {
			return parsed
		}
	}
	return 0
}

func resolveBool(flagValue bool, envValue string) bool {
	if flagValue {
		return true
	}
	if trimmed := strings.TrimSpace(envValue); trimmed != "" {
		if parsed, err := strconv.ParseBool(trimmed); err == nil {
			return parsed
		}
	}
	return false
}
