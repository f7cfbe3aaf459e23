// Package wire provides dependency injection for the tasktracker application.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	cliadapter "github.com/example/tasktracker/internal/adapters/cli"
	"github.com/example/tasktracker/internal/adapters/memory"
	"github.com/example/tasktracker/internal/adapters/redis"
	"github.com/example/tasktracker/internal/adapters/sqlite"
	"github.com/example/tasktracker/internal/adapters/web"
	"github.com/example/tasktracker/internal/app"
	"github.com/example/tasktracker/internal/config"
	"github.com/example/tasktracker/internal/db"
	"github.com/example/tasktracker/internal/logging"
	"github.com/example/tasktracker/internal/ports/primary"
	"github.com/example/tasktracker/internal/ports/secondary"
)

const dialTimeout = 5 * time.Second

var (
	cfg             *config.Config
	logger          *slog.Logger
	storage         *Storage
	taskService     primary.TaskService
	activityService primary.ActivityService
	pageService     primary.PageService
	navigator       primary.Navigator
	once            sync.Once
	initErr         error
)

// Init initializes all services. It is safe to call more than once; only the
// first call does any work.
func Init() error {
	once.Do(func() { initErr = initServices() })
	return initErr
}

// Config returns the resolved configuration.
func Config() *config.Config {
	mustInit()
	return cfg
}

// Logger returns the process logger.
func Logger() *slog.Logger {
	mustInit()
	return logger
}

// TaskService returns the singleton TaskService instance.
func TaskService() primary.TaskService {
	mustInit()
	return taskService
}

// PageService returns the singleton PageService instance.
func PageService() primary.PageService {
	mustInit()
	return pageService
}

// Navigator returns the singleton Navigator instance.
func Navigator() primary.Navigator {
	mustInit()
	return navigator
}

// ActivityService returns the singleton ActivityService instance.
func ActivityService() primary.ActivityService {
	mustInit()
	return activityService
}

// Close releases the storage backend. Safe to call when Init never ran.
func Close() error {
	if storage == nil {
		return nil
	}
	return storage.Close()
}

func mustInit() {
	if err := Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize: %v\n", err)
		os.Exit(1)
	}
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})

	// Create the storage adapters (secondary ports) selected by config
	storage, err = OpenStorage(context.Background(), cfg.Storage, logger)
	if err != nil {
		return err
	}

	// Create services (primary ports implementation)
	tasks := app.NewTaskService(storage.KV, cfg.Storage.Key, logger, app.WithActivityLog(storage.Activity))
	if _, err := tasks.Load(context.Background()); err != nil {
		return err
	}
	taskService = tasks
	activityService = app.NewActivityService(storage.Activity)
	pageService = app.NewPageService()
	navigator = app.NewNavigator("")

	return nil
}

// Storage bundles the adapters opened for one backend. They share a single
// connection, released by Close.
type Storage struct {
	KV       secondary.KeyValueStore
	Activity secondary.ActivityLog
}

// Close releases the shared connection.
func (s *Storage) Close() error {
	return s.KV.Close()
}

// OpenStorage opens the backend described by sc.
func OpenStorage(ctx context.Context, sc config.StorageConfig, logger *slog.Logger) (*Storage, error) {
	switch sc.Backend {
	case config.BackendMemory:
		return &Storage{KV: memory.NewKeyValueStore(), Activity: memory.NewActivityLog()}, nil
	case config.BackendRedis:
		dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
		defer cancel()
		kv, err := redis.Dial(dialCtx, sc.RedisURL, sc.RedisPrefix, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		activity := redis.NewActivityLog(kv.Client(), sc.RedisPrefix, redis.DefaultBreakerConfig(), logger)
		return &Storage{KV: kv, Activity: activity}, nil
	case config.BackendSQLite, "":
		path := sc.SQLitePath
		if path == "" {
			var err error
			if path, err = db.DefaultPath(); err != nil {
				return nil, err
			}
		}
		database, err := db.Open(path, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return &Storage{KV: sqlite.NewKeyValueStore(database), Activity: sqlite.NewActivityLog(database)}, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", sc.Backend)
	}
}

// TaskAdapter returns a new TaskAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func TaskAdapter() *cliadapter.TaskAdapter {
	return TaskAdapterWithOutput(os.Stdout)
}

// TaskAdapterWithOutput returns a new TaskAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func TaskAdapterWithOutput(out io.Writer) *cliadapter.TaskAdapter {
	return cliadapter.NewTaskAdapter(TaskService(), out)
}

// ActivityAdapter returns a new ActivityAdapter writing to stdout.
func ActivityAdapter() *cliadapter.ActivityAdapter {
	return ActivityAdapterWithOutput(os.Stdout)
}

// ActivityAdapterWithOutput returns a new ActivityAdapter writing to the given output.
func ActivityAdapterWithOutput(out io.Writer) *cliadapter.ActivityAdapter {
	return cliadapter.NewActivityAdapter(ActivityService(), out)
}

// PageAdapter returns a new PageAdapter writing to stdout.
func PageAdapter() *cliadapter.PageAdapter {
	return PageAdapterWithOutput(os.Stdout)
}

// PageAdapterWithOutput returns a new PageAdapter writing to the given output.
func PageAdapterWithOutput(out io.Writer) *cliadapter.PageAdapter {
	return cliadapter.NewPageAdapter(PageService(), Navigator(), TaskAdapterWithOutput(out), out)
}

// WebServer returns a new HTTP server over the singleton services.
func WebServer() *web.Server {
	return web.NewServer(TaskService(), PageService(), ActivityService(), Logger())
}
