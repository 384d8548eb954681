package hnswkit

import (
	"log/slog"

	"github.com/hupe1980/hnswkit/internal/fs"
	"github.com/hupe1980/hnswkit/persistence"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	engineFactory    EngineFactory
	fileSystem       fs.FileSystem
	compression      persistence.Compression
	seed             int64
	ef               int
}

// Option configures Create.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &hnswkit.BasicMetricsCollector{}
//	idx, _ := hnswkit.Create(128, 10000, 16, 200, space.Euclidean, hnswkit.WithMetricsCollector(metrics))
//	// ... use idx ...
//	stats := metrics.GetStats()
//	fmt.Printf("Inserts: %d, Avg latency: %dns\n", stats.InsertCount, stats.InsertAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := hnswkit.NewJSONLogger(slog.LevelInfo)
//	idx, _ := hnswkit.Create(128, 10000, 16, 200, space.Cosine, hnswkit.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithEngineFactory replaces the bundled HNSW engine. The factory is called
// once by Create; the remaining engine options below are then ignored.
func WithEngineFactory(factory EngineFactory) Option {
	return func(o *options) {
		o.engineFactory = factory
	}
}

// WithFileSystem sets the file system used for the engine file and the
// metadata sidecar. Nil means the local file system.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		o.fileSystem = fsys
	}
}

// WithCompression sets the compression of saved engine files.
func WithCompression(c persistence.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithRandomSeed seeds the engine's level generator.
func WithRandomSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithEf sets the initial search-time candidate list size. Zero keeps the
// engine default.
func WithEf(ef int) Option {
	return func(o *options) {
		o.ef = ef
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		fileSystem:       fs.Default,
		compression:      persistence.CompressionNone,
		seed:             100,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	o.fileSystem = fs.OrDefault(o.fileSystem)
	if o.engineFactory == nil {
		o.engineFactory = defaultEngineFactory(o)
	}
	return o
}
