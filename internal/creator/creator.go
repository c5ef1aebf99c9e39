package creator

import (
	"gatekv/internal/config"
	"gatekv/internal/database"
	"gatekv/internal/database/compute"
	"gatekv/internal/database/network"
	"gatekv/internal/database/render"
	"gatekv/internal/database/storage/engine"
	"gatekv/internal/database/storage/engine/mem"
	"gatekv/internal/database/storage/engine/partition"
	"gatekv/internal/gate"
	"gatekv/internal/metrics"
	"gatekv/internal/primitive"

	"go.uber.org/zap"
)

type Creator struct {
	logger *zap.Logger
	conf   *config.AppConfig
}

func NewCreator(logger *zap.Logger, conf *config.AppConfig) *Creator {
	return &Creator{
		logger: logger,
		conf:   conf,
	}
}

// CreateEngine returns a single map, or a partitioned engine when
// partitions_count is positive.
func (c *Creator) CreateEngine() engine.Engine {
	conf := c.conf.EngineConfig
	if conf.PartitionsCount <= 0 {
		return mem.NewInMemoryEngine(conf.StartSize)
	}

	partitionSize := conf.StartSize / conf.PartitionsCount
	partitions := make([]engine.Engine, conf.PartitionsCount)
	for i := range partitions {
		partitions[i] = mem.NewInMemoryEngine(partitionSize)
	}

	return partition.NewPartitionedEngine(partitions)
}

func (c *Creator) CreateDatabase(eng engine.Engine) (*database.Database, error) {
	parser, err := compute.NewRequestParser(c.logger)
	if err != nil {
		return nil, err
	}

	return database.NewDatabase(c.logger, parser, eng)
}

// CreateMetrics returns nil when no metrics address is configured.
func (c *Creator) CreateMetrics() (*metrics.Prometheus, error) {
	if c.conf.MetricsConfig.Address == "" {
		return nil, nil
	}

	return metrics.NewPrometheus()
}

func (c *Creator) CreateHandler(db *database.Database, prom *metrics.Prometheus) (*gate.Handler, error) {
	renderer, err := render.NewRenderer(db)
	if err != nil {
		return nil, err
	}

	var observer gate.Metrics
	if prom != nil {
		observer = prom
	}

	return gate.NewHandler(c.logger, db, renderer, observer)
}

// CreateTCPServer sizes the pool queue like the connection limit, so an
// admitted connection always fits into the queue.
func (c *Creator) CreateTCPServer(handler network.RequestHandler) (*network.TCPServer, error) {
	pool, err := primitive.NewWorkerPool(c.logger, c.conf.PoolConfig.Workers, c.conf.NetworkConfig.MaxConnections)
	if err != nil {
		return nil, err
	}

	var opts []network.Option
	if c.conf.RateLimitConfig.Enabled() {
		opts = append(opts, network.WithRateLimiter(network.NewIPRateLimiter(&c.conf.RateLimitConfig)))
	}

	server, err := network.NewTCPServer(c.logger, &c.conf.NetworkConfig, pool, handler, opts...)
	if err != nil {
		pool.Stop()
		return nil, err
	}

	return server, nil
}

// CreateServer wires engine, database, renderer and pool into a server.
// The returned metrics are nil when disabled.
func (c *Creator) CreateServer() (*network.TCPServer, *metrics.Prometheus, error) {
	db, err := c.CreateDatabase(c.CreateEngine())
	if err != nil {
		return nil, nil, err
	}

	prom, err := c.CreateMetrics()
	if err != nil {
		return nil, nil, err
	}

	handler, err := c.CreateHandler(db, prom)
	if err != nil {
		return nil, nil, err
	}

	server, err := c.CreateTCPServer(handler)
	if err != nil {
		return nil, nil, err
	}

	return server, prom, nil
}
