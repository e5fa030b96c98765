package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	grpclib "google.golang.org/grpc"

	grpcadapter "github.com/simaogato/charityflow-backend/internal/adapter/grpc"
	"github.com/simaogato/charityflow-backend/internal/adapter/lock"
	"github.com/simaogato/charityflow-backend/internal/adapter/messaging/rabbitmq"
	"github.com/simaogato/charityflow-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/charityflow-backend/internal/adapter/repository/sqlite"
	"github.com/simaogato/charityflow-backend/internal/config"
	"github.com/simaogato/charityflow-backend/internal/domain"
	"github.com/simaogato/charityflow-backend/internal/platform/logging"
	"github.com/simaogato/charityflow-backend/internal/platform/otel"
	"github.com/simaogato/charityflow-backend/internal/usecase/donation"
	"github.com/simaogato/charityflow-backend/internal/usecase/matcher"
	"github.com/simaogato/charityflow-backend/internal/usecase/project"
	"github.com/simaogato/charityflow-backend/internal/usecase/reconcile"
	"github.com/simaogato/charityflow-backend/internal/usecase/report"
)

// storage bundles the repositories of the selected driver
type storage struct {
	projects  domain.ProjectRepository
	donations domain.DonationRepository
	funds     domain.FundStore
	closer    io.Closer
}

func main() {
	cfg, err := config.Load(os.Getenv("CHARITYFLOW_CONFIG"))
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.Log)
	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("server stopped with error")
	}
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	ctx := context.Background()

	// 1. Tracing
	shutdownTracing, err := otel.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.WithError(err).Warn("failed to flush traces")
		}
	}()

	// 2. Storage
	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.closer.Close()

	// 3. Match serialization and event publication
	locker, lockCloser, err := newLocker(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if lockCloser != nil {
		defer lockCloser.Close()
	}

	var publisher domain.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		rmq, err := rabbitmq.Dial(cfg.RabbitMQ.URL, rabbitmq.Queues{
			Closed: cfg.RabbitMQ.ClosedQueue,
			Report: cfg.RabbitMQ.ReportQueue,
		}, logger)
		if err != nil {
			return err
		}
		defer rmq.Close()
		publisher = rmq
		logger.Info("rabbitmq publisher connected")
	}

	// 4. Services (Use Cases)
	matchService := matcher.NewMatchService(store.funds, locker, publisher, logger)
	projectService := project.NewProjectService(store.projects, matchService)
	donationService := donation.NewDonationService(store.donations, matchService)
	reportService := report.NewReportService(store.projects, publisher, logger)
	sweeper := reconcile.NewSweeper(store.funds, matchService, logger)

	// 5. Scheduled jobs
	scheduler, err := newScheduler(cfg.Schedule, sweeper, reportService, publisher != nil, logger)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	// 6. gRPC server
	grpcServer := grpcadapter.NewGRPCServer(
		grpcadapter.NewServer(projectService, donationService, reportService),
		cfg.GRPC.APIToken,
		logger,
	)

	addr := fmt.Sprintf(":%d", cfg.GRPC.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.WithField("addr", addr).Info("gRPC server listening")
		serveErr <- grpcServer.Serve(lis)
	}()

	return waitForShutdown(grpcServer, serveErr, logger)
}

func openStorage(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		logger.WithField("path", cfg.Storage.SQLitePath).Info("sqlite store opened")
		return &storage{
			projects:  sqlite.NewProjectRepository(s),
			donations: sqlite.NewDonationRepository(s),
			funds:     sqlite.NewFundStore(s),
			closer:    s,
		}, nil

	default:
		isolation, err := postgres.ParseIsolation(cfg.Matching.Isolation)
		if err != nil {
			return nil, err
		}

		db, err := postgres.NewDB(ctx, cfg.Database.DSN(), postgres.PoolConfig{
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		if cfg.Database.Migrate {
			if err := postgres.Migrate(db); err != nil {
				db.Close()
				return nil, err
			}
			logger.Info("database migrations applied")
		}

		if isolation == postgres.IsolationNone && cfg.Matching.Lock == config.LockNone {
			logger.Warn("matching.isolation and matching.lock are both none; concurrent matches may over-allocate")
		}

		return &storage{
			projects:  postgres.NewProjectRepository(db),
			donations: postgres.NewDonationRepository(db),
			funds:     postgres.NewFundStore(db, isolation),
			closer:    db,
		}, nil
	}
}

// dialRedis is replaced in tests
var dialRedis = redis.NewClient

// newLocker returns a nil locker when no process level lock is configured.
// The closer is non-nil only when the locker owns a connection.
func newLocker(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (domain.MatchLocker, io.Closer, error) {
	switch cfg.Matching.Lock {
	case config.LockMemory:
		return lock.NewMemoryLocker(), nil, nil

	case config.LockRedis:
		rdb := dialRedis(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr(), err)
		}
		logger.WithField("key", cfg.Redis.LockKey).Info("redis match lock enabled")
		locker := lock.NewRedisLocker(rdb, cfg.Redis.LockKey, cfg.Matching.LockTTL, cfg.Matching.LockWait,
			lock.WithLogger(logger),
		)
		return locker, rdb, nil

	default:
		return nil, nil, nil
	}
}

// newScheduler registers the reconcile sweep and the report publication.
// An empty schedule disables the job.
func newScheduler(
	schedule config.ScheduleConfig,
	sweeper *reconcile.Sweeper,
	reportService *report.ReportService,
	canPublish bool,
	logger logrus.FieldLogger,
) (*cron.Cron, error) {
	c := cron.New(cron.WithSeconds())

	if schedule.Reconcile != "" {
		_, err := c.AddFunc(schedule.Reconcile, func() {
			if _, err := sweeper.Sweep(context.Background()); err != nil {
				logger.WithError(err).Error("reconcile sweep failed")
			}
		})
		if err != nil {
			return nil, fmt.Errorf("invalid schedule.reconcile %q: %w", schedule.Reconcile, err)
		}
	}

	if schedule.Report != "" {
		if !canPublish {
			logger.Warn("schedule.report is set but rabbitmq.url is empty; report job disabled")
			return c, nil
		}
		_, err := c.AddFunc(schedule.Report, func() {
			if _, err := reportService.Publish(context.Background()); err != nil {
				logger.WithError(err).Error("report publication failed")
			}
		})
		if err != nil {
			return nil, fmt.Errorf("invalid schedule.report %q: %w", schedule.Report, err)
		}
	}

	return c, nil
}

// waitForShutdown waits for SIGTERM, SIGINT or a serve failure and stops the server gracefully
func waitForShutdown(grpcServer *grpclib.Server, serveErr <-chan error, logger logrus.FieldLogger) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigChan:
		logger.WithField("signal", sig.String()).Info("shutting down gracefully")
	case err := <-serveErr:
		return fmt.Errorf("failed to serve gRPC server: %w", err)
	}

	grpcServer.GracefulStop()
	logger.Info("gRPC server stopped")
	return nil
}
