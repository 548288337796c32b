// Command solverd is the worker process that claims link-graph jobs,
// solves them against internal/linkgraph/mcf and logs each solved job, and
// runs a transport.Server that logs every result report it receives. It
// does not send reports of its own solved jobs to a coordinator. It matches
// the shape of the teacher's cmd/main.go (flag-based
// config path, TOML load, signal-driven graceful shutdown, background
// sampler/pool goroutines) per SPEC_FULL.md §10.2.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"mcfsolver/internal/config"
	"mcfsolver/internal/coordination"
	"mcfsolver/internal/linkgraph/graph"
	"mcfsolver/internal/logging"
	"mcfsolver/internal/resource"
	"mcfsolver/internal/transport"
	"mcfsolver/internal/workerpool"
)

func main() {
	configPath := flag.String("config", "solverd.toml", "path to the solverd TOML config file")
	workerID := flag.String("worker-id", fmt.Sprintf("solverd-%d", os.Getpid()), "identifier this worker claims job leases under")
	flag.Parse()

	logger, err := logging.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "solverd: logger init: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("config load failed", zap.Error(err))
	}

	pool, err := workerpool.New(cfg.Pool.MaxWorkers, logger)
	if err != nil {
		logger.Fatal("worker pool init failed", zap.Error(err))
	}

	coord, err := coordination.New(cfg.Coordination.Endpoints, cfg.Coordination.LeaseTTLSeconds)
	if err != nil {
		logger.Fatal("coordination init failed", zap.Error(err))
	}
	defer coord.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sampler := resource.New(10*time.Second, logger)
	go sampler.Run(ctx)

	server := transport.NewServer(cfg.Transport.ListenAddr, logger)
	listener, err := server.Serve(func(report transport.Report) {
		logger.Info("result report received",
			zap.String("job_id", report.JobID),
			zap.Int("edges", len(report.EdgeResults)),
		)
	})
	if err != nil {
		logger.Fatal("transport listen failed", zap.Error(err))
	}
	defer listener.Close()

	logger.Info("solverd started",
		zap.String("listen_addr", cfg.Transport.ListenAddr),
		zap.Int("max_workers", cfg.Pool.MaxWorkers),
	)

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	go drainQueueLoop(ctx, *workerID, pool, coord, cfg, logger)

	<-signalChan
	logger.Info("shutting down")
	cancel()
	pool.Wait()
	pool.Release()
}

// drainQueueLoop stands in for the external job queue spec §6 treats as an
// out-of-scope collaborator: it claims a job lease, solves a synthetic job
// on the pool, and logs the result. The job ID is random and the job is an
// empty graph built inline; no queue client is involved.
func drainQueueLoop(ctx context.Context, workerID string, pool *workerpool.Pool, coord *coordination.Coordinator, cfg config.Config, logger *zap.Logger) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			jobID := fmt.Sprintf("job-%d", rand.Intn(1<<30))
			claim, ok, err := coord.Acquire(ctx, jobID, workerID)
			if err != nil {
				logger.Warn("claim failed", zap.String("job_id", jobID), zap.Error(err))
				continue
			}
			if !ok {
				continue
			}

			settings := graph.Settings{
				Accuracy:            cfg.Solver.Accuracy,
				ShortPathSaturation: cfg.Solver.ShortPathSaturation,
			}
			job := graph.NewLinkGraphJob(0, settings)

			if err := pool.Submit(job, func(solved *graph.LinkGraphJob) {
				defer coord.Release(context.Background(), claim)
				logger.Info("job solved", zap.String("job_id", jobID), zap.Int("nodes", solved.Size()))
			}); err != nil {
				logger.Warn("submit failed", zap.String("job_id", jobID), zap.Error(err))
				coord.Release(ctx, claim)
			}
		}
	}
}
