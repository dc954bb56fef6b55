package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/joseph-ayodele/purchase-tracker/internal/common"
	"github.com/joseph-ayodele/purchase-tracker/internal/dashboard"
	"github.com/joseph-ayodele/purchase-tracker/internal/export"
	"github.com/joseph-ayodele/purchase-tracker/internal/extract"
	"github.com/joseph-ayodele/purchase-tracker/internal/metrics"
	"github.com/joseph-ayodele/purchase-tracker/internal/orders"
	"github.com/joseph-ayodele/purchase-tracker/internal/pdftext"
	processor "github.com/joseph-ayodele/purchase-tracker/internal/pipeline"
	repo "github.com/joseph-ayodele/purchase-tracker/internal/repository"
	svc "github.com/joseph-ayodele/purchase-tracker/internal/server"
)

func main() {
	cfg := common.LoadConfig()
	logger := common.NewLogger(os.Stdout, cfg.Log)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	loc, _ := cfg.Dashboard.Location()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := svc.ConnectDB(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err, "driver", cfg.Database.Driver)
		os.Exit(1)
	}
	defer db.Close(logger)

	if err := svc.PingDB(ctx, db, logger, 5*time.Second); err != nil {
		os.Exit(1)
	}

	m := metrics.New()

	ordersRepo := repo.NewOrderRepository(db, logger)
	companiesRepo := repo.NewCompanyRepository(db, logger)

	// PDF import: pdftotext (plain + layout) -> field extraction -> draft
	pdf := pdftext.NewExtractor(pdftext.Config{
		Pdftotext:       cfg.PDF.Pdftotext,
		MaxBytes:        cfg.PDF.MaxBytes,
		Timeout:         cfg.PDF.Timeout,
		StrictPreflight: cfg.PDF.StrictPreflight,
	}, logger)
	importer := processor.NewImporter(logger, processor.NewTextStage(pdf, logger), extract.NewAssembler(logger), m)

	orderService := orders.NewService(ordersRepo, companiesRepo, loc, logger)
	dashService := dashboard.NewService(ordersRepo, dashboard.NewBuilder(cfg.Dashboard.PageSize, loc, m), logger)
	exportService := export.NewService(dashService, m, logger)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", cfg.Server.GRPCAddr, "error", err)
		os.Exit(1)
	}
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(svc.UnaryLogging(logger)))

	purchasing := svc.NewPurchasingService(importer, orderService, dashService, exportService, companiesRepo, logger)
	svc.RegisterPurchasingServer(grpcServer, purchasing)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(svc.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	var metricsServer *http.Server
	if cfg.Server.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		metricsServer = &http.Server{Addr: cfg.Server.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Info("metrics listening", "addr", cfg.Server.MetricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	var scheduler *cron.Cron
	if cfg.Export.Cron != "" {
		scheduler = cron.New(cron.WithLocation(loc))
		_, err := scheduler.AddFunc(cfg.Export.Cron, func() {
			jobCtx, cancel := context.WithTimeout(ctx, time.Minute)
			defer cancel()
			path, err := exportService.WriteSnapshot(jobCtx, repo.OrderFilter{}, cfg.Export.Dir)
			if err != nil {
				logger.Error("scheduled export failed", "error", err)
				return
			}
			logger.Info("scheduled export written", "path", path)
		})
		if err != nil {
			logger.Error("invalid EXPORT_CRON", "expr", cfg.Export.Cron, "error", err)
			os.Exit(2)
		}
		scheduler.Start()
	}

	logger.Info("purchase-tracker listening", "addr", cfg.Server.GRPCAddr)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("grpc serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")
	healthServer.Shutdown()
	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = metricsServer.Shutdown(shutdownCtx)
		cancel()
	}
	grpcServer.GracefulStop()
	logger.Info("stopped")
}
