package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-trend/src/config"
	pb "stock-trend/src/grpc_control"
	"stock-trend/src/logger"
	"stock-trend/src/pipeline"
	"stock-trend/src/server"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	flag.Parse()

	// Load config from YAML file
	config, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(config.MConfig, config.Name)

	// 1. Pipeline (cache -> network -> yahoo -> loader -> analysis)
	svc, closeCache, err := pipeline.NewFromConfig(config.MConfig, appLogger)
	if err != nil {
		appLogger.Critical("Failed to build pipeline: %v", err)
	}
	defer closeCache()

	// 2. Dashboard server
	srv := server.NewDashboardServer(config.MConfig, svc, appLogger.Named("DashboardServer"))
	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Critical("Server failed: %v", err)
		}
	}()

	// 3. gRPC Control Server
	grpcServer := pb.NewServer(pb.NewControlService(config.MConfig, svc, appLogger.Named("ControlService")))
	if config.GrpcPort != 0 {
		go func() {
			if err := pb.Serve(grpcServer, config.GrpcHost, config.GrpcPort, appLogger); err != nil {
				appLogger.Error("gRPC server stopped: %v", err)
			}
		}()
	}

	// 4. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	appLogger.Info("Received %v, shutting down...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	grpcServer.GracefulStop()
	if err := srv.Stop(ctx); err != nil {
		appLogger.Error("Server shutdown: %v", err)
	}
	appLogger.Info("Shutdown complete")
}
