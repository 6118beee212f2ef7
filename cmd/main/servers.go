package main

import (
	"fmt"
	"net"

	pb "market-dashboard/src/grpc_control"
	"market-dashboard/src/interfaces"
	"market-dashboard/src/logger"
	"market-dashboard/src/models"

	"google.golang.org/grpc"
)

// -----------------------------------------------------------------------------

// startServers launches the HTTP/WebSocket server and the gRPC control
// server. The returned gRPC server is stopped by the caller on shutdown.
func startServers(
	srv interfaces.IDataExchanger,
	control *pb.ControlService,
	config *models.MConfig,
	appLogger *logger.Logger,
) (*grpc.Server, error) {

	// 1. Dashboard HTTP server
	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Error("Server failed: %v", err)
		}
	}()

	// 2. gRPC Control Server
	if config.GrpcPort == 0 {
		appLogger.Info("gRPC control server disabled")
		return nil, nil
	}
	addr := fmt.Sprintf("%s:%d", config.GrpcHost, config.GrpcPort)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen for gRPC on %s: %w", addr, err)
	}

	grpcServer := grpc.NewServer()
	pb.RegisterDashboardControlServer(grpcServer, control)

	go func() {
		appLogger.Info("Starting gRPC Control Server on %s", addr)
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Critical("failed to serve gRPC: %v", err)
		}
	}()
	return grpcServer, nil
}
