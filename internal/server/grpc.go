package server

import (
	"context"
	"fmt"
	"net"

	"github.com/MKhiriev/go-tours/internal/config"
	myGRPC "github.com/MKhiriev/go-tours/internal/handler/grpc"
	"github.com/MKhiriev/go-tours/internal/logger"

	"google.golang.org/grpc"
)

type grpcServer struct {
	handler *myGRPC.Handler

	server          *grpc.Server
	address         string
	gRPCNetListener net.Listener

	logger *logger.Logger
}

func newGRPCServer(handler *myGRPC.Handler, cfg config.Server, logger *logger.Logger) *grpcServer {
	s := grpc.NewServer()
	handler.Register(s)

	return &grpcServer{
		handler: handler,
		server:  s,
		address: cfg.GRPCAddress,
		logger:  logger,
	}
}

func (g *grpcServer) listen() error {
	l, err := net.Listen("tcp", g.address)
	if err != nil {
		return fmt.Errorf("gRPC server listen on %s: %w", g.address, err)
	}
	g.gRPCNetListener = l
	return nil
}

// serve blocks until the server is stopped. The health status is refreshed
// in the background while serving.
func (g *grpcServer) serve(ctx context.Context) error {
	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go g.handler.Watch(watchCtx, myGRPC.DefaultCheckInterval)

	g.logger.Info().Str("address", g.gRPCNetListener.Addr().String()).Msg("gRPC server listening")
	if err := g.server.Serve(g.gRPCNetListener); err != nil {
		return fmt.Errorf("gRPC server Serve: %w", err)
	}
	return nil
}

func (g *grpcServer) Shutdown(ctx context.Context) error {
	g.logger.Info().Msg("gRPC server Shutdown")
	g.handler.Shutdown()

	stopped := make(chan struct{})
	go func() {
		g.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		g.server.Stop()
		return ctx.Err()
	}
}
