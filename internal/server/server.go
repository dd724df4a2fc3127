package server

import (
	"context"
	"errors"
	"time"

	"github.com/MKhiriev/go-tours/internal/config"
	"github.com/MKhiriev/go-tours/internal/handler"
	"github.com/MKhiriev/go-tours/internal/logger"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout bounds the graceful shutdown of all servers.
const ShutdownTimeout = 15 * time.Second

type server struct {
	httpServer *httpServer
	gRPCServer *grpcServer
	logger     *logger.Logger
}

func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")
	servers := new(server)

	if cfg.HTTPAddress != "" && handlers.HTTP != nil {
		servers.httpServer = newHTTPServer(handlers.HTTP.Init(), cfg, logger)
	}
	if cfg.GRPCAddress != "" && handlers.GRPC != nil {
		servers.gRPCServer = newGRPCServer(handlers.GRPC, cfg, logger)
	}

	if servers.httpServer == nil && servers.gRPCServer == nil {
		return nil, errNoServersAreCreated
	}

	servers.logger = logger

	return servers, nil
}

// RunServer listens on every configured address, serves until ctx is done
// and then shuts all servers down. The first serving error stops the others.
func (s *server) RunServer(ctx context.Context) error {
	if err := s.listen(); err != nil {
		return err
	}
	return s.serve(ctx)
}

func (s *server) serve(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	if s.httpServer != nil {
		g.Go(s.httpServer.serve)
	}
	if s.gRPCServer != nil {
		g.Go(func() error { return s.gRPCServer.serve(gctx) })
	}

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	s.logger.Info().Msg("server Shutdown gracefully")
	return nil
}

func (s *server) Shutdown(ctx context.Context) error {
	var errs []error

	// finish HTTP server
	if s.httpServer != nil {
		errs = append(errs, s.httpServer.Shutdown(ctx))
	}

	// finish gRPC server
	if s.gRPCServer != nil {
		errs = append(errs, s.gRPCServer.Shutdown(ctx))
	}

	return errors.Join(errs...)
}

func (s *server) listen() error {
	if s.httpServer != nil {
		if err := s.httpServer.listen(); err != nil {
			return err
		}
	}
	if s.gRPCServer != nil {
		if err := s.gRPCServer.listen(); err != nil {
			if s.httpServer != nil {
				_ = s.httpServer.listener.Close()
			}
			return err
		}
	}
	return nil
}
