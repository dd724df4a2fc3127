package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/MKhiriev/go-tours/internal/config"
	"github.com/MKhiriev/go-tours/internal/handler"
	myGRPC "github.com/MKhiriev/go-tours/internal/handler/grpc"
	"github.com/MKhiriev/go-tours/internal/logger"
	"github.com/MKhiriev/go-tours/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type healthy struct{}

func (healthy) Check(context.Context) error { return nil }

type versionOnly struct{ service.AppInfoService }

func (versionOnly) GetAppVersion(context.Context) string { return "9.9.9" }

func newTestServices() *service.Services {
	return &service.Services{HealthService: healthy{}, AppInfoService: versionOnly{}}
}

func TestNewServer_NoAddresses(t *testing.T) {
	s, err := NewServer(&handler.Handlers{}, config.Server{}, logger.Nop())

	require.ErrorIs(t, err, errNoServersAreCreated)
	assert.Nil(t, s)
}

func TestServer_RunAndShutdown(t *testing.T) {
	cfg := config.Server{HTTPAddress: "127.0.0.1:0", GRPCAddress: "127.0.0.1:0"}
	handlers, err := handler.NewHandlers(newTestServices(), nil, cfg, logger.Nop())
	require.NoError(t, err)

	s, err := NewServer(handlers, cfg, logger.Nop())
	require.NoError(t, err)
	srv := s.(*server)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	require.NoError(t, srv.listen())
	go func() { done <- srv.serve(ctx) }()

	t.Run("http", func(t *testing.T) {
		resp, err := http.Get(fmt.Sprintf("http://%s/version", srv.httpServer.listener.Addr()))
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "9.9.9", string(body))
	})

	t.Run("grpc health", func(t *testing.T) {
		conn, err := grpc.NewClient(srv.gRPCServer.gRPCNetListener.Addr().String(),
			grpc.WithTransportCredentials(insecure.NewCredentials()))
		require.NoError(t, err)
		defer conn.Close()

		client := healthpb.NewHealthClient(conn)
		assert.Eventually(t, func() bool {
			resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: myGRPC.ServiceName})
			return err == nil && resp.GetStatus() == healthpb.HealthCheckResponse_SERVING
		}, 5*time.Second, 20*time.Millisecond)
	})

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout):
		t.Fatal("server did not stop")
	}
}
