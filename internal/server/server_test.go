package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/deppfellow/registration-service/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	logger := zerolog.Nop()
	return &Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "test"},
			Server: config.ServerConfig{
				Port:         "0",
				ReadTimeout:  1,
				WriteTimeout: 2,
				IdleTimeout:  3,
			},
		},
		Logger: &logger,
	}
}

func TestStart_RequiresSetup(t *testing.T) {
	err := newTestServer().Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}

func TestSetupHTTPServer_AppliesTimeouts(t *testing.T) {
	s := newTestServer()
	s.SetupHTTPServer(http.NotFoundHandler())

	require.NotNil(t, s.httpServer)
	assert.Equal(t, ":0", s.httpServer.Addr)
	assert.Equal(t, "1s", s.httpServer.ReadTimeout.String())
	assert.Equal(t, "2s", s.httpServer.WriteTimeout.String())
	assert.Equal(t, "3s", s.httpServer.IdleTimeout.String())
}

func TestShutdown_WithoutResources(t *testing.T) {
	s := newTestServer()
	s.SetupHTTPServer(http.NotFoundHandler())

	assert.NoError(t, s.Shutdown(context.Background()))
}
