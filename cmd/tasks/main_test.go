package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"taskmanager/internal/server"
	inmemory "taskmanager/repository/inmemory"
	"taskmanager/repository/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenStore(t *testing.T) {
	tests := []struct {
		name string
		cfg  func(t *testing.T) *server.Config
		want struct {
			store any
		}
	}{
		{
			name: "memory driver",
			cfg: func(t *testing.T) *server.Config {
				return &server.Config{Driver: "memory"}
			},
			want: struct{ store any }{&inmemory.Storage{}},
		},
		{
			name: "sqlite driver",
			cfg: func(t *testing.T) *server.Config {
				return &server.Config{Driver: "sqlite", DBStr: filepath.Join(t.TempDir(), "tasks.db")}
			},
			want: struct{ store any }{&sqlite.Storage{}},
		},
		{
			name: "sqlite with missing migrations falls back to memory",
			cfg: func(t *testing.T) *server.Config {
				return &server.Config{
					Driver:      "sqlite",
					DBStr:       filepath.Join(t.TempDir(), "tasks.db"),
					MigratePath: "/nonexistent/path",
				}
			},
			want: struct{ store any }{&inmemory.Storage{}},
		},
		{
			name: "unreachable postgres falls back to memory",
			cfg: func(t *testing.T) *server.Config {
				return &server.Config{Driver: "postgres", DBStr: "invalid_connection_string"}
			},
			want: struct{ store any }{&inmemory.Storage{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, closeStore := openStore(tt.cfg(t), quietLogger())
			defer closeStore()

			require.NotNil(t, st)
			assert.IsType(t, tt.want.store, st)
		})
	}
}

func TestServeAndShutdown(t *testing.T) {
	st, closeStore := openStore(&server.Config{Driver: "memory"}, quietLogger())
	defer closeStore()

	api := server.NewTaskAPI(st, st, &server.Config{Addr: "127.0.0.1", Port: 0, ShutdownTimeout: time.Second})
	require.NotNil(t, api)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- api.Start()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, api.Shutdown(ctx))

	select {
	case err := <-serverErr:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
