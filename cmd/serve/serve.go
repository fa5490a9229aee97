// Package serve handles the HTTP API command
package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fjacquet/fin-statements/cmd/root"
	"fjacquet/fin-statements/internal/container"
	"fjacquet/fin-statements/internal/server"

	"github.com/spf13/cobra"
)

var address string

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pipeline over HTTP",
	Long: `Start an HTTP server exposing the pipeline:

  GET  /health            liveness probe
  POST /api/v1/process    multipart form with tb and/or gl files
  POST /api/v1/validate   same form, findings only

Example:
  fin-statements serve --addr :8080`,
	RunE: serveFunc,
}

func init() {
	Cmd.Flags().StringVar(&address, "addr", "", "Listen address (default from server.address)")
}

// NewServer builds the HTTP server from the container.
func NewServer(c *container.Container, addr string) *server.Server {
	cfg := c.GetConfig()
	if addr == "" {
		addr = cfg.Server.Address
	}
	return server.New(server.Config{
		Address:  addr,
		Timeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		Remedies: cfg.Remedies(),
		Pipeline: c.GetPipeline(),
		Reader:   c.GetReader(),
		Logger:   c.GetLogger(),
	})
}

func serveFunc(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("application is not initialized")
	}
	srv := NewServer(c, address)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
