package cli

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/emiliopalmerini/abadmin/internal/infrastructure/config"
	"github.com/emiliopalmerini/abadmin/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the landing page and admin web server.

Examples:
  abadmin serve                # Listen on ADDR (default :8080)
  abadmin serve --addr :3000   # Listen on port 3000`,
	RunE: runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Address to listen on (overrides ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(context.Background()); err != nil {
			log.Printf("Close error: %v", err)
		}
	}()

	cfg := serverConfig(app.Config)
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}
	server := web.NewServer(cfg, app.Experiments, app.Accounts)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down...")
		return nil
	})
	return g.Wait()
}

func serverConfig(c *config.Config) web.Config {
	return web.Config{
		Addr:             c.Web.Addr,
		SecretKey:        c.Web.SecretKey,
		SecureCookies:    c.App.Stage == config.StageProd,
		RateLimitRPS:     c.Web.RateLimitRPS,
		RateLimitBurst:   c.Web.RateLimitBurst,
		ShutdownTimeout:  c.Web.ShutdownTimeout,
		AdminUsername:    c.Admin.Username,
		AdminPassword:    c.Admin.Password,
		ButtonExperiment: c.App.ButtonExperimentID,
	}
}
