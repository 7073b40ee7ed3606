package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/pagebuilder/internal/config"
	"github.com/conneroisu/pagebuilder/internal/logging"
	"github.com/conneroisu/pagebuilder/internal/server"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the editor in your browser",
	Long: `Start the local editor server and open it in the browser.

The document lives in memory only; export it before stopping the server.
While running, changes to the config file's allowed origins and log level
are applied without a restart.

Examples:
  pagebuilder serve                      # Edit a blank page on localhost:8080
  pagebuilder serve --port 3000 --no-open
  pagebuilder serve --mode preview       # Start in preview mode`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "Port to serve on (0 picks a free port)")
	serveCmd.Flags().String("host", "localhost", "Host to bind to")
	serveCmd.Flags().Bool("no-open", false, "Don't open browser automatically")
	serveCmd.Flags().StringP("mode", "m", "edit", "Initial editor mode (edit, preview)")

	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.no-open", serveCmd.Flags().Lookup("no-open"))
	_ = viper.BindPFlag("editor.default_mode", serveCmd.Flags().Lookup("mode"))

	AddFlagValidation(serveCmd.Flags(), "port", ValidatePort)
	AddFlagValidation(serveCmd.Flags(), "mode", ValidateMode)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, server.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config.Watch(viper.GetViper(), reloadConfig(ctx, srv, logger))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Starting pagebuilder at http://%s\n", cfg.Address())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "Received shutdown signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// reloadConfig applies the settings that can change while serving. The
// rest of the file is validated but needs a restart to take effect.
func reloadConfig(ctx context.Context, srv *server.EditorServer, logger *logging.BuilderLogger) config.ChangeFunc {
	return func(name string, cfg *config.Config, err error) {
		if err != nil {
			logger.Warn(ctx, err, "Ignoring invalid config change", "file", name)
			return
		}

		srv.SetAllowedOrigins(cfg.Server.AllowedOrigins)
		if level, err := logging.ParseLevel(cfg.Logging.Level); err == nil {
			logger.SetLevel(level)
		}
		logger.Info(ctx, "Reloaded configuration", "file", name,
			"allowed_origins", len(cfg.Server.AllowedOrigins), "log_level", cfg.Logging.Level)
	}
}
