package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Supernova3339/changerawr-sub000/internal/config"
	"github.com/Supernova3339/changerawr-sub000/internal/markup"
	"github.com/Supernova3339/changerawr-sub000/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve <file>",
	Short: "Preview a markdown file in the browser with live reload",
	Long: `serve renders the given file through the markup engine and serves it
on a local HTTP port. The file is watched; connected browsers reload
automatically on every save.`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	bindServerFlags(serveCmd.Flags())
	rootCmd.AddCommand(serveCmd)
}

// bindServerFlags declares the listener flags and maps them onto the
// server.* config keys.
func bindServerFlags(fs *pflag.FlagSet) {
	fs.Int("port", 8321, "port to listen on")
	fs.String("host", "localhost", "host to bind to")
	_ = viper.BindPFlag("server.port", fs.Lookup("port"))
	_ = viper.BindPFlag("server.host", fs.Lookup("host"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	engine, err := markup.NewEngine(markup.Options{EnableCUM: cfg.Engine.CUMEnabled})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.New(cfg, engine, logger, args[0]).Run(ctx)
}
