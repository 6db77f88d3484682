package cmd

import (
	"net/http"

	"github.com/jsphweid/chordgen/logger"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the progression editor API",
	Long:  `Serves the HTTP API used by the browser piano roll editor.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func serve() error {
	addr := ":" + cfg.Port
	logger.Info("listening", logger.Fields{"addr": addr, "environment": cfg.Environment})
	return http.ListenAndServe(addr, NewServer(cfg).Handler())
}
