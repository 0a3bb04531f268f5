package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/synthlab/internal/server"
	"github.com/KaramelBytes/synthlab/internal/session"
)

var (
	srvFlags engineFlags
	srvAddr  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload, statistics and export API over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := srvFlags.engine(cmd)
		if err != nil {
			return err
		}
		g := currentConfig()
		addr := g.ListenAddr
		if cmd.Flags().Changed("addr") {
			addr = srvAddr
		}
		srv := server.New(eng, session.New(), logger, server.Options{
			MaxUploadBytes: int64(g.MaxUploadMB) << 20,
			SampleRows:     g.SampleRows,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Serving on %s (Ctrl+C to stop)\n", addr)
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	srvFlags.register(serveCmd)
	serveCmd.Flags().StringVar(&srvAddr, "addr", ":8080", "listen address (overrides listen_addr)")
}
