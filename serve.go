package main

import (
	"github.com/spf13/cobra"

	"example.com/pdf-pairmerge/internal/httpserver"
	"example.com/pdf-pairmerge/internal/middleware"
	"example.com/pdf-pairmerge/internal/shutdown"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the upload web UI",
	Long: `Serve starts an HTTP server with an upload page for Part A and Part B PDFs.
POST /merge runs one pairing pass over the uploaded files and returns the
status records followed by the zip archive (base64) as JSON. Nothing is kept
between requests.

POST /merge?format=zip is a convenience for scripted clients: the body is the
raw archive and only the counts are reported, in the X-Merged-Count,
X-Failed-Count and X-Skipped-Count headers. Use the JSON response when the
per-file messages are needed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := newServer(&app{
			pipeline:       newPipeline(),
			maxUploadBytes: cfg.Server.MaxUploadBytes,
			log:            logger.With("component", "http"),
		})

		g := shutdown.New(cmd.Context(), cfg.Server.ShutdownTimeout, logger)
		g.Go(srv.Start)
		g.MustClose(srv.Stop)
		return g.Wait()
	},
}

func newServer(a *app) *httpserver.Server {
	return httpserver.New(newRouter(a),
		httpserver.WithAddress(cfg.Server.Addr),
		httpserver.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
		httpserver.WithMiddleware(middleware.AccessLog(a.log), middleware.RequestID),
		httpserver.WithLogger(a.log))
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "http listen address (e.g. :8080)")
	mustBind("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}
