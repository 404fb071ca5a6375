package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dashboard/config"
	"dashboard/db"
	"dashboard/logger"
	"dashboard/poller"
	"dashboard/rpc"
)

var listenAddr string

var serveCmd = cobra.Command{
	Use:   "serve",
	Short: "Start the refresh loop and serve dashboard data over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		logger.InitLogs("serve")

		cfg := poller.LoadConfig()

		var store db.Store = db.NewNoop()
		if cfg.CacheEnabled {
			store = db.NewClickhouse()
		}
		defer store.Close()

		client := rpc.NewClient(viper.GetString("sol.rpc"))
		p := poller.New(client, store, cfg)

		logger.GlobalLogger.Info("Running cmd serve",
			"rpc", client.Endpoint(), "listen", listenAddr,
			"refreshInterval", cfg.RefreshInterval, "cacheEnabled", cfg.CacheEnabled)

		stop := make(chan struct{})
		go p.Run(stop)
		defer close(stop)

		if err := http.ListenAndServe(listenAddr, p.Handler()); err != nil {
			logger.GlobalLogger.Error("HTTP server stopped", "err", err)
		}
	},
}

func init() {
	serveCmd.Flags().StringVarP(&listenAddr, "listen", "l", config.DefaultListenAddr, "HTTP listen address")
	RootCmd.AddCommand(&serveCmd)
}
