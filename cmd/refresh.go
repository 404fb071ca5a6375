package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dashboard/db"
	"dashboard/logger"
	"dashboard/poller"
	"dashboard/rpc"
)

var refreshCmd = cobra.Command{
	Use:   "refresh",
	Short: "Run a single fetch-aggregate-cache cycle and exit",
	Run: func(cmd *cobra.Command, args []string) {
		logger.InitLogs("refresh")

		cfg := poller.LoadConfig()

		var store db.Store = db.NewNoop()
		if cfg.CacheEnabled {
			store = db.NewClickhouse()
		}
		defer store.Close()

		client := rpc.NewClient(viper.GetString("sol.rpc"))
		p := poller.New(client, store, cfg)

		res, err := p.Refresh()
		if err != nil {
			logger.GlobalLogger.Error("Refresh cycle failed", "err", err)
			return
		}

		logger.GlobalLogger.Info("Refresh cycle complete",
			"validators", len(res.Validators),
			"epoch", res.Network.Epoch.Current,
			"stakeAccounts", res.Stake.TotalAccounts,
			"fromCache", res.FromCache)
	},
}

func init() {
	RootCmd.AddCommand(&refreshCmd)
}
