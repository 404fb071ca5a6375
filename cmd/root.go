package cmd

import (
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "solana-staking-dashboard",
	Short: "A data pipeline for Solana staking analytics",
}
