package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mpesa-gateway",
	Short: "M-Pesa STK Push gateway service",
	Long:  "A checkout gateway service for Safaricom M-Pesa STK Push payments and their asynchronous result callbacks.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
