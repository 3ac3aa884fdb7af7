package main

import (
	"github.com/spf13/cobra"
)

func init() {
	safetyCmd := &cobra.Command{Use: "safety", Short: "Silence monitor operations"}

	statusCmd := &cobra.Command{
		Use:   "status ACCOUNT_ID",
		Short: "Query the current risk status for an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newClient().R().Get("/api/safety/status/" + args[0])
			return printResponse(resp, err)
		},
	}
	safetyCmd.AddCommand(statusCmd)

	checkinCmd := &cobra.Command{
		Use:   "checkin ACCOUNT_ID",
		Short: "Record a proof-of-life check-in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newClient().R().Post("/api/safety/checkin/" + args[0])
			return printResponse(resp, err)
		},
	}
	safetyCmd.AddCommand(checkinCmd)

	rootCmd.AddCommand(safetyCmd)
}
