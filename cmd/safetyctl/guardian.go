package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	guardianCmd := &cobra.Command{Use: "guardian", Short: "Guardian operations"}

	var accountID, guardianUsername string
	connectCmd := &cobra.Command{
		Use:   "connect",
		Short: "Link a user account to a guardian",
		RunE: func(cmd *cobra.Command, args []string) error {
			if accountID == "" || guardianUsername == "" {
				return fmt.Errorf("--account and --guardian required")
			}
			resp, err := newClient().R().
				SetBody(map[string]string{
					"accountId":        accountID,
					"guardianUsername": guardianUsername,
				}).
				Post("/api/guardian/connect")
			return printResponse(resp, err)
		},
	}
	connectCmd.Flags().StringVarP(&accountID, "account", "i", "", "User account ID (required)")
	connectCmd.Flags().StringVarP(&guardianUsername, "guardian", "g", "", "Guardian username (required)")
	_ = connectCmd.MarkFlagRequired("account")
	_ = connectCmd.MarkFlagRequired("guardian")
	guardianCmd.AddCommand(connectCmd)

	usersCmd := &cobra.Command{
		Use:   "users GUARDIAN_ID",
		Short: "List the accounts a guardian watches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newClient().R().Get("/api/guardian/" + args[0] + "/users")
			return printResponse(resp, err)
		},
	}
	guardianCmd.AddCommand(usersCmd)

	rootCmd.AddCommand(guardianCmd)
}
