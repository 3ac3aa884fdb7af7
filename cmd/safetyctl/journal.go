package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	journalCmd := &cobra.Command{Use: "journal", Short: "Journal operations"}

	var accountID, text string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Append a journal entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if accountID == "" || text == "" {
				return fmt.Errorf("--account and --text required")
			}
			resp, err := newClient().R().
				SetBody(map[string]string{"accountId": accountID, "text": text}).
				Post("/api/journal")
			return printResponse(resp, err)
		},
	}
	addCmd.Flags().StringVarP(&accountID, "account", "i", "", "Account ID (required)")
	addCmd.Flags().StringVarP(&text, "text", "t", "", "Entry text (required)")
	_ = addCmd.MarkFlagRequired("account")
	_ = addCmd.MarkFlagRequired("text")
	journalCmd.AddCommand(addCmd)

	listCmd := &cobra.Command{
		Use:   "list ACCOUNT_ID",
		Short: "List journal entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newClient().R().Get("/api/journal/" + args[0])
			return printResponse(resp, err)
		},
	}
	journalCmd.AddCommand(listCmd)

	rootCmd.AddCommand(journalCmd)
}
