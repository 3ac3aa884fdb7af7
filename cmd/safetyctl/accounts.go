package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	accountsCmd := &cobra.Command{Use: "accounts", Short: "Account operations"}

	// register
	var username, role, guardianEmail, guardianID string
	var normalPIN, disguisePIN, duressPIN string
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return fmt.Errorf("--username required")
			}
			payload := map[string]interface{}{
				"username": username,
				"role":     role,
			}
			if guardianEmail != "" {
				payload["guardianEmail"] = guardianEmail
			}
			if guardianID != "" {
				payload["guardianId"] = guardianID
			}
			if normalPIN != "" {
				payload["normalPin"] = normalPIN
			}
			if disguisePIN != "" {
				payload["disguisePin"] = disguisePIN
			}
			if duressPIN != "" {
				payload["duressPin"] = duressPIN
			}
			resp, err := newClient().R().SetBody(payload).Post("/api/auth/register")
			return printResponse(resp, err)
		},
	}
	registerCmd.Flags().StringVarP(&username, "username", "u", "", "Username (required)")
	registerCmd.Flags().StringVarP(&role, "role", "r", "USER", "Role (USER or GUARDIAN)")
	registerCmd.Flags().StringVarP(&guardianEmail, "guardian-email", "e", "", "Guardian contact email")
	registerCmd.Flags().StringVarP(&guardianID, "guardian-id", "g", "", "Guardian account ID")
	registerCmd.Flags().StringVar(&normalPIN, "normal-pin", "", "Normal access PIN")
	registerCmd.Flags().StringVar(&disguisePIN, "disguise-pin", "", "Disguise PIN")
	registerCmd.Flags().StringVar(&duressPIN, "duress-pin", "", "Duress PIN")
	_ = registerCmd.MarkFlagRequired("username")
	accountsCmd.AddCommand(registerCmd)

	// login
	var accountID, pin string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Submit a PIN for an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if accountID == "" || pin == "" {
				return fmt.Errorf("--account and --pin required")
			}
			resp, err := newClient().R().
				SetBody(map[string]string{"accountId": accountID, "pin": pin}).
				Post("/api/auth/login")
			return printResponse(resp, err)
		},
	}
	loginCmd.Flags().StringVarP(&accountID, "account", "i", "", "Account ID (required)")
	loginCmd.Flags().StringVarP(&pin, "pin", "p", "", "PIN (required)")
	_ = loginCmd.MarkFlagRequired("account")
	_ = loginCmd.MarkFlagRequired("pin")
	accountsCmd.AddCommand(loginCmd)

	// get
	getCmd := &cobra.Command{
		Use:   "get ACCOUNT_ID",
		Short: "Get account by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newClient().R().Get("/api/accounts/" + args[0])
			return printResponse(resp, err)
		},
	}
	accountsCmd.AddCommand(getCmd)

	rootCmd.AddCommand(accountsCmd)
}
