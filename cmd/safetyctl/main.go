package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

var (
	apiFlag string
	rootCmd = &cobra.Command{
		Use:   "safetyctl",
		Short: "CLI client for the safety backend REST API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Safety service base URL")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newClient() *resty.Client {
	return resty.New().
		SetBaseURL(apiFlag).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)
}

// printResponse pretty-prints the response body. Non-2xx answers become
// errors carrying the server's body.
func printResponse(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	var pretty json.RawMessage = resp.Body()
	out, mErr := json.MarshalIndent(pretty, "", "  ")
	if mErr != nil {
		_, _ = fmt.Fprintln(os.Stdout, resp.String())
		return nil
	}
	_, _ = fmt.Fprintln(os.Stdout, string(out))
	return nil
}
