package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tradeledger-cli",
		Short: "TradeLedger CLI tool",
		Long:  `A command line interface for interacting with the TradeLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the TradeLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(accountCmd())
	rootCmd.AddCommand(instrumentCmd())
	rootCmd.AddCommand(tradeCmd())
	rootCmd.AddCommand(portfolioCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	var name, balance string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Run: func(cmd *cobra.Command, args []string) {
			doPost("/api/v1/accounts", map[string]any{
				"name":            name,
				"opening_balance": balance,
			})
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "Account holder name")
	createCmd.Flags().StringVar(&balance, "balance", "0", "Opening cash balance")
	_ = createCmd.MarkFlagRequired("name")

	getCmd := &cobra.Command{
		Use:   "get <account-id>",
		Short: "Get an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doGet("/api/v1/accounts/" + args[0])
		},
	}

	var amount string
	depositCmd := &cobra.Command{
		Use:   "deposit <account-id>",
		Short: "Deposit cash into an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doPost("/api/v1/accounts/"+args[0]+"/deposit", map[string]any{
				"amount": amount,
			})
		},
	}
	depositCmd.Flags().StringVar(&amount, "amount", "", "Amount to deposit")
	_ = depositCmd.MarkFlagRequired("amount")

	cmd.AddCommand(createCmd, getCmd, depositCmd)
	return cmd
}

func instrumentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instrument",
		Short: "Instrument catalog operations",
	}

	var code, name, price string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Register an instrument",
		Run: func(cmd *cobra.Command, args []string) {
			doPost("/api/v1/instruments", map[string]any{
				"code":  code,
				"name":  name,
				"price": price,
			})
		},
	}
	createCmd.Flags().StringVar(&code, "code", "", "Instrument code")
	createCmd.Flags().StringVar(&name, "name", "", "Instrument name")
	createCmd.Flags().StringVar(&price, "price", "", "Current market price")
	_ = createCmd.MarkFlagRequired("code")
	_ = createCmd.MarkFlagRequired("price")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List instruments",
		Run: func(cmd *cobra.Command, args []string) {
			doGet("/api/v1/instruments")
		},
	}

	cmd.AddCommand(createCmd, listCmd)
	return cmd
}

func tradeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Trade operations",
	}

	var account, instrument string
	var quantity int64
	for _, side := range []string{"buy", "sell"} {
		side := side
		sideCmd := &cobra.Command{
			Use:   side,
			Short: fmt.Sprintf("Execute a %s order", side),
			Run: func(cmd *cobra.Command, args []string) {
				doPost("/api/v1/trades", map[string]any{
					"account_id":    account,
					"instrument_id": instrument,
					"side":          side,
					"quantity":      quantity,
				})
			},
		}
		sideCmd.Flags().StringVar(&account, "account", "", "Account ID")
		sideCmd.Flags().StringVar(&instrument, "instrument", "", "Instrument ID")
		sideCmd.Flags().Int64Var(&quantity, "quantity", 0, "Quantity in units")
		_ = sideCmd.MarkFlagRequired("account")
		_ = sideCmd.MarkFlagRequired("instrument")
		_ = sideCmd.MarkFlagRequired("quantity")
		cmd.AddCommand(sideCmd)
	}

	listCmd := &cobra.Command{
		Use:   "list <account-id>",
		Short: "List trades for an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doGet("/api/v1/accounts/" + args[0] + "/trades")
		},
	}
	cmd.AddCommand(listCmd)

	return cmd
}

func portfolioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portfolio <account-id>",
		Short: "Show an account's portfolio",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doGet("/api/v1/accounts/" + args[0] + "/portfolio")
		},
	}

	evalCmd := &cobra.Command{
		Use:   "evaluation <account-id>",
		Short: "Show the portfolio priced at current market",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doGet("/api/v1/accounts/" + args[0] + "/portfolio/evaluation")
		},
	}
	cmd.AddCommand(evalCmd)

	return cmd
}

func doGet(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func doPost(path string, payload map[string]any) {
	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("Error encoding request: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func printResponse(resp *http.Response) {
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, truncate(string(body), 2000))
		os.Exit(1)
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	printJSON(decoded)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to encode output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
