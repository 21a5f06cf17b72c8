package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yurifrl/cwreports/pkg/config"
	"github.com/yurifrl/cwreports/pkg/deeplink"
	"github.com/yurifrl/cwreports/pkg/executors"
	"github.com/yurifrl/cwreports/pkg/plan"
	"github.com/yurifrl/cwreports/pkg/report"
	"github.com/yurifrl/cwreports/pkg/ynab"
)

var (
	cfgFile        string
	debug          bool
	accountFilters filters
)

var rootCmd = &cobra.Command{
	Use:           "cw-reports",
	Short:         "Budget and account reports from YNAB",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var budgetsCmd = &cobra.Command{
	Use:   "budgets",
	Short: "List budgets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		provider, err := providerFor(cfg)
		if err != nil {
			return err
		}
		return showBudgets(provider)
	},
}

var accountsCmd = &cobra.Command{
	Use:   "accounts [budget-id]",
	Short: "Show account balances of a budget",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		budgetID := cfg.Budget
		if len(args) == 1 {
			budgetID = args[0]
		}
		provider, err := providerFor(cfg)
		if err != nil {
			return err
		}
		return showAccounts(cfg, provider, budgetID, accountFilters.toAccountFilter())
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Print the YNAB authorization URL",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		if cfg.ClientID == "" {
			return fmt.Errorf("client_id required (flag --client-id or CWREPORTS_CLIENT_ID)")
		}

		state := uuid.NewString()
		cfg.SetOAuthState(state)
		if err := cfg.Save(); err != nil {
			return err
		}

		fmt.Println("Open this URL to authorize cw-reports:")
		fmt.Println(ynab.AuthorizeURL(cfg.ClientID, state))
		fmt.Println("then run: cw-reports open '<redirect url>'")
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run <plan_file>",
	Short: "Run every report of a YAML plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := plan.Load(args[0])
		if err != nil {
			return err
		}

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		if dryRun {
			fmt.Printf("Plan preview for %s\n", args[0])
			p.Print()
			return nil
		}

		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		provider, err := providerFor(cfg)
		if err != nil {
			return err
		}
		return executors.New(newLogger(), provider).Run(cmd.Context(), p, os.Stdout)
	},
}

func newLogger() *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "cw-reports",
		Level:           level,
	})
}

func providerFor(cfg *config.Config) (ynab.Provider, error) {
	if cfg.AccessToken == "" {
		return nil, errors.New("no access token: run `cw-reports login` or pass --token")
	}
	if cfg.TokenExpired(time.Now()) {
		return nil, errors.New("access token expired: run `cw-reports login`")
	}
	return ynab.NewProvider(cfg.AccessToken), nil
}

func showBudgets(provider ynab.Provider) error {
	budgets, err := provider.Budgets()
	if err != nil {
		return err
	}
	return report.New(os.Stdout).Budgets(budgets)
}

func showAccounts(cfg *config.Config, provider ynab.Provider, budgetID string, filter report.AccountFilter) error {
	if err := deeplink.ValidateBudgetID(budgetID); err != nil {
		return err
	}
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	accounts, err := provider.Accounts(budgetID)
	if err != nil {
		return err
	}
	return report.New(os.Stdout).Accounts(format, budgetID, accounts, filter)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is ./config.yaml or the user config dir)")
	rootCmd.PersistentFlags().String("token", "", "YNAB personal access token")
	rootCmd.PersistentFlags().String("budget", "", "Default budget id (uuid, last-used or default)")
	rootCmd.PersistentFlags().String("format", "", "Output format: table or csv")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Debug logging")

	accountFilters.register(accountsCmd)
	loginCmd.Flags().String("client-id", "", "YNAB OAuth application client id")
	runCmd.Flags().Bool("dry-run", false, "Only print the plan")
	openCmd.Flags().Bool("dump", false, "Pretty-print the decoded link")

	rootCmd.AddCommand(budgetsCmd, accountsCmd, loginCmd, openCmd, runCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
