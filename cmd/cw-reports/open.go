package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/yurifrl/cwreports/pkg/config"
	"github.com/yurifrl/cwreports/pkg/deeplink"
	"github.com/yurifrl/cwreports/pkg/report"
)

var errStateMismatch = errors.New("oauth state does not match the pending login")

type decodedLink struct {
	URL         string
	Deeplink    bool
	HasQuery    bool
	Query       []deeplink.QueryItem
	HasFragment bool
	Fragment    map[string]string
}

var openCmd = &cobra.Command{
	Use:   "open <url>",
	Short: "Handle a cw-reports:// link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		link, err := deeplink.Parse(args[0])
		if err != nil {
			return err
		}

		if dump, _ := cmd.Flags().GetBool("dump"); dump {
			d := decodedLink{URL: link.String(), Deeplink: link.IsDeeplink()}
			d.Query, d.HasQuery = link.QueryItems()
			d.Fragment, d.HasFragment = link.FragmentItems()
			pp.Println(d)
		}

		dest, err := deeplink.Route(link)
		if err != nil {
			return err
		}

		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}

		switch d := dest.(type) {
		case deeplink.Authorize:
			return authorize(cfg, d)
		case deeplink.Budgets:
			provider, err := providerFor(cfg)
			if err != nil {
				return err
			}
			return showBudgets(provider)
		case deeplink.Accounts:
			provider, err := providerFor(cfg)
			if err != nil {
				return err
			}
			return showAccounts(cfg, provider, d.BudgetID, report.AccountFilter{IncludeClosed: d.IncludeClosed})
		default:
			return fmt.Errorf("no handler for %s", dest.Name())
		}
	},
}

// authorize stores the token from an OAuth callback. When a login is pending
// the callback must carry its state.
func authorize(cfg *config.Config, d deeplink.Authorize) error {
	if cfg.OAuthState != "" && d.Token.State != cfg.OAuthState {
		return errStateMismatch
	}
	cfg.SetToken(d.Token, time.Now())
	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Printf("Token saved to %s\n", cfg.Path())
	return nil
}
