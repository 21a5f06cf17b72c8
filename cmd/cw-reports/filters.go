package main

import (
	"github.com/spf13/cobra"

	"github.com/yurifrl/cwreports/pkg/report"
)

type filters struct {
	closed   bool
	onBudget bool
	kind     string
}

func (f *filters) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.closed, "closed", false, "Include closed accounts")
	cmd.Flags().BoolVar(&f.onBudget, "on-budget", false, "Only on-budget accounts")
	cmd.Flags().StringVar(&f.kind, "type", "", "Only accounts of this type (checking, savings, creditCard, ...)")
}

func (f *filters) toAccountFilter() report.AccountFilter {
	return report.AccountFilter{
		IncludeClosed: f.closed,
		OnBudgetOnly:  f.onBudget,
		Type:          f.kind,
	}
}
