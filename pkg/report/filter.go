package report

import (
	"strings"

	"github.com/yurifrl/cwreports/pkg/csv"
	"github.com/yurifrl/cwreports/pkg/models"
)

// AccountFilter selects which accounts a report shows.
type AccountFilter struct {
	IncludeClosed bool
	OnBudgetOnly  bool
	Type          string
}

// Func returns f as a CSV filter. Unset criteria contribute no check.
func (f AccountFilter) Func() csv.FilterFunc[*models.Account] {
	var filters []csv.FilterFunc[*models.Account]
	if !f.IncludeClosed {
		filters = append(filters, isOpen)
	}
	if f.OnBudgetOnly {
		filters = append(filters, isOnBudget)
	}
	if f.Type != "" {
		filters = append(filters, ofType(f.Type))
	}
	return csv.And(filters...)
}

func isOpen(a *models.Account) bool { return !a.Closed }

func isOnBudget(a *models.Account) bool { return a.OnBudget }

func ofType(t string) csv.FilterFunc[*models.Account] {
	return func(a *models.Account) bool {
		return strings.EqualFold(string(a.Type), t)
	}
}

// Apply returns the accounts accepted by f, in order.
func (f AccountFilter) Apply(accounts []*models.Account) []*models.Account {
	keep := f.Func()
	out := make([]*models.Account, 0, len(accounts))
	for _, a := range accounts {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}
