package ynab

import (
	"fmt"
	"net/url"

	"github.com/brunomvsouza/ynab.go"
	"github.com/brunomvsouza/ynab.go/api"
	"github.com/brunomvsouza/ynab.go/api/account"
	"github.com/brunomvsouza/ynab.go/api/budget"

	"github.com/yurifrl/cwreports/pkg/deeplink"
	"github.com/yurifrl/cwreports/pkg/models"
)

const authorizeEndpoint = "https://app.ynab.com/oauth/authorize"

// Provider supplies budget data for reports.
type Provider interface {
	Budgets() ([]*models.BudgetSummary, error)
	Accounts(budgetID string) ([]*models.Account, error)
}

// Factory builds a Provider for an access token.
type Factory func(token string) Provider

type budgetService interface {
	GetBudgets() ([]*budget.Summary, error)
}

type accountService interface {
	GetAccounts(budgetID string, f *api.Filter) (*account.SearchResultSnapshot, error)
}

// YNABClient adapts the SDK client to Provider.
type YNABClient struct {
	budgets  budgetService
	accounts accountService
}

func NewProvider(token string) Provider { return New(token) }

func New(token string) *YNABClient {
	c := ynab.NewClient(token)
	return &YNABClient{
		budgets:  c.Budget(),
		accounts: c.Account(),
	}
}

func (c *YNABClient) Budgets() ([]*models.BudgetSummary, error) {
	summaries, err := c.budgets.GetBudgets()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch budgets: %w", err)
	}

	out := make([]*models.BudgetSummary, 0, len(summaries))
	for _, s := range summaries {
		if s == nil {
			continue
		}
		out = append(out, budgetSummary(s))
	}
	return out, nil
}

func (c *YNABClient) Accounts(budgetID string) ([]*models.Account, error) {
	snapshot, err := c.accounts.GetAccounts(budgetID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	if snapshot == nil {
		return []*models.Account{}, nil
	}

	out := make([]*models.Account, 0, len(snapshot.Accounts))
	for _, a := range snapshot.Accounts {
		if a == nil || a.Deleted {
			continue
		}
		out = append(out, accountModel(a))
	}
	return out, nil
}

func budgetSummary(s *budget.Summary) *models.BudgetSummary {
	out := &models.BudgetSummary{ID: s.ID, Name: s.Name}
	if s.LastModifiedOn != nil {
		out.LastModifiedOn = *s.LastModifiedOn
	}
	if s.CurrencyFormat != nil {
		out.CurrencyISO = s.CurrencyFormat.ISOCode
		out.CurrencySymbol = s.CurrencyFormat.CurrencySymbol
	}
	return out
}

func accountModel(a *account.Account) *models.Account {
	out := &models.Account{
		ID:               a.ID,
		Name:             a.Name,
		Type:             models.AccountType(a.Type),
		OnBudget:         a.OnBudget,
		Closed:           a.Closed,
		Balance:          models.Milliunits(a.Balance),
		ClearedBalance:   models.Milliunits(a.ClearedBalance),
		UnclearedBalance: models.Milliunits(a.UnclearedBalance),
	}
	if a.Note != nil {
		out.Note = *a.Note
	}
	return out
}

// AuthorizeURL returns the implicit-grant URL. YNAB redirects back to
// deeplink.RedirectURI with the token in the fragment.
func AuthorizeURL(clientID, state string) string {
	q := url.Values{}
	q.Set("client_id", clientID)
	q.Set("redirect_uri", deeplink.RedirectURI)
	q.Set("response_type", "token")
	if state != "" {
		q.Set("state", state)
	}
	return authorizeEndpoint + "?" + q.Encode()
}
