package deeplink

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yurifrl/cwreports/pkg/models"
)

const (
	hostOAuth   = "oauth"
	hostBudgets = "budgets"

	// RedirectURI is registered with YNAB as the OAuth callback.
	RedirectURI = Scheme + "://" + hostOAuth
)

var (
	ErrNotDeeplink         = errors.New("not a cw-reports link")
	ErrUnknownRoute        = errors.New("unknown route")
	ErrInvalidBudgetID     = errors.New("invalid budget id")
	ErrMissingToken        = errors.New("authorization callback without access_token")
	ErrAuthorizationDenied = errors.New("authorization denied")
)

// Destination is where a link sends the user.
type Destination interface {
	Name() string
}

type Budgets struct{}

func (Budgets) Name() string { return "budgets" }

type Accounts struct {
	BudgetID      string `json:"budget_id"`
	IncludeClosed bool   `json:"include_closed"`
}

func (Accounts) Name() string { return "accounts" }

type Authorize struct {
	Token models.Token `json:"token"`
}

func (Authorize) Name() string { return "authorize" }

// Route resolves a link to its destination.
func Route(l *Link) (Destination, error) {
	if !l.IsDeeplink() {
		return nil, fmt.Errorf("%w: scheme %q", ErrNotDeeplink, l.RawScheme())
	}

	u := l.URL()
	path := strings.Trim(u.Path, "/")

	switch {
	case u.Host == hostOAuth && path == "":
		return routeAuthorize(l)
	case u.Host == hostBudgets && path == "":
		return Budgets{}, nil
	case u.Host == hostBudgets && !strings.Contains(path, "/"):
		if err := ValidateBudgetID(path); err != nil {
			return nil, err
		}
		return Accounts{BudgetID: path, IncludeClosed: includeClosed(l)}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownRoute, l)
}

func routeAuthorize(l *Link) (Destination, error) {
	items, _ := l.FragmentItems()

	if code, ok := items["error"]; ok {
		desc, _ := url.QueryUnescape(items["error_description"])
		return nil, fmt.Errorf("%w: %s %s", ErrAuthorizationDenied, code, desc)
	}

	accessToken := items["access_token"]
	if accessToken == "" {
		return nil, ErrMissingToken
	}

	tok := models.Token{
		AccessToken: accessToken,
		TokenType:   items["token_type"],
		State:       items["state"],
	}
	if secs, err := strconv.Atoi(items["expires_in"]); err == nil && secs > 0 {
		tok.ExpiresIn = time.Duration(secs) * time.Second
	}
	return Authorize{Token: tok}, nil
}

// includeClosed reads the "closed" query flag. A bare "closed" counts as true.
func includeClosed(l *Link) bool {
	items, _ := l.QueryItems()
	for _, item := range items {
		if item.Name != "closed" {
			continue
		}
		v, ok := item.Val()
		if !ok {
			return true
		}
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

// ValidateBudgetID accepts a canonical lower-case UUID
// (xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx) or one of the YNAB aliases
// "last-used" and "default". The urn, braced, dashless and upper-case forms
// that uuid.Parse tolerates are rejected.
func ValidateBudgetID(id string) error {
	if id == "last-used" || id == "default" {
		return nil
	}
	u, err := uuid.Parse(id)
	if err != nil || u.String() != id {
		return fmt.Errorf("%w %q", ErrInvalidBudgetID, id)
	}
	return nil
}

func BudgetsLink() string {
	return Scheme + "://" + hostBudgets
}

func BudgetLink(budgetID string) string {
	return BudgetsLink() + "/" + url.PathEscape(budgetID)
}
