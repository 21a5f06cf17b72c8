package csv

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yurifrl/cwreports/pkg/models"
)

func accounts() []*models.Account {
	return []*models.Account{
		{Name: "Checking", Type: models.AccountChecking, OnBudget: true, Balance: 1250000, ClearedBalance: 1250000},
		{Name: "Visa, Gold", Type: models.AccountCreditCard, OnBudget: true, Balance: -194290, UnclearedBalance: -194290},
		{Name: "Old savings", Type: models.AccountSavings, Closed: true},
	}
}

func TestCreate(t *testing.T) {
	got := Create(models.AccountCSVHeader, accounts(), nil)

	expected := `Name,Type,On Budget,Closed,Cleared,Uncleared,Balance
Checking,checking,true,false,1250.00,0.00,1250.00
"Visa, Gold",creditCard,true,false,0.00,-194.29,-194.29
Old savings,savings,false,true,0.00,0.00,0.00
`
	assert.Equal(t, expected, string(got))
}

func TestCreateWithFilter(t *testing.T) {
	open := func(a *models.Account) bool { return !a.Closed }
	cards := func(a *models.Account) bool { return a.Type == models.AccountCreditCard }

	got := Create(models.AccountCSVHeader, accounts(), And[*models.Account](open, cards, nil))

	expected := `Name,Type,On Budget,Closed,Cleared,Uncleared,Balance
"Visa, Gold",creditCard,true,false,0.00,-194.29,-194.29
`
	assert.Equal(t, expected, string(got))
}

func TestCreateEmpty(t *testing.T) {
	got := Create[*models.Account](models.AccountCSVHeader, nil, nil)
	assert.Equal(t, "Name,Type,On Budget,Closed,Cleared,Uncleared,Balance\n", string(got))
}
