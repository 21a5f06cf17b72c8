package models

import "strconv"

type AccountType string

const (
	AccountChecking       AccountType = "checking"
	AccountSavings        AccountType = "savings"
	AccountCash           AccountType = "cash"
	AccountCreditCard     AccountType = "creditCard"
	AccountLineOfCredit   AccountType = "lineOfCredit"
	AccountOtherAsset     AccountType = "otherAsset"
	AccountOtherLiability AccountType = "otherLiability"
	AccountMortgage       AccountType = "mortgage"
)

// Account is a budget account as shown in reports.
type Account struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Type             AccountType `json:"type"`
	OnBudget         bool        `json:"on_budget"`
	Closed           bool        `json:"closed"`
	Balance          Milliunits  `json:"balance"`
	ClearedBalance   Milliunits  `json:"cleared_balance"`
	UnclearedBalance Milliunits  `json:"uncleared_balance"`
	Note             string      `json:"note,omitempty"`
}

// AccountCSVHeader matches the columns of Account.CSVRecord.
var AccountCSVHeader = []string{"Name", "Type", "On Budget", "Closed", "Cleared", "Uncleared", "Balance"}

func (a *Account) CSVRecord() []string {
	return []string{
		a.Name,
		string(a.Type),
		strconv.FormatBool(a.OnBudget),
		strconv.FormatBool(a.Closed),
		a.ClearedBalance.String(),
		a.UnclearedBalance.String(),
		a.Balance.String(),
	}
}
