package models

import "time"

// BudgetSummary is the short form of a budget returned by the budget list.
type BudgetSummary struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	LastModifiedOn time.Time `json:"last_modified_on"`
	CurrencyISO    string    `json:"currency_iso,omitempty"`
	CurrencySymbol string    `json:"currency_symbol,omitempty"`
}
