package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yurifrl/cwreports/pkg/csv"
	"github.com/yurifrl/cwreports/pkg/deeplink"
	"github.com/yurifrl/cwreports/pkg/models"
)

type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatCSV:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format %q (want table or csv)", s)
	}
}

// Renderer writes reports to a single output. Colours are dropped when the
// output is not a terminal.
type Renderer struct {
	w        io.Writer
	title    lipgloss.Style
	muted    lipgloss.Style
	positive lipgloss.Style
	negative lipgloss.Style
}

func New(w io.Writer) *Renderer {
	r := lipgloss.NewRenderer(w)
	return &Renderer{
		w:        w,
		title:    r.NewStyle().Bold(true),
		muted:    r.NewStyle().Foreground(lipgloss.Color("8")),  // gray
		positive: r.NewStyle().Foreground(lipgloss.Color("10")), // green
		negative: r.NewStyle().Foreground(lipgloss.Color("9")),  // red
	}
}

func (r *Renderer) Budgets(budgets []*models.BudgetSummary) error {
	var b strings.Builder
	b.WriteString(r.title.Render("Budgets") + "\n")
	for _, s := range budgets {
		modified := "-"
		if !s.LastModifiedOn.IsZero() {
			modified = s.LastModifiedOn.Format("2006/01/02")
		}
		line := fmt.Sprintf("  %-30s | %-4s | %s | %s", s.Name, s.CurrencyISO, modified, deeplink.BudgetLink(s.ID))
		b.WriteString(line + "\n")
	}
	if len(budgets) == 0 {
		b.WriteString(r.muted.Render("  no budgets") + "\n")
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

// Accounts writes accounts in the given format, skipping those rejected by filter.
func (r *Renderer) Accounts(format Format, title string, accounts []*models.Account, filter AccountFilter) error {
	if format == FormatCSV {
		_, err := r.w.Write(csv.Create(models.AccountCSVHeader, accounts, filter.Func()))
		return err
	}
	return r.accountTable(title, filter.Apply(accounts))
}

func (r *Renderer) accountTable(title string, accounts []*models.Account) error {
	var b strings.Builder
	b.WriteString(r.title.Render(title) + "\n")

	balances := make([]models.Milliunits, 0, len(accounts))
	for _, a := range accounts {
		balances = append(balances, a.Balance)
		line := fmt.Sprintf("  %-30s | %-14s | %12s", a.Name, a.Type, a.Balance)
		switch {
		case a.Closed:
			b.WriteString(r.muted.Render(line+" (closed)") + "\n")
		case a.Balance.Negative():
			b.WriteString(r.negative.Render(line) + "\n")
		default:
			b.WriteString(r.positive.Render(line) + "\n")
		}
	}

	total := models.Sum(balances...)
	b.WriteString(fmt.Sprintf("  %-30s   %-14s   %12s\n", "Total", "", total.StringFixed(2)))
	_, err := io.WriteString(r.w, b.String())
	return err
}
