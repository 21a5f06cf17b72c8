package executors

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/yurifrl/cwreports/pkg/models"
	"github.com/yurifrl/cwreports/pkg/plan"
	"github.com/yurifrl/cwreports/pkg/report"
)

// Run fetches the accounts of every report concurrently, then renders the
// reports in plan order. Reports without an output file go to w. The first
// failed fetch cancels the rest and nothing is written.
func (e *Executor) Run(ctx context.Context, p *plan.Plan, w io.Writer) error {
	e.logger.Debug("running plan", "reports", len(p.Reports))

	results := make([][]*models.Account, len(p.Reports))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, r := range p.Reports {
		i, r := i, r
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			accounts, err := e.provider.Accounts(r.Budget)
			if err != nil {
				return fmt.Errorf("budget %s: %w", r.Budget, err)
			}
			e.logger.Debug("fetched accounts", "budget", r.Budget, "count", len(accounts))
			results[i] = accounts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	format := p.OutputFormat()
	for i, r := range p.Reports {
		if err := e.write(w, format, r, results[i]); err != nil {
			return err
		}
	}
	e.logger.Info("plan complete", "reports", len(p.Reports))
	return nil
}

// write renders one report. A failed close of the output file is returned.
func (e *Executor) write(w io.Writer, format report.Format, r plan.Report, accounts []*models.Account) (err error) {
	if r.Output == "" {
		return report.New(w).Accounts(format, r.Name(), accounts, r.Filter())
	}

	if err := os.MkdirAll(filepath.Dir(r.Output), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	f, err := e.create(r.Output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", r.Output, cerr)
		}
	}()

	if err := report.New(f).Accounts(format, r.Name(), accounts, r.Filter()); err != nil {
		return fmt.Errorf("failed to write %s: %w", r.Output, err)
	}
	e.logger.Info("wrote report", "budget", r.Budget, "file", r.Output)
	return nil
}
