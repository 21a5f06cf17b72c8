package plan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yurifrl/cwreports/pkg/deeplink"
	"github.com/yurifrl/cwreports/pkg/report"
)

type Plan struct {
	Format  string   `yaml:"format"`
	Reports []Report `yaml:"reports"`
}

type Report struct {
	Budget        string `yaml:"budget"`
	Title         string `yaml:"title"`
	IncludeClosed bool   `yaml:"include_closed"`
	OnBudgetOnly  bool   `yaml:"on_budget_only"`
	Type          string `yaml:"type"`
	Output        string `yaml:"output"`
}

func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Plan) Validate() error {
	if len(p.Reports) == 0 {
		return fmt.Errorf("plan has no reports")
	}
	if _, err := report.ParseFormat(p.Format); err != nil {
		return fmt.Errorf("plan: %w", err)
	}
	for i, r := range p.Reports {
		if err := deeplink.ValidateBudgetID(r.Budget); err != nil {
			return fmt.Errorf("plan report %d: %w", i+1, err)
		}
	}
	return nil
}

// OutputFormat is the validated plan format; table when unset.
func (p *Plan) OutputFormat() report.Format {
	f, _ := report.ParseFormat(p.Format)
	return f
}

// Name returns the title, or the budget id when there is none.
func (r Report) Name() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Budget
}

func (r Report) Filter() report.AccountFilter {
	return report.AccountFilter{
		IncludeClosed: r.IncludeClosed,
		OnBudgetOnly:  r.OnBudgetOnly,
		Type:          r.Type,
	}
}

func (p *Plan) Print() {
	fmt.Printf("Format: %s\n", p.OutputFormat())
	for i, r := range p.Reports {
		out := r.Output
		if out == "" {
			out = "stdout"
		}
		fmt.Printf("[%d] budget=%s title=%s output=%s\n", i+1, r.Budget, r.Name(), out)
	}
}
