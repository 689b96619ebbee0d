package handlers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/imamik/blueprints/internal/plan"
)

// isInteractiveTTY reports whether stdout is a terminal. Replaced in tests.
var isInteractiveTTY = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

var (
	planColorBlue  = lipgloss.Color("#3b82f6")
	planColorDim   = lipgloss.Color("#6b7280")
	planColorWhite = lipgloss.Color("#f9fafb")
	planColorGreen = lipgloss.Color("#22c55e")
)

// planStyles holds the styles of plan output. The zero value renders plain text.
type planStyles struct {
	title   lipgloss.Style
	section lipgloss.Style
	kind    lipgloss.Style
	dim     lipgloss.Style
}

func newPlanStyles(color bool) planStyles {
	if !color {
		plain := lipgloss.NewStyle()
		return planStyles{title: plain, section: plain, kind: plain, dim: plain}
	}
	return planStyles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(planColorWhite),
		section: lipgloss.NewStyle().Bold(true).Foreground(planColorBlue),
		kind:    lipgloss.NewStyle().Foreground(planColorGreen),
		dim:     lipgloss.NewStyle().Foreground(planColorDim),
	}
}

// Plan prints the resources deploy would apply without contacting the cluster.
func Plan(ctx context.Context, configPath string) error {
	cfg, err := loadDeployConfig(ctx, configPath)
	if err != nil {
		return err
	}

	info, err := buildPlan(ctx, cfg, "")
	if err != nil {
		return err
	}

	out, err := renderPlan(cfg.ClusterName, info.Plan, newPlanStyles(isInteractiveTTY()))
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, out)
	return nil
}

// planLevels groups handles by dependency depth, keeping plan order within a level.
func planLevels(p *plan.Plan) ([][]*plan.Handle, error) {
	order, err := p.Order()
	if err != nil {
		return nil, err
	}

	depth := make(map[*plan.Handle]int, len(order))
	var levels [][]*plan.Handle
	for _, h := range order {
		d := 0
		for _, dep := range p.DependenciesOf(h) {
			if depth[dep]+1 > d {
				d = depth[dep] + 1
			}
		}
		depth[h] = d
		for len(levels) <= d {
			levels = append(levels, nil)
		}
		levels[d] = append(levels[d], h)
	}
	return levels, nil
}

// renderPlan produces the plan summary: resources per level, then edges.
func renderPlan(clusterName string, p *plan.Plan, s planStyles) (string, error) {
	levels, err := planLevels(p)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(s.title.Render(fmt.Sprintf("  blueprints plan: %s", clusterName)))
	b.WriteString("\n")
	b.WriteString(s.dim.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n")

	for i, level := range levels {
		b.WriteString("\n")
		b.WriteString(s.section.Render(fmt.Sprintf("  Level %d", i+1)))
		b.WriteString("\n")
		for _, h := range level {
			location := h.Name()
			if h.Namespace() != "" {
				location = h.Namespace() + "/" + h.Name()
			}
			fmt.Fprintf(&b, "    %s %s\n", s.kind.Render(fmt.Sprintf("%-10s", h.Kind())), location)
		}
	}

	edges := p.Edges()
	if len(edges) > 0 {
		b.WriteString("\n")
		b.WriteString(s.section.Render("  Dependencies"))
		b.WriteString("\n")
		for _, e := range edges {
			fmt.Fprintf(&b, "    %s %s %s\n", e.Dependent.ID(), s.dim.Render("after"), e.Dependency.ID())
		}
	}

	b.WriteString("\n")
	b.WriteString(s.dim.Render(fmt.Sprintf("  %d resources in %d levels", p.Len(), len(levels))))
	b.WriteString("\n")

	return b.String(), nil
}
