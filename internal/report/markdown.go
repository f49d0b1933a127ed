package report

import (
	"fmt"
	"os"
	"strings"
	"time"
)

var riskOrder = []string{RiskExtinctTrend, RiskCritical, RiskHigh, RiskModerate, RiskStable, RiskUnknown}

// WriteMarkdown writes the conservation report to path.
func WriteMarkdown(path string, models []SpeciesModel, referenceYear, horizon int) error {
	return os.WriteFile(path, []byte(renderMarkdown(models, referenceYear, horizon, time.Now())), 0o644)
}

func renderMarkdown(models []SpeciesModel, referenceYear, horizon int, generated time.Time) string {
	var b strings.Builder

	b.WriteString("# SPECIES EXTINCTION TREND REPORT\n")
	fmt.Fprintf(&b, "## Linear trend projection, reference year %d\n\n", referenceYear)
	fmt.Fprintf(&b, "_Generated %s_\n\n", generated.Format("2006-01-02 15:04"))

	b.WriteString("### 📊 SUMMARY\n\n")
	counts := summarize(models)
	fmt.Fprintf(&b, "- **Species analysed**: %d\n", len(models))
	computable := 0
	for _, m := range models {
		if m.Estimate.Computable() {
			computable++
		}
	}
	fmt.Fprintf(&b, "- **With an extinction estimate**: %d\n", computable)
	for _, level := range riskOrder {
		if n := counts[level]; n > 0 {
			fmt.Fprintf(&b, "- **%s**: %d\n", level, n)
		}
	}

	fmt.Fprintf(&b, "\n### 🚨 CRITICAL SPECIES (within %d years)\n\n", horizon)
	critical := filterByRisk(models, RiskCritical, RiskExtinctTrend)
	if len(critical) == 0 {
		b.WriteString("None.\n")
	}
	for _, m := range critical {
		fmt.Fprintf(&b, "#### %s (%s)\n", m.Species, m.Info.ScientificName)
		fmt.Fprintf(&b, "- Projected extinction: **%d** (%+d years)\n", m.Estimate.Year, m.YearsRemaining)
		fmt.Fprintf(&b, "- Conservation status: %s\n", m.Info.Status)
		fmt.Fprintf(&b, "- Latest population: %s (%d)\n", formatNumber(m.LatestPopulation), m.LastYear)
		fmt.Fprintf(&b, "- Threats: %s\n", m.Info.Threats)
		fmt.Fprintf(&b, "- Recommended actions: %s\n", m.Info.RecommendedActions)
		fmt.Fprintf(&b, "- Organizations: %s\n\n", m.Info.Organizations)
	}

	b.WriteString("\n### 📋 ALL SPECIES\n\n")
	b.WriteString("| Species | Outcome / Year | Risk | Slope | Peak | Latest | Avg Change/yr | Volatility |\n")
	b.WriteString("|---------|----------------|------|-------|------|--------|---------------|------------|\n")
	for _, m := range models {
		slope := "-"
		if m.Estimate.Fit != nil {
			slope = fmt.Sprintf("%.2f", m.Estimate.Fit.Slope)
		}
		peak, latest := "-", "-"
		if m.ValidPoints > 0 {
			peak = fmt.Sprintf("%s (%d)", formatNumber(m.PeakPopulation), m.PeakYear)
			latest = fmt.Sprintf("%s (%d)", formatNumber(m.LatestPopulation), m.LastYear)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %.1f | %.1f%% |\n",
			m.Species, formatYear(m), m.RiskLevel, slope, peak, latest, m.AverageChange, m.Volatility)
	}

	b.WriteString("\n### ℹ️ METHOD\n\n")
	b.WriteString("Each species is fitted with an ordinary least-squares line over its valid yearly ")
	b.WriteString("observations. The projected extinction year is where the line reaches zero, ")
	b.WriteString("rounded to the nearest year. Species whose line is flat or rising are marked STABLE.\n")

	return b.String()
}

func filterByRisk(models []SpeciesModel, levels ...string) []SpeciesModel {
	var out []SpeciesModel
	for _, m := range models {
		for _, l := range levels {
			if m.RiskLevel == l {
				out = append(out, m)
				break
			}
		}
	}
	return out
}
