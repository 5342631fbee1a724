// Package display renders human-readable summaries of command results.
// Default command output is JSON; these renderers back the --pretty flag.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nbench/envprofile/pkg/commands"
	"github.com/nbench/envprofile/pkg/types"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))

	requiredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	optionalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	skippedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Faint(true)
)

// RenderImportPlan renders the plan's buckets, ordered candidates first.
func RenderImportPlan(plan *types.ImportPlan) string {
	var out strings.Builder

	out.WriteString(titleStyle.Render(fmt.Sprintf("Import plan (%s)", plan.CurrentOS)) + "\n\n")

	sections := []struct {
		header string
		style  lipgloss.Style
		items  []types.PlannedItem
	}{
		{"Install (required)", requiredStyle, plan.PromptRequired},
		{"Install (optional)", optionalStyle, plan.PromptOptional},
		{"Manual setup (required)", requiredStyle, plan.ManualRequired},
		{"Manual setup (optional)", optionalStyle, plan.ManualOptional},
		{"Already installed", skippedStyle, plan.AlreadyInstalled},
		{"Unsupported here", skippedStyle, plan.Unsupported},
	}
	for _, section := range sections {
		if len(section.items) == 0 {
			continue
		}
		out.WriteString(section.style.Render(section.header) + "\n")
		for _, item := range section.items {
			line := fmt.Sprintf("  %-40s %s", item.ID, mutedStyle.Render(item.Reason))
			out.WriteString(line + "\n")
		}
		out.WriteString("\n")
	}

	summary := plan.Summary
	out.WriteString(mutedStyle.Render(fmt.Sprintf(
		"%d items: %d to install, %d manual, %d already installed, %d unsupported",
		summary.TotalItems,
		summary.PromptRequired+summary.PromptOptional,
		summary.ManualRequired+summary.ManualOptional,
		summary.AlreadyInstalled,
		summary.Unsupported,
	)))
	return out.String()
}

// RenderSavedApps renders the saved-application table.
func RenderSavedApps(result *commands.SavedAppsResult) string {
	var out strings.Builder

	out.WriteString(titleStyle.Render("Saved applications") + "\n\n")
	if len(result.SavedApplications) == 0 {
		out.WriteString(mutedStyle.Render("none") + "\n")
	}
	for _, row := range result.SavedApplications {
		marker := optionalStyle.Render(string(row.LastSeenState))
		if row.LastSeenState == types.SeenMissing {
			marker = skippedStyle.Render(string(row.LastSeenState))
		}
		priority := ""
		if row.Priority == types.PriorityRequired {
			priority = " " + requiredStyle.Render("required")
		}
		out.WriteString(fmt.Sprintf("  %-30s %s%s\n", row.Name, marker, priority))
	}

	if len(result.Removed) > 0 {
		out.WriteString("\n" + mutedStyle.Render("removed: "+strings.Join(result.Removed, ", ")) + "\n")
	}
	return out.String()
}

// RenderExportSummary renders the snapshot counts after an export.
func RenderExportSummary(result *commands.ExportResult) string {
	var out strings.Builder

	counts := result.Profile.Counts
	out.WriteString(titleStyle.Render(result.Profile.ProfileName) + "\n")
	out.WriteString(fmt.Sprintf("  %d items (%d required, %d optional)\n",
		counts.Total, counts.Required, counts.Optional))
	for _, category := range types.CategoryOrder {
		if n := counts.ByCategory[string(category)]; n > 0 {
			out.WriteString(mutedStyle.Render(fmt.Sprintf("  %-20s %d", category, n)) + "\n")
		}
	}
	for _, warning := range result.Warnings {
		out.WriteString(requiredStyle.Render("  ! ") + warning + "\n")
	}
	return out.String()
}
