package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/garyjia/backoffice-console/internal/application/service"
	"github.com/garyjia/backoffice-console/internal/domain/entity"
)

const progressBarWidth = 30

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	barDoneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	barTodoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	stateStyles = map[string]lipgloss.Style{
		"pending":   mutedStyle,
		"completed": warnStyle,
		"locked":    successStyle,
	}
	stateMarks = map[string]string{
		"pending":   "[ ]",
		"completed": "[x]",
		"locked":    "[#]",
	}
)

// renderProgressBar draws a fixed-width bar for pct (clamped to 0..100).
func renderProgressBar(pct, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * width / 100
	return barDoneStyle.Render(strings.Repeat("█", filled)) +
		barTodoStyle.Render(strings.Repeat("░", width-filled)) +
		fmt.Sprintf(" %3d%%", pct)
}

func renderChecklist(view *service.ChecklistView) string {
	var b strings.Builder

	title := fmt.Sprintf("%s checklist · %s (#%d)", view.Kind, view.EmployeeName, view.EmployeeID)
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	meta := []string{"status " + view.Status}
	if view.Department != "" {
		meta = append(meta, "department "+view.Department)
	}
	if view.ReferenceDate != "" {
		meta = append(meta, "date "+view.ReferenceDate)
	}
	if view.RecordID > 0 {
		meta = append(meta, fmt.Sprintf("record #%d", view.RecordID))
	}
	b.WriteString(mutedStyle.Render(strings.Join(meta, "  ")))
	b.WriteString("\n\n")

	b.WriteString(renderProgressBar(view.Percentage, progressBarWidth))
	b.WriteString(fmt.Sprintf("  %d/%d done, %d saved\n\n", view.Completed, view.Total, view.Locked))

	for _, task := range view.Tasks {
		style, ok := stateStyles[task.State]
		if !ok {
			style = mutedStyle
		}
		b.WriteString(style.Render(stateMarks[task.State]))
		b.WriteString(" " + task.Task)
		if task.At != nil {
			b.WriteString(mutedStyle.Render("  " + task.At.Local().Format(time.DateTime)))
		}
		b.WriteString("\n")
	}

	if view.Unsaved {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render("unsaved changes; run `consolectl checklist save` to keep them"))
		b.WriteString("\n")
	}
	return b.String()
}

func renderEmployees(page *entity.Page[*entity.Employee]) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("ID", "NAME", "EMAIL", "DEPARTMENT", "POSITION", "STATUS", "HIRED")

	for _, e := range page.Items {
		t.Row(fmt.Sprintf("%d", e.ID), e.FullName(), e.Email, e.Department, e.Position, e.Status, e.HireDate)
	}

	footer := mutedStyle.Render(fmt.Sprintf("showing %d of %d (offset %d)", len(page.Items), page.Total, page.Offset))
	return t.Render() + "\n" + footer + "\n"
}

func renderEmployee(e *entity.Employee) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s (#%d)", e.FullName(), e.ID)))
	b.WriteString("\n")
	rows := [][2]string{
		{"status", e.Status},
		{"email", e.Email},
		{"department", e.Department},
		{"position", e.Position},
		{"hired", e.HireDate},
		{"exit", strings.TrimSpace(e.ExitType + " " + e.ExitDate)},
		{"reason", e.ExitReason},
	}
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("%s %s\n", mutedStyle.Render(fmt.Sprintf("%-10s", r[0])), r[1]))
	}
	return b.String()
}

func renderStats(stats *entity.Stats) string {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return mutedStyle.PaddingRight(2)
			}
			return lipgloss.NewStyle()
		})

	for _, status := range sortedKeys(stats.EmployeesByStatus) {
		t.Row("employees "+strings.ToLower(status), fmt.Sprintf("%d", stats.EmployeesByStatus[status]))
	}
	for _, kind := range sortedKeys(stats.PendingChecklists) {
		t.Row("pending "+kind, fmt.Sprintf("%d", stats.PendingChecklists[kind]))
	}
	t.Row("agencies", fmt.Sprintf("%d", stats.Agencies))
	t.Row("general contacts", fmt.Sprintf("%d", stats.GeneralContacts))
	t.Row("banks", fmt.Sprintf("%d", stats.Banks))
	t.Row("active bank accounts", fmt.Sprintf("%d", stats.ActiveBankAccounts))
	t.Row("open wizard drafts", fmt.Sprintf("%d", stats.OpenWizardDrafts))
	t.Row("checklist sessions", fmt.Sprintf("%d", stats.ActiveChecklistSessions))

	return titleStyle.Render("dashboard") + "\n" + t.Render() + "\n"
}

func renderSuccess(msg string) string {
	return successStyle.Render("✓ ") + msg
}

func renderWarning(msg string) string {
	return warnStyle.Render("! ") + msg
}

func renderError(msg string) string {
	return errorStyle.Render("✗ ") + msg
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
