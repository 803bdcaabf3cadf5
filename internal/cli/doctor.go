package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/amterp/ra"
	"github.com/charmbracelet/lipgloss"

	"github.com/emilianobruni/erflow/internal/service"
)

func registerDoctor(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("doctor")
	cmd.SetDescription("Check stored cards and config for problems. Exit 0 if healthy, 1 if errors found.")

	ctx.DoctorFix, _ = ra.NewBool("fix").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Rewrite stored state so that fixable issues go away").
		Register(cmd)

	ctx.DoctorJson, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Output as JSON").
		Register(cmd)

	ctx.DoctorUsed, _ = parent.RegisterCmd(cmd)
}

func runDoctor(fix, jsonOutput bool) {
	app, err := openStorage()
	if err != nil {
		Fatal(err)
	}
	defer app.Close()

	report, err := diagnose(app.DoctorService, fix)
	if err != nil {
		Fatal(err)
	}

	if jsonOutput {
		if err := printJson(report); err != nil {
			Fatal(err)
		}
	} else {
		printDoctorReport(report, app.DataDir.DataDir, fix)
	}

	// Exit with status 1 if there are errors
	if report.HasErrors() {
		app.Close()
		os.Exit(1)
	}
}

// diagnose runs the checks and, when fix is set, repairs what it can.
func diagnose(doctor *service.DoctorService, fix bool) (*service.DiagnosticReport, error) {
	report, err := doctor.Diagnose()
	if err != nil {
		return nil, err
	}
	if fix && len(report.Issues) > 0 {
		return doctor.Fix(report)
	}
	return report, nil
}

func printDoctorReport(report *service.DiagnosticReport, dataDir string, didFix bool) {
	stored := "none stored"
	if report.Storage.CardsStored {
		stored = fmt.Sprintf("%d stored", report.Storage.Cards)
	}
	fmt.Printf("Checking %s (cards: %s)\n\n", RenderBold(dataDir), stored)

	fixed := 0
	if didFix {
		fixed = report.Summary.Fixed
	}

	if len(report.Issues) == 0 {
		switch {
		case fixed > 0:
			PrintSuccess("Fixed %d issue(s); board is healthy", fixed)
		default:
			PrintSuccess("No issues found")
		}
		return
	}

	printIssueGroup("Errors", StyleError, report.IssuesOf(service.SeverityError))
	printIssueGroup("Warnings", StyleWarning, report.IssuesOf(service.SeverityWarning))

	fmt.Printf("Summary: %s\n", doctorSummary(report.Summary, fixed))

	if !didFix && report.AnyFixable() {
		fmt.Println()
		PrintInfo("Run 'erflow doctor --fix' to apply automatic fixes")
	}
}

func printIssueGroup(title string, style lipgloss.Style, issues []service.Issue) {
	if len(issues) == 0 {
		return
	}
	fmt.Println(style.Bold(true).Render(title))
	for _, issue := range issues {
		fmt.Println("  " + describeIssue(issue))
		if hint := fixHint(issue); hint != "" {
			fmt.Println("      " + hint)
		}
	}
	fmt.Println()
}

// describeIssue renders "[code] #pos id message".
func describeIssue(issue service.Issue) string {
	parts := []string{StyleWarning.Render("[" + issue.Code + "]")}
	if issue.Severity == service.SeverityError {
		parts[0] = StyleError.Render("[" + issue.Code + "]")
	}
	if issue.Index != nil {
		parts = append(parts, RenderMuted(fmt.Sprintf("#%d", *issue.Index+1)))
	}
	if issue.CardID != "" {
		parts = append(parts, RenderID(issue.CardID))
	}
	return strings.Join(append(parts, issue.Message), " ")
}

func fixHint(issue service.Issue) string {
	switch {
	case issue.FixError != "":
		return StyleError.Render("fix failed: ") + issue.FixError
	case issue.FixAction == "":
		return ""
	case issue.Fixable:
		return RenderMuted("fix: ") + issue.FixAction
	default:
		return RenderMuted(issue.FixAction)
	}
}

func doctorSummary(sum service.ReportSummary, fixed int) string {
	var parts []string
	add := func(n int, style lipgloss.Style, label string) {
		if n > 0 {
			parts = append(parts, style.Render(fmt.Sprintf("%d %s", n, label)))
		}
	}
	add(sum.Errors, StyleError, "error(s)")
	add(sum.Warnings, StyleWarning, "warning(s)")
	add(fixed, StyleSuccess, "fixed")
	add(sum.FixFailed, StyleError, "fix failed")
	return strings.Join(parts, ", ")
}
