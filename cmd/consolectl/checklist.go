package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/garyjia/backoffice-console/internal/client"
)

var checklistCmd = &cobra.Command{
	Use:   "checklist",
	Short: "Work on onboarding and clearance checklists",
}

var checklistShowCmd = &cobra.Command{
	Use:   "show <employee-id>",
	Short: "Show the working copy of an employee's checklist",
	Args:  cobra.ExactArgs(1),
	RunE:  runChecklistShow,
}

var checklistToggleCmd = &cobra.Command{
	Use:   "toggle <employee-id> <task>",
	Short: "Check or uncheck one task",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runChecklistToggle,
}

var checklistToggleAllCmd = &cobra.Command{
	Use:   "toggle-all <employee-id>",
	Short: "Complete every pending task, or clear unsaved ones when all are done",
	Args:  cobra.ExactArgs(1),
	RunE:  runChecklistToggleAll,
}

var checklistSaveCmd = &cobra.Command{
	Use:   "save <employee-id>",
	Short: "Save the working copy",
	Args:  cobra.ExactArgs(1),
	RunE:  runChecklistSave,
}

var checklistDiscardCmd = &cobra.Command{
	Use:   "discard <employee-id>",
	Short: "Drop unsaved changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runChecklistDiscard,
}

var checklistExportCmd = &cobra.Command{
	Use:   "export <employee-id>",
	Short: "Download the checklist as an xlsx workbook",
	Args:  cobra.ExactArgs(1),
	RunE:  runChecklistExport,
}

var (
	checklistKind   string
	checklistFinal  bool
	checklistOutDir string
)

func init() {
	rootCmd.AddCommand(checklistCmd)
	checklistCmd.AddCommand(checklistShowCmd, checklistToggleCmd, checklistToggleAllCmd,
		checklistSaveCmd, checklistDiscardCmd, checklistExportCmd)

	checklistCmd.PersistentFlags().StringVarP(&checklistKind, "kind", "k", "onboarding", "checklist kind: onboarding or clearance")
	checklistSaveCmd.Flags().BoolVar(&checklistFinal, "final", false, "require every task done and advance the employee's status")
	checklistExportCmd.Flags().StringVarP(&checklistOutDir, "out", "o", ".", "directory to write the workbook to")
}

func parseKind(kind string) (string, error) {
	switch k := strings.ToLower(strings.TrimSpace(kind)); k {
	case "onboarding", "clearance":
		return k, nil
	default:
		return "", fmt.Errorf("unknown checklist kind %q (want onboarding or clearance)", kind)
	}
}

func parseEmployeeID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid employee id %q", arg)
	}
	return id, nil
}

// checklistArgs resolves the client, kind and employee id shared by every checklist command
func checklistArgs(cmd *cobra.Command, args []string) (*client.Client, string, int64, error) {
	kind, err := parseKind(checklistKind)
	if err != nil {
		return nil, "", 0, err
	}
	id, err := parseEmployeeID(args[0])
	if err != nil {
		return nil, "", 0, err
	}
	c, err := newAPIClient(cmd)
	if err != nil {
		return nil, "", 0, err
	}
	return c, kind, id, nil
}

func runChecklistShow(cmd *cobra.Command, args []string) error {
	c, kind, id, err := checklistArgs(cmd, args)
	if err != nil {
		return err
	}
	view, err := c.OpenChecklist(cmd.Context(), kind, id)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), renderChecklist(view))
	return nil
}

func runChecklistToggle(cmd *cobra.Command, args []string) error {
	c, kind, id, err := checklistArgs(cmd, args)
	if err != nil {
		return err
	}
	task := strings.Join(args[1:], " ")

	view, err := c.ToggleTask(cmd.Context(), kind, id, task)
	if err != nil && client.IsConflict(err) && view != nil {
		fmt.Fprint(cmd.OutOrStdout(), renderChecklist(view))
		return err
	}
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), renderChecklist(view))
	return nil
}

func runChecklistToggleAll(cmd *cobra.Command, args []string) error {
	c, kind, id, err := checklistArgs(cmd, args)
	if err != nil {
		return err
	}
	view, err := c.ToggleAll(cmd.Context(), kind, id)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), renderChecklist(view))
	return nil
}

func runChecklistSave(cmd *cobra.Command, args []string) error {
	c, kind, id, err := checklistArgs(cmd, args)
	if err != nil {
		return err
	}

	outcome, err := c.SaveChecklist(cmd.Context(), kind, id, checklistFinal)
	if err != nil && !client.IsPartial(err) {
		return err
	}

	if outcome == nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outcome.Checklist != nil {
		fmt.Fprint(out, renderChecklist(outcome.Checklist))
	}
	if err != nil {
		fmt.Fprintln(out, renderWarning("the checklist was saved but the employee status was not updated; retry the final save"))
		return err
	}

	msg := "checklist saved"
	if outcome.Created {
		msg = "checklist created"
	}
	if outcome.Finalized && outcome.EmployeeStatus != "" {
		msg += fmt.Sprintf("; employee is now %s", outcome.EmployeeStatus)
	}
	fmt.Fprintln(out, renderSuccess(msg))
	return nil
}

func runChecklistDiscard(cmd *cobra.Command, args []string) error {
	c, kind, id, err := checklistArgs(cmd, args)
	if err != nil {
		return err
	}
	if err := c.DiscardChecklist(cmd.Context(), kind, id); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderSuccess("unsaved changes discarded"))
	return nil
}

func runChecklistExport(cmd *cobra.Command, args []string) error {
	c, kind, id, err := checklistArgs(cmd, args)
	if err != nil {
		return err
	}
	content, name, err := c.ExportChecklist(cmd.Context(), kind, id)
	if err != nil {
		return err
	}
	if name == "" {
		name = fmt.Sprintf("%s-checklist-%d.xlsx", kind, id)
	}

	path := filepath.Join(checklistOutDir, filepath.Base(name))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderSuccess("wrote "+path))
	return nil
}
