package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/garyjia/backoffice-console/internal/application/service"
	"github.com/garyjia/backoffice-console/internal/client"
	"github.com/garyjia/backoffice-console/internal/domain/entity"
)

var employeeCmd = &cobra.Command{
	Use:     "employee",
	Aliases: []string{"employees", "emp"},
	Short:   "Manage employees",
}

var employeeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List employees",
	Args:  cobra.NoArgs,
	RunE:  runEmployeeList,
}

var employeeShowCmd = &cobra.Command{
	Use:   "show <employee-id>",
	Short: "Show one employee",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmployeeShow,
}

var employeeTerminateCmd = &cobra.Command{
	Use:   "terminate <employee-id>",
	Short: "Record a termination; the clearance save completes it",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmployeeExit(entity.ExitTypeTerminated),
}

var employeeResignCmd = &cobra.Command{
	Use:   "resign <employee-id>",
	Short: "Record a resignation; the clearance save completes it",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmployeeExit(entity.ExitTypeResigned),
}

var employeeRehireCmd = &cobra.Command{
	Use:   "rehire <employee-id>",
	Short: "Move an exited employee back to onboarding",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmployeeRehire,
}

var checkEmailCmd = &cobra.Command{
	Use:   "check-email <email>...",
	Short: "Check whether emails are already taken; only the last answer is reported",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheckEmail,
}

var employeeFlags struct {
	search    string
	status    string
	limit     int
	offset    int
	exitDate  string
	reason    string
	hireDate  string
	excludeID int64
}

func init() {
	rootCmd.AddCommand(employeeCmd, checkEmailCmd)
	employeeCmd.AddCommand(employeeListCmd, employeeShowCmd, employeeTerminateCmd, employeeResignCmd, employeeRehireCmd)

	employeeListCmd.Flags().StringVarP(&employeeFlags.search, "search", "s", "", "match name, email or position")
	employeeListCmd.Flags().StringVar(&employeeFlags.status, "status", "", "filter by status (ONBOARDING, ACTIVE, TERMINATED, RESIGNED)")
	employeeListCmd.Flags().IntVar(&employeeFlags.limit, "limit", 20, "page size")
	employeeListCmd.Flags().IntVar(&employeeFlags.offset, "offset", 0, "rows to skip")

	for _, cmd := range []*cobra.Command{employeeTerminateCmd, employeeResignCmd} {
		cmd.Flags().StringVar(&employeeFlags.exitDate, "date", "", "exit date, YYYY-MM-DD (defaults to today)")
		cmd.Flags().StringVar(&employeeFlags.reason, "reason", "", "exit reason")
	}
	employeeRehireCmd.Flags().StringVar(&employeeFlags.hireDate, "hire-date", "", "new hire date, YYYY-MM-DD")
	checkEmailCmd.Flags().Int64Var(&employeeFlags.excludeID, "exclude-id", 0, "employee id to ignore, e.g. when editing")
}

func runEmployeeList(cmd *cobra.Command, args []string) error {
	c, err := newAPIClient(cmd)
	if err != nil {
		return err
	}
	page, err := c.ListEmployees(cmd.Context(), client.ListOptions{
		Search: employeeFlags.search,
		Status: employeeFlags.status,
		Limit:  employeeFlags.limit,
		Offset: employeeFlags.offset,
	})
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), renderEmployees(page))
	return nil
}

func runEmployeeShow(cmd *cobra.Command, args []string) error {
	id, err := parseEmployeeID(args[0])
	if err != nil {
		return err
	}
	c, err := newAPIClient(cmd)
	if err != nil {
		return err
	}
	employee, err := c.GetEmployee(cmd.Context(), id)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), renderEmployee(employee))
	return nil
}

func runEmployeeExit(exitType string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := parseEmployeeID(args[0])
		if err != nil {
			return err
		}
		c, err := newAPIClient(cmd)
		if err != nil {
			return err
		}

		date := employeeFlags.exitDate
		if !hasChangedFlags(cmd, "date") {
			date = time.Now().Format(time.DateOnly)
		}

		employee, err := c.SubmitExit(cmd.Context(), id, service.ExitRequest{
			Type:   exitType,
			Date:   date,
			Reason: employeeFlags.reason,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprint(out, renderEmployee(employee))
		fmt.Fprintln(out, renderSuccess(fmt.Sprintf("%s recorded; complete the clearance checklist with `consolectl checklist save --kind clearance --final %d`", exitType, id)))
		return nil
	}
}

func runEmployeeRehire(cmd *cobra.Command, args []string) error {
	id, err := parseEmployeeID(args[0])
	if err != nil {
		return err
	}
	c, err := newAPIClient(cmd)
	if err != nil {
		return err
	}
	employee, err := c.Rehire(cmd.Context(), id, employeeFlags.hireDate)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), renderEmployee(employee))
	return nil
}

// runCheckEmail fires one lookup per argument concurrently, as a form does
// while the user types, and reports only the answer for the last argument.
func runCheckEmail(cmd *cobra.Command, args []string) error {
	c, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	var seq client.Sequencer
	type answer struct {
		email string
		res   *client.Exists
		err   error
	}
	answers := make(chan answer, len(args))
	for _, email := range args {
		n := seq.Next()
		go func(email string, n int64) {
			res, err := c.CheckEmail(cmd.Context(), email, employeeFlags.excludeID, n)
			answers <- answer{email: email, res: res, err: err}
		}(email, n)
	}

	var latest *answer
	for range args {
		a := <-answers
		if a.err != nil {
			if a.email == args[len(args)-1] {
				return a.err
			}
			continue
		}
		seq.Apply(a.res.Seq, func() { latest = &a })
	}
	if latest == nil {
		return fmt.Errorf("no answer for %s", args[len(args)-1])
	}

	if latest.res.Exists {
		fmt.Fprintln(cmd.OutOrStdout(), renderWarning(latest.email+" is already in use"))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderSuccess(latest.email+" is available"))
	return nil
}
