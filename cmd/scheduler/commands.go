/**
 * CONTEXT:   The "run" and "report" subcommands of the scheduler CLI
 * INPUT:     A workers JSON file, a date range, closer quota, and optional overrides
 * OUTPUT:    Colorized tables describing the resulting schedule or current roster state
 * BUSINESS:  These two commands are the primary way an operator drives a scheduling run
 * CHANGE:    Initial Go port of the CLI's tabular report commands, retargeted at the
 *            scheduling engine instead of work-hour analytics
 * RISK:      Medium - malformed input files should fail loudly, not silently mis-schedule
 */

package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/arlen-roster/dutyplanner/internal/config"
	"github.com/arlen-roster/dutyplanner/internal/domain"
	"github.com/arlen-roster/dutyplanner/internal/infrastructure/database"
	"github.com/arlen-roster/dutyplanner/internal/ioformat"
	"github.com/arlen-roster/dutyplanner/internal/scheduling"
)

const cliDateLayout = "02/01/2006"

var (
	runWorkersPath      string
	runStart            string
	runEnd              string
	runClosers          int
	runWeekdayTasksPath string
	runStorePath        string
	runConfigPath       string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build a schedule over a date range",
	Long: `run loads a worker roster, builds required/optimal closing schedules,
assigns weekend closers and Y-tasks across the range, and prints the result.

  scheduler run --workers roster.json --start 02/01/2025 --end 02/02/2025 --closers 2`,
	RunE: runRunCommand,
}

func init() {
	runCmd.Flags().StringVar(&runWorkersPath, "workers", "", "path to the workers JSON document (required)")
	runCmd.Flags().StringVar(&runStart, "start", "", "range start, dd/mm/yyyy (required)")
	runCmd.Flags().StringVar(&runEnd, "end", "", "range end, dd/mm/yyyy (required)")
	runCmd.Flags().IntVar(&runClosers, "closers", 2, "number of closers per weekend")
	runCmd.Flags().StringVar(&runWeekdayTasksPath, "weekday-tasks", "", "path to a weekday task-map JSON file")
	runCmd.Flags().StringVar(&runStorePath, "store", "", "path to an audit store database, defaults to the engine config's store path; empty in both disables persistence")
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "path to an engine config JSON file")

	runCmd.MarkFlagRequired("workers")
	runCmd.MarkFlagRequired("start")
	runCmd.MarkFlagRequired("end")
}

func runRunCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadEngineConfig(runConfigPath)
	if err != nil {
		return err
	}

	workers, err := loadWorkers(runWorkersPath)
	if err != nil {
		return err
	}

	start, err := time.Parse(cliDateLayout, runStart)
	if err != nil {
		return fmt.Errorf("invalid --start %q: %w", runStart, err)
	}
	end, err := time.Parse(cliDateLayout, runEnd)
	if err != nil {
		return fmt.Errorf("invalid --end %q: %w", runEnd, err)
	}

	weekdayTasks := map[time.Time][]string{}
	if runWeekdayTasksPath != "" {
		f, err := os.Open(runWeekdayTasksPath)
		if err != nil {
			return fmt.Errorf("open weekday tasks file: %w", err)
		}
		defer f.Close()
		weekdayTasks, err = ioformat.DecodeWeekdayTasks(f)
		if err != nil {
			return err
		}
	}

	scoringCfg, err := domain.LoadScoringConfig(cfg.ScoringConfigPath)
	if err != nil {
		return err
	}

	engine := scheduling.NewEngine(scoringCfg)
	result := engine.ScheduleRange(workers, start, end, runClosers, weekdayTasks, cfg.WeeklyLimit, cfg.MaxSameTaskType)

	printClosersTable(result)
	printYTaskTable(result)
	printAssignmentErrors(result)

	if result.Success {
		successColor.Println("Schedule completed with no unresolved assignment errors.")
	} else {
		warningColor.Println("Schedule completed with unresolved assignment errors; see above.")
	}

	storePath := runStorePath
	if storePath == "" {
		storePath = cfg.Store.Path
	}
	if storePath != "" {
		if err := persistRun(storePath, runStart, runEnd, result, workers); err != nil {
			return fmt.Errorf("persist run to audit store: %w", err)
		}
		infoColor.Printf("Run persisted to audit store at %s\n", storePath)
	}

	return nil
}

func persistRun(storePath, start, end string, result scheduling.Result, workers []*domain.Worker) error {
	connCfg := database.DefaultKuzuConfig()
	connCfg.DatabasePath = storePath

	connManager, err := database.NewKuzuConnectionManagerWithValidation(connCfg)
	if err != nil {
		return fmt.Errorf("open audit store: %w", err)
	}
	defer connManager.Close()

	repo := database.NewAuditRepository(connManager)
	ctx := context.Background()
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}
	return repo.SaveRun(ctx, start, end, result, workers)
}

func printClosersTable(result scheduling.Result) {
	fmt.Println()
	headerColor.Println("WEEKEND CLOSERS")

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Weekend (Friday)", "Closers"})
	table.SetBorder(false)
	table.SetRowSeparator("-")
	table.SetHeaderColor(
		tablewriter.Colors{tablewriter.FgMagentaColor, tablewriter.Bold},
		tablewriter.Colors{tablewriter.FgMagentaColor, tablewriter.Bold},
	)

	for _, d := range ioformat.SortedDates(result.Closers) {
		ids := result.Closers[d]
		table.Append([]string{d.Format(cliDateLayout), joinIDs(ids)})
	}
	table.Render()
}

func printYTaskTable(result scheduling.Result) {
	fmt.Println()
	headerColor.Println("Y-TASK ASSIGNMENTS")

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Date", "Task Type", "Worker"})
	table.SetBorder(false)
	table.SetRowSeparator("-")
	table.SetHeaderColor(
		tablewriter.Colors{tablewriter.FgMagentaColor, tablewriter.Bold},
		tablewriter.Colors{tablewriter.FgMagentaColor, tablewriter.Bold},
		tablewriter.Colors{tablewriter.FgMagentaColor, tablewriter.Bold},
	)

	for _, d := range ioformat.SortedDates(result.YTasks) {
		assigns := result.YTasks[d]
		sort.Slice(assigns, func(i, j int) bool { return assigns[i].TaskType < assigns[j].TaskType })
		for _, a := range assigns {
			table.Append([]string{d.Format(cliDateLayout), a.TaskType, a.WorkerID})
		}
	}
	table.Render()
}

func printAssignmentErrors(result scheduling.Result) {
	if len(result.AssignmentErrors) == 0 {
		return
	}
	fmt.Println()
	headerColor.Println("ASSIGNMENT ERRORS")
	for _, e := range result.AssignmentErrors {
		line := fmt.Sprintf("%s %s on %s: %s", e.Severity, e.TaskType, e.Date.Format(cliDateLayout), e.Reason)
		if e.Severity == domain.SeverityError {
			errorColor.Println(line)
		} else {
			warningColor.Println(line)
		}
	}
}

func joinIDs(ids []string) string {
	if len(ids) == 0 {
		return "-"
	}
	out := ids[0]
	for _, id := range ids[1:] {
		out += ", " + id
	}
	return out
}

var reportWorkersPath string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show current Y-task counts, score, and owed weekends per worker",
	Long: `report loads a worker roster and prints each worker's current
y_task_counts, score, and weekends_home_owed without running a schedule.

  scheduler report --workers roster.json`,
	RunE: runReportCommand,
}

func init() {
	reportCmd.Flags().StringVar(&reportWorkersPath, "workers", "", "path to the workers JSON document (required)")
	reportCmd.MarkFlagRequired("workers")
}

func runReportCommand(cmd *cobra.Command, args []string) error {
	workers, err := loadWorkers(reportWorkersPath)
	if err != nil {
		return err
	}

	sort.Slice(workers, func(i, j int) bool { return workers[i].Name < workers[j].Name })

	fmt.Println()
	headerColor.Println("WORKER ROSTER REPORT")

	table := tablewriter.NewWriter(os.Stdout)
	header := []string{"Worker", "Score", "Weekends Owed"}
	for _, t := range domain.YTaskTypes {
		header = append(header, t)
	}
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetRowSeparator("-")

	for _, w := range workers {
		row := []string{w.Name, fmt.Sprintf("%.1f", w.Score), fmt.Sprintf("%d", w.WeekendsHomeOwed)}
		for _, t := range domain.YTaskTypes {
			row = append(row, fmt.Sprintf("%d", w.YTaskCounts[t]))
		}
		table.Append(row)
	}
	table.Render()

	return nil
}

func loadWorkers(path string) ([]*domain.Worker, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open workers file: %w", err)
	}
	defer f.Close()
	return ioformat.DecodeWorkers(f)
}
