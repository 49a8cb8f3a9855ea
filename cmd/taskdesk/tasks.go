package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/gestorhub/taskdesk/internal/gateway"
	"github.com/gestorhub/taskdesk/internal/list"
	"github.com/gestorhub/taskdesk/internal/models"
	"github.com/gestorhub/taskdesk/internal/optimistic"
	"github.com/gestorhub/taskdesk/internal/query"
	"github.com/gestorhub/taskdesk/internal/realtime"
)

var (
	listTab      string
	listSearch   string
	listPageSize int
	listAll      bool
	listMine     bool
	listWatch    bool
	listUser     string
	listCategory string
	listEmployer string

	createBody     string
	createDue      string
	createPrivate  bool
	createCategory string
	createSubject  string
	createEmployer string
	createAssign   string
	createGroup    []string
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Work with tasks",
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks by tab",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)
		ctx := cmd.Context()

		pageSize := cfg.PageSize
		if listPageSize > 0 {
			pageSize = listPageSize
		}

		filters := query.Filters{
			UserID:     listUser,
			CategoryID: listCategory,
			EmployerID: listEmployer,
		}

		var ctrl *list.Controller
		if listMine {
			ctrl = list.New(userTaskGateway{gw}, pageSize)
		} else {
			ctrl = list.New(gw, pageSize)
		}
		ctrl.Reset(query.Tab(listTab), filters, listSearch)

		if err := ctrl.FetchFirstPage(ctx); err != nil {
			log.Fatalf("failed to list tasks: %v", err)
		}
		for listAll && ctrl.HasMore() {
			if err := ctrl.FetchNextPage(ctx); err != nil {
				log.Fatalf("failed to fetch next page: %v", err)
			}
		}

		renderTasks(ctrl.Tasks(), ctrl.Total())

		if listWatch {
			watchTasks(ctx, cfg.AMQPURL, cfg.CompanyID, gw, ctrl)
		}
	},
}

// userTaskGateway narrows the client to the per-user listing endpoint so
// the same list controller drives both views.
type userTaskGateway struct {
	client *gateway.Client
}

func (g userTaskGateway) ListTasks(ctx context.Context, params query.Params, page, pageSize int) (*gateway.TaskPage, error) {
	return g.client.ListUserTasks(ctx, params, page, pageSize)
}

func renderTasks(tasks []models.Task, total int) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Title", "Status", "Due", "Charge", "Flags"})

	for _, task := range tasks {
		t.AppendRow(table.Row{
			task.ID,
			task.Title,
			coloredStatus(task.Status),
			formatDate(task.DueDate),
			formatCharge(task.Charge),
			taskFlags(task),
		})
	}
	t.Render()
	fmt.Printf("%d of %d tasks\n", len(tasks), total)
}

func coloredStatus(status models.TaskStatus) string {
	switch status {
	case models.TaskStatusPending:
		return text.FgHiRed.Sprintf("%s", status)
	case models.TaskStatusInProgress:
		return text.FgHiYellow.Sprintf("%s", status)
	case models.TaskStatusCompleted:
		return text.FgHiGreen.Sprintf("%s", status)
	}
	return string(status)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

func formatCharge(charge *models.Charge) string {
	if charge == nil {
		return "-"
	}
	if charge.Paid {
		return text.FgHiGreen.Sprintf("%.2f paid", charge.Value)
	}
	return text.FgHiRed.Sprintf("%.2f due", charge.Value)
}

func taskFlags(task models.Task) string {
	var flags []string
	if task.Private {
		flags = append(flags, "private")
	}
	if task.Recurrent() {
		flags = append(flags, "recurrent")
	}
	if task.Deleted() {
		flags = append(flags, "deleted")
	}
	return strings.Join(flags, ",")
}

// watchTasks keeps the list live until interrupted, re-rendering whenever
// a broker event invalidates it.
func watchTasks(ctx context.Context, amqpURL, companyID string, gw *gateway.Client, ctrl *list.Controller) {
	if companyID == "" {
		log.Fatal("watch mode requires company_id in the config")
	}

	channel, err := realtime.DialAMQP(amqpURL)
	if err != nil {
		log.Fatalf("failed to connect to broker: %v", err)
	}
	defer channel.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sub, err := channel.Subscribe(ctx, companyID)
	if err != nil {
		log.Fatalf("failed to subscribe: %v", err)
	}
	defer sub.Close()

	inv := realtime.NewInvalidator(
		func(ctx context.Context) error {
			if err := ctrl.Refresh(ctx); err != nil {
				return err
			}
			renderTasks(ctrl.Tasks(), ctrl.Total())
			return nil
		},
		func(ctx context.Context) error {
			counters, err := gw.StatusCounters(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("pending %d / in progress %d / completed %d\n",
				counters.Pending, counters.InProgress, counters.Completed)
			return nil
		},
	)

	color.Cyan("watching for updates, ctrl-c to stop")
	inv.Run(ctx, sub)
}

var tasksCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)

		input := gateway.CreateTaskInput{
			Title:      args[0],
			Body:       createBody,
			Private:    createPrivate,
			CategoryID: createCategory,
			SubjectID:  createSubject,
			EmployerID: createEmployer,
		}
		if createDue != "" {
			due, err := time.Parse("2006-01-02", createDue)
			if err != nil {
				log.Fatalf("invalid --due date %q, want YYYY-MM-DD", createDue)
			}
			input.DueDate = &due
		}
		if len(createGroup) > 0 {
			input.Assignment = models.AssignGroup(createGroup)
		} else if createAssign != "" {
			input.Assignment = models.AssignIndividual(createAssign)
		}

		task, err := gw.CreateTask(cmd.Context(), input)
		if err != nil {
			log.Fatalf("failed to create task: %v", err)
		}
		color.Green("created task %s", task.ID)
	},
}

var tasksShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one task with its notes and history",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)
		ctx := cmd.Context()

		task, err := gw.GetTask(ctx, args[0])
		if err != nil {
			log.Fatalf("failed to fetch task: %v", err)
		}

		fmt.Printf("%s  %s\n", task.ID, color.New(color.Bold).Sprint(task.Title))
		fmt.Printf("status: %s  due: %s  flags: %s\n",
			coloredStatus(task.Status), formatDate(task.DueDate), taskFlags(*task))
		if task.Body != "" {
			fmt.Printf("\n%s\n", task.Body)
		}

		notes, err := gw.ListNotes(ctx, task.ID)
		if err != nil {
			log.Fatalf("failed to fetch notes: %v", err)
		}
		if len(notes) > 0 {
			fmt.Println("\nnotes:")
			for _, note := range notes {
				fmt.Printf("  [%s] %s\n", note.CreatedAt.Format("2006-01-02 15:04"), note.Content)
			}
		}

		events, err := gw.Timeline(ctx, task.ID)
		if err != nil {
			log.Fatalf("failed to fetch timeline: %v", err)
		}
		if len(events) > 0 {
			fmt.Println("\nhistory:")
			for _, event := range events {
				fmt.Printf("  [%s] %s\n", event.CreatedAt.Format("2006-01-02 15:04"), event.Action)
			}
		}
	},
}

// singleTaskStore adapts one fetched task to the mutator's store so the
// toggle commands share the interactive views' rollback semantics.
type singleTaskStore struct {
	task models.Task
}

func (s *singleTaskStore) TaskByID(id string) (models.Task, bool) {
	if s.task.ID != id {
		return models.Task{}, false
	}
	return s.task, true
}

func (s *singleTaskStore) ReplaceTask(task models.Task) {
	if s.task.ID == task.ID {
		s.task = task
	}
}

func mutateLoadedTask(ctx context.Context, gw *gateway.Client, taskID string, fn func(*optimistic.Mutator) error) {
	task, err := gw.GetTask(ctx, taskID)
	if err != nil {
		log.Fatalf("failed to fetch task: %v", err)
	}

	if err := fn(optimistic.New(&singleTaskStore{task: *task}, gw)); err != nil {
		log.Fatalf("failed to update task: %v", err)
	}
}

var tasksDoneCmd = &cobra.Command{
	Use:   "done [id]",
	Short: "Toggle a task between completed and pending",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)
		mutateLoadedTask(cmd.Context(), gw, args[0], func(m *optimistic.Mutator) error {
			return m.ToggleDone(cmd.Context(), args[0])
		})
		color.Green("updated task %s", args[0])
	},
}

var tasksStartCmd = &cobra.Command{
	Use:   "start [id]",
	Short: "Toggle a task between in progress and pending",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)
		mutateLoadedTask(cmd.Context(), gw, args[0], func(m *optimistic.Mutator) error {
			return m.ToggleInProgress(cmd.Context(), args[0])
		})
		color.Green("updated task %s", args[0])
	},
}

var tasksRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Delete a task (recoverable by admins)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)
		if err := gw.DeleteTask(cmd.Context(), args[0]); err != nil {
			log.Fatalf("failed to delete task: %v", err)
		}
		color.Green("deleted task %s", args[0])
	},
}

var tasksRestoreCmd = &cobra.Command{
	Use:   "restore [id]",
	Short: "Restore a deleted task (admin only)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)
		task, err := gw.RestoreTask(cmd.Context(), args[0])
		if err != nil {
			log.Fatalf("failed to restore task: %v", err)
		}
		color.Green("restored task %s", task.ID)
	},
}

var tasksCountersCmd = &cobra.Command{
	Use:   "counters",
	Short: "Show per-tab task counts",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		gw := newGateway(cfg)
		counters, err := gw.StatusCounters(cmd.Context())
		if err != nil {
			log.Fatalf("failed to fetch counters: %v", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Tab", "Count"})
		t.AppendRows([]table.Row{
			{"all", counters.All},
			{"pending", counters.Pending},
			{"inProgress", counters.InProgress},
			{"completed", counters.Completed},
			{"paid", counters.Paid},
			{"unpaid", counters.Unpaid},
			{"recurrent", counters.Recurrent},
		})
		t.Render()
	},
}

func init() {
	tasksListCmd.Flags().StringVar(&listTab, "tab", "all", "tab to show (all, pending, inProgress, completed, paid, unpaid, recurrent, deleted)")
	tasksListCmd.Flags().StringVar(&listSearch, "search", "", "free text search")
	tasksListCmd.Flags().IntVar(&listPageSize, "page-size", 0, "page size (defaults to config)")
	tasksListCmd.Flags().BoolVar(&listAll, "all", false, "fetch every page")
	tasksListCmd.Flags().BoolVar(&listMine, "mine", false, "only tasks assigned to me")
	tasksListCmd.Flags().BoolVar(&listWatch, "watch", false, "keep the list live via the broker")
	tasksListCmd.Flags().StringVar(&listUser, "user", "", "filter by responsible user ID")
	tasksListCmd.Flags().StringVar(&listCategory, "category", "", "filter by category ID")
	tasksListCmd.Flags().StringVar(&listEmployer, "employer", "", "filter by employer ID")

	tasksCreateCmd.Flags().StringVar(&createBody, "body", "", "task description")
	tasksCreateCmd.Flags().StringVar(&createDue, "due", "", "due date (YYYY-MM-DD)")
	tasksCreateCmd.Flags().BoolVar(&createPrivate, "private", false, "only visible to the creator and assignees")
	tasksCreateCmd.Flags().StringVar(&createCategory, "category", "", "category ID")
	tasksCreateCmd.Flags().StringVar(&createSubject, "subject", "", "subject ID")
	tasksCreateCmd.Flags().StringVar(&createEmployer, "employer", "", "employer ID")
	tasksCreateCmd.Flags().StringVar(&createAssign, "assign", "", "assign to one user ID")
	tasksCreateCmd.Flags().StringSliceVar(&createGroup, "group", nil, "assign to a group of user IDs")

	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksCreateCmd)
	tasksCmd.AddCommand(tasksShowCmd)
	tasksCmd.AddCommand(tasksDoneCmd)
	tasksCmd.AddCommand(tasksStartCmd)
	tasksCmd.AddCommand(tasksRmCmd)
	tasksCmd.AddCommand(tasksRestoreCmd)
	tasksCmd.AddCommand(tasksCountersCmd)
	rootCmd.AddCommand(tasksCmd)
}
