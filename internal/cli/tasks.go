package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mytodos/internal/models"
	"mytodos/internal/taskstore"
)

// withTasks loads the task list, runs fn, and flushes any change before returning.
func withTasks(cmd *cobra.Command, configPath string, fn func(s *taskstore.Store) error) error {
	a, err := newApp(configPath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a.tasks.Load(ctx)

	runErr := fn(a.tasks)
	return errors.Join(runErr, a.close(ctx))
}

func newListCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show all tasks, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTasks(cmd, *configPath, func(s *taskstore.Store) error {
				return printTasks(cmd.OutOrStdout(), s.Snapshot())
			})
		},
	}
}

func newAddCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title>...",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTasks(cmd, *configPath, func(s *taskstore.Store) error {
				task, ok := s.Create(strings.Join(args, " "))
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to add: title is empty")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added #%d %s\n", task.ID, task.Title)
				return nil
			})
		},
	}
}

func newToggleCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a task done or not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			return withTasks(cmd, *configPath, func(s *taskstore.Store) error {
				task, ok := s.ToggleCompleted(id)
				if !ok {
					fmt.Fprintf(cmd.OutOrStdout(), "No task #%d\n", id)
					return nil
				}
				state := "not done"
				if task.Completed {
					state = "done"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Marked #%d %s\n", task.ID, state)
				return nil
			})
		},
	}
}

func newRemoveCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			return withTasks(cmd, *configPath, func(s *taskstore.Store) error {
				if !s.Delete(id) {
					fmt.Fprintf(cmd.OutOrStdout(), "No task #%d\n", id)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted #%d\n", id)
				return nil
			})
		},
	}
}

func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}

func printTasks(w io.Writer, list models.TaskList) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No tasks")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, t := range list {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(tw, "[%s]\t#%d\t%s\n", mark, t.ID, t.Title)
	}
	return tw.Flush()
}
