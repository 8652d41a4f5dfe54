package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cloud-shuttle/taskmd/internal/moai"
	"github.com/cloud-shuttle/taskmd/internal/parser"
	"github.com/cloud-shuttle/taskmd/internal/resolver"
	"github.com/cloud-shuttle/taskmd/internal/status"
	"github.com/cloud-shuttle/taskmd/pkg/telemetry"
	"github.com/cloud-shuttle/taskmd/pkg/types"
)

// tasksFilePath resolves the document path: explicit argument first, then
// the configured default.
func tasksFilePath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.TasksFile
}

// readAndParse reads a tasks.md file and parses it, recording telemetry.
// The file path doubles as the opaque changeId.
func readAndParse(cmd *cobra.Command, path string) (*types.ParseResult, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	content := string(data)

	result := parser.New(logger).Parse(path, content)
	telemetry.RecordDocumentParsed(cmd.Context(), result.Metadata.Format,
		result.Metadata.TotalTasks, len(result.Metadata.Warnings),
		time.Duration(result.Metadata.ParseTimeMs)*time.Millisecond)
	return result, content, nil
}

func parseCmd() *cobra.Command {
	var asJSON bool

	command := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a tasks.md document into its typed tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, _, err := readAndParse(cmd, tasksFilePath(args))
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(result)
			}

			meta := result.Metadata
			fmt.Printf("Phases:    %d\n", len(result.Phases))
			fmt.Printf("Groups:    %d\n", meta.TotalGroups)
			fmt.Printf("Tasks:     %d (%d completed)\n", meta.TotalTasks, meta.CompletedTasks)
			for _, w := range meta.Warnings {
				fmt.Printf("⚠️  %s\n", w)
			}
			return nil
		},
	}

	command.Flags().BoolVar(&asJSON, "json", false, "Print the full parse result as JSON")
	return command
}

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync [file]",
		Short: "Emit the flat sync projection as JSONL",
		Long: `Emit one JSON object per task in the flat sync shape consumed by
external synchronization tooling. taskmd itself never writes to a
database; pipe this output into whatever does.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, _, err := readAndParse(cmd, tasksFilePath(args))
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(os.Stdout)
			for _, task := range parser.ToSyncTasks(result) {
				if err := encoder.Encode(task); err != nil {
					return fmt.Errorf("encoding task: %w", err)
				}
			}
			return nil
		},
	}
}

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <id> [file]",
		Short: "Resolve a task id in any of the six historical dialects",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			result, _, err := readAndParse(cmd, tasksFilePath(args[1:]))
			if err != nil {
				return err
			}

			res := resolver.New(result, logger)
			res.WarnLegacyID(id)
			resolved := res.ResolveWithFallback(id)

			idType := string(resolver.DetectIDType(id))
			telemetry.RecordIDResolved(cmd.Context(), idType, resolved != nil)
			if resolved == nil {
				return fmt.Errorf("task not found: %s", id)
			}
			if res.Resolve(id) == nil {
				telemetry.RecordFallbackHit(cmd.Context(), idType)
			}

			return printJSON(resolved)
		},
	}
}

func checkCmd() *cobra.Command {
	var file string
	command := &cobra.Command{
		Use:   "check <id>",
		Short: "Mark a task complete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setStatus(cmd, file, args[0], true)
		},
	}
	command.Flags().StringVarP(&file, "file", "f", "", "Tasks file (defaults to config)")
	return command
}

func uncheckCmd() *cobra.Command {
	var file string
	command := &cobra.Command{
		Use:   "uncheck <id>",
		Short: "Mark a task incomplete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setStatus(cmd, file, args[0], false)
		},
	}
	command.Flags().StringVarP(&file, "file", "f", "", "Tasks file (defaults to config)")
	return command
}

func toggleCmd() *cobra.Command {
	var file string
	command := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task's completion state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := file
			if path == "" {
				path = cfg.TasksFile
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			result, err := status.NewMutator(logger).ToggleTaskStatus(string(data), args[0])
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(result.NewContent), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}

			telemetry.RecordStatusUpdate(cmd.Context(), "toggle")
			fmt.Printf("✅ Toggled %s (%s)\n", result.Task.DisplayID, result.Task.Title)
			return nil
		},
	}
	command.Flags().StringVarP(&file, "file", "f", "", "Tasks file (defaults to config)")
	return command
}

// setStatus is the shared body of check and uncheck.
func setStatus(cmd *cobra.Command, file, id string, completed bool) error {
	path := file
	if path == "" {
		path = cfg.TasksFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	result, err := status.NewMutator(logger).SetTaskStatus(string(data), id, completed)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(result.NewContent), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	operation := "check"
	mark := "✅"
	if !completed {
		operation = "uncheck"
		mark = "⬜"
	}
	telemetry.RecordStatusUpdate(cmd.Context(), operation)
	fmt.Printf("%s %s (%s)\n", mark, result.Task.DisplayID, result.Task.Title)
	return nil
}

func completeCmd() *cobra.Command {
	var (
		file string
		undo bool
	)

	command := &cobra.Command{
		Use:   "complete <id>...",
		Short: "Mark multiple tasks complete, skipping unresolved ids",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := file
			if path == "" {
				path = cfg.TasksFile
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			mutator := status.NewMutator(logger)
			var newContent string
			var updated int
			if undo {
				newContent, updated = mutator.MarkTasksIncomplete(string(data), args)
			} else {
				newContent, updated = mutator.MarkTasksComplete(string(data), args)
			}

			if err := os.WriteFile(path, []byte(newContent), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}

			telemetry.RecordStatusUpdate(cmd.Context(), "bulk")
			fmt.Printf("✅ Updated %d of %d tasks\n", updated, len(args))
			return nil
		},
	}

	command.Flags().StringVarP(&file, "file", "f", "", "Tasks file (defaults to config)")
	command.Flags().BoolVar(&undo, "undo", false, "Mark the tasks incomplete instead")
	return command
}

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report [file]",
		Short: "Show a progress report for a tasks.md document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, _, err := readAndParse(cmd, tasksFilePath(args))
			if err != nil {
				return err
			}
			printReport(result)
			return nil
		},
	}
}

func specCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "spec [dir]",
		Short: "Parse a MoAI SPEC triad (spec.md, plan.md, acceptance.md)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := cfg.SpecDir
			if len(args) > 0 {
				dir = args[0]
			}

			triad := struct {
				Spec       *types.ParsedMoaiSpec       `json:"spec,omitempty"`
				Plan       *types.ParsedMoaiPlan       `json:"plan,omitempty"`
				Acceptance *types.ParsedMoaiAcceptance `json:"acceptance,omitempty"`
			}{}

			found := false
			if content, ok := readOptional(filepath.Join(dir, "spec.md")); ok {
				triad.Spec = moai.ParseSpec(content)
				found = true
			}
			if content, ok := readOptional(filepath.Join(dir, "plan.md")); ok {
				triad.Plan = moai.ParsePlan(content)
				found = true
			}
			if content, ok := readOptional(filepath.Join(dir, "acceptance.md")); ok {
				triad.Acceptance = moai.ParseAcceptance(content)
				found = true
			}
			if !found {
				return fmt.Errorf("no SPEC documents found in %s", dir)
			}

			return printJSON(triad)
		},
	}
}

// readOptional reads a file that may legitimately be absent.
func readOptional(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func printReport(result *types.ParseResult) {
	meta := result.Metadata
	fmt.Println("\n📋 taskmd Report")
	fmt.Println("════════════════")

	for _, phase := range result.Phases {
		total, completed := 0, 0
		for _, group := range phase.Groups {
			for _, task := range group.Tasks {
				total++
				if task.Completed {
					completed++
				}
			}
		}
		fmt.Printf("\n%s: %d/%d\n", phase.Title, completed, total)
		if total > 0 {
			printProgressBar(float64(completed) / float64(total) * 100)
		}
	}

	if meta.TotalTasks > 0 {
		progress := float64(meta.CompletedTasks) / float64(meta.TotalTasks) * 100
		fmt.Printf("\nOverall: %d/%d\n", meta.CompletedTasks, meta.TotalTasks)
		printProgressBar(progress)
	}
}

func printProgressBar(percent float64) {
	width := 40
	filled := int(percent / 100 * float64(width))

	fmt.Print("[")
	for i := 0; i < width; i++ {
		if i < filled {
			fmt.Print("█")
		} else {
			fmt.Print("░")
		}
	}
	fmt.Printf("] %.1f%%\n", percent)
}
