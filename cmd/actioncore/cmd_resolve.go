package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"actioncore/internal/artifact"
	"actioncore/internal/config"
	"actioncore/internal/executor"
	"actioncore/internal/memory"
	"actioncore/internal/task"
	"actioncore/internal/tools"
)

var (
	useMemory  bool
	jsonOutput bool
)

// resolveCmd parses and executes one action block
var resolveCmd = &cobra.Command{
	Use:   "resolve [file]",
	Short: "Resolve a model output block into an observation",
	Long: `Reads raw model output from a file (or stdin when no file is given),
parses the Thought/Action/Output segments, dispatches the action's tool
method, and prints the observation.

Examples:
  echo 'Action: {"type": "tool", "name": "calc", "method": "add", "input": "2,3"}' | actioncore resolve
  actioncore resolve block.txt --memory`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().BoolVar(&useMemory, "memory", false, "Record the run in conversation memory")
	resolveCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the artifact as JSON")
}

func runResolve(cmd *cobra.Command, args []string) error {
	raw, err := readInput(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(workspace)
	if err != nil {
		return err
	}

	callTimeout := timeout
	if callTimeout == 0 {
		callTimeout = cfg.GetExecutorTimeout()
	}

	exec := executor.Executor(executor.NewDirect())
	if callTimeout > 0 {
		exec = executor.NewLimited(exec, callTimeout)
	}

	owner := task.NewTask(tools.NewBuiltinRegistry(), exec)
	subtask := owner.AddSubtask(task.NewSubtask(raw))

	logger.Debug("Resolving subtask",
		zap.String("subtask", subtask.ID()),
		zap.String("action", subtask.ActionName()))

	out := subtask.Run(cmd.Context())

	if useMemory {
		if err := recordRun(cfg, raw, out); err != nil {
			logger.Warn("Could not record run", zap.Error(err))
		}
	}

	if jsonOutput {
		data, err := json.Marshal(out)
		if err != nil {
			return fmt.Errorf("failed to encode artifact: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println(out.Value())
	if artifact.IsError(out) {
		os.Exit(2)
	}
	return nil
}

func readInput(args []string) (string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func recordRun(cfg *config.Config, input string, out artifact.Artifact) error {
	driver, err := memory.NewSQLiteDriver(cfg.DatabasePath(workspace))
	if err != nil {
		return err
	}
	defer driver.Close()

	conversation, err := memory.NewConversation(driver)
	if err != nil {
		return err
	}
	return conversation.AddRun(memory.NewRun(input, out.Value()))
}
