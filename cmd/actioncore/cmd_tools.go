package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"actioncore/internal/config"
	"actioncore/internal/tools"
)

// toolsCmd lists the registered tools
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List available tools and their methods",
	RunE:  listTools,
}

// initCmd writes a default workspace configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .actioncore/config.json to the workspace",
	RunE:  initWorkspace,
}

func listTools(cmd *cobra.Command, args []string) error {
	registry := tools.NewBuiltinRegistry()

	for _, name := range registry.Names() {
		tool := registry.Get(name)
		fmt.Printf("%s (%s) - %s\n", tool.Name, tool.Category, tool.Description)
		for _, method := range tool.MethodNames() {
			m, _ := tool.Method(method)
			desc := m.Description
			if m.Schema.Description != "" {
				desc = fmt.Sprintf("%s (input: %s)", desc, m.Schema.Description)
			}
			fmt.Printf("  %s.%s - %s\n", tool.Name, method, desc)
		}
	}
	return nil
}

func initWorkspace(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if err := cfg.Save(workspace); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", config.Path(workspace))
	return nil
}
