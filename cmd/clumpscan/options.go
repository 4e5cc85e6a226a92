package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/clumpscan/domain"
	"github.com/ludo-technologies/clumpscan/service"
)

// OptionsCommand lists the detector options
type OptionsCommand struct {
	json bool
}

// NewOptionsCommand creates a new options command
func NewOptionsCommand() *OptionsCommand {
	return &OptionsCommand{}
}

// CreateCobraCommand creates the cobra command listing detector options
func (o *OptionsCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "options",
		Short: "List detector options",
		Long: `List every detector option with its default value.

Option names are shown in camelCase as they appear in reports; use the
snake_case form in the [detector] table of .clumpscan.toml.

Examples:
  clumpscan options
  clumpscan options --json`,
		Args: cobra.NoArgs,
		RunE: o.runOptions,
	}

	cmd.Flags().BoolVar(&o.json, "json", false, "Print the option descriptors as JSON")

	return cmd
}

func (o *OptionsCommand) runOptions(cmd *cobra.Command, args []string) error {
	descriptors := domain.OptionDescriptors()
	if o.json {
		return service.WriteJSON(cmd.OutOrStdout(), descriptors)
	}

	utils := service.NewFormatUtils()
	tbl := utils.NewTable()
	tbl.AppendHeader(table.Row{"Option", "Config key", "Group", "Default", "Description"})
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, WidthMax: 60},
	})
	for _, desc := range descriptors {
		tbl.AppendRow(table.Row{
			desc.Name,
			desc.SnakeName(),
			desc.Group,
			fmt.Sprintf("%v", desc.DefaultValue),
			desc.Description,
		})
	}

	fmt.Fprintln(cmd.OutOrStdout(), tbl.Render())
	return nil
}

// NewOptionsCmd creates and returns the options cobra command
func NewOptionsCmd() *cobra.Command {
	return NewOptionsCommand().CreateCobraCommand()
}
