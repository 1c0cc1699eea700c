package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/configs/internal/client"
	"github.com/alfredjeanlab/configs/internal/model"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List all configurations",
	GroupID: "configurations",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgs, err := configsClient.ListConfigurations(context.Background())
		if err != nil {
			return fmt.Errorf("listing configurations: %w", err)
		}
		return printConfigurationList(cmd.OutOrStdout(), cfgs)
	},
}

var showCmd = &cobra.Command{
	Use:     "show <id>",
	Short:   "Show a configuration and its assets",
	GroupID: "configurations",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		c, err := configsClient.GetConfiguration(context.Background(), id)
		if err != nil {
			return fmt.Errorf("getting configuration %d: %w", id, err)
		}
		return printConfiguration(cmd.OutOrStdout(), c)
	},
}

var createCmd = &cobra.Command{
	Use:     "create --name <name> [--asset type=value]...",
	Short:   "Create a configuration and issue its token",
	GroupID: "configurations",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		values, _ := cmd.Flags().GetStringArray("asset")

		assets, err := parseAssets(values)
		if err != nil {
			return err
		}
		for _, a := range assets {
			if a.ID != 0 {
				return fmt.Errorf("asset IDs are assigned by the server; drop %d: from --asset", a.ID)
			}
		}

		c, err := configsClient.CreateConfiguration(context.Background(), &model.ConfigurationInput{Name: name, Assets: assets})
		if err != nil {
			return fmt.Errorf("creating configuration: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), c)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created configuration %d\n", c.ID)
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id> [--name <name>] [--asset [id:]type=value]...",
	Short: "Update a configuration",
	Long: `Update a configuration's name and assets.

An asset given with the ID of one of the configuration's assets replaces that
asset; any other asset is added. Assets not mentioned are kept. When --name is
omitted the current name is kept. The configuration's token is reissued.`,
	GroupID: "configurations",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		values, _ := cmd.Flags().GetStringArray("asset")

		assets, err := parseAssets(values)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("name") {
			current, err := configsClient.GetConfiguration(ctx, id)
			if err != nil {
				return fmt.Errorf("getting configuration %d: %w", id, err)
			}
			name = current.Name
		}

		c, err := configsClient.UpdateConfiguration(ctx, id, &model.ConfigurationInput{Name: name, Assets: assets})
		if err != nil {
			return fmt.Errorf("updating configuration %d: %w", id, err)
		}
		return printConfiguration(cmd.OutOrStdout(), c)
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>...",
	Short:   "Delete one or more configurations",
	GroupID: "configurations",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, arg := range args {
			id, err := parseID(arg)
			if err != nil {
				return err
			}
			if err := configsClient.DeleteConfiguration(context.Background(), id); err != nil {
				if client.IsNotFound(err) {
					fmt.Fprintf(cmd.ErrOrStderr(), "Configuration %d not found, skipping\n", id)
					continue
				}
				return fmt.Errorf("deleting %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d\n", id)
		}
		return nil
	},
}

func init() {
	createCmd.Flags().String("name", "", "configuration name (required)")
	createCmd.Flags().StringArray("asset", nil, "asset as type=value (repeatable)")
	_ = createCmd.MarkFlagRequired("name")

	updateCmd.Flags().String("name", "", "new configuration name")
	updateCmd.Flags().StringArray("asset", nil, "asset as [id:]type=value (repeatable)")
}
