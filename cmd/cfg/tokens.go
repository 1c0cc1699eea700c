package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/configs/internal/client"
)

var tokenCmd = &cobra.Command{
	Use:     "token <id>",
	Short:   "Print the current token of a configuration",
	GroupID: "tokens",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		tok, err := configsClient.GetToken(context.Background(), id)
		if err != nil {
			return fmt.Errorf("getting token for %d: %w", id, err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]string{"token": tok})
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

var decodeCmd = &cobra.Command{
	Use:     "decode <token>",
	Short:   "Resolve a token to the configuration it was issued for",
	GroupID: "tokens",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := configsClient.DecodeToken(context.Background(), args[0])
		if err != nil {
			if client.IsUnauthorized(err) {
				return fmt.Errorf("token rejected: %w", err)
			}
			return fmt.Errorf("decoding token: %w", err)
		}
		return printConfiguration(cmd.OutOrStdout(), c)
	},
}
