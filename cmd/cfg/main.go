package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/configs/internal/client"
	"github.com/alfredjeanlab/configs/internal/ui"
)

var (
	serverAddr string
	httpURL    string
	transport  string
	apiToken   string
	jsonOutput bool

	configsClient client.ConfigsClient
)

func envOr(key, fallback string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return fallback
}

func defaultHTTPURL() string {
	if s := os.Getenv("CONFIGS_HTTP_URL"); s != "" {
		return s
	}
	if r, ok := activeRemote(); ok && r.URL != "" {
		return r.URL
	}
	return "http://localhost:8080"
}

func defaultServer() string {
	if s := os.Getenv("CONFIGS_SERVER"); s != "" {
		return s
	}
	if r, ok := activeRemote(); ok && r.GRPCAddr != "" {
		return r.GRPCAddr
	}
	return "localhost:9090"
}

func defaultToken() string {
	if s := os.Getenv("CONFIGS_API_TOKEN"); s != "" {
		return s
	}
	r, _ := activeRemote()
	return r.Token
}

// newClient builds the client for the selected transport.
func newClient() (client.ConfigsClient, error) {
	switch transport {
	case "http":
		return client.NewHTTPClient(httpURL, apiToken), nil
	case "grpc":
		c, err := client.NewGRPCClient(serverAddr, apiToken)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to server: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown transport %q (must be http or grpc)", transport)
	}
}

var rootCmd = &cobra.Command{
	Use:           "cfg <command>",
	Short:         "CLI client for the configs service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		configsClient = c
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if configsClient != nil {
			configsClient.Close()
		}
	},
}

// noClient skips client construction for commands that never call the API.
func noClient(*cobra.Command, []string) error { return nil }

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "http-url", defaultHTTPURL(), "HTTP server URL")
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", defaultServer(), "gRPC server address")
	rootCmd.PersistentFlags().StringVar(&transport, "transport", envOr("CONFIGS_TRANSPORT", "http"), "transport protocol (http or grpc)")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", defaultToken(), "bearer token for the API")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "configurations", Title: "Configurations:"},
		&cobra.Group{ID: "tokens", Title: "Tokens:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Configurations
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(watchCmd)

	// Tokens
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(decodeCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	ui.Configure()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.RenderFail("Error:"), err)
		os.Exit(1)
	}
}
