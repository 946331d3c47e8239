package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/reelscribe/backend/internal/client"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type clientFlags struct {
	serverURL    string
	clientID     string
	clientSecret string
	timeout      time.Duration
}

func (f *clientFlags) newClient() *client.Client {
	return client.New(client.Options{
		BaseURL:      f.serverURL,
		ClientID:     f.clientID,
		ClientSecret: f.clientSecret,
		Source:       "cli",
		Timeout:      f.timeout,
	})
}

func newRootCommand() *cobra.Command {
	flags := &clientFlags{}

	rootCmd := &cobra.Command{
		Use:           "reelscribe",
		Short:         "Client for the reelscribe transcript service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.serverURL, "server", envOr("REELSCRIBE_URL", "http://localhost:8080"), "Transcript service URL")
	rootCmd.PersistentFlags().StringVar(&flags.clientID, "client-id", envOr("REELSCRIBE_CLIENT_ID", "reelscribe-bot"), "Service account client ID")
	rootCmd.PersistentFlags().StringVar(&flags.clientSecret, "client-secret", envOr("REELSCRIBE_CLIENT_SECRET", ""), "Service account client secret")
	rootCmd.PersistentFlags().DurationVar(&flags.timeout, "timeout", 5*time.Minute, "Total request timeout, including the one allowed retry")

	rootCmd.AddCommand(newProcessCommand(flags))
	rootCmd.AddCommand(newHealthCommand(flags))

	return rootCmd
}
