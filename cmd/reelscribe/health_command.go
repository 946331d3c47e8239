package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newHealthCommand(flags *clientFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Probe the transcript service's liveness endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			c := flags.newClient()
			if !c.Health(ctx) {
				fmt.Fprintln(cmd.OutOrStdout(), "unhealthy")
				os.Exit(1)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "healthy")
			return nil
		},
	}
}
