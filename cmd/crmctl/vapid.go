package main

import (
	"fmt"

	"sales_pipeline_backend/platform/webpush"

	"github.com/spf13/cobra"
)

var vapidKeysCmd = &cobra.Command{
	Use:   "vapid-keys",
	Short: "Generate a VAPID key pair for Web Push",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		keys, err := webpush.GenerateVAPIDKeys()
		if err != nil {
			return fmt.Errorf("generate keys: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Add these to your environment:")
		fmt.Fprintf(out, "VAPID_PUBLIC_KEY=%s\n", keys.PublicKey)
		fmt.Fprintf(out, "VAPID_PRIVATE_KEY=%s\n", keys.PrivateKey)
		return nil
	},
}
