package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"sales_pipeline_backend/platform/httpkit"

	"github.com/spf13/cobra"
)

var (
	webhookURL    string
	webhookAPIKey string
)

var testWebhookCmd = &cobra.Command{
	Use:   "test-webhook",
	Short: "Post a sample nested lead payload to the webhook endpoint",
	Args:  cobra.NoArgs,
	RunE:  runTestWebhook,
}

func init() {
	testWebhookCmd.Flags().StringVar(&webhookURL, "url", "http://localhost:8080/api/v1/webhook/leads", "webhook endpoint")
	testWebhookCmd.Flags().StringVar(&webhookAPIKey, "api-key", os.Getenv("WEBHOOK_API_KEY"), "value for the webhook API key header")
}

// samplePayload mirrors what a lead capture form posts: the business and
// lead details are nested objects.
func samplePayload(now time.Time) map[string]any {
	return map[string]any{
		"business": map[string]any{
			"name":     fmt.Sprintf("Test Corp %d", now.UnixMilli()),
			"email":    "contact@testcorp.example.com",
			"website":  "https://testcorp.example.com",
			"category": "Software",
		},
		"lead": map[string]any{
			"painPoint":        "Inefficient sales process",
			"suggestedMessage": "We can help you scale.",
		},
	}
}

func runTestWebhook(cmd *cobra.Command, _ []string) error {
	body, err := json.Marshal(samplePayload(time.Now()))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if webhookAPIKey != "" {
		req.Header.Set(httpkit.HeaderWebhookAPIKey, webhookAPIKey)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "status: %d\n", resp.StatusCode)

	var pretty bytes.Buffer
	if json.Indent(&pretty, respBody, "", "  ") == nil {
		fmt.Fprintln(out, pretty.String())
	} else {
		fmt.Fprintln(out, string(respBody))
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook rejected the payload with status %d", resp.StatusCode)
	}
	return nil
}
