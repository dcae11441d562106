package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"sales_pipeline_backend/internal/events"
	"sales_pipeline_backend/internal/leads/domain"
	"sales_pipeline_backend/internal/leads/management"
	leadsrepo "sales_pipeline_backend/internal/leads/repository"
	"sales_pipeline_backend/internal/leads/transport"
	"sales_pipeline_backend/platform/config"
	"sales_pipeline_backend/platform/db"
	"sales_pipeline_backend/platform/logger"
	"sales_pipeline_backend/platform/phone"
	"sales_pipeline_backend/platform/validator"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"
)

const discordSource = "discord"

var (
	discordToken   string
	discordChannel string
	discordFile    string
	discordLimit   int
)

var importDiscordCmd = &cobra.Command{
	Use:   "import-discord",
	Short: "Import leads posted by the lead bot into a Discord channel",
	Long: "Reads the latest channel messages from the Discord API, or from a JSON\n" +
		"export given with --file, and ingests every message that names a business.",
	Args: cobra.NoArgs,
	RunE: runImportDiscord,
}

func init() {
	importDiscordCmd.Flags().StringVar(&discordToken, "token", os.Getenv("DISCORD_TOKEN"), "bot token")
	importDiscordCmd.Flags().StringVar(&discordChannel, "channel", os.Getenv("DISCORD_CHANNEL_ID"), "channel id")
	importDiscordCmd.Flags().StringVar(&discordFile, "file", "", "read messages from a JSON export instead of the API")
	importDiscordCmd.Flags().IntVar(&discordLimit, "limit", 100, "messages to fetch (1-100)")
}

type leadIngester interface {
	Ingest(ctx context.Context, payload map[string]any, source string) (transport.LeadResponse, error)
}

var (
	digitsOnly     = regexp.MustCompile(`[^0-9]`)
	markdownLink   = regexp.MustCompile(`\((.*?)\)`)
	codeBlock      = regexp.MustCompile("(?s)```(.*?)```")
	embeddedObject = regexp.MustCompile(`(?s)(\{.*\})`)
)

// discordPayload maps one bot message onto a flattened ingest payload. The
// first embed's fields carry the lead; a second embed may carry the suggested
// message in a code block. Messages without embed fields fall back to a JSON
// object inside the content. ok is false when no business name is found.
func discordPayload(msg *discordgo.Message) (map[string]any, bool) {
	payload := map[string]any{}
	found := false

	if len(msg.Embeds) > 0 && len(msg.Embeds[0].Fields) > 0 {
		for _, f := range msg.Embeds[0].Fields {
			name := strings.ToLower(f.Name)
			switch {
			case strings.Contains(name, "business"):
				business := strings.TrimSpace(strings.ReplaceAll(f.Value, "**", ""))
				payload["business_name"] = business
				found = business != ""
			case strings.Contains(name, "location"), strings.Contains(name, "address"):
				payload["address"] = f.Value
			case strings.Contains(name, "industry"):
				payload["industry"] = f.Value
			case strings.Contains(name, "pain point"):
				payload["pain_point"] = f.Value
			case strings.Contains(name, "website"):
				payload["website"] = f.Value
			case strings.Contains(name, "phone"):
				payload["phone"] = f.Value
			case strings.Contains(name, "email"):
				payload["email"] = f.Value
			case strings.Contains(name, "whatsapp"):
				if m := markdownLink.FindStringSubmatch(f.Value); m != nil {
					payload["website"] = m[1]
				}
			}
		}
		if len(msg.Embeds) > 1 && strings.Contains(msg.Embeds[1].Description, "Suggested Attack Plan") {
			if m := codeBlock.FindStringSubmatch(msg.Embeds[1].Description); m != nil {
				payload["suggested_message"] = strings.TrimSpace(m[1])
			}
		}
	}

	if !found && msg.Content != "" {
		if m := embeddedObject.FindStringSubmatch(msg.Content); m != nil {
			var parsed map[string]any
			if json.Unmarshal([]byte(m[1]), &parsed) == nil {
				for k, v := range parsed {
					payload[k] = v
				}
				_, err := domain.Normalize(payload, time.Time{})
				found = err == nil
			}
		}
	}
	if !found {
		return nil, false
	}

	payload[discordSource] = map[string]any{"messageId": msg.ID, "channelId": msg.ChannelID, "content": msg.Content, "embeds": msg.Embeds}
	return payload, true
}

// importDiscordMessages ingests every message that maps to a payload. A
// rejected message is reported and skipped; the count covers stored leads.
func importDiscordMessages(ctx context.Context, ingester leadIngester, messages []*discordgo.Message, out io.Writer) int {
	imported := 0
	for _, msg := range messages {
		if msg == nil {
			continue
		}
		payload, ok := discordPayload(msg)
		if !ok {
			continue
		}
		lead, err := ingester.Ingest(ctx, payload, discordSource)
		if err != nil {
			fmt.Fprintf(out, "  - skipped message %s: %v\n", msg.ID, err)
			continue
		}
		imported++
		fmt.Fprintf(out, "  + imported %s\n", lead.BusinessName)
	}
	return imported
}

func newDiscordSession(token string) (*discordgo.Session, error) {
	if token == "" {
		return nil, fmt.Errorf("discord token is required")
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	session.Client = &http.Client{Timeout: 15 * time.Second}
	return session, nil
}

func fetchDiscordMessages(session *discordgo.Session, channel string, limit int) ([]*discordgo.Message, error) {
	channel = digitsOnly.ReplaceAllString(channel, "")
	if channel == "" {
		return nil, fmt.Errorf("discord channel id is required")
	}
	if limit < 1 || limit > 100 {
		limit = 100
	}
	messages, err := session.ChannelMessages(channel, limit, "", "", "")
	if err != nil {
		return nil, fmt.Errorf("fetch discord messages: %w", err)
	}
	return messages, nil
}

func readDiscordExport(path string) ([]*discordgo.Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var messages []*discordgo.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return messages, nil
}

func runImportDiscord(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	var messages []*discordgo.Message
	if discordFile != "" {
		m, err := readDiscordExport(discordFile)
		if err != nil {
			return err
		}
		messages = m
	} else {
		session, err := newDiscordSession(discordToken)
		if err != nil {
			return err
		}
		m, err := fetchDiscordMessages(session, discordChannel, discordLimit)
		if err != nil {
			return err
		}
		messages = m
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()
	if err := db.RunMigrations(ctx, pool); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	svc := management.New(
		leadsrepo.New(pool),
		events.NewInMemoryBus(logger.New(cfg.Env)),
		validator.New(),
		phone.NewNormalizer(cfg.GetDefaultPhoneRegion()),
	)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "processing %d messages\n", len(messages))
	n := importDiscordMessages(ctx, svc, messages, out)
	fmt.Fprintf(out, "imported %d leads\n", n)
	return nil
}
