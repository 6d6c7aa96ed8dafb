package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/slackabout-go/internal/slack"
	"github.com/raphaelgruber/slackabout-go/internal/stats"
)

var aboutCmd = &cobra.Command{
	Use:   "about <user|channel|keyword> <name>",
	Short: "Print the activity summary for a user, channel or keyword",
	Long: `Resolve a Slack user, channel or keyword in the graph, collect its
statistics and print the resulting message.

Examples:
  slackabout about user alice
  slackabout about channel general
  slackabout about keyword docker`,
	Args: cobra.ExactArgs(2),
	RunE: runAbout,
}

func runAbout(cmd *cobra.Command, args []string) error {
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}

	collector := stats.NewCollector(stats.Dependencies{
		Gateway: dbClient,
		Logger:  cliLogger(),
	}, cfg.QueryTimeout, cfg.DeliveryTimeout)

	msg, err := collector.Summarize(context.Background(), kind, args[1])
	if err != nil {
		ack := stats.AckForError(err)
		return fmt.Errorf("%s", ack.Text)
	}

	printMessage(msg)
	return nil
}

func parseKind(s string) (stats.Kind, error) {
	switch s {
	case "user":
		return stats.KindUser, nil
	case "channel":
		return stats.KindChannel, nil
	case "keyword":
		return stats.KindKeyword, nil
	default:
		return 0, fmt.Errorf("unknown entity type %q, want user, channel or keyword", s)
	}
}

// printMessage renders a Slack message as plain terminal output.
func printMessage(msg *slack.Message) {
	fmt.Println(msg.Text)
	for _, att := range msg.Attachments {
		fmt.Println("  " + att.Text)
	}
}

// cliLogger keeps command output clean unless --verbose is set.
func cliLogger() *slog.Logger {
	if verbose {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
