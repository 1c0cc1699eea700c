package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/configs/internal/events"
	"github.com/alfredjeanlab/configs/internal/ui"
)

func defaultNATSURL() string {
	if s := os.Getenv("CONFIGS_NATS_URL"); s != "" {
		return s
	}
	r, _ := activeRemote()
	return r.NATSURL
}

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Stream configuration lifecycle events",
	GroupID: "configurations",
	Args:    cobra.NoArgs,
	// Events come straight from NATS; no API client is needed.
	PersistentPreRunE: noClient,
	RunE: func(cmd *cobra.Command, args []string) error {
		natsURL, _ := cmd.Flags().GetString("nats")
		if natsURL == "" {
			return errors.New("no NATS URL: pass --nats, set CONFIGS_NATS_URL, or add one to the active remote")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		sub, err := events.NewNATSSubscriber(natsURL,
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				log.Printf("nats: disconnected: %v", err)
			}),
			nats.ReconnectHandler(func(_ *nats.Conn) {
				log.Printf("nats: reconnected")
			}),
		)
		if err != nil {
			return fmt.Errorf("connecting to NATS: %w", err)
		}
		defer sub.Close()

		return watchEvents(ctx, sub, cmd.OutOrStdout())
	},
}

// watchEvents prints every configuration event until ctx is done or the
// subscription ends.
func watchEvents(ctx context.Context, sub events.Subscriber, w io.Writer) error {
	ch, cancel, err := sub.Subscribe(events.TopicAll)
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if err := printEvent(w, msg); err != nil {
				fmt.Fprintf(os.Stderr, "skipping malformed event on %s: %v\n", msg.Topic, err)
			}
		}
	}
}

func printEvent(w io.Writer, msg events.Message) error {
	if jsonOutput {
		_, err := fmt.Fprintf(w, "{\"topic\":%q,\"data\":%s}\n", msg.Topic, msg.Data)
		return err
	}

	switch msg.Topic {
	case events.TopicConfigurationCreated, events.TopicConfigurationUpdated:
		var ev events.ConfigurationCreated
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return err
		}
		if ev.Configuration == nil {
			return errors.New("missing configuration")
		}
		label := ui.RenderPass("created")
		if msg.Topic == events.TopicConfigurationUpdated {
			label = ui.RenderWarn("updated")
		}
		c := ev.Configuration
		_, err := fmt.Fprintf(w, "%s %d %s (%d assets)\n", label, c.ID, c.Name, len(c.Assets))
		return err
	case events.TopicConfigurationDeleted:
		var ev events.ConfigurationDeleted
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "%s %d\n", ui.RenderFail("deleted"), ev.ID)
		return err
	default:
		_, err := fmt.Fprintf(w, "%s %s\n", ui.RenderMuted(msg.Topic), msg.Data)
		return err
	}
}

func init() {
	watchCmd.Flags().String("nats", defaultNATSURL(), "NATS server URL")
}
