/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/reelstack/apiserver/config"
	"github.com/reelstack/apiserver/internal/mq"
	"github.com/spf13/cobra"
)

// eventsCmd tails the review event channel and logs each delivery. It is the
// hook point for notification pipelines.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Consume and log review events",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := config.LoadConfig()

		broker, err := mq.NewFromConfig(ctx, cfg.MQ)
		if err != nil {
			return err
		}
		if broker == nil {
			return errors.New("MQ_BACKEND is not configured")
		}
		defer broker.Close()

		log.Printf("consuming %s", mq.ReviewEventsChannel)
		err = broker.Subscribe(ctx, mq.ReviewEventsChannel, func(ctx context.Context, msg mq.Message) error {
			var event mq.ReviewEvent
			if err := json.Unmarshal(msg.Data, &event); err != nil {
				log.Printf("skipping malformed event %s: %v", msg.ID, err)
				return nil
			}
			log.Printf("review %s: review=%d movie=%d user=%d rating=%d",
				event.Action, event.ReviewID, event.MovieID, event.UserID, event.Rating)
			return nil
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}
