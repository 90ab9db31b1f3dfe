package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonnyWalker81/yearinmotion/internal/logger"
	"github.com/JonnyWalker81/yearinmotion/internal/models"
	"github.com/JonnyWalker81/yearinmotion/internal/render"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Print a year in review",
	Long: `Build a year in review for a connected session, from stored activities,
or from the built-in demo year, and print it as text or JSON.`,
	RunE: runReview,
}

// reviewSource picks where a review comes from; shared with the story command
type reviewSource struct {
	demo      bool
	sessionID string
	athleteID int64
	year      int
}

func (s *reviewSource) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&s.demo, "demo", false, "Use the built-in demo year")
	cmd.Flags().StringVar(&s.sessionID, "session", "", "Session id of a connected athlete (fetches from Strava)")
	cmd.Flags().Int64Var(&s.athleteID, "athlete", 0, "Athlete id to review from stored activities only")
	cmd.Flags().IntVar(&s.year, "year", 0, "Year to review (default from config)")
}

func (s *reviewSource) load(ctx context.Context, a *app) (*models.Review, error) {
	year := s.year
	if year == 0 {
		year = a.cfg.Review.Year
	}

	switch {
	case s.demo:
		logger.Info("generating demo year")
		return a.reviewService.Demo()
	case s.sessionID != "":
		session, err := a.authService.EnsureFresh(ctx, s.sessionID)
		if err != nil {
			return nil, err
		}
		return a.reviewService.ForSession(ctx, session, year)
	case s.athleteID != 0:
		return a.reviewService.Offline(ctx, s.athleteID, year)
	default:
		return nil, errors.New("one of --demo, --session or --athlete is required")
	}
}

var (
	reviewFrom      reviewSource
	reviewFormat    string
	reviewShareCard string
	reviewScale     int
	reviewTelegram  bool
)

func init() {
	reviewFrom.bind(reviewCmd)
	reviewCmd.Flags().StringVarP(&reviewFormat, "format", "f", "text", "Output format: text or json")
	reviewCmd.Flags().StringVar(&reviewShareCard, "share-card", "", "Also write the share card PNG to this path")
	reviewCmd.Flags().IntVar(&reviewScale, "scale", render.DefaultScale, "Share card scale factor")
	reviewCmd.Flags().BoolVar(&reviewTelegram, "telegram", false, "Send the review (and share card) to the configured Telegram chat")
}

func runReview(cmd *cobra.Command, args []string) error {
	if reviewFormat != "text" && reviewFormat != "json" {
		return fmt.Errorf("unknown format %q: use text or json", reviewFormat)
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	if reviewTelegram {
		if err := a.requireNotifier(); err != nil {
			return err
		}
	}

	review, err := reviewFrom.load(ctx, a)
	if err != nil {
		return err
	}

	if err := printReview(cmd.OutOrStdout(), review, reviewFormat); err != nil {
		return err
	}

	var card []byte
	if reviewShareCard != "" || reviewTelegram {
		var buf bytes.Buffer
		if err := render.EncodeShareCard(&buf, review, render.ShareCardOptions{Scale: reviewScale}); err != nil {
			return fmt.Errorf("failed to render share card: %w", err)
		}
		card = buf.Bytes()
	}

	if reviewShareCard != "" {
		if err := os.WriteFile(reviewShareCard, card, 0o644); err != nil {
			return fmt.Errorf("failed to write share card: %w", err)
		}
		logger.Info("share card written", logger.String("path", reviewShareCard))
	}

	if reviewTelegram {
		if err := a.notifier.SendReview(review); err != nil {
			return err
		}
		if err := a.notifier.SendShareCard(review.Year, card); err != nil {
			return err
		}
	}
	return nil
}

func printReview(w io.Writer, review *models.Review, format string) error {
	dashboard := render.NewDashboard(review)
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Review    *models.Review    `json:"review"`
			Dashboard *render.Dashboard `json:"dashboard"`
		}{review, dashboard})
	}
	return render.WriteText(w, dashboard)
}
