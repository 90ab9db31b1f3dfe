package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonnyWalker81/yearinmotion/internal/fitimport"
	"github.com/JonnyWalker81/yearinmotion/internal/logger"
	"github.com/JonnyWalker81/yearinmotion/internal/models"
	"github.com/JonnyWalker81/yearinmotion/internal/service"
)

var importCmd = &cobra.Command{
	Use:   "import [paths...]",
	Short: "Build a review from FIT files",
	Long: `Read activities from .fit files (directories are scanned for *.fit),
optionally store them for an athlete, and print the year in review.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

var (
	importAthlete int64
	importYear    int
	importFormat  string
)

func init() {
	importCmd.Flags().Int64Var(&importAthlete, "athlete", 0, "Store the imported activities under this athlete id")
	importCmd.Flags().IntVar(&importYear, "year", 0, "Year to review (default from config)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "text", "Output format: text or json")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	year := importYear
	if year == 0 {
		year = cfg.Review.Year
	}

	activities, err := fitimport.ParsePaths(args)
	if err != nil {
		return err
	}

	from, to := service.YearWindow(year, a.loc)
	inYear := make([]models.Activity, 0, len(activities))
	for _, act := range activities {
		// unparsable dates are kept so aggregation reports them
		start, err := act.StartTime()
		if err != nil || (!start.Before(from) && start.Before(to)) {
			inYear = append(inYear, act)
		}
	}

	logger.Info("fit files decoded",
		logger.Int("activities", len(activities)),
		logger.Int("in_year", len(inYear)),
		logger.Int("year", year))

	if importAthlete != 0 {
		if err := a.store.UpsertBatch(ctx, importAthlete, inYear); err != nil {
			return fmt.Errorf("failed to store activities: %w", err)
		}
		if err := a.reviews.Delete(ctx, importAthlete, year); err != nil {
			logger.Warn("review cache delete failed", logger.Err(err))
		}
	}

	review, err := a.reviewService.Build(inYear, year)
	if err != nil {
		return err
	}
	review.AthleteID = importAthlete

	return printReview(cmd.OutOrStdout(), review, importFormat)
}
