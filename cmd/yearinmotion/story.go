package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonnyWalker81/yearinmotion/internal/story"
)

var storyCmd = &cobra.Command{
	Use:   "story",
	Short: "Play the year in review as a slideshow",
	Long: `Play the six story slides in the terminal. Slides advance on their own;
type n + Enter for the next slide, p for the previous one, q to quit.`,
	RunE: runStory,
}

var (
	storyFrom     reviewSource
	slideDuration time.Duration
)

func init() {
	storyFrom.bind(storyCmd)
	storyCmd.Flags().DurationVar(&slideDuration, "slide-duration", 0, "Time per slide (default from config)")
}

func runStory(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	review, err := storyFrom.load(ctx, a)
	if err != nil {
		return err
	}

	duration := slideDuration
	if duration <= 0 {
		duration = cfg.Review.SlideDuration
	}

	out := cmd.OutOrStdout()
	slides := story.BuildSlides(review)
	shown := -1

	player := story.NewPlayer(story.NewMachine(len(slides), duration), story.PlayerOptions{
		OnChange: func(s story.Snapshot) {
			if s.State == story.StateShowing && s.Slide != shown {
				shown = s.Slide
				printSlide(out, slides[s.Slide], s.Slide, s.Total)
			}
		},
		OnFinish: func() {
			fmt.Fprintln(out, "\nThat's a wrap. See you next year.")
		},
	})

	go readControls(ctx, os.Stdin, player)

	if err := player.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// readControls turns lines typed on in into player commands
func readControls(ctx context.Context, in io.Reader, p *story.Player) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		switch strings.TrimSpace(strings.ToLower(scanner.Text())) {
		case "n", "":
			p.Next()
		case "p":
			p.Prev()
		case "q":
			p.Stop()
			return
		}
	}
}

func printSlide(w io.Writer, s story.Slide, index, total int) {
	fmt.Fprintf(w, "\n[%d/%d] %s\n", index+1, total, strings.ToUpper(s.Title))

	value := s.Value
	if s.Unit != "" {
		value += " " + s.Unit
	}
	fmt.Fprintf(w, "  %s\n", value)

	if s.Subtext != "" {
		fmt.Fprintf(w, "  %s\n", s.Subtext)
	}
	for _, d := range s.Details {
		fmt.Fprintf(w, "  %s: %s\n", d.Label, d.Value)
	}
	if s.Insight != "" {
		fmt.Fprintf(w, "  > %s\n", s.Insight)
	}
}
