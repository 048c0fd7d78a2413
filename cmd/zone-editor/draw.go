package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mr1hm/go-risk-zones/internal/editor"
	"github.com/mr1hm/go-risk-zones/internal/models"
)

var errDrawCancelled = errors.New("drawing cancelled")

var drawCmd = &cobra.Command{
	Use:   "draw",
	Short: "Draw a zone interactively",
	Long: `Reads map clicks from stdin as "lat,lng" lines. Type "finish" to review
the polygon or "cancel" to discard it, then enter the zone details.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := newStore()
		if err != nil {
			return err
		}

		surface := editor.NewHeadlessSurface(logger)
		ctrl := editor.New(surface, st, logger)
		defer ctrl.Close()

		// The store refuses writes until a load succeeds.
		if err := ctrl.Reload(ctx); err != nil {
			return fmt.Errorf("zone store %s: %w", cfg.Editor.StoreURL, err)
		}

		zone, err := runDraw(ctx, ctrl, surface, os.Stdin, os.Stdout)
		if errors.Is(err, errDrawCancelled) {
			fmt.Fprintln(os.Stdout, "Drawing cancelled.")
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Created %s (%s, %d points). %d active zone(s).\n",
			zone.ID, zone.Name, len(zone.Coordinates), st.ActiveCount())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(drawCmd)
}

// runDraw drives one drawing session from line-oriented input: vertex
// clicks, then finish, then the zone details. Failed commits re-prompt for
// details with the polygon kept.
func runDraw(ctx context.Context, ctrl *editor.Controller, surface *editor.HeadlessSurface, in io.Reader, out io.Writer) (*models.Zone, error) {
	sc := bufio.NewScanner(in)
	prompt := func(label string) (string, bool) {
		fmt.Fprint(out, label)
		if !sc.Scan() {
			return "", false
		}
		return strings.TrimSpace(sc.Text()), true
	}

	if err := ctrl.StartDrawing(); err != nil {
		return nil, err
	}
	fmt.Fprintln(out, `Enter points as lat,lng. "finish" to review, "cancel" to discard.`)

	for {
		line, ok := prompt("point> ")
		if !ok || line == "cancel" {
			ctrl.Cancel()
			return nil, errDrawCancelled
		}
		if line == "" {
			continue
		}
		if line == "finish" {
			if err := ctrl.Finish(); err != nil {
				fmt.Fprintf(out, "Cannot finish: %v (%d point(s) so far)\n", err, len(ctrl.Points()))
				continue
			}
			break
		}

		p, err := models.ParsePoint(line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		surface.Click(p)
		fmt.Fprintf(out, "Added %s, %d point(s)\n", p, len(ctrl.Points()))
	}

	fmt.Fprintf(out, "Reviewing polygon with %d points.\n", len(ctrl.Points()))

	for {
		if err := ctx.Err(); err != nil {
			ctrl.Cancel()
			return nil, err
		}

		name, ok := prompt("name (or cancel)> ")
		if !ok || name == "cancel" {
			ctrl.Cancel()
			return nil, errDrawCancelled
		}
		description, ok := prompt("description> ")
		if !ok {
			ctrl.Cancel()
			return nil, errDrawCancelled
		}
		severity, ok := prompt("severity [low|medium|high|critical]> ")
		if !ok {
			ctrl.Cancel()
			return nil, errDrawCancelled
		}

		zone, err := ctrl.Commit(ctx, editor.Draft{
			Name:        name,
			Description: description,
			Severity:    models.ParseSeverity(severity),
		})
		if err != nil {
			fmt.Fprintf(out, "Could not save zone: %v\n", err)
			continue
		}
		return zone, nil
	}
}
