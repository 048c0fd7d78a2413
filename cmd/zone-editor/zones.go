package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mr1hm/go-risk-zones/internal/export"
	"github.com/mr1hm/go-risk-zones/internal/models"
	"github.com/mr1hm/go-risk-zones/internal/store"
)

// -- list --

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List zones",
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := loadStore(cmd.Context())
		if err != nil {
			return err
		}

		all, _ := cmd.Flags().GetBool("all")
		zones := st.ActiveZones()
		if all {
			zones = st.Zones()
		}

		if len(zones) == 0 {
			fmt.Fprintln(os.Stderr, "No zones found.")
			return nil
		}

		formatZones(os.Stdout, zones)
		fmt.Fprintf(os.Stdout, "\n%d active zone(s)\n", st.ActiveCount())
		return nil
	},
}

// -- logs --

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the most recent audit log entries",
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := loadStore(cmd.Context())
		if err != nil {
			return err
		}

		n, _ := cmd.Flags().GetInt("limit")
		logs := st.RecentLogs(n)
		if len(logs) == 0 {
			fmt.Fprintln(os.Stderr, "No log entries.")
			return nil
		}

		formatLogs(os.Stdout, logs)
		return nil
	},
}

// -- create --

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a zone from a list of points",
	Example: `  zone-editor create --name Market --severity high \
    --point 14.5995,120.9842 --point 14.6000,120.9850 --point 14.5990,120.9860`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")
		severity, _ := cmd.Flags().GetString("severity")
		raw, _ := cmd.Flags().GetStringArray("point")

		points, err := parsePoints(raw)
		if err != nil {
			return err
		}

		st, err := loadStore(cmd.Context())
		if err != nil {
			return err
		}

		zone, err := st.Create(cmd.Context(), store.ZoneInput{
			Name:        name,
			Description: description,
			Points:      points,
			Severity:    models.ParseSeverity(severity),
		})
		if err != nil {
			return fmt.Errorf("error creating zone: %w", err)
		}

		fmt.Fprintf(os.Stdout, "Created %s (%s, %d points)\n", zone.ID, zone.Name, len(zone.Coordinates))
		return nil
	},
}

// -- deactivate --

var deactivateCmd = &cobra.Command{
	Use:   "deactivate <zone-id>",
	Short: "Deactivate a zone, keeping it for audit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := loadStore(cmd.Context())
		if err != nil {
			return err
		}

		if err := st.Deactivate(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("error deactivating zone %s: %w", args[0], err)
		}

		fmt.Fprintf(os.Stdout, "Deactivated %s\n", args[0])
		return nil
	},
}

// -- export --

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export active zones as a GeoJSON FeatureCollection",
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := loadStore(cmd.Context())
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("output")
		zones := st.ActiveZones()

		if out == "-" {
			data, err := export.Marshal(zones)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(append(data, '\n'))
			return err
		}

		if err := export.WriteFile(out, zones); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Exported %d zone(s) to %s\n", len(zones), out)
		return nil
	},
}

func init() {
	listCmd.Flags().Bool("all", false, "include inactive zones")

	logsCmd.Flags().IntP("limit", "n", 10, "number of entries to show")

	createCmd.Flags().String("name", "", "zone name (required)")
	createCmd.Flags().String("description", "", "zone description")
	createCmd.Flags().String("severity", string(models.SeverityMedium), "low, medium, high or critical")
	createCmd.Flags().StringArray("point", nil, "vertex as lat,lng (repeat at least 3 times)")
	_ = createCmd.MarkFlagRequired("name")

	exportCmd.Flags().StringP("output", "o", export.FileName, `output file, "-" for stdout`)

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(deactivateCmd)
	rootCmd.AddCommand(exportCmd)
}

func parsePoints(raw []string) ([]models.Point, error) {
	points := make([]models.Point, 0, len(raw))
	for _, r := range raw {
		p, err := models.ParsePoint(r)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

func formatZones(w io.Writer, zones []models.Zone) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSEVERITY\tPOINTS\tACTIVE\tCREATED\tBY")
	for _, z := range zones {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%t\t%s\t%s\n",
			z.ID, z.Name, z.Severity, len(z.Coordinates), z.IsActive,
			z.CreatedAt.Format("2006-01-02 15:04"), z.CreatedBy)
	}
	_ = tw.Flush()
}

func formatLogs(w io.Writer, logs []models.ZoneLog) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tACTION\tZONE\tOFFICER\tDETAILS")
	for _, l := range logs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			l.Timestamp.Format("2006-01-02 15:04:05"), l.Action, l.ZoneName, l.Officer, l.Details)
	}
	_ = tw.Flush()
}
