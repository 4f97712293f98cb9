package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"zonetrack/internal/models"
)

func TreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree <clientId>",
		Short: "Print a client's locations, zones and records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(false)
			if err != nil {
				return err
			}
			defer a.close()
			c, err := a.svc.Client(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderTree(cmd.OutOrStdout(), c)
			return nil
		},
	}
}

var (
	clientColor   = color.New(color.FgHiBlue, color.Bold)
	locationColor = color.New(color.FgHiGreen)
	zoneColor     = color.New(color.FgYellow)
	idColor       = color.New(color.FgHiBlack)
	qrMarker      = color.New(color.FgHiMagenta).Sprint(" [qr]")
)

func renderTree(w io.Writer, c *models.Client) {
	fmt.Fprintf(w, "%s %s\n", clientColor.Sprint(c.Name), idColor.Sprint(c.ID))
	fmt.Fprintf(w, "  users %d · jobs %d · items %d\n", len(c.Users), len(c.Jobs), len(c.Items))
	for _, l := range c.Locations {
		marker := ""
		if l.QRCodeEnabled {
			marker = qrMarker
		}
		fmt.Fprintf(w, "  ├─ %s %s%s\n", locationColor.Sprint(l.Name), idColor.Sprint(l.ID), marker)
		writeRecords(w, "  │    ", l.Records)
		for _, z := range l.Zones {
			fmt.Fprintf(w, "  │  └─ %s %s\n", zoneColor.Sprint(z.Name), idColor.Sprint(z.ID))
			writeRecords(w, "  │       ", z.Records)
		}
	}
}

func writeRecords(w io.Writer, indent string, rs []models.ZoneRecord) {
	for _, r := range rs {
		out := r.CheckOutTime
		if out == "" {
			out = "open"
		}
		fmt.Fprintf(w, "%s• %s → %s (%d jobs)\n", indent, r.CheckInTime, out, len(r.Jobs))
	}
}
