package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iReady/iReady-Backend/internal/config"
	"github.com/iReady/iReady-Backend/internal/poi"
	"github.com/iReady/iReady-Backend/internal/relief"
)

func newMarkersCmd() *cobra.Command {
	var (
		predictionsFile string
		poisFile        string
		regionFile      string
		count           int
	)
	cmd := &cobra.Command{
		Use:   "markers",
		Short: "Print the display markers the server would return",
		Long: `Computes display markers offline from a predictions file and a POI
file, using the same water filter and placement as GET /api/markers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := config.LoadLayout(regionFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("count") {
				if count <= 0 || count > relief.MaxMarkerCount {
					return fmt.Errorf("--count must be between 1 and %d", relief.MaxMarkerCount)
				}
				layout.Count = count
			}

			predictions, err := relief.LoadFile(predictionsFile)
			if err != nil {
				return err
			}
			pois, err := poi.LoadFile(poisFile)
			if err != nil {
				return err
			}
			all, err := pois.All(cmd.Context())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(layout.Place(predictions.Codes(), all))
		},
	}
	cmd.Flags().StringVar(&predictionsFile, "predictions", config.DefaultPredictionsFile, "ToReceive.json predictions file")
	cmd.Flags().StringVar(&poisFile, "pois", config.DefaultPOIsFile, "POI JSON file")
	cmd.Flags().StringVar(&regionFile, "region", "", "Optional YAML layout file")
	cmd.Flags().IntVar(&count, "count", 0, "Number of markers (default from layout)")
	return cmd
}
