// Package main provides a small CLI to validate boundary GeoJSON files.
package main

import (
	"fmt"
	"os"

	"map-api/internal/geo"

	"github.com/spf13/cobra"
)

var (
	nameProps []string
	centroids bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "boundary-check [boundaries.geojson]",
		Short: "Validate a boundary GeoJSON file and list its features",
		Long: `boundary-check loads a district or province boundary file the same way
the map server does and reports feature names, part counts and the overall extent.`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}

	rootCmd.Flags().StringSliceVar(&nameProps, "name-prop", []string{"DIST_EN", "DISTRICT", "PROV_EN"}, "Name property candidates, first present wins")
	rootCmd.Flags().BoolVar(&centroids, "centroids", false, "Print feature centroids")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	path := args[0]
	features, err := geo.LoadCollection(path, "Feature", nameProps...)
	if err != nil {
		return err
	}
	for _, f := range features {
		if centroids {
			fmt.Printf("%s\tparts=%d\tcentroid=%.5f,%.5f\n", f.Name, len(f.Polys), f.Centroid.Lon, f.Centroid.Lat)
		} else {
			fmt.Printf("%s\tparts=%d\n", f.Name, len(f.Polys))
		}
	}
	e := geo.FeaturesExtent(features)
	fmt.Printf("features=%d extent=[%.5f %.5f %.5f %.5f]\n", len(features), e[0], e[1], e[2], e[3])
	outer := geo.Dissolve(features)
	fmt.Printf("dissolved outer rings=%d\n", len(outer))
	return nil
}
