package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"asciiusa/internal/cache"
	"asciiusa/internal/debug"
	"asciiusa/internal/geo"
	"asciiusa/internal/ui"
)

type viewOptions struct {
	aspectRatio float64
	placesCSV   string
	offline     bool
}

func viewCmd(opts *options) *cobra.Command {
	vo := &viewOptions{}

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse the composite map in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, opts, vo)
		},
	}

	cmd.Flags().Float64VarP(&vo.aspectRatio, "aspect", "a", 2.0, "character aspect ratio - adjust for font width (1.0-4.0)")
	cmd.Flags().StringVar(&vo.placesCSV, "places", "", "CSV of extra places to mark (name, longitude, latitude columns)")
	cmd.Flags().BoolVar(&vo.offline, "offline", false, "do not download missing map data")
	return cmd
}

func runView(cmd *cobra.Command, opts *options, vo *viewOptions) error {
	out := cmd.OutOrStdout()

	if vo.aspectRatio < 1.0 || vo.aspectRatio > 4.0 {
		return fmt.Errorf("aspect ratio must be between 1.0 and 4.0, got %g", vo.aspectRatio)
	}

	c, doc, err := opts.loadComposite()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Initializing map data cache...")
	cacheManager, err := cache.NewManager(opts.cacheDir, cache.WithOutput(out))
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	if vo.offline {
		for _, file := range cacheManager.Missing() {
			fmt.Fprintf(out, "Warning: %s is not cached and will not be drawn\n", file.Name)
		}
	} else {
		fmt.Fprintln(out, "Checking Natural Earth data...")
		if _, err := cacheManager.EnsureData(); err != nil {
			return fmt.Errorf("failed to download map data: %w", err)
		}
	}

	fmt.Fprintln(out, "Loading geographic features...")
	loader := geo.NewShapefileLoader(cacheManager.GetCacheDir(), doc.Countries...)
	features, err := loader.LoadAll()
	if err != nil {
		return fmt.Errorf("failed to load shapefiles: %w", err)
	}

	if vo.placesCSV != "" {
		places, err := geo.NewPlacesLoader(vo.placesCSV).LoadPlaces()
		if err != nil {
			return err
		}
		features[geo.FeaturePlace] = places
		fmt.Fprintf(out, "Loaded %d places\n", len(places))
	}

	fmt.Fprintf(out, "Starting asciiusa (layout: %s, aspect: %.1f)...\n", doc.Name, vo.aspectRatio)
	app, err := ui.NewApp(c, features, vo.aspectRatio)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	// Run with panic recovery so the error is reported after the terminal is restored
	err = func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				debug.Log("Panic: %v", r)
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return app.Run(cmd.Context())
	}()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "\nGoodbye!")
	return nil
}
