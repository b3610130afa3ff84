package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func projectCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project LON LAT",
		Short: "Forward-project a point and print x y component",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lon, err := parseFloat(args[0])
			if err != nil {
				return fmt.Errorf("longitude: %w", err)
			}
			lat, err := parseFloat(args[1])
			if err != nil {
				return fmt.Errorf("latitude: %w", err)
			}

			c, _, err := opts.loadComposite()
			if err != nil {
				return err
			}

			x, y := c.Project(lon, lat)
			fmt.Fprintf(cmd.OutOrStdout(), "%.6f %.6f %s\n", x, y, componentName(c, c.Classify(lon, lat)))
			return nil
		},
	}
	return cmd
}
