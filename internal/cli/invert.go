package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ErrNoMatch is returned by invert when no component accepts the point
var ErrNoMatch = errors.New("no match")

func invertCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invert X Y",
		Short: "Invert a planar point and print lon lat component",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := parseFloat(args[0])
			if err != nil {
				return fmt.Errorf("x: %w", err)
			}
			y, err := parseFloat(args[1])
			if err != nil {
				return fmt.Errorf("y: %w", err)
			}

			c, _, err := opts.loadComposite()
			if err != nil {
				return err
			}

			m, ok := c.Locate(x, y)
			if !ok {
				return fmt.Errorf("%w for (%g, %g)", ErrNoMatch, x, y)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.6f %.6f %s\n", m.Lon, m.Lat, m.Name)
			return nil
		},
	}
	return cmd
}
