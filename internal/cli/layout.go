package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"asciiusa/internal/layout"
)

func layoutCmd(opts *options) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the effective layout as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if list {
				for _, name := range layout.BuiltinNames() {
					fmt.Fprintln(out, name)
				}
				return nil
			}

			doc, err := opts.loadLayout()
			if err != nil {
				return err
			}
			// Compile so that only valid effective layouts are printed
			if _, err := doc.Compile(); err != nil {
				return err
			}

			data, err := doc.Marshal()
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "list the built-in layouts")
	return cmd
}
