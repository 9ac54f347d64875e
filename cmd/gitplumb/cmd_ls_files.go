package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/gitplumb/pkg/object"
)

func newLsFilesCmd(g *globalOptions) *cobra.Command {
	var stage bool

	cmd := &cobra.Command{
		Use:   "ls-files [--stage]",
		Short: "List the paths recorded in the index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.openRepo()
			if err != nil {
				return err
			}

			entries, err := r.LoadIndex()
			if err != nil {
				// No index yet means nothing is staged.
				if errors.Is(err, object.ErrNotFound) {
					return nil
				}
				return fmt.Errorf("ls-files: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, e := range entries {
				if stage {
					fmt.Fprintln(out, e.String())
				} else {
					fmt.Fprintln(out, e.Path)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&stage, "stage", "s", false, "show mode and object id of each entry")
	return cmd
}
