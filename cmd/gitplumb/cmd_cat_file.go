package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/odvcencio/gitplumb/pkg/object"
)

func newCatFileCmd(g *globalOptions) *cobra.Command {
	var (
		showType    bool
		showSize    bool
		prettyPrint bool
		exists      bool
	)

	cmd := &cobra.Command{
		Use:   "cat-file (-t | -s | -p | -e) <object>",
		Short: "Print the type, size or content of a stored object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := 0
			for _, set := range []bool{showType, showSize, prettyPrint, exists} {
				if set {
					n++
				}
			}
			if n != 1 {
				return fmt.Errorf("cat-file: exactly one of -t, -s, -p or -e is required")
			}

			r, err := g.openRepo()
			if err != nil {
				return err
			}

			_, obj, err := r.ReadObject(args[0])
			if exists {
				if err != nil {
					if errors.Is(err, object.ErrNotFound) {
						return &exitError{code: 1}
					}
					return fmt.Errorf("cat-file: %w", err)
				}
				return nil
			}
			if err != nil {
				return fmt.Errorf("cat-file: %w", err)
			}

			out := cmd.OutOrStdout()
			switch {
			case showType:
				fmt.Fprintln(out, obj.Type())
			case showSize:
				fmt.Fprintln(out, obj.Size())
			case prettyPrint:
				return printObject(out, obj)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&showType, "type", "t", false, "show the object type")
	cmd.Flags().BoolVarP(&showSize, "size", "s", false, "show the object size")
	cmd.Flags().BoolVarP(&prettyPrint, "pretty", "p", false, "pretty-print the object content")
	cmd.Flags().BoolVarP(&exists, "exists", "e", false, "exit with zero status if the object exists")
	return cmd
}

// printObject writes blob content verbatim and trees one entry per line.
func printObject(w io.Writer, obj object.Object) error {
	switch o := obj.(type) {
	case *object.Blob:
		_, err := w.Write(o.Content())
		return err
	case *object.Tree:
		if o.Len() == 0 {
			return nil
		}
		_, err := fmt.Fprintln(w, o.Render())
		return err
	default:
		return fmt.Errorf("cat-file: cannot print %s object", obj.Type())
	}
}
