package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/odvcencio/gitplumb/pkg/object"
)

func newHashObjectCmd(g *globalOptions) *cobra.Command {
	var (
		write     bool
		fromStdin bool
	)

	cmd := &cobra.Command{
		Use:   "hash-object [-w] [--stdin] [file...]",
		Short: "Compute blob ids, optionally writing the blobs to the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !fromStdin && len(args) == 0 {
				return fmt.Errorf("hash-object: no input (pass files or --stdin)")
			}

			hash := func(data []byte) (object.Hash, error) {
				return object.HashObject(object.NewBlob(data)), nil
			}
			if write {
				r, err := g.openRepo()
				if err != nil {
					return err
				}
				hash = func(data []byte) (object.Hash, error) {
					return r.HashContent(data, true)
				}
			}

			out := cmd.OutOrStdout()
			if fromStdin {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("hash-object: read stdin: %w", err)
				}
				h, err := hash(data)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, h)
			}
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("hash-object: %w", err)
				}
				h, err := hash(data)
				if err != nil {
					return err
				}
				g.logger.Debug("hashed file", zap.String("path", path), zap.String("hash", string(h)), zap.Bool("written", write))
				fmt.Fprintln(out, h)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the blob into the object store")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "read the content from standard input")
	return cmd
}
