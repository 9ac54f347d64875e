package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/odvcencio/gitplumb/pkg/repo"
)

const version = "0.1.0-dev"

// globalOptions carries the root persistent flags to subcommands.
type globalOptions struct {
	gitDir    string
	logLevel  string
	logFormat string

	logger *zap.Logger
}

// openRepo opens the repository named by --git-dir, or discovers one from
// the working directory.
func (g *globalOptions) openRepo() (*repo.Repo, error) {
	if strings.TrimSpace(g.gitDir) != "" {
		return repo.OpenGitDir(g.gitDir, repo.WithLogger(g.logger))
	}
	return repo.Open(".", repo.WithLogger(g.logger))
}

// exitError ends the process with a non-zero status without printing.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "gitplumb",
		Short:         "Content-addressed object store plumbing compatible with git's loose objects",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), g.logLevel, g.logFormat)
			if err != nil {
				return err
			}
			g.logger = logger
			return nil
		},
	}
	root.PersistentFlags().StringVar(&g.gitDir, "git-dir", "", "path to the repository directory (default: search upward for .git)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "log level [debug,info,warn,error]")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "text", "log format [text,json]")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(g))
	root.AddCommand(newHashObjectCmd(g))
	root.AddCommand(newCatFileCmd(g))
	root.AddCommand(newLsFilesCmd(g))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gitplumb %s\n", version)
		},
	}
}
