// Package main provides the CLI entrypoint for measurement-migrator.
//
// measurement-migrator reads a legacy measures_config YAML file, converts
// every measurement family to the PIM shape and upserts them through the
// PIM REST API.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"measurement-migrator/internal/config"
)

func main() {
	err := run(context.Background(), os.Stdin, os.Stdout, os.Stderr, os.Args[1:])
	if err != nil {
		os.Exit(1)
	}
}

// run builds the command tree and executes it with args. Errors already shown
// to the operator are returned without being printed again.
func run(ctx context.Context, in io.Reader, outW, errW io.Writer, args []string) error {
	cfg := config.Load()

	root := newRootCmd(cfg)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(outW)
	root.SetErr(errW)

	err := root.ExecuteContext(ctx)
	if err != nil {
		var shown *reportedError
		if !errors.As(err, &shown) {
			fmt.Fprintln(errW, "Error:", err)
		}

		return err
	}

	return nil
}

func newRootCmd(cfg config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:   "measurement-migrator",
		Short: "Migrate legacy measurement families to the PIM",
		Long: `measurement-migrator converts a legacy measures_config YAML file into PIM
measurement families and upserts them through the PIM REST API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newImportCmd(cfg))

	return root
}

// reportedError marks an error the console has already displayed.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }
