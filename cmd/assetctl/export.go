package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/assetvista/internal/service/reporting"
)

func newExportCmd(opts *options) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the asset collection as a CSV report",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			write := func(w io.Writer) error { return a.Reports.ExportCSV(ctx, w) }
			if file == "-" {
				return write(cmd.OutOrStdout())
			}

			f, err := os.Create(file)
			if err != nil {
				return fmt.Errorf("create %s: %w", file, err)
			}
			if err := writeAndClose(f, write); err != nil {
				return fmt.Errorf("write %s: %w", file, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d assets to %s\n", a.Store.Snapshot().Len(), file)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", reporting.ExportFilename, `Destination file, "-" for stdout`)
	return cmd
}

// writeAndClose runs write against w and closes it. A failed close is an
// error: the file may not have reached the disk.
func writeAndClose(w io.WriteCloser, write func(io.Writer) error) error {
	if err := write(w); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
