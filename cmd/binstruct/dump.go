package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexhholmes/binstruct/wire"
)

func newDumpCommand() *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Hex-dump binary data",
		Long: `Print a hex dump of a file, or of standard input when no file is given.
Useful to inspect what a generated encoder wrote.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if len(args) == 0 || args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			out := cmd.OutOrStdout()
			if compact {
				_, err := fmt.Fprintln(out, wire.HexString(data))
				return err
			}
			return wire.DumpHex(out, data)
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "print space separated bytes on one line")
	return cmd
}
