package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alexhholmes/binstruct/internal/codegen"
	"github.com/alexhholmes/binstruct/internal/logging"
)

type generateOptions struct {
	encode bool
	decode bool
	schema bool
	output string
}

func newGenerateCommand(a *app) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate [flags] files...",
		Short: "Generate encode/decode methods",
		Long: `Generate EncodeBinary/MarshalBinary and DecodeBinary/UnmarshalBinary
methods for every @binstruct structure of the given files. Each input produces
<file>_binstruct.go next to it. Files are processed concurrently; a file with
any configuration error produces no output.`,
		Example: `  # Both directions for one file
  binstruct generate frame.go

  # Decoder only, to stdout
  binstruct generate --decode -o - frame.go

  # Types and methods from a YAML schema
  binstruct generate protocol.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.encode, "encode", false, "generate the encode direction")
	cmd.Flags().BoolVar(&opts.decode, "decode", false, "generate the decode direction")
	cmd.Flags().BoolVar(&opts.schema, "schema", false, "read inputs as YAML schema regardless of extension")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path for a single input (- for stdout)")

	return cmd
}

// outputPath places the generated file next to its input.
func outputPath(input, suffix string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

type generated struct {
	input   string
	output  string
	code    []byte
	structs []string
	err     error
}

func (a *app) runGenerate(stdout, stderr io.Writer, opts *generateOptions, inputs []string) error {
	if opts.output != "" && len(inputs) > 1 {
		return fmt.Errorf("--output requires exactly one input, got %d", len(inputs))
	}
	for _, in := range inputs {
		if strings.HasSuffix(in, a.cfg.OutputSuffix) {
			return fmt.Errorf("%s is generated output (suffix %s)", in, a.cfg.OutputSuffix)
		}
	}

	results := make([]generated, len(inputs))
	var eg errgroup.Group
	for i, in := range inputs {
		eg.Go(func() error {
			results[i] = a.generateOne(in, opts)
			return nil
		})
	}
	_ = eg.Wait()

	var errs error
	for _, r := range results {
		if r.err != nil {
			for _, e := range multierr.Errors(r.err) {
				errorColor.Fprint(stderr, "error: ")
				fmt.Fprintln(stderr, e)
			}
			errs = multierr.Append(errs, r.err)
			continue
		}
		if len(r.structs) == 0 {
			warningColor.Fprintf(stderr, "warning: no @binstruct structures in %s\n", r.input)
			continue
		}

		if r.output == "-" {
			if _, err := stdout.Write(r.code); err != nil {
				return err
			}
			continue
		}
		if err := os.WriteFile(r.output, r.code, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", r.output, err)
		}
		logging.Logger().Debug("wrote file", zap.String("path", r.output))
		successColor.Fprint(stdout, "✓ ")
		fmt.Fprintf(stdout, "%s (%s)\n", r.output, strings.Join(r.structs, ", "))
	}

	if errs != nil {
		return fmt.Errorf("generation failed: %d error(s)", len(multierr.Errors(errs)))
	}
	return nil
}

func (a *app) generateOne(input string, opts *generateOptions) generated {
	r := generated{input: input, output: opts.output}
	if r.output == "" {
		r.output = outputPath(input, a.cfg.OutputSuffix)
	}

	file, err := parseInput(input, opts.schema)
	if err != nil {
		r.err = err
		return r
	}
	if len(file.Structs) == 0 {
		return r
	}

	art, err := codegen.GenerateFile(file, a.registryFor(file), codegen.Options{
		Encode: opts.encode,
		Decode: opts.decode,
		Header: a.cfg.Header,
	})
	if err != nil {
		r.err = err
		return r
	}
	r.code = art.Code
	r.structs = art.Structs
	return r
}
