package main

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/alexhholmes/binstruct/internal/analyzer"
)

type planOptions struct {
	format string
	debug  bool
	schema bool
}

func newPlanCommand(a *app) *cobra.Command {
	opts := &planOptions{}

	cmd := &cobra.Command{
		Use:   "plan [flags] file",
		Short: "Print the resolved layout of each structure",
		Long: `Resolve every @binstruct structure of a file and print its layout plan:
field order, size strategy, byte order and cross-field references.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPlan(cmd.OutOrStdout(), opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "table", "output format: table or yaml")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "dump the raw plan structures")
	cmd.Flags().BoolVar(&opts.schema, "schema", false, "read the input as YAML schema regardless of extension")

	return cmd
}

func (a *app) runPlan(out io.Writer, opts *planOptions, input string) error {
	file, err := parseInput(input, opts.schema)
	if err != nil {
		return err
	}
	if len(file.Structs) == 0 {
		fmt.Fprintln(out, "No types with @binstruct annotations found")
		return nil
	}

	plans, err := analyzer.ResolveAll(a.registryFor(file), file)
	if err != nil {
		return err
	}

	if opts.debug {
		cfg := spew.ConfigState{
			Indent:                  "  ",
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
			MaxDepth:                6,
		}
		cfg.Fdump(out, plans)
		return nil
	}

	switch opts.format {
	case "table":
		printPlans(out, plans)
		return nil
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(planDocs(plans)); err != nil {
			return fmt.Errorf("failed to encode plan: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want table or yaml)", opts.format)
	}
}

func sizeString(n int) string {
	if n < 0 {
		return "dynamic"
	}
	return fmt.Sprint(n)
}

func printPlans(out io.Writer, plans []*analyzer.LayoutPlan) {
	for _, p := range plans {
		infoColor.Fprintf(out, "\n%s", p.Name)
		fmt.Fprintf(out, " (%s, byte_order=%s, size=%s", p.Kind, p.ByteOrder, sizeString(p.StaticSize))
		if p.Align > 0 {
			fmt.Fprintf(out, ", align=%d", p.Align)
		}
		if p.TagType != "" {
			fmt.Fprintf(out, ", tag_type=%s", p.TagType)
		}
		if p.Terminal {
			fmt.Fprint(out, ", terminal")
		}
		fmt.Fprintln(out, ")")

		fmt.Fprintln(out, "Fields:")
		for _, f := range p.Fields {
			fmt.Fprintf(out, "  %-15s %-20s %-18s", f.Name, f.GoType, f.Strategy)
			switch {
			case f.Repr == analyzer.ReprVariant:
				fmt.Fprintf(out, " tag=%d", f.Tag)
			case f.Strategy == analyzer.Skipped:
			default:
				fmt.Fprintf(out, " %s", f.ByteOrder)
			}
			for _, ref := range references(p, &f) {
				fmt.Fprintf(out, " %s", ref)
			}
			fmt.Fprintln(out)
		}
	}
}

func references(p *analyzer.LayoutPlan, f *analyzer.ResolvedField) []string {
	var refs []string
	if f.LengthOf >= 0 {
		refs = append(refs, "length_of="+p.Fields[f.LengthOf].Name)
	}
	if f.LengthRef >= 0 {
		refs = append(refs, "len="+p.Fields[f.LengthRef].Name)
	}
	if f.DiscriminantOf >= 0 {
		refs = append(refs, "tag_of="+p.Fields[f.DiscriminantOf].Name)
	}
	if f.DiscriminantRef >= 0 {
		refs = append(refs, "discriminant="+p.Fields[f.DiscriminantRef].Name)
	}
	if f.Condition != nil {
		refs = append(refs, "skip_if="+f.Condition.Source)
	}
	return refs
}

type planDoc struct {
	Name      string     `yaml:"name"`
	Kind      string     `yaml:"kind"`
	ByteOrder string     `yaml:"byte_order"`
	Size      int        `yaml:"size"`
	Align     int        `yaml:"align,omitempty"`
	TagType   string     `yaml:"tag_type,omitempty"`
	Terminal  bool       `yaml:"terminal,omitempty"`
	Fields    []fieldDoc `yaml:"fields"`
}

type fieldDoc struct {
	Name       string   `yaml:"name"`
	Type       string   `yaml:"type"`
	Repr       string   `yaml:"repr"`
	Strategy   string   `yaml:"strategy"`
	ByteOrder  string   `yaml:"byte_order,omitempty"`
	Size       int      `yaml:"size"`
	Tag        *uint64  `yaml:"tag,omitempty"`
	References []string `yaml:"references,omitempty"`
}

func planDocs(plans []*analyzer.LayoutPlan) []planDoc {
	docs := make([]planDoc, 0, len(plans))
	for _, p := range plans {
		doc := planDoc{
			Name:      p.Name,
			Kind:      p.Kind.String(),
			ByteOrder: p.ByteOrder.String(),
			Size:      p.StaticSize,
			Align:     p.Align,
			TagType:   p.TagType,
			Terminal:  p.Terminal,
		}
		for i := range p.Fields {
			f := &p.Fields[i]
			fd := fieldDoc{
				Name:       f.Name,
				Type:       f.GoType,
				Repr:       f.Repr.String(),
				Strategy:   f.Strategy.String(),
				Size:       f.Size,
				References: references(p, f),
			}
			if f.Strategy != analyzer.Skipped {
				fd.ByteOrder = f.ByteOrder.String()
			}
			if f.Repr == analyzer.ReprVariant {
				tag := f.Tag
				fd.Tag = &tag
			}
			doc.Fields = append(doc.Fields, fd)
		}
		docs = append(docs, doc)
	}
	return docs
}
