package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexhholmes/binstruct/internal/analyzer"
	"github.com/alexhholmes/binstruct/internal/config"
	"github.com/alexhholmes/binstruct/internal/logging"
	"github.com/alexhholmes/binstruct/internal/parser"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
)

// app holds the state shared by all subcommands.
type app struct {
	configPath string
	verbose    bool
	cfg        *config.Config
}

func newRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "binstruct",
		Short: "Binary layout code generator",
		Long: `binstruct reads Go structures annotated with // @binstruct (or a YAML
schema) and generates methods that encode them to and decode them from an
exact byte layout.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: ./.binstruct.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newGenerateCommand(a))
	rootCmd.AddCommand(newPlanCommand(a))
	rootCmd.AddCommand(newDumpCommand())

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if a.verbose {
		level = "debug"
	}
	logger, err := logging.New(level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	logging.SetLogger(logger)
	return nil
}

// registry returns a type registry configured with the global defaults.
func (a *app) registry() *analyzer.TypeRegistry {
	reg := analyzer.NewTypeRegistry()
	reg.SetDefaultByteOrder(a.cfg.ByteOrder())
	for _, ext := range a.cfg.ExternalTypes {
		reg.Register(ext.Name, ext.Size)
	}
	return reg
}

// registryFor returns a registry that also knows the annotated structures
// of the other files in the package of file, so that one file may nest a
// structure declared in another. Schema inputs are self-contained.
func (a *app) registryFor(file *parser.File) *analyzer.TypeRegistry {
	reg := a.registry()
	if file.Declare {
		return reg
	}

	dir := filepath.Dir(file.Path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		logging.Logger().Debug("skipping sibling files", zap.String("dir", dir), zap.Error(err))
		return reg
	}
	self, _ := filepath.Abs(file.Path)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".go" ||
			strings.HasSuffix(name, "_test.go") || strings.HasSuffix(name, a.cfg.OutputSuffix) {
			continue
		}
		path := filepath.Join(dir, name)
		if abs, _ := filepath.Abs(path); abs == self {
			continue
		}
		sibling, err := parser.ParseFile(path)
		if err != nil {
			logging.Logger().Debug("skipping sibling file", zap.String("path", path), zap.Error(err))
			continue
		}
		if sibling.Package != file.Package {
			continue
		}
		reg.RegisterFile(sibling)
	}
	return reg
}

// isSchema reports whether path should be read as a YAML schema.
func isSchema(path string, force bool) bool {
	if force {
		return true
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func parseInput(path string, schema bool) (*parser.File, error) {
	if isSchema(path, schema) {
		return parser.ParseSchemaFile(path)
	}
	return parser.ParseFile(path)
}
