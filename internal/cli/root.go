// Package cli implements the asciiusa command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"asciiusa/internal/composite"
	"asciiusa/internal/debug"
	"asciiusa/internal/layout"
)

// envConfig holds the environment fallbacks for persistent flags
type envConfig struct {
	Layout   string `env:"ASCIIUSA_LAYOUT"`
	CacheDir string `env:"ASCIIUSA_CACHE_DIR"`
	DebugLog string `env:"ASCIIUSA_DEBUG_LOG"`
}

// options is the state shared by all commands
type options struct {
	layout    string
	scale     float64
	translate string
	cacheDir  string
	debugLog  string

	logFile *os.File
}

// Execute runs the root command until it finishes or the process is interrupted
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the asciiusa command tree
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "asciiusa",
		Short: "Composite conic equal-area maps in the terminal",
		Long: `asciiusa projects and inverts points through composite conic equal-area
projections such as albersUsa, and draws them as an interactive terminal map.

Negative coordinates must follow "--", e.g. asciiusa project -- -100 38`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.teardown()
		},
	}

	root.PersistentFlags().StringVar(&opts.layout, "layout", "", "layout file or built-in name (default "+layout.DefaultName+")")
	root.PersistentFlags().Float64Var(&opts.scale, "scale", 0, "override the layout's global scale")
	root.PersistentFlags().StringVar(&opts.translate, "translate", "", "override the layout's global translate as X,Y")
	root.PersistentFlags().StringVar(&opts.cacheDir, "cache", "", "cache directory for map data (default ~/.asciiusa/data)")
	root.PersistentFlags().StringVar(&opts.debugLog, "debug", "", "debug log file (e.g. debug.log)")

	root.AddCommand(projectCmd(opts), invertCmd(opts), layoutCmd(opts), viewCmd(opts))
	return root
}

// setup applies environment fallbacks to unset flags and opens the debug log
func (o *options) setup(cmd *cobra.Command) error {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	flags := cmd.Flags()
	if !flags.Changed("layout") {
		o.layout = cfg.Layout
	}
	if !flags.Changed("cache") {
		o.cacheDir = cfg.CacheDir
	}
	if !flags.Changed("debug") {
		o.debugLog = cfg.DebugLog
	}

	if o.debugLog != "" {
		logFile, err := os.Create(o.debugLog)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to create debug log: %v\n", err)
		} else {
			o.logFile = logFile
			debug.SetOutput(logFile)
			debug.Log("asciiusa debug log started: %s", cmd.CommandPath())
		}
	}
	return nil
}

func (o *options) teardown() error {
	if o.logFile == nil {
		return nil
	}
	debug.SetOutput(nil)
	err := o.logFile.Close()
	o.logFile = nil
	return err
}

// loadLayout resolves the layout and applies the --scale and --translate overrides
func (o *options) loadLayout() (*layout.Document, error) {
	doc, err := layout.Resolve(o.layout)
	if err != nil {
		return nil, err
	}

	if o.scale != 0 {
		if o.scale < 0 {
			return nil, fmt.Errorf("scale must be positive, got %g", o.scale)
		}
		doc.Scale = o.scale
	}

	if o.translate != "" {
		t, err := parsePair(o.translate)
		if err != nil {
			return nil, fmt.Errorf("invalid --translate: %w", err)
		}
		doc.Translate = &t
	}

	return doc, nil
}

// loadComposite compiles the effective layout
func (o *options) loadComposite() (*composite.Composite, *layout.Document, error) {
	doc, err := o.loadLayout()
	if err != nil {
		return nil, nil, err
	}

	c, err := doc.Compile()
	if err != nil {
		return nil, nil, err
	}
	debug.Log("Compiled layout %q: %d components, scale %g", doc.Name, c.Len(), c.Scale())
	return c, doc, nil
}

// parsePair parses "X,Y"
func parsePair(s string) ([2]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return [2]float64{}, fmt.Errorf("expected X,Y, got %q", s)
	}

	var pair [2]float64
	for i, part := range parts {
		v, err := parseFloat(part)
		if err != nil {
			return [2]float64{}, err
		}
		pair[i] = v
	}
	return pair, nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

// componentName returns the name of component i, or "-" when there is none
func componentName(c *composite.Composite, i int) string {
	components := c.Components()
	if i < 0 || i >= len(components) {
		return "-"
	}
	return components[i].Params.Name
}
