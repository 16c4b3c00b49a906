package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/hscgen/hscgen/pkg/cdecl"
	"github.com/hscgen/hscgen/pkg/config"
	"github.com/hscgen/hscgen/pkg/discovery"
	"github.com/hscgen/hscgen/pkg/hsc"
	"github.com/hscgen/hscgen/pkg/hscgen"
	"github.com/hscgen/hscgen/pkg/preproc"
	"github.com/hscgen/hscgen/pkg/watch"
	"github.com/hscgen/hscgen/pkg/writer"
)

var version = "0.1.0"

// Output options
var (
	prefix    string
	outDir    string
	overwrite bool
	dumpLines bool
	watchMode bool
	quiet     bool
)

// Preprocessor options
var (
	includePaths  []string
	systemPaths   []string
	defineFlags   []string
	undefineFlags []string
	cppCommand    string
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "hscgen: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hscgen [headers or directories]",
		Short: "hscgen generates bindings-DSL files from C headers",
		Long: `hscgen translates C header declarations into bindings-DSL (.hsc)
files plus helper macro headers for inline functions. C parsing is
delegated to tree-sitter and preprocessing to the system C
preprocessor.`,
		Version:       version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(".")
			if err != nil {
				return err
			}
			applyConfig(cmd, cfg)

			headers, err := expandArgs(args, cfg)
			if err != nil {
				return err
			}
			if len(headers) == 0 {
				return fmt.Errorf("no headers matched")
			}

			if err := translateAll(headers, out, errOut); err != nil {
				return err
			}

			if watchMode {
				return runWatch(cmd.Context(), headers, out, errOut)
			}
			return nil
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().StringVar(&prefix, "prefix", "Bindings", "Module namespace prefix for generated files")
	rootCmd.Flags().StringVar(&outDir, "out", "", "Output directory (default: next to each header)")
	rootCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing output files")
	rootCmd.Flags().BoolVar(&dumpLines, "dump", false, "Print binding lines to stdout instead of writing files")
	rootCmd.Flags().BoolVar(&watchMode, "watch", false, "Regenerate when input headers change")
	rootCmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress progress output")

	rootCmd.Flags().StringArrayVarP(&includePaths, "include", "I", nil, "Add directory to include search path")
	rootCmd.Flags().StringArrayVar(&systemPaths, "isystem", nil, "Add directory to system include search path")
	rootCmd.Flags().StringArrayVarP(&defineFlags, "define", "D", nil, "Define macro (NAME or NAME=VALUE)")
	rootCmd.Flags().StringArrayVarP(&undefineFlags, "undefine", "U", nil, "Undefine macro")
	rootCmd.Flags().StringVar(&cppCommand, "cpp", "", "C preprocessor command (default: first of cc, gcc, clang)")

	return rootCmd
}

// applyConfig fills in settings the user did not override on the command
// line. Flags beat environment beat file beat defaults.
func applyConfig(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if !flags.Changed("prefix") && cfg.Prefix != "" {
		prefix = cfg.Prefix
	}
	if !flags.Changed("out") && cfg.OutDir != "" {
		outDir = cfg.OutDir
	}
	if !flags.Changed("overwrite") {
		overwrite = cfg.Overwrite
	}
	if !flags.Changed("cpp") && cfg.Cpp != "" {
		cppCommand = cfg.Cpp
	}
	if !flags.Changed("include") {
		includePaths = append(includePaths, cfg.IncludePaths...)
	}
	if !flags.Changed("isystem") {
		systemPaths = append(systemPaths, cfg.SystemPaths...)
	}
	if !flags.Changed("undefine") {
		undefineFlags = append(undefineFlags, cfg.Undefines...)
	}
	if !flags.Changed("define") {
		for name, value := range cfg.Defines {
			if value == "" {
				defineFlags = append(defineFlags, name)
			} else {
				defineFlags = append(defineFlags, name+"="+value)
			}
		}
	}
}

// expandArgs turns the positional arguments into a header list. Directory
// arguments are walked with the configured glob patterns.
func expandArgs(args []string, cfg *config.Config) ([]string, error) {
	var headers []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			headers = append(headers, arg)
			continue
		}
		hd, err := discovery.NewHeaderDiscovery(arg, cfg.Patterns, cfg.Ignore)
		if err != nil {
			return nil, err
		}
		found, err := hd.Discover()
		if err != nil {
			return nil, err
		}
		headers = append(headers, found...)
	}
	return headers, nil
}

func translateAll(headers []string, out, errOut io.Writer) error {
	var bar *progressbar.ProgressBar
	if len(headers) > 1 && !quiet && !dumpLines {
		bar = progressbar.NewOptions(len(headers),
			progressbar.OptionSetWriter(errOut),
			progressbar.OptionSetDescription("translating"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	for _, header := range headers {
		if err := translateFile(header, out, errOut); err != nil {
			return fmt.Errorf("%s: %w", header, err)
		}
		if bar != nil {
			bar.Add(1)
		}
	}
	return nil
}

// translateFile runs the whole pipeline for one header: preprocess, scan
// line markers, parse, walk, write.
func translateFile(filename string, out, errOut io.Writer) error {
	var text string
	if preproc.NeedsPreprocessing(filename) {
		var err error
		text, err = preproc.Preprocess(filename, buildPreprocessorOptions())
		if err != nil {
			return err
		}
	} else {
		content, err := os.ReadFile(filename)
		if err != nil {
			return err
		}
		text = string(content)
	}

	blanked, origins := preproc.ScanMarkers(text)
	decls, err := cdecl.Parse([]byte(blanked), origins.OriginAt)
	if err != nil {
		return err
	}

	acc := hsc.NewAccumulator()
	hscgen.NewEmitter(acc, filename).Walk(decls)

	if dumpLines {
		for _, line := range acc.Bindings() {
			fmt.Fprintln(out, line)
		}
		for _, line := range acc.Helpers() {
			fmt.Fprintln(out, line)
		}
		return nil
	}

	hscPath, helperPath, err := writer.Write(filename, acc, writer.Config{
		Prefix:    prefix,
		OutDir:    outDir,
		Overwrite: overwrite,
	})
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(errOut, "hscgen: wrote %s\n", hscPath)
		if helperPath != "" {
			fmt.Fprintf(errOut, "hscgen: wrote %s\n", helperPath)
		}
	}
	return nil
}

func runWatch(ctx context.Context, headers []string, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(headers)
	if err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(errOut, "hscgen: watching %d header(s)\n", len(headers))
	}

	// Regeneration always overwrites: the first pass already owns the
	// output files.
	overwrite = true

	return w.Run(ctx, func(files []string) {
		for _, f := range files {
			if err := translateFile(f, out, errOut); err != nil {
				fmt.Fprintf(errOut, "hscgen: %s: %v\n", f, err)
			}
		}
	})
}

// buildPreprocessorOptions creates preproc.Options from CLI flags
func buildPreprocessorOptions() *preproc.Options {
	opts := &preproc.Options{
		IncludePaths: includePaths,
		SystemPaths:  systemPaths,
		Defines:      make(map[string]string),
		Undefines:    undefineFlags,
		Command:      cppCommand,
	}

	// Parse -D flags (NAME or NAME=VALUE)
	for _, d := range defineFlags {
		if idx := strings.Index(d, "="); idx >= 0 {
			opts.Defines[d[:idx]] = d[idx+1:]
		} else {
			opts.Defines[d] = ""
		}
	}

	return opts
}
