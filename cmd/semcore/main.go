// Command semcore is the CLI driver for the semcore type-checker: it wires
// internal/lexer, internal/parser, internal/binder, and internal/typecheck
// into "check" and "repl" subcommands, the way cmd/ailang in the example
// corpus drives its own pipeline.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/nodalang/semcore/internal/binder"
	"github.com/nodalang/semcore/internal/config"
	"github.com/nodalang/semcore/internal/diagnostic"
	"github.com/nodalang/semcore/internal/lexer"
	"github.com/nodalang/semcore/internal/parser"
	"github.com/nodalang/semcore/internal/replcli"
	"github.com/nodalang/semcore/internal/typecheck"
	"github.com/nodalang/semcore/internal/types"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
)

func main() {
	var (
		configFlag  = flag.String("config", "semcore.yaml", "path to the project configuration file")
		versionFlag = flag.Bool("version", false, "print version information")
		helpFlag    = flag.Bool("help", false, "show help")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Println("semcore dev")
		return
	}
	if *helpFlag || flag.NArg() == 0 {
		printUsage()
		return
	}

	switch flag.Arg(0) {
	case "check":
		if flag.NArg() < 2 {
			fmt.Fprintln(os.Stderr, red("Error:"), "check requires a file argument")
			os.Exit(1)
		}
		checkFile(flag.Arg(1), *configFlag)
	case "repl":
		cfg := loadConfig(*configFlag)
		replcli.New(cfg).Start(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "%s unknown command %q\n", red("Error:"), flag.Arg(0))
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("semcore - semantic core type-checker")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  semcore check <file>   type-check a single file")
	fmt.Println("  semcore repl           start an interactive session")
	fmt.Println()
	flag.PrintDefaults()
}

func loadConfig(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", red("Error:"), err)
		os.Exit(1)
	}
	return cfg
}

func checkFile(filename, configPath string) {
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s cannot read file %q: %v\n", red("Error:"), filename, err)
		os.Exit(1)
	}

	cfg := loadConfig(configPath)
	ctx := types.NewCompilerContext()
	cfg.Apply(ctx)

	sink := diagnostic.NewSink()
	l := lexer.New(string(content), filepath.Base(filename))
	p := parser.New(l, sink)
	file := p.ParseFile(filepath.Base(filename))

	rd := diagnostic.NewRenderer(os.Stderr)
	if sink.HasErrors() {
		rd.RenderAll(sink)
		os.Exit(1)
	}

	fmt.Printf("%s binding %s...\n", cyan("→"), filename)
	b := binder.New(ctx, sink)
	b.Bind(file)
	if sink.HasErrors() {
		rd.RenderAll(sink)
		os.Exit(1)
	}

	fmt.Printf("%s type checking %s...\n", cyan("→"), filename)
	result := typecheck.TypeCheck(file, ctx, typecheck.Options{MaxBranches: cfg.ResolvedMaxBranches()})
	for _, r := range result.Diagnostics {
		rd.Render(r)
	}
	if !result.OK {
		os.Exit(1)
	}

	fmt.Printf("\n%s no errors found\n", green("✓"))
}
