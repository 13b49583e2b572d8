package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/thiremani/icc/asm"
	"github.com/thiremani/icc/vm"
)

const usage = `icc compiles programs to intcode.

Usage:
  icc build [-o out] file.ic     compile; without -o the image goes to the build cache
  icc run [flags] file           compile and execute a program or an .intcode image
  icc asm file                   print the listing of a program or an .intcode image
  icc repl                       interactive session
  icc version                    print version information
`

var verbose bool

// logf reports a diagnostic on stderr.
func logf(format string, args ...any) {
	log.Printf(format, args...)
}

// verbosef reports progress when ICC_VERBOSE is set.
func verbosef(format string, args ...any) {
	if verbose {
		log.Printf(format, args...)
	}
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("icc: ")

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := loadConfig()
	verbose = cfg.Verbose

	cmd := os.Args[1]
	switch cmd {
	case "build":
		os.Exit(cmdBuild(cfg, os.Args[2:]))
	case "run":
		os.Exit(cmdRun(cfg, os.Args[2:]))
	case "asm":
		os.Exit(cmdAsm(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(cfg, os.Args[2:]))
	case "version", "-version", "--version":
		printVersion(os.Stdout)
	case "help", "-h", "-help", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
}

// compileFile reads and compiles a source file.
func compileFile(path string) (*asm.Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	verbosef("compiling %s", path)
	return compileSource(path, string(src))
}

// loadImage returns the memory image for path: .intcode files are read as
// they are, anything else is compiled.
func loadImage(path string) ([]int64, error) {
	if filepath.Ext(path) != IMAGE_SUFFIX {
		prog, err := compileFile(path)
		if err != nil {
			return nil, err
		}
		return prog.Image(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return asm.ReadImage(f)
}

// report prints err the way the command line shows failures.
func report(err error) {
	var be *BuildError
	if errors.As(err, &be) {
		fmt.Fprintln(os.Stderr, be.Error())
		return
	}
	logf("%v", err)
}

func singleFile(fs *flag.FlagSet) (string, bool) {
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: icc %s [flags] file\n", fs.Name())
		fs.PrintDefaults()
		return "", false
	}
	return fs.Arg(0), true
}

// -----------------------------------------------------------------------------
// build
// -----------------------------------------------------------------------------

func cmdBuild(cfg Config, args []string) int {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	out := fs.String("o", "", "write the image to this file instead of the build cache")
	cacheDir := fs.String("cache", cfg.CacheDir, "build cache directory (env "+envCache+")")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	path, ok := singleFile(fs)
	if !ok {
		return 2
	}

	if *out != "" {
		prog, err := compileFile(path)
		if err != nil {
			report(err)
			return 1
		}
		if err := writeImageFile(*out, prog.Image()); err != nil {
			report(err)
			return 1
		}
		verbosef("wrote %s: %d code cells, %d static cells", *out, prog.CodeSize(), prog.DataSize)
		return 0
	}

	src, err := os.ReadFile(path)
	if err != nil {
		report(err)
		return 1
	}
	verbosef("using cache %s", *cacheDir)
	built, err := cachedBuild(*cacheDir, path, src, func() ([]int64, error) {
		prog, err := compileSource(path, string(src))
		if err != nil {
			return nil, err
		}
		return prog.Image(), nil
	})
	if err != nil {
		report(err)
		return 1
	}
	fmt.Println(built)
	return 0
}

func writeImageFile(path string, image []int64) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return asm.WriteImage(f, image)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

// parseInputs reads a comma separated list of integers.
func parseInputs(s string) ([]int64, error) {
	var values []int64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad input value %q: %w", field, err)
		}
		values = append(values, v)
	}
	return values, nil
}

func cmdRun(cfg Config, args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	in := fs.String("in", "", "comma separated values consumed by input()")
	maxSteps := fs.Int64("max-steps", cfg.MaxSteps, "instruction limit, 0 for none (env "+envMaxSteps+")")
	maxMemory := fs.Int64("max-memory", cfg.MaxMemory, "memory cell limit, 0 for none (env "+envMaxMemory+")")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	path, ok := singleFile(fs)
	if !ok {
		return 2
	}

	input, err := parseInputs(*in)
	if err != nil {
		report(err)
		return 2
	}
	image, err := loadImage(path)
	if err != nil {
		report(err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := vm.New(image, vm.Options{MaxSteps: *maxSteps, MaxMemory: *maxMemory})
	output, err := m.Run(ctx, input)
	printOutput(os.Stdout, output)
	verbosef("%d steps", m.Steps)
	if err != nil {
		report(err)
		return 1
	}
	return 0
}

func printOutput(w io.Writer, output []int64) {
	for _, v := range output {
		fmt.Fprintln(w, v)
	}
}

// -----------------------------------------------------------------------------
// asm
// -----------------------------------------------------------------------------

func cmdAsm(args []string) int {
	fs := flag.NewFlagSet("asm", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	path, ok := singleFile(fs)
	if !ok {
		return 2
	}

	prog, err := loadProgram(path)
	if err != nil {
		report(err)
		return 1
	}
	if err := asm.WriteListing(os.Stdout, prog); err != nil {
		report(err)
		return 1
	}
	return 0
}

// loadProgram compiles a source file, or disassembles an .intcode image.
// Images carry no symbols or static size, so their listing has neither.
func loadProgram(path string) (*asm.Program, error) {
	if filepath.Ext(path) != IMAGE_SUFFIX {
		return compileFile(path)
	}
	image, err := loadImage(path)
	if err != nil {
		return nil, err
	}
	instrs, err := asm.Disassemble(image)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &asm.Program{Instrs: instrs}, nil
}
