package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"github.com/thiremani/icc/asm"
	"github.com/thiremani/icc/parser"
	"github.com/thiremani/icc/vm"
)

const (
	historyFile = ".icc_history"
	promptMain  = "icc> "
	promptCont  = "...> "
	replName    = "repl"
)

const replHelp = `Statements accumulate into one program that is recompiled and rerun on
every entry; only output the new entry produced is shown.
  :asm     print the listing of the session
  :reset   forget every statement entered so far
  :quit    leave
`

// session is the program built up in the REPL. Each accepted entry is
// appended; rerunning the whole program reproduces earlier state.
type session struct {
	entries []string
	input   []int64
	opts    vm.Options
	seen    int // outputs already shown
}

func (s *session) source(extra string) string {
	return strings.Join(append(s.entries[:len(s.entries):len(s.entries)], extra), "\n")
}

// eval compiles and runs the session plus entry. On success the entry is
// kept and the outputs it added are returned.
func (s *session) eval(ctx context.Context, entry string) ([]int64, error) {
	prog, err := compileSource(replName, s.source(entry))
	if err != nil {
		return nil, err
	}
	output, err := vm.Exec(ctx, prog.Image(), s.input, s.opts)
	if err != nil {
		return nil, err
	}

	s.entries = append(s.entries, entry)
	fresh := output[min(s.seen, len(output)):]
	s.seen = len(output)
	return fresh, nil
}

func (s *session) listing(w io.Writer) error {
	prog, err := compileSource(replName, s.source(""))
	if err != nil {
		return err
	}
	return asm.WriteListing(w, prog)
}

func (s *session) reset() {
	s.entries = nil
	s.seen = 0
}

func cmdRepl(cfg Config, args []string) (ret int) {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	in := fs.String("in", "", "comma separated values consumed by input()")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	input, err := parseInputs(*in)
	if err != nil {
		report(err)
		return 2
	}
	s := &session{input: input, opts: cfg.vmOptions()}

	fmt.Printf("icc %s, :quit to exit\n", Version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		code, ok := readEntry(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}

		if strings.HasPrefix(code, ":") {
			switch strings.ToLower(code) {
			case ":quit", ":q":
				return 0
			case ":reset":
				s.reset()
			case ":asm":
				if err := s.listing(os.Stdout); err != nil {
					report(err)
				}
			case ":help":
				fmt.Print(replHelp)
			default:
				fmt.Println("unknown command. Type :help for a list.")
			}
			continue
		}

		output, err := s.eval(context.Background(), code)
		if err != nil {
			report(err)
			continue
		}
		printOutput(os.Stdout, output)
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}

	return 0
}

// readEntry reads lines until they parse, or fail to parse for a reason
// more input cannot fix.
func readEntry(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if !needsMore(src) {
			return src, true
		}
	}
}

// needsMore reports whether src is a prefix of a statement list that more
// lines could complete.
func needsMore(src string) bool {
	if strings.HasPrefix(strings.TrimSpace(src), ":") {
		return false
	}
	_, _, err := parser.Parse(replName, src)
	var list parser.ErrorList
	return errors.As(err, &list) && list.Incomplete()
}
