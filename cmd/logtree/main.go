package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/justinpbarnett/logtree/internal/config"
)

const usage = `usage:
  logtree [--no-follow] [--format auto|raw|pretty] <file|->
  logtree dump [--format auto|raw|pretty] <file|->
  logtree version
  logtree update
`

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprint(stdout, usage)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if len(args) > 0 {
		switch args[0] {
		case "version":
			return runVersion(cfg, stdout)
		case "update":
			return runUpdate(cfg, stdout)
		case "dump":
			return runDump(cfg, args[1:], stdout, stderr)
		}
	}
	return runTUI(cfg, args, stderr)
}

// sourceArg returns the single positional log path. With none given, piped
// standard input is used.
func sourceArg(fs *flag.FlagSet) (string, error) {
	switch fs.NArg() {
	case 1:
		return fs.Arg(0), nil
	case 0:
		if stat, err := os.Stdin.Stat(); err == nil && stat.Mode()&os.ModeCharDevice == 0 {
			return "-", nil
		}
	}
	return "", fmt.Errorf("expected one log file\n%s", usage)
}
