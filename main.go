package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/heathj/webui/internal/config"
	"github.com/heathj/webui/internal/logging"
)

const usage = `usage:
  webui walk [-dir forward|backward] [-css sel | -xpath expr] [-visit preds] [-limit n] file.html
  webui filter [-q text] [-events] [-o out.json] netlog.json
`

var errUsage = errors.New("bad usage")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Cause(err) == errUsage {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return errors.Wrap(errUsage, "missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg, stderr)
	if err != nil {
		return err
	}
	logging.Install(logger)

	switch args[0] {
	case "walk":
		return walkCommand(cfg, args[1:], stdout)
	case "filter":
		return filterCommand(cfg, args[1:], stdout)
	default:
		return errors.Wrapf(errUsage, "unknown command %q", args[0])
	}
}
