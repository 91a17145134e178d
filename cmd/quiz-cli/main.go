package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"quizbank/internal/app"
	"quizbank/internal/cli"
	"quizbank/internal/config"
)

const usage = `usage: quiz-cli [-config file] <command>

commands:
  banks                     list question banks
  play <bankID>             take a quiz over a bank
  import <bankID> [amount]  import questions from OpenTriviaDB
`

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if err := run(context.Background(), *configPath, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, args []string) error {
	if len(args) == 0 {
		flag.Usage()
		return errors.New("missing command")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	application, err := app.Open(ctx, cfg, log.New(io.Discard, "", 0))
	if err != nil {
		return err
	}
	defer application.Close()

	switch args[0] {
	case "banks":
		return cli.ListBanks(ctx, application.Banks, os.Stdout)
	case "play":
		bankID, err := bankArg(args)
		if err != nil {
			return err
		}
		return cli.Play(ctx, application.Questions, bankID, os.Stdin, os.Stdout)
	case "import":
		bankID, err := bankArg(args)
		if err != nil {
			return err
		}
		amount := cfg.OpenTDB.DefaultAmount
		if len(args) > 2 {
			if amount, err = strconv.Atoi(args[2]); err != nil || amount <= 0 {
				return errors.New("amount must be a positive integer")
			}
		}
		return cli.Import(ctx, application.Importer, bankID, amount, os.Stdout)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func bankArg(args []string) (int64, error) {
	if len(args) < 2 {
		return 0, errors.New(args[0] + " needs a bankID")
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid bankID %q", args[1])
	}
	return id, nil
}
