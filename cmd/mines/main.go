package main

import (
	"context"
	"errors"
	"flag"
	"hash/maphash"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/shell"
)

var (
	configPath string
	size       int
	difficulty string
)

func init() {
	const usage = "config file path"
	flag.StringVar(&configPath, "config", "", usage)
	flag.StringVar(&configPath, "c", "", usage+" (shorthand)")
	flag.IntVar(&size, "size", 0, "board size, skips the size menu")
	flag.StringVar(&difficulty, "difficulty", "", "easy, medium or hard, skips the difficulty menu")
}

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		logrus.Fatal(err)
	}
	if size != 0 {
		cfg.Game.Size = size
	}
	if difficulty != "" {
		cfg.Game.Difficulty = difficulty
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatal(err)
	}

	// The board owns stdout, so logs only go to stderr when asked for.
	if cfg.Log.Level == "" {
		cfg.Log.Level = logrus.WarnLevel.String()
	}
	log, err := config.NewLogger(*cfg, os.Stderr)
	if err != nil {
		logrus.Fatal("unable to set up logging: ", err)
	}
	log.WithFields(cfg.Fields()).Debug("config")

	sh := shell.New(os.Stdin, os.Stdout, log, createRand(), shell.Options{
		Size:       cfg.Game.Size,
		Difficulty: cfg.Difficulty(),
	})
	status, err := sh.Run(ctx)
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, context.Canceled):
		os.Exit(1)
	case err != nil:
		log.Fatal(err)
	}
	if status == mines.Lost {
		os.Exit(1)
	}
}
