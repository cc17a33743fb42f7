// Package shell is the interactive terminal front end: it asks for a board
// size and difficulty, draws the board after every move and reads
// coordinates and actions from the player.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/render"
)

type Options struct {
	// Size and Difficulty skip the corresponding menu when set.
	Size       int
	Difficulty mines.Difficulty
}

type Shell struct {
	in   *bufio.Scanner
	out  io.Writer
	log  *logrus.Logger
	rnd  *rand.Rand
	opts Options
}

func New(
	in io.Reader,
	out io.Writer,
	logger *logrus.Logger,
	rnd *rand.Rand,
	opts Options,
) *Shell {
	return &Shell{
		in:   bufio.NewScanner(in),
		out:  out,
		log:  logger,
		rnd:  rnd,
		opts: opts,
	}
}

func (s *Shell) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}

// readLine prompts and returns the next input line. Running out of input
// yields [io.ErrUnexpectedEOF].
func (s *Shell) readLine(prompt string) (string, error) {
	s.printf("%s", prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Shell) chooseSize(ctx context.Context) (int, error) {
	if s.opts.Size != 0 {
		return s.opts.Size, nil
	}
	var menu strings.Builder
	menu.WriteString("Choose Minesweeper board size:")
	for i, size := range mines.SizePresets {
		fmt.Fprintf(&menu, " %d. %dx%d", i+1, size, size)
	}
	menu.WriteString(": ")
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		line, err := s.readLine(menu.String())
		if err != nil {
			return 0, err
		}
		choice, err := strconv.Atoi(line)
		if err != nil || choice < 1 || choice > len(mines.SizePresets) {
			s.printf("Invalid choice.\n")
			continue
		}
		return mines.SizePresets[choice-1], nil
	}
}

func (s *Shell) chooseDifficulty(ctx context.Context) (mines.Difficulty, error) {
	if s.opts.Difficulty != 0 {
		return s.opts.Difficulty, nil
	}
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		line, err := s.readLine("Select difficulty level: 1. Easy 2. Medium 3. Hard: ")
		if err != nil {
			return 0, err
		}
		d, err := mines.ParseDifficulty(line)
		if err != nil {
			s.printf("Invalid choice.\n")
			continue
		}
		return d, nil
	}
}

// Run plays a single round from the menus to a win or a loss.
func (s *Shell) Run(ctx context.Context) (mines.Status, error) {
	size, err := s.chooseSize(ctx)
	if err != nil {
		return mines.InProgress, err
	}
	d, err := s.chooseDifficulty(ctx)
	if err != nil {
		return mines.InProgress, err
	}
	params, err := mines.NewGameParams(size, d)
	if err != nil {
		return mines.InProgress, err
	}
	round, err := mines.NewRound(params, s.rnd)
	if err != nil {
		return mines.InProgress, err
	}
	s.log.WithFields(logrus.Fields{
		"size":       params.Size,
		"difficulty": d.String(),
		"mine_count": params.MineCount,
	}).Debug("new round")

	status, err := s.Play(ctx, round)
	s.log.WithField("status", status.String()).Debug("round finished")
	return status, err
}

func (s *Shell) readPoint(size int) (mines.Point, bool, error) {
	line, err := s.readLine(fmt.Sprintf("\nEnter row and column (1-%d): ", size))
	if err != nil {
		return mines.Point{}, false, err
	}
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return mines.Point{}, false, nil
	}
	row, err1 := strconv.Atoi(fields[0])
	col, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil {
		return mines.Point{}, false, nil
	}
	return mines.Point{Row: row - 1, Col: col - 1}, true, nil
}

// Play drives round until it is over, reading moves from the shell's input.
func (s *Shell) Play(ctx context.Context, round *mines.Round) (mines.Status, error) {
	for !round.Status().Over() {
		if err := ctx.Err(); err != nil {
			return round.Status(), err
		}
		if err := render.Fprint(s.out, round.Board()); err != nil {
			return round.Status(), err
		}

		p, ok, err := s.readPoint(round.Size)
		if err != nil {
			return round.Status(), err
		}
		if !ok || !round.PointInBounds(p) {
			s.printf("Invalid coordinates! Try again.\n")
			continue
		}

		action, err := s.readLine("Enter action (R for reveal, F for flag): ")
		if err != nil {
			return round.Status(), err
		}
		switch strings.ToUpper(action) {
		case "F":
			err = round.ToggleFlag(p)
		case "R":
			_, err = round.Open(p)
		default:
			s.printf("Unknown action.\n")
			continue
		}
		switch {
		case errors.Is(err, mines.ErrIllegalAction):
			s.printf("Unflag the cell first!\n")
			continue
		case err != nil:
			return round.Status(), err
		}
		s.log.WithFields(logrus.Fields{
			"action": strings.ToUpper(action),
			"point":  p.String(),
		}).Trace("move")
	}

	if err := render.Fprint(s.out, round.Board()); err != nil {
		return round.Status(), err
	}
	switch round.Status() {
	case mines.Won:
		s.printf("\nCongratulations! You've won!\n")
	case mines.Lost:
		s.printf("\nGame Over! You hit a mine!\n")
	}
	return round.Status(), nil
}
