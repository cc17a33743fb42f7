// Package commands parses and runs the line-oriented move language shared by
// the batch endpoint and the websocket stream:
//
//	o row col // open a square
//	f row col // flag or unflag a square
//	g         // fetch the round without changing it
//	q         // forfeit the round
//
// Coordinates are 0-based.
package commands

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

var ErrSyntax = errors.New("syntax error")

type Op byte

const (
	Get     Op = 'g'
	Open    Op = 'o'
	Flag    Op = 'f'
	Forfeit Op = 'q'
)

// Maps known commands to number of arguments
var commandNargs = map[Op]int{
	Get:     0,
	Open:    2,
	Flag:    2,
	Forfeit: 0,
}

type Command struct {
	Op Op
	mines.Point
}

func (c Command) String() string {
	if commandNargs[c.Op] == 0 {
		return string(c.Op)
	}
	return fmt.Sprintf("%c %d %d", c.Op, c.Row, c.Col)
}

func parsePoint(twoStrings []string) (p mines.Point, err error) {
	if p.Row, err = strconv.Atoi(twoStrings[0]); err != nil {
		return p, fmt.Errorf("%w: row must be an int", ErrSyntax)
	}
	if p.Col, err = strconv.Atoi(twoStrings[1]); err != nil {
		return p, fmt.Errorf("%w: col must be an int", ErrSyntax)
	}
	return p, nil
}

func Parse(line string) (Command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 || len(parts[0]) != 1 {
		return Command{}, fmt.Errorf("%w: unknown command", ErrSyntax)
	}
	op := Op(parts[0][0])
	nargs, ok := commandNargs[op]
	if !ok {
		return Command{}, fmt.Errorf("%w: unknown command", ErrSyntax)
	}
	if nargs != len(parts)-1 {
		return Command{}, fmt.Errorf("%w: invalid number of arguments", ErrSyntax)
	}
	c := Command{Op: op}
	if nargs == 2 {
		p, err := parsePoint(parts[1:])
		if err != nil {
			return Command{}, err
		}
		c.Point = p
	}
	return c, nil
}

// ParseAll parses newline separated commands. Blank lines are skipped. The
// returned error names the 0-based line it came from.
func ParseAll(text string) ([]Command, error) {
	var cmds []Command
	for i, line := range byPiece(strings.TrimSpace(text), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		c, err := Parse(line)
		if err != nil {
			return nil, &LineError{Line: i, Err: err}
		}
		cmds = append(cmds, c)
	}
	return cmds, nil
}

type LineError struct {
	Line int
	Err  error
}

// [LineError] implements [error]
func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

func Execute(round *mines.Round, c Command) error {
	switch c.Op {
	case Get:
		return nil
	case Open:
		_, err := round.Open(c.Point)
		return err
	case Flag:
		return round.ToggleFlag(c.Point)
	case Forfeit:
		round.Forfeit()
		return nil
	}
	return fmt.Errorf("%w: unknown command", ErrSyntax)
}

// ExecuteAll runs cmds in order and stops early once the round is over. If a
// command fails, the commands before it stay applied and the error is
// returned as a [LineError] indexed into cmds.
func ExecuteAll(round *mines.Round, cmds []Command) error {
	for i, c := range cmds {
		if err := Execute(round, c); err != nil {
			return &LineError{Line: i, Err: err}
		}
		if round.Status().Over() {
			break
		}
	}
	return nil
}

func byPiece(s string, sep string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, sep)
			if !yield(i, piece) {
				return
			}
			i += 1
		}
	}
}
