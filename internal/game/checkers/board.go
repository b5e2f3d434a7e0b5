// Package checkers implements an 8x8 checkers game: the board, the move
// legality rules, the turn state machine and the two-stage button screen.
package checkers

import (
	"fmt"
	"sort"
	"strings"
)

// Size is the width and height of the board.
const Size = 8

// Player identifies a side. Player1 starts at the bottom and moves up.
type Player int

const (
	NoPlayer Player = iota
	Player1
	Player2
)

// Opponent returns the other side.
func (p Player) Opponent() Player {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	default:
		return NoPlayer
	}
}

// backRank is the row on which a regular token of p is crowned.
func (p Player) backRank() int {
	if p == Player1 {
		return 0
	}
	return Size - 1
}

// Token is the kind of piece occupying a cell.
type Token int

const (
	Empty Token = iota
	Regular
	King
)

// String returns the word used in status lines.
func (t Token) String() string {
	switch t {
	case Regular:
		return "token"
	case King:
		return "king"
	default:
		return "empty"
	}
}

// Cell is one square of the board. An Empty cell never has a player and an
// occupied cell always has one.
type Cell struct {
	Token  Token
	Player Player
}

func (c Cell) canMoveUp() bool {
	return c.Player == Player1 || c.Token == King
}

func (c Cell) canMoveDown() bool {
	return c.Player == Player2 || c.Token == King
}

// Position addresses a cell. Row 0 is the top of the rendered board (rank 8).
type Position struct {
	Row int
	Col int
}

// InBounds reports whether p lies on the board.
func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

// String formats p as a column letter and rank number, e.g. "C5".
func (p Position) String() string {
	return fmt.Sprintf("%c%d", 'A'+p.Col, Size-p.Row)
}

// ParsePosition reads a position like "c5" or "C5".
func ParsePosition(s string) (Position, error) {
	s = strings.TrimSpace(s)
	if len(s) != 2 {
		return Position{}, fmt.Errorf("%w: %q", ErrBadPosition, s)
	}
	col := int(strings.ToUpper(s[:1])[0] - 'A')
	rank := int(s[1] - '0')
	p := Position{Row: Size - rank, Col: col}
	if rank < 1 || rank > Size || !p.InBounds() {
		return Position{}, fmt.Errorf("%w: %q", ErrBadPosition, s)
	}
	return p, nil
}

// Move is a legal destination for a token.
type Move struct {
	Capture bool
	To      Position
}

type direction struct {
	dRow, dCol int
	up         bool
}

// Order matters only for deterministic output.
var directions = []direction{
	{-1, -1, true},
	{-1, 1, true},
	{1, -1, false},
	{1, 1, false},
}

// Board is the 8x8 grid. The zero value is an empty board.
type Board struct {
	cells [Size][Size]Cell
}

// NewBoard returns a board in the starting layout: twelve tokens per side on
// the dark squares of the three rows nearest each player.
func NewBoard() *Board {
	b := &Board{}
	for row := 0; row < 3; row++ {
		for col := 0; col < Size; col++ {
			if row%2 == col%2 {
				b.cells[Size-row-1][col] = Cell{Token: Regular, Player: Player1}
			} else {
				b.cells[row][col] = Cell{Token: Regular, Player: Player2}
			}
		}
	}
	return b
}

// At returns the cell at p. Out of range positions read as empty.
func (b Board) At(p Position) Cell {
	if !p.InBounds() {
		return Cell{}
	}
	return b.cells[p.Row][p.Col]
}

// Count returns how many tokens player has on the board.
func (b Board) Count(player Player) int {
	n := 0
	for row := range b.cells {
		for _, c := range b.cells[row] {
			if c.Player == player {
				n++
			}
		}
	}
	return n
}

// MovesFrom lists the legal moves of the token at from. With capturesOnly set,
// plain slides are left out.
func (b *Board) MovesFrom(from Position, capturesOnly bool) []Move {
	cell := b.At(from)
	if cell.Token == Empty {
		return nil
	}

	var moves []Move
	for _, d := range directions {
		if d.up && !cell.canMoveUp() || !d.up && !cell.canMoveDown() {
			continue
		}

		next := Position{Row: from.Row + d.dRow, Col: from.Col + d.dCol}
		if !next.InBounds() {
			continue
		}

		neighbour := b.At(next)
		switch {
		case neighbour.Token == Empty:
			if !capturesOnly {
				moves = append(moves, Move{To: next})
			}
		case neighbour.Player != cell.Player:
			beyond := Position{Row: next.Row + d.dRow, Col: next.Col + d.dCol}
			if beyond.InBounds() && b.At(beyond).Token == Empty {
				moves = append(moves, Move{Capture: true, To: beyond})
			}
		}
	}
	return moves
}

// ValidMoves returns every origin of player that has at least one legal
// move, mapped to those moves.
func (b *Board) ValidMoves(player Player, capturesOnly bool) map[Position][]Move {
	valid := make(map[Position][]Move)
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if b.cells[row][col].Player != player {
				continue
			}
			from := Position{Row: row, Col: col}
			if moves := b.MovesFrom(from, capturesOnly); len(moves) > 0 {
				valid[from] = moves
			}
		}
	}
	return valid
}

// sortedOrigins returns the keys of moves in row-major order.
func sortedOrigins(moves map[Position][]Move) []Position {
	origins := make([]Position, 0, len(moves))
	for p := range moves {
		origins = append(origins, p)
	}
	sort.Slice(origins, func(i, j int) bool {
		if origins[i].Row != origins[j].Row {
			return origins[i].Row < origins[j].Row
		}
		return origins[i].Col < origins[j].Col
	})
	return origins
}
