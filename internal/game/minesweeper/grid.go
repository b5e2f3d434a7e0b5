package minesweeper

import (
	"math/rand/v2"
)

const (
	MinSize      = 2
	MaxSize      = 13
	DefaultSize  = 9
	MinBombs     = 1
	MaxBombs     = 80
	DefaultBombs = 5
)

// CellState is what a player can see of a cell.
type CellState int

const (
	Covered CellState = iota
	Flagged
	Revealed
)

// Cell is one square of the grid. Adjacent is only meaningful once bombs
// have been placed.
type Cell struct {
	State    CellState
	Bomb     bool
	Adjacent int
}

// Grid holds the cells and the bomb layout.
type Grid struct {
	size     int
	bombs    int
	cells    [][]Cell
	placed   bool
	exploded bool
}

// NewGrid creates a covered grid. Bombs are placed on the first reveal.
// Out of range arguments are clamped.
func NewGrid(size, bombs int) *Grid {
	size = min(max(size, MinSize), MaxSize)
	bombs = min(max(bombs, MinBombs), MaxBombs, size*size-1)

	cells := make([][]Cell, size)
	for r := range cells {
		cells[r] = make([]Cell, size)
	}
	return &Grid{size: size, bombs: bombs, cells: cells}
}

// Size returns the side length.
func (g *Grid) Size() int { return g.size }

// Bombs returns the number of bombs, which may shrink when the first reveal
// leaves too few free cells.
func (g *Grid) Bombs() int { return g.bombs }

// Placed reports whether bombs have been placed.
func (g *Grid) Placed() bool { return g.placed }

// At returns a copy of the cell at row, col.
func (g *Grid) At(row, col int) Cell { return g.cells[row][col] }

func (g *Grid) inBounds(row, col int) bool {
	return row >= 0 && row < g.size && col >= 0 && col < g.size
}

func (g *Grid) neighbours(row, col int, fn func(r, c int)) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			if r, c := row+dr, col+dc; g.inBounds(r, c) {
				fn(r, c)
			}
		}
	}
}

// ToggleFlag flips a covered cell to flagged and back.
func (g *Grid) ToggleFlag(row, col int) error {
	if !g.inBounds(row, col) {
		return ErrOutOfBounds
	}
	if g.Lost() || g.Won() {
		return ErrGameOver
	}

	cell := &g.cells[row][col]
	switch cell.State {
	case Covered:
		cell.State = Flagged
	case Flagged:
		cell.State = Covered
	default:
		return ErrCellRevealed
	}
	return nil
}

// Reveal uncovers a cell. The first reveal places the bombs away from the
// cell and its neighbours. Revealing a bomb loses the game and shows every
// bomb; revealing a zero cell floods outward.
func (g *Grid) Reveal(row, col int, rng *rand.Rand) error {
	if !g.inBounds(row, col) {
		return ErrOutOfBounds
	}
	if g.Lost() || g.Won() {
		return ErrGameOver
	}

	switch g.cells[row][col].State {
	case Revealed:
		return ErrCellRevealed
	case Flagged:
		return ErrCellFlagged
	}

	if !g.placed {
		g.place(row, col, rng)
	}

	if g.cells[row][col].Bomb {
		g.exploded = true
		for r := range g.cells {
			for c := range g.cells[r] {
				if g.cells[r][c].Bomb {
					g.cells[r][c].State = Revealed
				}
			}
		}
		return nil
	}

	g.flood(row, col)
	return nil
}

func (g *Grid) place(row, col int, rng *rand.Rand) {
	excluded := map[[2]int]bool{{row, col}: true}
	g.neighbours(row, col, func(r, c int) { excluded[[2]int{r, c}] = true })
	if len(excluded) == g.size*g.size {
		excluded = map[[2]int]bool{{row, col}: true}
	}

	var free [][2]int
	for r := 0; r < g.size; r++ {
		for c := 0; c < g.size; c++ {
			if !excluded[[2]int{r, c}] {
				free = append(free, [2]int{r, c})
			}
		}
	}

	rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })
	g.bombs = min(g.bombs, len(free))
	for _, p := range free[:g.bombs] {
		g.cells[p[0]][p[1]].Bomb = true
	}
	g.countAdjacent()
	g.placed = true
}

func (g *Grid) countAdjacent() {
	for r := 0; r < g.size; r++ {
		for c := 0; c < g.size; c++ {
			n := 0
			g.neighbours(r, c, func(nr, nc int) {
				if g.cells[nr][nc].Bomb {
					n++
				}
			})
			g.cells[r][c].Adjacent = n
		}
	}
}

// flood reveals row, col and, through zero cells, every connected cell.
// Flagged cells are left alone.
func (g *Grid) flood(row, col int) {
	stack := [][2]int{{row, col}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		cell := &g.cells[p[0]][p[1]]
		if cell.State != Covered {
			continue
		}
		cell.State = Revealed
		if cell.Adjacent != 0 {
			continue
		}
		g.neighbours(p[0], p[1], func(r, c int) {
			if g.cells[r][c].State == Covered {
				stack = append(stack, [2]int{r, c})
			}
		})
	}
}

// Lost reports whether a bomb was revealed.
func (g *Grid) Lost() bool { return g.exploded }

// Won reports whether every safe cell has been revealed.
func (g *Grid) Won() bool {
	if !g.placed || g.exploded {
		return false
	}
	hidden := 0
	for r := range g.cells {
		for c := range g.cells[r] {
			if g.cells[r][c].State != Revealed {
				hidden++
			}
		}
	}
	return hidden == g.bombs
}
