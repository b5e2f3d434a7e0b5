package checkers

// TurnKind distinguishes a normal turn from a forced capture continuation.
type TurnKind int

const (
	// AwaitingMove lets the player move any token with a legal move.
	AwaitingMove TurnKind = iota
	// ChainCapture restricts the player to further captures with the token
	// that just captured.
	ChainCapture
)

// Turn is whose move it is and, during a chain capture, from where.
type Turn struct {
	Kind   TurnKind
	Player Player
	From   Position
}

// Status is the overall game state.
type Status int

const (
	Playing Status = iota
	Player1Won
	Player2Won
)

func wonBy(p Player) Status {
	if p == Player1 {
		return Player1Won
	}
	return Player2Won
}

// InputMethod records how a move was entered, for the status line.
type InputMethod int

const (
	ViaButtons InputMethod = iota
	ViaReply
)

// LastMove describes the most recent move for display.
type LastMove struct {
	Player        Player
	Token         Token
	From          Position
	To            Position
	Captured      *Position
	CapturedToken Token
	Method        InputMethod
}

// Engine owns a board and applies the rules to it. The board is only ever
// changed by MakeMove.
type Engine struct {
	board  Board
	turn   Turn
	status Status
	last   *LastMove
	lost   map[Player]int

	// moves holds the legal moves for the current turn. It is rebuilt after
	// every move and never read across a player switch without a rebuild.
	moves map[Position][]Move
}

// NewEngine starts a game from the standard layout with Player1 to move.
func NewEngine() *Engine {
	return newEngine(NewBoard(), Player1)
}

func newEngine(b *Board, toMove Player) *Engine {
	e := &Engine{
		board: *b,
		turn:  Turn{Kind: AwaitingMove, Player: toMove},
		lost:  make(map[Player]int),
	}
	e.refresh()
	if len(e.moves) == 0 {
		e.status = wonBy(toMove.Opponent())
	}
	return e
}

// refresh rebuilds the legal move cache for the current turn.
func (e *Engine) refresh() {
	switch e.turn.Kind {
	case ChainCapture:
		e.moves = make(map[Position][]Move, 1)
		if moves := e.board.MovesFrom(e.turn.From, true); len(moves) > 0 {
			e.moves[e.turn.From] = moves
		}
	default:
		e.moves = e.board.ValidMoves(e.turn.Player, false)
	}
}

// Board returns a copy of the current board.
func (e *Engine) Board() Board { return e.board }

// Turn returns whose move it is.
func (e *Engine) Turn() Turn { return e.turn }

// Status returns the game status.
func (e *Engine) Status() Status { return e.status }

// Last returns the most recent move, or nil before the first move.
func (e *Engine) Last() *LastMove { return e.last }

// Lost returns how many tokens player has lost so far.
func (e *Engine) Lost(player Player) int { return e.lost[player] }

// Origins returns the positions the player to move may move from, in
// row-major order.
func (e *Engine) Origins() []Position {
	return sortedOrigins(e.moves)
}

// Targets returns the legal destinations from origin for the current turn.
func (e *Engine) Targets(origin Position) []Move {
	return e.moves[origin]
}

// IsLegal reports whether moving from origin to target is allowed now.
func (e *Engine) IsLegal(origin, target Position) bool {
	for _, m := range e.moves[origin] {
		if m.To == target {
			return true
		}
	}
	return false
}

// MakeMove moves the token at from to to. An error leaves the game untouched.
func (e *Engine) MakeMove(from, to Position, method InputMethod) error {
	if e.status != Playing {
		return ErrGameOver
	}
	if !from.InBounds() || !to.InBounds() {
		return ErrOutOfBounds
	}

	mover := e.turn.Player
	token := e.board.At(from)
	if token.Token == Empty || token.Player != mover {
		return ErrNotYourToken
	}
	if e.board.At(to).Token != Empty {
		return ErrOccupied
	}
	if !e.IsLegal(from, to) {
		return ErrIllegalMove
	}

	last := &LastMove{Player: mover, From: from, To: to, Method: method}

	// A slide changes the row by one and a jump by two, so equal row parity
	// means a jump.
	capturing := (from.Row+to.Row)%2 == 0
	if capturing {
		mid := Position{Row: (from.Row + to.Row) / 2, Col: (from.Col + to.Col) / 2}
		last.Captured = &mid
		last.CapturedToken = e.board.At(mid).Token
		e.lost[e.board.At(mid).Player]++
		e.board.cells[mid.Row][mid.Col] = Cell{}
	}

	e.board.cells[to.Row][to.Col] = token
	e.board.cells[from.Row][from.Col] = Cell{}

	if to.Row == mover.backRank() {
		e.board.cells[to.Row][to.Col].Token = King
	}
	last.Token = e.board.At(to).Token
	e.last = last

	if capturing && len(e.board.MovesFrom(to, true)) > 0 {
		e.turn = Turn{Kind: ChainCapture, Player: mover, From: to}
	} else {
		e.turn = Turn{Kind: AwaitingMove, Player: mover.Opponent()}
	}

	e.refresh()
	if len(e.moves) == 0 {
		e.status = wonBy(mover)
	}
	return nil
}
