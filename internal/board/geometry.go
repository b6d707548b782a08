package board

// GridSize is the fixed edge length of every maze. Both players author and
// explore on the same 10x10 grid.
const GridSize = 10

// Position is a cell on the grid. Value type; equality is componentwise.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) InBounds() bool {
	return p.X >= 0 && p.X < GridSize && p.Y >= 0 && p.Y < GridSize
}

// Adjacent reports whether q is exactly one orthogonal step from p.
func (p Position) Adjacent(q Position) bool {
	dx := abs(q.X - p.X)
	dy := abs(q.Y - p.Y)
	return (dx == 1 && dy == 0) || (dx == 0 && dy == 1)
}

// OnBorder reports whether p lies on the outer ring of the grid.
func (p Position) OnBorder() bool {
	return p.X == 0 || p.X == GridSize-1 || p.Y == 0 || p.Y == GridSize-1
}

var directions = [4]Position{
	{X: 0, Y: -1},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
}

// Neighbors returns the orthogonal neighbors of p clipped to grid bounds.
func Neighbors(p Position) []Position {
	out := make([]Position, 0, 4)
	for _, d := range directions {
		n := Position{X: p.X + d.X, Y: p.Y + d.Y}
		if n.InBounds() {
			out = append(out, n)
		}
	}
	return out
}

// Wall separates two orthogonally adjacent cells. The pair is unordered:
// a wall stored as From->To equals one queried as To->From.
type Wall struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

func (w Wall) Equal(o Wall) bool {
	return (w.From == o.From && w.To == o.To) || (w.From == o.To && w.To == o.From)
}

// Valid reports whether both endpoints are in bounds and adjacent.
func (w Wall) Valid() bool {
	return w.From.InBounds() && w.To.InBounds() && w.From.Adjacent(w.To)
}

// WallBetween reports whether walls contains a wall between a and b,
// in either orientation.
func WallBetween(walls []Wall, a, b Position) bool {
	probe := Wall{From: a, To: b}
	for _, w := range walls {
		if w.Equal(probe) {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
