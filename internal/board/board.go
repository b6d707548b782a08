package board

import "errors"

// Layout validation failures. Surfaced to the submitting client; the
// session is never mutated on a bad layout.
var (
	ErrPositionOutOfBounds = errors.New("position out of bounds")
	ErrMissingEndpoint     = errors.New("entrance and exit are required")
	ErrEndpointsCollide    = errors.New("entrance and exit must differ")
	ErrInvalidWall         = errors.New("wall endpoints must be adjacent in-bounds cells")
)

// Board carries two views that must never be conflated: the maze this
// player authored (ground truth for the opponent's navigation) and this
// player's exploration state inside the opponent's maze (fog of war,
// populated only by collisions).
type Board struct {
	// Authored maze.
	Entrance *Position `json:"entrance"`
	Exit     *Position `json:"exit"`
	Walls    []Wall    `json:"walls"`

	// Exploration of the opponent's maze.
	PlayerPosition *Position  `json:"playerPosition"`
	VisitedCells   []Position `json:"visitedCells"`
	SpottedWalls   []Wall     `json:"spottedWalls"`
}

// NewBoard returns a board with no authored maze and no exploration state.
func NewBoard() *Board {
	return &Board{
		Walls:        []Wall{},
		VisitedCells: []Position{},
		SpottedWalls: []Wall{},
	}
}

// AuthoredValid reports whether the board holds a submittable maze:
// entrance and exit both placed. Border placement of the endpoints is a
// client affordance, not a server rule.
func (b *Board) AuthoredValid() bool {
	return b.Entrance != nil && b.Exit != nil
}

// ValidateLayout checks a submitted maze before it touches any session
// state: endpoints present, in bounds and distinct, every wall joining
// two adjacent in-bounds cells.
func ValidateLayout(entrance, exit *Position, walls []Wall) error {
	if entrance == nil || exit == nil {
		return ErrMissingEndpoint
	}
	if !entrance.InBounds() || !exit.InBounds() {
		return ErrPositionOutOfBounds
	}
	if *entrance == *exit {
		return ErrEndpointsCollide
	}
	for _, w := range walls {
		if !w.Valid() {
			return ErrInvalidWall
		}
	}
	return nil
}
