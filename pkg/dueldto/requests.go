package dueldto

// Position is a grid cell on the wire.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Wall joins two adjacent cells on the wire.
type Wall struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// CreateSessionRequest opens a new waiting session.
type CreateSessionRequest struct {
	CreatorID   string `json:"creatorId"`
	CreatorName string `json:"creatorName"`
	SessionName string `json:"sessionName"`
}

// JoinSessionRequest seats the sender in an existing session.
type JoinSessionRequest struct {
	SessionID  string `json:"sessionId"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName,omitempty"`
}

// MazeLayout is the authored maze of one player.
type MazeLayout struct {
	Entrance *Position `json:"entrance"`
	Exit     *Position `json:"exit"`
	Walls    []Wall    `json:"walls"`
}

// SubmitMazeRequest submits the sender's authored maze.
type SubmitMazeRequest struct {
	SessionID string     `json:"sessionId"`
	PlayerID  string     `json:"playerId"`
	Board     MazeLayout `json:"board"`
}

// MakeMoveRequest attempts one step in the opponent's maze.
type MakeMoveRequest struct {
	SessionID string   `json:"sessionId"`
	PlayerID  string   `json:"playerId"`
	Target    Position `json:"targetPosition"`
}

// LeaveSessionRequest abandons or forfeits the session.
type LeaveSessionRequest struct {
	SessionID string `json:"sessionId"`
	PlayerID  string `json:"playerId"`
}

// SendChatRequest relays one line of chat to the session participants.
type SendChatRequest struct {
	SessionID  string `json:"sessionId"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Text       string `json:"text"`
}

// ErrorNotice is the payload of an error push.
type ErrorNotice struct {
	Message string `json:"message"`
}
