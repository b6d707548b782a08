package dueldto

// ChatMessage is a stateless relay payload: the server assigns id and
// timestamp, fans it out to the session participants, and forgets it.
type ChatMessage struct {
	ID         string `json:"id"`
	GameID     string `json:"gameId"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Text       string `json:"text"`
	Timestamp  int64  `json:"timestamp"`
}
