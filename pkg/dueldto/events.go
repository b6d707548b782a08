package dueldto

// Client intents.
const (
	EventListSessions  = "list-sessions"
	EventCreateSession = "create-session"
	EventJoinSession   = "join-session"
	EventSubmitMaze    = "submit-maze"
	EventMakeMove      = "make-move"
	EventLeaveSession  = "leave-session"
	EventSendChat      = "send-chat"
)

// Server pushes.
const (
	EventSessionsList    = "sessions-list"
	EventSessionCreated  = "session-created"
	EventSessionUpdate   = "session-update"
	EventSessionNotFound = "session-not-found"
	EventSessionFull     = "session-full"
	EventChatMessage     = "chat-message"
	EventError           = "error"
)
