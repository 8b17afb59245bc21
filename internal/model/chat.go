package model

// Response types returned to the service shell.
const (
	ResponseTypeText      = "text"
	ResponseTypeShowRooms = "show_rooms"
)

// ChatRequest represents a chat question from the client
type ChatRequest struct {
	Question  string `json:"question" binding:"required"`
	UserID    string `json:"user_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResult is the outcome of one processed question. Rooms is non-nil only
// for show_rooms results; Sources always carries the retrieval candidates
// that survived criteria filtering.
type ChatResult struct {
	Response string `json:"response"`
	Type     string `json:"type"`
	Rooms    []Room `json:"rooms"`
	Sources  []Room `json:"sources"`
}

// ShowRoomsDirective is the structured payload the model may embed in its
// reply after the sentinel token, naming the posts it chose to display.
type ShowRoomsDirective struct {
	Message string   `json:"message"`
	RoomIDs []string `json:"roomIds"`
}

// ReindexRequest represents a reindex trigger
type ReindexRequest struct {
	Force bool `json:"force"`
}

// ReindexResponse reports how many posts were indexed
type ReindexResponse struct {
	IndexedCount int    `json:"indexed_count"`
	Message      string `json:"message"`
}
