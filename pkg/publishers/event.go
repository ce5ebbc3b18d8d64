package publishers

import "time"

// Event is the payload published downstream after a fetch.
type Event struct {
	Method    string    `json:"method"`
	UserID    string    `json:"user_id"`
	Items     []string  `json:"items"`
	NewItems  []string  `json:"new_items,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

// NewEvent constructs an Event for one fetch result.
func NewEvent(method, userID string, items, newItems []string) Event {
	if items == nil {
		items = []string{}
	}
	return Event{
		Method:    method,
		UserID:    userID,
		Items:     items,
		NewItems:  newItems,
		FetchedAt: time.Now().UTC(),
	}
}

// Attributes are the routing attributes attached to queue and topic messages.
func (e Event) Attributes() map[string]string {
	return map[string]string{
		"method":  e.Method,
		"user_id": e.UserID,
	}
}
