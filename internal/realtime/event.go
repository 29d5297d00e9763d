package realtime

import "encoding/json"

// Server -> client event names.
const (
	EventUpdateUsers = "updateUsers"
	EventNewMessage  = "newMessage"
	EventNewTask     = "newTask"
	EventTaskUpdated = "taskUpdated"
)

// Client -> server event names. taskAssigned and a client-sent taskUpdated
// are legacy informational relays; the server-side fan-out issued after the
// HTTP mutation is authoritative, so they are accepted and dropped.
const (
	EventSendMessage  = "sendMessage"
	EventLogout       = "logout"
	EventTaskAssigned = "taskAssigned"
)

// Values of the updated_by field on taskUpdated pushes. Clients filter
// locally: admins apply every update, members only those for their own tasks.
const (
	UpdatedByAdmin    = "admin"
	UpdatedByAssignee = "assignee"
)

// Event is the wire envelope for both directions of the socket.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// EncodeEvent marshals a named event with its payload into the wire envelope.
func EncodeEvent(event string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Event{Event: event, Data: raw})
}
