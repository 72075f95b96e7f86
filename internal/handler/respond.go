package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/vamshi335235/priya-Traders-project/internal/ws"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeInternal(w http.ResponseWriter, op string, err error) {
	log.Printf("ERROR: %s: %v", op, err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// Broadcaster pushes live events to dashboard subscribers.
// Satisfied by *ws.Hub.
type Broadcaster interface {
	Broadcast(topic string, event ws.Event)
}

// publish is a no-op when events is nil.
func publish(events Broadcaster, eventType string, payload any) {
	if events == nil {
		return
	}
	event, err := ws.NewEvent(eventType, payload)
	if err != nil {
		log.Printf("ERROR: %v", err)
		return
	}
	events.Broadcast(ws.TopicOrders, event)
}
