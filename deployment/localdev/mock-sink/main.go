package main

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
)

// Minimal stand-in for an HTTP incident collector: accepts the webhook sink's
// POSTs and echoes each incident to the log for local inspection.
func main() {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/v1/incidents", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "read body", http.StatusBadRequest)
			return
		}
		var incident map[string]any
		if err := json.Unmarshal(body, &incident); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		log.Printf("incident received: kind=%v severity=%v message=%v",
			incident["kind"], incident["severity"], incident["message"])
		w.WriteHeader(http.StatusCreated)
	})

	addr := ":8085"
	log.Printf("mock incident sink listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("mock sink exited: %v", err)
	}
}
