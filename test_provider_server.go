package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Standalone fake transcription provider for manual end-to-end runs:
//
//	go run test_provider_server.go -port 9999 -transcript "urgent, transfer the otp"
//
// then point transcription.base_url at http://localhost:9999.

type job struct {
	ID        string
	CreatedAt time.Time
}

type providerState struct {
	mu         sync.Mutex
	jobs       map[string]*job
	nextID     int
	transcript string
	processFor time.Duration
}

func (p *providerState) uploadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Error reading body", http.StatusBadRequest)
		return
	}

	log.Printf("upload: %d bytes, authorized=%t", len(body), r.Header.Get("authorization") != "")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"upload_url": "http://fake-cdn.local/upload/1",
	})
}

func (p *providerState) createHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload struct {
		AudioURL string `json:"audio_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.AudioURL == "" {
		http.Error(w, "audio_url required", http.StatusBadRequest)
		return
	}

	p.mu.Lock()
	p.nextID++
	j := &job{
		ID:        fmt.Sprintf("job-%d", p.nextID),
		CreatedAt: time.Now(),
	}
	p.jobs[j.ID] = j
	p.mu.Unlock()

	log.Printf("job created: %s for %s", j.ID, payload.AudioURL)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"id":     j.ID,
		"status": "queued",
	})
}

func (p *providerState) pollHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v2/transcribe/")

	p.mu.Lock()
	j, ok := p.jobs[id]
	p.mu.Unlock()
	if !ok {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}

	elapsed := time.Since(j.CreatedAt)
	response := map[string]string{"id": j.ID}
	switch {
	case elapsed < p.processFor/2:
		response["status"] = "queued"
	case elapsed < p.processFor:
		response["status"] = "processing"
	default:
		response["status"] = "completed"
		response["text"] = p.transcript
	}

	log.Printf("poll: %s -> %s", j.ID, response["status"])

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func main() {
	port := flag.Int("port", 9999, "Port to listen on")
	transcript := flag.String("transcript", "urgent, please transfer the otp now", "Transcript returned on completion")
	processSeconds := flag.Int("process-seconds", 9, "Seconds a job stays non-terminal")
	flag.Parse()

	state := &providerState{
		jobs:       make(map[string]*job),
		transcript: *transcript,
		processFor: time.Duration(*processSeconds) * time.Second,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/upload", state.uploadHandler)
	mux.HandleFunc("/v2/transcribe", state.createHandler)
	mux.HandleFunc("/v2/transcribe/", state.pollHandler)

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("Fake transcription provider listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}
