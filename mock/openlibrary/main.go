package main

import (
	_ "embed"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

//go:embed data.json
var jsonData []byte

type doc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name,omitempty"`
	CoverI           int      `json:"cover_i,omitempty"`
	FirstPublishYear int      `json:"first_publish_year,omitempty"`
	EditionCount     int      `json:"edition_count,omitempty"`
	Subject          []string `json:"subject,omitempty"`
	Language         []string `json:"language,omitempty"`
}

type change struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	MinutesAgo int             `json:"minutes_ago"`
	Comment    string          `json:"comment"`
	Author     json.RawMessage `json:"author,omitempty"`
}

type dataset struct {
	Docs    []doc                      `json:"docs"`
	Works   map[string]json.RawMessage `json:"works"`
	Authors map[string]json.RawMessage `json:"authors"`
	Changes []change                   `json:"changes"`
}

func main() {
	var data dataset
	if err := json.Unmarshal(jsonData, &data); err != nil {
		log.Fatalf("[Open Library] Invalid data.json: %v", err)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /search.json", func(w http.ResponseWriter, r *http.Request) {
		simulateLatency()

		q := r.URL.Query()

		// Magic queries for exercising error handling.
		switch strings.ToLower(q.Get("q")) {
		case "boom":
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			logRequest(r, http.StatusInternalServerError)
			return
		case "garbled":
			writeJSON(w, http.StatusOK, map[string]int{"numFound": 0})
			logRequest(r, http.StatusOK)
			return
		}

		matched := make([]doc, 0, len(data.Docs))
		for _, d := range data.Docs {
			if matches(d, q.Get("q"), q.Get("title"), q.Get("author"), q.Get("subject"), q.Get("language"), q.Get("first_publish_year")) {
				matched = append(matched, d)
			}
		}

		page := intParam(q.Get("page"), 1)
		limit := intParam(q.Get("limit"), 100)
		start := (page - 1) * limit
		end := start + limit
		if start > len(matched) {
			start = len(matched)
		}
		if end > len(matched) {
			end = len(matched)
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"numFound": len(matched),
			"start":    start,
			"docs":     matched[start:end],
		})
		logRequest(r, http.StatusOK)
	})

	mux.HandleFunc("GET /works/{file}", func(w http.ResponseWriter, r *http.Request) {
		simulateLatency()
		serveRecord(w, r, data.Works)
	})

	mux.HandleFunc("GET /authors/{file}", func(w http.ResponseWriter, r *http.Request) {
		simulateLatency()
		serveRecord(w, r, data.Authors)
	})

	mux.HandleFunc("GET /recentchanges.json", func(w http.ResponseWriter, r *http.Request) {
		simulateLatency()

		limit := intParam(r.URL.Query().Get("limit"), len(data.Changes))
		now := time.Now().UTC()

		out := make([]map[string]any, 0, len(data.Changes))
		for _, c := range data.Changes {
			if len(out) == limit {
				break
			}
			item := map[string]any{
				"id":        c.ID,
				"kind":      c.Kind,
				"timestamp": now.Add(-time.Duration(c.MinutesAgo) * time.Minute).Format("2006-01-02T15:04:05.000000"),
				"comment":   c.Comment,
			}
			if len(c.Author) > 0 {
				item["author"] = c.Author
			}
			out = append(out, item)
		}

		writeJSON(w, http.StatusOK, out)
		logRequest(r, http.StatusOK)
	})

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"healthy"}`)); err != nil {
			log.Printf("[Open Library] Health write error: %v", err)
		}
	})

	log.Println("Mock Open Library running on :8081")
	server := &http.Server{
		Addr:         ":8081",
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}

func serveRecord(w http.ResponseWriter, r *http.Request, records map[string]json.RawMessage) {
	id := strings.TrimSuffix(r.PathValue("file"), ".json")

	record, ok := records[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "notfound", "key": r.URL.Path})
		logRequest(r, http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, record)
	logRequest(r, http.StatusOK)
}

func matches(d doc, q, title, author, subject, language, year string) bool {
	if q != "" && !contains(d.Title, q) && !anyContains(d.AuthorName, q) {
		return false
	}
	if title != "" && !contains(d.Title, title) {
		return false
	}
	if author != "" && !anyContains(d.AuthorName, author) {
		return false
	}
	if subject != "" && !anyContains(d.Subject, subject) {
		return false
	}
	if language != "" && !anyContains(d.Language, language) {
		return false
	}
	if year != "" && strconv.Itoa(d.FirstPublishYear) != year {
		return false
	}
	return true
}

func contains(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(sub)))
}

func anyContains(values []string, sub string) bool {
	for _, v := range values {
		if contains(v, sub) {
			return true
		}
	}
	return false
}

func intParam(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// Simulate network latency (50-200ms)
func simulateLatency() {
	time.Sleep(time.Duration(50+time.Now().UnixNano()%150) * time.Millisecond)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Provider", "openlibrary-mock")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[Open Library] Write error: %v", err)
	}
}

func logRequest(r *http.Request, status int) {
	log.Printf("[Open Library] %s %s?%s - %d", r.Method, r.URL.Path, r.URL.RawQuery, status)
}
