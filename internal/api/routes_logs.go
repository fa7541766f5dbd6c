package api

import (
	"net/http"
	"time"
)

type LogEntry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
}

type logRoutes struct {
	logs LogCache
}

// Logs returns the recent log entries, newest first.
func (rs logRoutes) Logs(w http.ResponseWriter, r *http.Request) {
	logCache := rs.logs.GetLogCache()
	ret := make([]LogEntry, len(logCache))

	for i, entry := range logCache {
		ret[i] = LogEntry{
			Time:    entry.Time,
			Level:   entry.Type,
			Message: entry.Message,
		}
	}

	respondJSON(w, http.StatusOK, ret)
}
