package logging

import "strings"

// FormatSubject builds the batch/query/session subject string used in console output.
func FormatSubject(batch, query, sessionID string) string {
	batch = strings.TrimSpace(batch)
	query = strings.TrimSpace(query)
	sessionID = strings.TrimSpace(sessionID)
	parts := make([]string, 0, 2)
	if batch != "" {
		parts = append(parts, "Batch "+batch)
	}
	switch {
	case query != "" && sessionID != "":
		parts = append(parts, "\""+query+"\" ("+sessionID+")")
	case query != "":
		parts = append(parts, "\""+query+"\"")
	case sessionID != "":
		parts = append(parts, sessionID)
	}
	return strings.Join(parts, " · ")
}
