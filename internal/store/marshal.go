package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// marshalLogs converts program log lines to JSON TEXT for storage.
// HTML escaping is disabled so log lines round-trip byte-for-byte.
func marshalLogs(logs []string) (string, error) {
	if logs == nil {
		logs = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(logs); err != nil {
		return "", fmt.Errorf("marshal logs: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// unmarshalLogs parses JSON TEXT from the database.
func unmarshalLogs(data string) ([]string, error) {
	var logs []string
	if err := json.Unmarshal([]byte(data), &logs); err != nil {
		return nil, fmt.Errorf("unmarshal logs: %w", err)
	}
	return logs, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
