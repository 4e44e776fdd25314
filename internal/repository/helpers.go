package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// isUniqueConstraintError checks if an error is a unique constraint violation
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "unique") ||
		strings.Contains(errStr, "duplicate") ||
		strings.Contains(errStr, "already exists") ||
		strings.Contains(errStr, "already contains")
}

// convertRecordID converts a SurrealDB record id to its string form
func convertRecordID(id interface{}) string {
	if str, ok := id.(string); ok {
		return str
	}
	if rid, ok := id.(models.RecordID); ok {
		return fmt.Sprintf("%s:%v", rid.Table, rid.ID)
	}
	if rid, ok := id.(*models.RecordID); ok && rid != nil {
		return fmt.Sprintf("%s:%v", rid.Table, rid.ID)
	}
	if m, ok := id.(map[string]interface{}); ok {
		if tb, ok := m["tb"].(string); ok {
			if idVal, ok := m["id"]; ok {
				return fmt.Sprintf("%s:%v", tb, idVal)
			}
		}
		if tb, ok := m["Table"].(string); ok {
			if idVal, ok := m["ID"]; ok {
				return fmt.Sprintf("%s:%v", tb, idVal)
			}
		}
	}
	return fmt.Sprintf("%v", id)
}

// bareID strips the table prefix from a record id string
func bareID(id string) string {
	if i := strings.IndexByte(id, ':'); i >= 0 {
		return id[i+1:]
	}
	return id
}

// decodeRecord decodes one record map into dst after normalizing the id
// and any datetime fields to JSON-friendly forms.
func decodeRecord(data interface{}, dst interface{}) error {
	m, ok := data.(map[string]interface{})
	if !ok {
		return errors.New("unexpected record format")
	}

	normalized := make(map[string]interface{}, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case models.RecordID, *models.RecordID:
			normalized[k] = convertRecordID(t)
		case models.CustomDateTime:
			normalized[k] = t.Time.Format(time.RFC3339Nano)
		case *models.CustomDateTime:
			if t != nil {
				normalized[k] = t.Time.Format(time.RFC3339Nano)
			}
		default:
			normalized[k] = v
		}
	}

	jsonBytes, err := json.Marshal(normalized)
	if err != nil {
		return err
	}
	return json.Unmarshal(jsonBytes, dst)
}

// unwrapRows extracts the row array from one statement's wrapped response
// ({status: "OK", result: [...]}).
func unwrapRows(result interface{}) []interface{} {
	resp, ok := result.(map[string]interface{})
	if !ok {
		return nil
	}
	if status, ok := resp["status"].(string); ok && status == "OK" {
		if rows, ok := resp["result"].([]interface{}); ok {
			return rows
		}
	}
	return nil
}
