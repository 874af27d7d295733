package normalize

import "time"

// nowISO returns the current UTC instant as the ISO-8601 string every
// normalizer stamps onto record_created_at and record_last_updated_at.
// Both fields get the same value at construction time.
func nowISO() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000000") + "Z"
}
