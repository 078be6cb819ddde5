package models

import "time"

// Timestamps is embedded by every stored entity. Created is set once at
// insert time; Updated is refreshed by every write.
type Timestamps struct {
	Created time.Time `db:"created"`
	Updated time.Time `db:"updated"`
}
