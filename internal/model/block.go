package model

import "time"

// Block is a bookable time window produced by slot resolution. Blocks are
// transient; they are never persisted.
type Block struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}
