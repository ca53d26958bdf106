package schedule

import (
	"time"
)

// IDPrefix codes presentation slot identifiers: SP1, SP2, ...
const IDPrefix = "SP"

// Schedule is a calendared presentation slot with assigned examiners.
type Schedule struct {
	Key        string    `json:"key"`
	ScheduleID string    `json:"scheduleID"` // format SP<number>
	GroupID    string    `json:"groupID"`
	Date       time.Time `json:"date"`
	// TimeDuration is a formatted interval: "HH:MM AM/PM - HH:MM AM/PM".
	TimeDuration string    `json:"timeDuration"`
	Location     string    `json:"location"`
	Topic        string    `json:"topic"`
	Examiners    []string  `json:"examiners"` // person refs
	CreatedAt    time.Time `json:"createdAt"` // UTC
}
