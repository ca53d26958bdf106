package inmemdb

import (
	"sync"

	"github.com/projeval/projeval/core/assignment"
	"github.com/projeval/projeval/core/person"
	"github.com/projeval/projeval/core/rubric"
	"github.com/projeval/projeval/core/schedule"
)

// DB is an in-memory database; it backs tests and local development.
type DB struct {
	person     *personTable
	rubric     *rubricTable
	schedule   *scheduleTable
	assignment *assignmentTable
	seq        *sequenceTable
}

type (
	personTable struct {
		sync.RWMutex
		table map[string]*person.Person // by Key
	}

	rubricTable struct {
		sync.RWMutex
		table map[string]*rubric.Rubric // by Key
	}

	scheduleTable struct {
		sync.RWMutex
		table map[string]*schedule.Schedule // by Key
	}

	assignmentTable struct {
		sync.RWMutex
		table       map[string]*assignment.Assignment // by Key
		supervisors map[string]*assignment.Supervisor // by Key
		members     map[string]*assignment.Member     // by Key
	}

	sequenceTable struct {
		sync.Mutex
		counters map[string]int // by prefix
	}
)

func Open() (*DB, error) {
	db := &DB{
		person:   &personTable{table: make(map[string]*person.Person)},
		rubric:   &rubricTable{table: make(map[string]*rubric.Rubric)},
		schedule: &scheduleTable{table: make(map[string]*schedule.Schedule)},
		assignment: &assignmentTable{
			table:       make(map[string]*assignment.Assignment),
			supervisors: make(map[string]*assignment.Supervisor),
			members:     make(map[string]*assignment.Member),
		},
		seq: &sequenceTable{counters: make(map[string]int)},
	}
	return db, nil
}
