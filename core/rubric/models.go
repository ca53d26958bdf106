package rubric

import (
	"time"

	"github.com/projeval/projeval/core"
)

// Artifact types a marking rubric may target.
const (
	TypePresentation = "presentation"
	TypeReport       = "report"
)

// IDPrefix codes rubric identifiers: R1, R2, ...
const IDPrefix = "R"

// Criterion is a single marking criterion within a Rubric.
type Criterion struct {
	Description string `json:"description" validate:"required"`
	MaxMarks    int    `json:"maxMarks" validate:"gte=0"`
}

type Rubric struct {
	Key       string      `json:"key"`
	RubricID  string      `json:"rubricID"` // unique, immutable once assigned
	Topic     string      `json:"topic"`
	Criteria  []Criterion `json:"criteria"`
	Marks     int         `json:"marks"`
	Type      string      `json:"type"`
	CreatedAt time.Time   `json:"createdAt"` // UTC
	UpdatedAt time.Time   `json:"updatedAt"` // UTC
}

// NewRubric contains information needed to author a new Rubric.
type NewRubric struct {
	Topic    string      `json:"topic" validate:"required"`
	Criteria []Criterion `json:"criteria" validate:"required,min=1,dive"`
	Marks    int         `json:"marks" validate:"gte=0"`
	Type     string      `json:"type" validate:"required,oneof=presentation report"`
}

func (nr *NewRubric) Validate() error {
	nr.Topic = core.CleanString(nr.Topic)
	nr.Type = core.CleanString(nr.Type, true /* lower */)
	return core.Validate.Struct(nr)
}

// UpdateRubric replaces the mutable fields of an existing Rubric.
// The rubricID itself is immutable.
type UpdateRubric struct {
	Topic    string      `json:"topic" validate:"required"`
	Criteria []Criterion `json:"criteria" validate:"required,min=1,dive"`
	Marks    int         `json:"marks" validate:"gte=0"`
	Type     string      `json:"type" validate:"required,oneof=presentation report"`
}

func (ur *UpdateRubric) Validate() error {
	ur.Topic = core.CleanString(ur.Topic)
	ur.Type = core.CleanString(ur.Type, true /* lower */)
	return core.Validate.Struct(ur)
}
