package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/projeval/projeval/core"
	"github.com/projeval/projeval/core/rubric"
)

type dbRubric struct {
	Key       string    `db:"key"`
	RubricID  string    `db:"rubric_id"`
	Topic     string    `db:"topic"`
	Criteria  []byte    `db:"criteria"`
	Marks     int       `db:"marks"`
	Type      string    `db:"type"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row dbRubric) toRubric() (rubric.Rubric, error) {
	var criteria []rubric.Criterion
	if len(row.Criteria) > 0 {
		if err := json.Unmarshal(row.Criteria, &criteria); err != nil {
			return rubric.Rubric{}, storageErr("decoding rubric criteria", err)
		}
	}
	return rubric.Rubric{
		Key:       row.Key,
		RubricID:  row.RubricID,
		Topic:     row.Topic,
		Criteria:  criteria,
		Marks:     row.Marks,
		Type:      row.Type,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func toRubrics(rows []dbRubric) ([]rubric.Rubric, error) {
	rubrics := make([]rubric.Rubric, 0, len(rows))
	for _, row := range rows {
		r, err := row.toRubric()
		if err != nil {
			return nil, err
		}
		rubrics = append(rubrics, r)
	}
	return rubrics, nil
}

func marshalCriteria(criteria []rubric.Criterion) ([]byte, error) {
	if criteria == nil {
		criteria = []rubric.Criterion{}
	}
	return json.Marshal(criteria)
}

// rubricOrderColumns whitelists the client-orderable columns.
var rubricOrderColumns = map[string]string{
	"rubricID": "rubric_id",
	"topic":    "topic",
	"marks":    "marks",
	"type":     "type",
}

func rubricOrderBy(orderings []core.DBOrdering) string {
	clause := ""
	for _, ord := range orderings {
		col, ok := rubricOrderColumns[ord.Field]
		if !ok {
			continue
		}
		if clause != "" {
			clause += ", "
		}
		clause += core.DBOrdering{Field: col, Ascending: ord.Ascending}.String()
	}
	if clause == "" {
		clause = "created_at ASC"
	}
	return " ORDER BY " + clause
}

type rubricRepository struct {
	db *sqlx.DB
}

var _ rubric.Repository = (*rubricRepository)(nil) // interface compliance check

func NewRubricRepository(db *sqlx.DB) rubric.Repository {
	return &rubricRepository{db: db}
}

func (repo *rubricRepository) CountRubrics(ctx context.Context) (int, error) {
	var count int
	if err := repo.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM rubric"); err != nil {
		return 0, storageErr("counting rubrics", err)
	}
	return count, nil
}

func (repo *rubricRepository) CreateRubric(ctx context.Context, r rubric.Rubric) (rubric.Rubric, error) {
	criteria, err := marshalCriteria(r.Criteria)
	if err != nil {
		return rubric.Rubric{}, err
	}

	r.Key = uuid.New().String()
	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO rubric (key, rubric_id, topic, criteria, marks, type, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.Key, r.RubricID, r.Topic, criteria, r.Marks, r.Type, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "rubric_rubric_id_key") {
			return rubric.Rubric{}, rubric.ErrIDExists
		}
		return rubric.Rubric{}, storageErr("creating rubric", err)
	}
	return r, nil
}

func (repo *rubricRepository) QueryAllRubrics(ctx context.Context, orderings ...core.DBOrdering) ([]rubric.Rubric, error) {
	var rows []dbRubric
	err := repo.db.SelectContext(ctx, &rows, "SELECT * FROM rubric"+rubricOrderBy(orderings))
	if err != nil {
		return nil, storageErr("querying rubrics", err)
	}
	return toRubrics(rows)
}

func (repo *rubricRepository) GetRubricByID(ctx context.Context, rubricID string) (rubric.Rubric, error) {
	var row dbRubric
	err := repo.db.GetContext(ctx, &row, "SELECT * FROM rubric WHERE rubric_id = $1", rubricID)
	if err == sql.ErrNoRows {
		return rubric.Rubric{}, rubric.ErrNotFound
	}
	if err != nil {
		return rubric.Rubric{}, storageErr("getting rubric", err)
	}
	return row.toRubric()
}

func (repo *rubricRepository) UpdateRubric(ctx context.Context, upd rubric.Rubric) (rubric.Rubric, error) {
	criteria, err := marshalCriteria(upd.Criteria)
	if err != nil {
		return rubric.Rubric{}, err
	}

	var row dbRubric
	err = repo.db.GetContext(ctx, &row,
		`UPDATE rubric SET topic = $2, criteria = $3, marks = $4, type = $5, updated_at = $6
		 WHERE rubric_id = $1
		 RETURNING *`,
		upd.RubricID, upd.Topic, criteria, upd.Marks, upd.Type, upd.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return rubric.Rubric{}, rubric.ErrNotFound
	}
	if err != nil {
		return rubric.Rubric{}, storageErr("updating rubric", err)
	}
	return row.toRubric()
}

func (repo *rubricRepository) DeleteRubric(ctx context.Context, rubricID string) (rubric.Rubric, error) {
	var row dbRubric
	err := repo.db.GetContext(ctx, &row, "DELETE FROM rubric WHERE rubric_id = $1 RETURNING *", rubricID)
	if err == sql.ErrNoRows {
		return rubric.Rubric{}, rubric.ErrNotFound
	}
	if err != nil {
		return rubric.Rubric{}, storageErr("deleting rubric", err)
	}
	return row.toRubric()
}

// escapeLike neutralizes LIKE metacharacters so the key matches literally.
func escapeLike(key string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(key)
}

func (repo *rubricRepository) SearchRubrics(ctx context.Context, key string) ([]rubric.Rubric, error) {
	// LIKE is case-sensitive; the match is unanchored on all three fields
	var rows []dbRubric
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM rubric
		 WHERE rubric_id LIKE '%' || $1 || '%' ESCAPE '\'
		    OR topic LIKE '%' || $1 || '%' ESCAPE '\'
		    OR type LIKE '%' || $1 || '%' ESCAPE '\'
		 ORDER BY created_at`,
		escapeLike(key),
	)
	if err != nil {
		return nil, storageErr("searching rubrics", err)
	}
	return toRubrics(rows)
}
