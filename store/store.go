// Package store persists questionnaires, entities, data records and the
// submission audit log in SQLite, behind the narrow contracts the
// submission pipeline consumes. Documents are stored as JSON, one row per
// object.
package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"

	"github.com/lakshmirp/mangrove/form"
	"github.com/lakshmirp/mangrove/model"
	"github.com/lakshmirp/mangrove/submission"
	"github.com/lakshmirp/mangrove/validator"
)

type Store struct {
	db       *sql.DB
	registry *validator.Registry
}

func New(db *sql.DB, registry *validator.Registry) *Store {
	return &Store{db: db, registry: registry}
}

func (s *Store) ResolveQuestionnaire(ctx context.Context, formCode string) (*form.Model, error) {
	var document []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM questionnaire WHERE form_code = ?`,
		formCode,
	).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, submission.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "db.get_questionnaire")
	}

	return form.ParseDocument(s.registry, document)
}

func (s *Store) SaveQuestionnaire(ctx context.Context, m *form.Model) error {
	document, err := json.Marshal(m.Document())
	if err != nil {
		return errors.Wrap(err, "db.save_questionnaire.marshal")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO questionnaire (form_code, name, state, document) VALUES (?, ?, ?, ?)
		ON CONFLICT (form_code) DO UPDATE SET name = ?, state = ?, document = ?`,
		m.Code, m.Name, m.State, string(document),
		m.Name, m.State, string(document),
	)
	return errors.Wrap(err, "db.save_questionnaire")
}

func (s *Store) ListQuestionnaires(ctx context.Context) ([]form.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT document FROM questionnaire ORDER BY form_code`)
	if err != nil {
		return nil, errors.Wrap(err, "db.get_questionnaires")
	}
	defer rows.Close()

	documents := []form.Document{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, errors.Wrap(err, "db.get_questionnaires.scan")
		}

		var doc form.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(err, "db.get_questionnaires.parse")
		}
		documents = append(documents, doc)
	}
	return documents, rows.Err()
}

func (s *Store) DeleteQuestionnaire(ctx context.Context, formCode string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM questionnaire WHERE form_code = ?`, formCode)
	if err != nil {
		return errors.Wrap(err, "db.delete_questionnaire")
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return submission.ErrNotFound
	}
	return nil
}

// RegisterEntity stores a new entity, minting its id when absent.
func (s *Store) RegisterEntity(ctx context.Context, e *model.Entity) error {
	if e.ID == "" {
		id, err := uuid.NewV4()
		if err != nil {
			return errors.Wrap(err, "db.register_entity.id")
		}
		e.ID = id.String()
	}

	document, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "db.register_entity.marshal")
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO entity (id, short_code, category, document) VALUES (?, ?, ?, ?)`,
		e.ID, e.ShortCode, e.Category, string(document),
	)
	return errors.Wrap(err, "db.register_entity")
}

func (s *Store) FindEntityByShortCode(ctx context.Context, shortCode string) (*model.Entity, error) {
	var document []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM entity WHERE short_code = ?`, shortCode,
	).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, submission.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "db.get_entity")
	}

	e := &model.Entity{}
	if err := json.Unmarshal(document, e); err != nil {
		return nil, errors.Wrap(err, "db.get_entity.parse")
	}
	return e, nil
}

func (s *Store) FindEntitiesByCategory(ctx context.Context, category string) ([]validator.Entity, error) {
	entities, err := s.entitiesByCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	out := make([]validator.Entity, len(entities))
	for i, e := range entities {
		out[i] = e
	}
	return out, nil
}

// FindReporters returns the reporters registered under a source address.
func (s *Store) FindReporters(ctx context.Context, source string) ([]validator.Entity, error) {
	reporters, err := s.entitiesByCategory(ctx, validator.ReporterCategory)
	if err != nil {
		return nil, err
	}

	var matches []validator.Entity
	for _, reporter := range reporters {
		if reporter.Value(validator.MobileNumberKey) == source {
			matches = append(matches, reporter)
		}
	}
	return matches, nil
}

func (s *Store) entitiesByCategory(ctx context.Context, category string) ([]*model.Entity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT document FROM entity WHERE category = ? ORDER BY created_at, id`,
		category,
	)
	if err != nil {
		return nil, errors.Wrap(err, "db.get_entities")
	}
	defer rows.Close()

	var entities []*model.Entity
	for rows.Next() {
		var document []byte
		if err := rows.Scan(&document); err != nil {
			return nil, errors.Wrap(err, "db.get_entities.scan")
		}

		e := &model.Entity{}
		if err := json.Unmarshal(document, e); err != nil {
			return nil, errors.Wrap(err, "db.get_entities.parse")
		}
		entities = append(entities, e)
	}
	return entities, rows.Err()
}

// PersistValues appends a data record for the accepted submission and merges
// the values into the subject entity's document as its latest state. An
// unregistered short code still gets its data record; there is just no
// entity document to update yet.
func (s *Store) PersistValues(ctx context.Context, shortCode, formCode string, values map[string]any) error {
	document, err := json.Marshal(values)
	if err != nil {
		return errors.Wrap(err, "db.persist_values.marshal")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "db.begin_tx")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO data_record (short_code, form_code, document) VALUES (?, ?, ?)`,
		shortCode, formCode, string(document),
	)
	if err != nil {
		return errors.Wrap(err, "db.insert_data_record")
	}

	var entityDocument []byte
	err = tx.QueryRowContext(ctx,
		`SELECT document FROM entity WHERE short_code = ?`, shortCode,
	).Scan(&entityDocument)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return errors.Wrap(tx.Commit(), "db.persist_values.commit")
	case err != nil:
		return errors.Wrap(err, "db.get_entity")
	}

	e := &model.Entity{}
	if err := json.Unmarshal(entityDocument, e); err != nil {
		return errors.Wrap(err, "db.get_entity.parse")
	}
	if e.Data == nil {
		e.Data = map[string]any{}
	}
	for name, value := range values {
		e.Data[name] = value
	}

	entityDocument, err = json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "db.update_entity.marshal")
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE entity SET document = ? WHERE short_code = ?`,
		string(entityDocument), shortCode,
	)
	if err != nil {
		return errors.Wrap(err, "db.update_entity")
	}

	return errors.Wrap(tx.Commit(), "db.persist_values.commit")
}
