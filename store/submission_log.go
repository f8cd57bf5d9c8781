package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/lakshmirp/mangrove/submission"
)

func (s *Store) AppendSubmissionLog(ctx context.Context, log *submission.SubmissionLog) (int64, error) {
	document, err := json.Marshal(log.Values)
	if err != nil {
		return 0, errors.Wrap(err, "db.insert_submission_log.marshal")
	}

	now := time.Now().UTC()
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO submission_log (channel, source, destination, form_code, document, status, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		log.Channel, log.Source, log.Destination, log.FormCode,
		string(document), log.Status, log.ErrorMessage, now,
	).Scan(&log.ID)
	if err != nil {
		return 0, errors.Wrap(err, "db.insert_submission_log")
	}

	log.CreatedAt = now
	return log.ID, nil
}

func (s *Store) ListSubmissions(ctx context.Context, formCode string) ([]submission.SubmissionLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, channel, source, destination, form_code, document, status, error_message, created_at
		FROM submission_log
		WHERE form_code = ?
		ORDER BY id`,
		formCode,
	)
	if err != nil {
		return nil, errors.Wrap(err, "db.get_submission_logs")
	}
	defer rows.Close()

	var logs []submission.SubmissionLog
	for rows.Next() {
		var log submission.SubmissionLog
		var document []byte
		err = rows.Scan(&log.ID, &log.Channel, &log.Source, &log.Destination,
			&log.FormCode, &document, &log.Status, &log.ErrorMessage, &log.CreatedAt)
		if err != nil {
			return nil, errors.Wrap(err, "db.get_submission_logs.scan")
		}

		if err := json.Unmarshal(document, &log.Values); err != nil {
			return nil, errors.Wrap(err, "db.get_submission_logs.parse")
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}
