package dbrepository

import (
	"context"

	"paint-backend/internal/paintapi/data"
)

func (db *DBRepository) InsertContactSubmission(ctx context.Context, submission *data.ContactSubmission) (data.ContactSubmission, error) {
	var created data.ContactSubmission
	err := db.storage.QueryValue(
		ctx,
		`INSERT INTO contact_submissions (full_name, email, message)
		 VALUES ($1, $2, $3)
		 RETURNING id, full_name, email, message, submission_date, read_status`,
		[]any{submission.FullName, submission.Email, submission.Message},
		[]any{&created.ID, &created.FullName, &created.Email, &created.Message, &created.SubmissionDate, &created.ReadStatus},
	)
	if err != nil {
		return data.ContactSubmission{}, handleSQLError(err)
	}
	return created, nil
}

func (db *DBRepository) GetContactSubmissions(ctx context.Context, skip, limit int) ([]data.ContactSubmission, error) {
	rows, err := db.storage.Query(
		ctx,
		`SELECT id, full_name, email, message, submission_date, read_status
		 FROM contact_submissions
		 ORDER BY submission_date DESC
		 LIMIT $1 OFFSET $2`,
		limit, skip,
	)
	if err != nil {
		return nil, handleSQLError(err)
	}
	defer rows.Close()

	result := make([]data.ContactSubmission, 0)
	for rows.Next() {
		var s data.ContactSubmission
		err := rows.Scan(&s.ID, &s.FullName, &s.Email, &s.Message, &s.SubmissionDate, &s.ReadStatus)
		if err != nil {
			return nil, handleSQLError(err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, handleSQLError(err)
	}
	return result, nil
}

func (db *DBRepository) SetContactSubmissionRead(ctx context.Context, id int, read bool) error {
	tag, err := db.storage.Exec(ctx, "UPDATE contact_submissions SET read_status = $2 WHERE id = $1", id, read)
	if err != nil {
		return handleSQLError(err)
	}
	if tag.RowsAffected() == 0 {
		return data.ErrNotFound
	}
	return nil
}

func (db *DBRepository) DeleteContactSubmission(ctx context.Context, id int) error {
	tag, err := db.storage.Exec(ctx, "DELETE FROM contact_submissions WHERE id = $1", id)
	if err != nil {
		return handleSQLError(err)
	}
	if tag.RowsAffected() == 0 {
		return data.ErrNotFound
	}
	return nil
}

func (db *DBRepository) GetContactInfo(ctx context.Context) (data.ContactInfo, error) {
	var info data.ContactInfo
	err := db.storage.QueryValue(
		ctx,
		"SELECT id, email, phone, address, updated_at FROM static_contact_info WHERE id = 1",
		nil,
		[]any{&info.ID, &info.Email, &info.Phone, &info.Address, &info.UpdatedAt},
	)
	if err != nil {
		return data.ContactInfo{}, handleSQLError(err)
	}
	return info, nil
}

// UpsertContactInfo writes the singleton contact-info row.
func (db *DBRepository) UpsertContactInfo(ctx context.Context, info data.ContactInfo) error {
	_, err := db.storage.Exec(
		ctx,
		`INSERT INTO static_contact_info (id, email, phone, address, updated_at)
		 VALUES (1, $1, $2, $3, now())
		 ON CONFLICT (id) DO UPDATE
		 SET email = excluded.email, phone = excluded.phone, address = excluded.address, updated_at = now()`,
		info.Email, info.Phone, info.Address,
	)
	if err != nil {
		return handleSQLError(err)
	}
	return nil
}
