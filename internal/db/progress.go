package db

import "context"

const listProgressKeys = `SELECT status, progress_date FROM bill_progress WHERE bill_id = ?`

type ListProgressKeysRow struct {
	Status       string
	ProgressDate string
}

func (q *Queries) ListProgressKeys(ctx context.Context, billID int64) ([]ListProgressKeysRow, error) {
	rows, err := q.db.QueryContext(ctx, listProgressKeys, billID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListProgressKeysRow
	for rows.Next() {
		var i ListProgressKeysRow
		if err := rows.Scan(&i.Status, &i.ProgressDate); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createBillProgress = `INSERT INTO bill_progress (bill_id, status, progress_date, chamber, state)
VALUES (?, ?, ?, ?, ?)`

type CreateBillProgressParams struct {
	BillID       int64
	Status       string
	ProgressDate string
	Chamber      string
	State        string
}

func (q *Queries) CreateBillProgress(ctx context.Context, arg CreateBillProgressParams) error {
	_, err := q.db.ExecContext(ctx, createBillProgress,
		arg.BillID,
		arg.Status,
		arg.ProgressDate,
		arg.Chamber,
		arg.State,
	)
	return err
}
