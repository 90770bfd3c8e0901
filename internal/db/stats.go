package db

import "context"

const getTableCounts = `SELECT
    (SELECT COUNT(*) FROM members),
    (SELECT COUNT(*) FROM roles),
    (SELECT COUNT(*) FROM votes),
    (SELECT COUNT(*) FROM vote_participants),
    (SELECT COUNT(*) FROM bills),
    (SELECT COUNT(*) FROM bill_progress),
    (SELECT COUNT(*) FROM senators)`

type TableCounts struct {
	Members          int64
	Roles            int64
	Votes            int64
	VoteParticipants int64
	Bills            int64
	BillProgress     int64
	Senators         int64
}

func (q *Queries) GetTableCounts(ctx context.Context) (TableCounts, error) {
	var i TableCounts
	err := q.db.QueryRowContext(ctx, getTableCounts).Scan(
		&i.Members,
		&i.Roles,
		&i.Votes,
		&i.VoteParticipants,
		&i.Bills,
		&i.BillProgress,
		&i.Senators,
	)
	return i, err
}

const countBillsByChamber = `SELECT chamber, COUNT(*) FROM bills GROUP BY chamber ORDER BY chamber`

type CountBillsByChamberRow struct {
	Chamber string
	Count   int64
}

func (q *Queries) CountBillsByChamber(ctx context.Context) ([]CountBillsByChamberRow, error) {
	rows, err := q.db.QueryContext(ctx, countBillsByChamber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CountBillsByChamberRow
	for rows.Next() {
		var i CountBillsByChamberRow
		if err := rows.Scan(&i.Chamber, &i.Count); err != nil {
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
