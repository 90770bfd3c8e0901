package db

import "context"

const upsertSenator = `INSERT INTO senators (name, affiliation, province, nomination_date, retirement_date, appointed_by)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (name) DO UPDATE SET
    affiliation = excluded.affiliation,
    province = excluded.province,
    nomination_date = excluded.nomination_date,
    retirement_date = excluded.retirement_date,
    appointed_by = excluded.appointed_by`

type UpsertSenatorParams struct {
	Name           string
	Affiliation    string
	Province       string
	NominationDate string
	RetirementDate string
	AppointedBy    string
}

func (q *Queries) UpsertSenator(ctx context.Context, arg UpsertSenatorParams) error {
	_, err := q.db.ExecContext(ctx, upsertSenator,
		arg.Name,
		arg.Affiliation,
		arg.Province,
		arg.NominationDate,
		arg.RetirementDate,
		arg.AppointedBy,
	)
	return err
}

const listSenators = `SELECT senator_id, name, affiliation, province, nomination_date, retirement_date, appointed_by
FROM senators ORDER BY senator_id`

func (q *Queries) ListSenators(ctx context.Context) ([]Senator, error) {
	rows, err := q.db.QueryContext(ctx, listSenators)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Senator
	for rows.Next() {
		var i Senator
		if err := rows.Scan(
			&i.SenatorID,
			&i.Name,
			&i.Affiliation,
			&i.Province,
			&i.NominationDate,
			&i.RetirementDate,
			&i.AppointedBy,
		); err != nil {
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
