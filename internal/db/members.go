package db

import "context"

const memberColumns = `member_id, name, first_name, last_name, slug, constituency, province_name, party, updated_at`

func scanMember(row interface{ Scan(...any) error }) (Member, error) {
	var i Member
	err := row.Scan(
		&i.MemberID,
		&i.Name,
		&i.FirstName,
		&i.LastName,
		&i.Slug,
		&i.Constituency,
		&i.ProvinceName,
		&i.Party,
		&i.UpdatedAt,
	)
	return i, err
}

const getMember = `SELECT ` + memberColumns + ` FROM members WHERE member_id = ?`

func (q *Queries) GetMember(ctx context.Context, memberID int64) (Member, error) {
	return scanMember(q.db.QueryRowContext(ctx, getMember, memberID))
}

const listMembers = `SELECT ` + memberColumns + ` FROM members ORDER BY member_id`

func (q *Queries) ListMembers(ctx context.Context) ([]Member, error) {
	rows, err := q.db.QueryContext(ctx, listMembers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Member
	for rows.Next() {
		i, err := scanMember(rows)
		if err != nil {
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

const createMember = `INSERT INTO members (` + memberColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateMember(ctx context.Context, arg Member) error {
	_, err := q.db.ExecContext(ctx, createMember,
		arg.MemberID,
		arg.Name,
		arg.FirstName,
		arg.LastName,
		arg.Slug,
		arg.Constituency,
		arg.ProvinceName,
		arg.Party,
		arg.UpdatedAt,
	)
	return err
}

const updateMember = `UPDATE members SET
    name = ?, first_name = ?, last_name = ?, slug = ?,
    constituency = ?, province_name = ?, party = ?, updated_at = ?
WHERE member_id = ?`

func (q *Queries) UpdateMember(ctx context.Context, arg Member) error {
	_, err := q.db.ExecContext(ctx, updateMember,
		arg.Name,
		arg.FirstName,
		arg.LastName,
		arg.Slug,
		arg.Constituency,
		arg.ProvinceName,
		arg.Party,
		arg.UpdatedAt,
		arg.MemberID,
	)
	return err
}
