package db

import "context"

const createRole = `INSERT INTO roles (
    member_id, role_type, title, from_date, to_date, parliament_number, session_number,
    committee_name, organization_name, affiliation_role_name, constituency_name,
    province_name, party_name, election_result
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type CreateRoleParams struct {
	MemberID            int64
	RoleType            string
	Title               string
	FromDate            string
	ToDate              string
	ParliamentNumber    int64
	SessionNumber       int64
	CommitteeName       string
	OrganizationName    string
	AffiliationRoleName string
	ConstituencyName    string
	ProvinceName        string
	PartyName           string
	ElectionResult      string
}

func (q *Queries) CreateRole(ctx context.Context, arg CreateRoleParams) error {
	_, err := q.db.ExecContext(ctx, createRole,
		arg.MemberID,
		arg.RoleType,
		arg.Title,
		arg.FromDate,
		arg.ToDate,
		arg.ParliamentNumber,
		arg.SessionNumber,
		arg.CommitteeName,
		arg.OrganizationName,
		arg.AffiliationRoleName,
		arg.ConstituencyName,
		arg.ProvinceName,
		arg.PartyName,
		arg.ElectionResult,
	)
	return err
}

const listRoleKeys = `SELECT role_id, role_type, from_date, parliament_number, session_number, committee_name,
    organization_name, title, to_date, affiliation_role_name, constituency_name, province_name,
    party_name, election_result
FROM roles WHERE member_id = ?`

// ListRoleKeysRow is a role's unique key followed by the fields that may
// change after it was first stored.
type ListRoleKeysRow struct {
	RoleID              int64
	RoleType            string
	FromDate            string
	ParliamentNumber    int64
	SessionNumber       int64
	CommitteeName       string
	OrganizationName    string
	Title               string
	ToDate              string
	AffiliationRoleName string
	ConstituencyName    string
	ProvinceName        string
	PartyName           string
	ElectionResult      string
}

func (q *Queries) ListRoleKeys(ctx context.Context, memberID int64) ([]ListRoleKeysRow, error) {
	rows, err := q.db.QueryContext(ctx, listRoleKeys, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListRoleKeysRow
	for rows.Next() {
		var i ListRoleKeysRow
		if err := rows.Scan(
			&i.RoleID,
			&i.RoleType,
			&i.FromDate,
			&i.ParliamentNumber,
			&i.SessionNumber,
			&i.CommitteeName,
			&i.OrganizationName,
			&i.Title,
			&i.ToDate,
			&i.AffiliationRoleName,
			&i.ConstituencyName,
			&i.ProvinceName,
			&i.PartyName,
			&i.ElectionResult,
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

const updateRoleAttributes = `UPDATE roles SET
    title = ?,
    to_date = ?,
    affiliation_role_name = ?,
    constituency_name = ?,
    province_name = ?,
    party_name = ?,
    election_result = ?
WHERE role_id = ?`

type UpdateRoleAttributesParams struct {
	Title               string
	ToDate              string
	AffiliationRoleName string
	ConstituencyName    string
	ProvinceName        string
	PartyName           string
	ElectionResult      string
	RoleID              int64
}

func (q *Queries) UpdateRoleAttributes(ctx context.Context, arg UpdateRoleAttributesParams) error {
	_, err := q.db.ExecContext(ctx, updateRoleAttributes,
		arg.Title,
		arg.ToDate,
		arg.AffiliationRoleName,
		arg.ConstituencyName,
		arg.ProvinceName,
		arg.PartyName,
		arg.ElectionResult,
		arg.RoleID,
	)
	return err
}

const getLatestRole = `SELECT role_id, member_id, role_type, title, from_date, to_date, parliament_number,
    session_number, committee_name, organization_name, affiliation_role_name, constituency_name,
    province_name, party_name, election_result
FROM roles
WHERE member_id = ? AND role_type = ?
ORDER BY from_date DESC, parliament_number DESC, role_id DESC
LIMIT 1`

type GetLatestRoleParams struct {
	MemberID int64
	RoleType string
}

func (q *Queries) GetLatestRole(ctx context.Context, arg GetLatestRoleParams) (Role, error) {
	row := q.db.QueryRowContext(ctx, getLatestRole, arg.MemberID, arg.RoleType)
	var i Role
	err := row.Scan(
		&i.RoleID,
		&i.MemberID,
		&i.RoleType,
		&i.Title,
		&i.FromDate,
		&i.ToDate,
		&i.ParliamentNumber,
		&i.SessionNumber,
		&i.CommitteeName,
		&i.OrganizationName,
		&i.AffiliationRoleName,
		&i.ConstituencyName,
		&i.ProvinceName,
		&i.PartyName,
		&i.ElectionResult,
	)
	return i, err
}

const countRolesByMember = `SELECT COUNT(*) FROM roles WHERE member_id = ?`

func (q *Queries) CountRolesByMember(ctx context.Context, memberID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countRolesByMember, memberID).Scan(&count)
	return count, err
}
