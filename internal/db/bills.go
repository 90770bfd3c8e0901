package db

import (
	"context"
	"database/sql"
)

const billColumns = `bill_id, legisinfo_bill_id, bill_number, parliament_number, session_number,
    short_title, long_title, status, chamber, sponsor_id, senator_sponsor_id, sponsor_name,
    summary, bill_type, introduction_date`

func scanBill(row interface{ Scan(...any) error }) (Bill, error) {
	var i Bill
	err := row.Scan(
		&i.BillID,
		&i.LegisinfoBillID,
		&i.BillNumber,
		&i.ParliamentNumber,
		&i.SessionNumber,
		&i.ShortTitle,
		&i.LongTitle,
		&i.Status,
		&i.Chamber,
		&i.SponsorID,
		&i.SenatorSponsorID,
		&i.SponsorName,
		&i.Summary,
		&i.BillType,
		&i.IntroductionDate,
	)
	return i, err
}

func (q *Queries) queryBills(ctx context.Context, query string, args ...any) ([]Bill, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Bill
	for rows.Next() {
		i, err := scanBill(rows)
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

const getBill = `SELECT ` + billColumns + ` FROM bills WHERE bill_id = ?`

func (q *Queries) GetBill(ctx context.Context, billID int64) (Bill, error) {
	return scanBill(q.db.QueryRowContext(ctx, getBill, billID))
}

const findBill = `SELECT ` + billColumns + ` FROM bills
WHERE (legisinfo_bill_id IS NOT NULL AND legisinfo_bill_id = ?)
   OR (bill_number = ? AND parliament_number = ? AND session_number = ?)
ORDER BY bill_id
LIMIT 1`

type FindBillParams struct {
	LegisinfoBillID  sql.NullInt64
	BillNumber       string
	ParliamentNumber int64
	SessionNumber    int64
}

// FindBill looks a bill up by either of its natural keys.
func (q *Queries) FindBill(ctx context.Context, arg FindBillParams) (Bill, error) {
	return scanBill(q.db.QueryRowContext(ctx, findBill,
		arg.LegisinfoBillID,
		arg.BillNumber,
		arg.ParliamentNumber,
		arg.SessionNumber,
	))
}

const listBills = `SELECT ` + billColumns + ` FROM bills ORDER BY bill_id`

func (q *Queries) ListBills(ctx context.Context) ([]Bill, error) {
	return q.queryBills(ctx, listBills)
}

const listBillsMissingDetails = `SELECT ` + billColumns + ` FROM bills
WHERE summary = '' OR sponsor_name = '' OR bill_type = '' OR introduction_date = ''
ORDER BY bill_id`

func (q *Queries) ListBillsMissingDetails(ctx context.Context) ([]Bill, error) {
	return q.queryBills(ctx, listBillsMissingDetails)
}

const createBill = `INSERT INTO bills (
    legisinfo_bill_id, bill_number, parliament_number, session_number, short_title, long_title,
    status, chamber, sponsor_id, senator_sponsor_id, sponsor_name, summary, bill_type, introduction_date
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING bill_id`

type CreateBillParams struct {
	LegisinfoBillID  sql.NullInt64
	BillNumber       string
	ParliamentNumber int64
	SessionNumber    int64
	ShortTitle       string
	LongTitle        string
	Status           string
	Chamber          string
	SponsorID        sql.NullInt64
	SenatorSponsorID sql.NullInt64
	SponsorName      string
	Summary          string
	BillType         string
	IntroductionDate string
}

func (q *Queries) CreateBill(ctx context.Context, arg CreateBillParams) (int64, error) {
	var billID int64
	err := q.db.QueryRowContext(ctx, createBill,
		arg.LegisinfoBillID,
		arg.BillNumber,
		arg.ParliamentNumber,
		arg.SessionNumber,
		arg.ShortTitle,
		arg.LongTitle,
		arg.Status,
		arg.Chamber,
		arg.SponsorID,
		arg.SenatorSponsorID,
		arg.SponsorName,
		arg.Summary,
		arg.BillType,
		arg.IntroductionDate,
	).Scan(&billID)
	return billID, err
}

const updateBillStatus = `UPDATE bills SET status = ? WHERE bill_id = ?`

type UpdateBillStatusParams struct {
	Status string
	BillID int64
}

func (q *Queries) UpdateBillStatus(ctx context.Context, arg UpdateBillStatusParams) error {
	_, err := q.db.ExecContext(ctx, updateBillStatus, arg.Status, arg.BillID)
	return err
}

const updateBillSponsors = `UPDATE bills SET sponsor_id = ?, senator_sponsor_id = ? WHERE bill_id = ?`

type UpdateBillSponsorsParams struct {
	SponsorID        sql.NullInt64
	SenatorSponsorID sql.NullInt64
	BillID           int64
}

func (q *Queries) UpdateBillSponsors(ctx context.Context, arg UpdateBillSponsorsParams) error {
	_, err := q.db.ExecContext(ctx, updateBillSponsors, arg.SponsorID, arg.SenatorSponsorID, arg.BillID)
	return err
}

const updateBillDetails = `UPDATE bills SET
    summary = ?, sponsor_name = ?, bill_type = ?, introduction_date = ?
WHERE bill_id = ?`

type UpdateBillDetailsParams struct {
	Summary          string
	SponsorName      string
	BillType         string
	IntroductionDate string
	BillID           int64
}

func (q *Queries) UpdateBillDetails(ctx context.Context, arg UpdateBillDetailsParams) error {
	_, err := q.db.ExecContext(ctx, updateBillDetails,
		arg.Summary,
		arg.SponsorName,
		arg.BillType,
		arg.IntroductionDate,
		arg.BillID,
	)
	return err
}
