package db

import "context"

const getVoteID = `SELECT vote_id FROM votes
WHERE parliament_number = ? AND session_number = ? AND vote_date = ? AND vote_topic = ?`

type GetVoteIDParams struct {
	ParliamentNumber int64
	SessionNumber    int64
	VoteDate         string
	VoteTopic        string
}

func (q *Queries) GetVoteID(ctx context.Context, arg GetVoteIDParams) (int64, error) {
	var voteID int64
	err := q.db.QueryRowContext(ctx, getVoteID,
		arg.ParliamentNumber,
		arg.SessionNumber,
		arg.VoteDate,
		arg.VoteTopic,
	).Scan(&voteID)
	return voteID, err
}

const createVote = `INSERT INTO votes (
    parliament_number, session_number, vote_date, vote_topic, decision_result, division_number
) VALUES (?, ?, ?, ?, ?, ?)
RETURNING vote_id`

type CreateVoteParams struct {
	ParliamentNumber int64
	SessionNumber    int64
	VoteDate         string
	VoteTopic        string
	DecisionResult   string
	DivisionNumber   int64
}

func (q *Queries) CreateVote(ctx context.Context, arg CreateVoteParams) (int64, error) {
	var voteID int64
	err := q.db.QueryRowContext(ctx, createVote,
		arg.ParliamentNumber,
		arg.SessionNumber,
		arg.VoteDate,
		arg.VoteTopic,
		arg.DecisionResult,
		arg.DivisionNumber,
	).Scan(&voteID)
	return voteID, err
}

const createVoteParticipant = `INSERT INTO vote_participants (vote_id, member_id, vote_value) VALUES (?, ?, ?)`

func (q *Queries) CreateVoteParticipant(ctx context.Context, arg VoteParticipant) error {
	_, err := q.db.ExecContext(ctx, createVoteParticipant, arg.VoteID, arg.MemberID, arg.VoteValue)
	return err
}

const listMemberVoteKeys = `SELECT v.parliament_number, v.session_number, v.vote_date, v.vote_topic
FROM vote_participants p
JOIN votes v ON v.vote_id = p.vote_id
WHERE p.member_id = ?`

type ListMemberVoteKeysRow struct {
	ParliamentNumber int64
	SessionNumber    int64
	VoteDate         string
	VoteTopic        string
}

func (q *Queries) ListMemberVoteKeys(ctx context.Context, memberID int64) ([]ListMemberVoteKeysRow, error) {
	rows, err := q.db.QueryContext(ctx, listMemberVoteKeys, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListMemberVoteKeysRow
	for rows.Next() {
		var i ListMemberVoteKeysRow
		if err := rows.Scan(
			&i.ParliamentNumber,
			&i.SessionNumber,
			&i.VoteDate,
			&i.VoteTopic,
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
