package jobs

import (
	"context"
	"parly-backend/internal/components/telemetry"
	"parly-backend/internal/db"
	"parly-backend/internal/parliament"
	"parly-backend/internal/parse"
	"parly-backend/internal/pipeline"
	"parly-backend/internal/signature"
)

const VotesJobName = "votes"

// VotesJob ingests every member's recorded divisions. A division is stored
// once and each member's vote on it is a participant row.
type VotesJob struct {
	env Env
	tel telemetry.API
}

func NewVotesJob(env Env) *VotesJob {
	env = env.withDefaults()
	return &VotesJob{env: env, tel: telemetry.NewScopedAPI(VotesJobName, env.Tel)}
}

func (j *VotesJob) Name() string {
	return VotesJobName
}

func (j *VotesJob) Entities(ctx context.Context, q *db.Queries) ([]db.Member, error) {
	return q.ListMembers(ctx)
}

func (j *VotesJob) ID(m db.Member) int64 {
	return m.MemberID
}

func (j *VotesJob) Fetch(ctx context.Context, member db.Member) (pipeline.Result, error) {
	url := parliament.MemberVotesUrl(memberSlug(member), member.MemberID)
	body, notFound, err := get(ctx, j.env.Fetcher, url)
	if err != nil || notFound {
		return pipeline.Result{NotFound: notFound}, err
	}
	votes := parse.ParseVotes(j.tel, body)
	return pipeline.Result{
		Apply: func(ctx context.Context, q *db.Queries) (pipeline.Counts, error) {
			return j.apply(ctx, q, member.MemberID, votes)
		},
	}, nil
}

func (j *VotesJob) apply(ctx context.Context, q *db.Queries, memberID int64, votes []parse.MemberVote) (pipeline.Counts, error) {
	counts := pipeline.Counts{Fetched: len(votes)}

	stored, err := q.ListMemberVoteKeys(ctx, memberID)
	if err != nil {
		return counts, err
	}
	seen := signature.NewSet()
	for _, row := range stored {
		seen.Add(signature.StoredVote(row))
	}

	for _, v := range votes {
		if !seen.Add(signature.Vote(v)) {
			counts.Skipped++
			continue
		}

		key := db.GetVoteIDParams{
			ParliamentNumber: v.ParliamentNumber,
			SessionNumber:    v.SessionNumber,
			VoteDate:         parse.FormatDate(&v.Date),
			VoteTopic:        v.Topic,
		}
		voteID, err := q.GetVoteID(ctx, key)
		if isNotFound(err) {
			voteID, err = q.CreateVote(ctx, db.CreateVoteParams{
				ParliamentNumber: key.ParliamentNumber,
				SessionNumber:    key.SessionNumber,
				VoteDate:         key.VoteDate,
				VoteTopic:        key.VoteTopic,
				DecisionResult:   v.Result,
				DivisionNumber:   derefInt(v.DivisionNumber),
			})
		}
		if err != nil {
			return counts, err
		}

		err = q.CreateVoteParticipant(ctx, db.VoteParticipant{
			VoteID:    voteID,
			MemberID:  memberID,
			VoteValue: v.Value,
		})
		if err != nil {
			return counts, err
		}
		counts.Inserted++
	}
	return counts, nil
}
