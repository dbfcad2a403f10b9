package voting_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/awardsbot/voting"
	"github.com/m3rciful/awardsbot/voting/votingtest"
)

func newStore(t *testing.T) *voting.Store {
	t.Helper()
	return voting.NewStore(votingtest.NewDB(t))
}

func seededStore(t *testing.T) *voting.Store {
	t.Helper()
	s := newStore(t)
	require.NoError(t, s.Seed(context.Background()))
	return s
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.Seed(ctx))
	require.NoError(t, s.Seed(ctx))

	cats, err := s.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, len(voting.SeedCategories))
	for i, c := range cats {
		assert.Equal(t, voting.SeedCategories[i], c.Name)
		assert.Equal(t, i+1, c.DisplayOrder)
	}

	ok, err := s.VerifyAdminPassword(ctx, voting.DefaultAdminPassword)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVotingOpenDefaultsToOpen(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	open, err := s.VotingOpen(ctx)
	require.NoError(t, err)
	assert.True(t, open, "missing flag row must count as open")
}

func TestToggleVotingFlips(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	open, err := s.ToggleVoting(ctx)
	require.NoError(t, err)
	assert.False(t, open)

	open, err = s.VotingOpen(ctx)
	require.NoError(t, err)
	assert.False(t, open)

	open, err = s.ToggleVoting(ctx)
	require.NoError(t, err)
	assert.True(t, open, "two toggles must restore the original state")
}

func TestSubmitVoteValidation(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	cases := []struct {
		name string
		vote voting.Vote
	}{
		{"empty nominee", voting.Vote{
			CategoryID: 1, VoterName: "Jane Doe",
			Identity: voting.WebIdentity("jane@corp.test"), Nominee: "   ",
		}},
		{"empty voter name", voting.Vote{
			CategoryID: 1, VoterName: "",
			Identity: voting.WebIdentity("jane@corp.test"), Nominee: "Bob",
		}},
		{"no identity", voting.Vote{
			CategoryID: 1, VoterName: "Jane Doe", Nominee: "Bob",
		}},
		{"both identities", voting.Vote{
			CategoryID: 1, VoterName: "Jane Doe",
			Identity: voting.Identity{Email: "jane@corp.test", TelegramID: 42},
			Nominee:  "Bob",
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := s.SubmitVote(ctx, tc.vote)
			assert.ErrorIs(t, err, voting.ErrInvalidVote)
		})
	}

	votes, err := s.VoterVotes(ctx, voting.WebIdentity("jane@corp.test"))
	require.NoError(t, err)
	assert.Empty(t, votes, "rejected submissions must leave no rows")
}

func TestSubmitVoteUniquePerCategory(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	id := voting.WebIdentity("jane@corp.test")

	err := s.SubmitVote(ctx, voting.Vote{
		CategoryID: 1, VoterName: "Jane Doe", Identity: id, Nominee: "Bob",
	})
	require.NoError(t, err)

	err = s.SubmitVote(ctx, voting.Vote{
		CategoryID: 1, VoterName: "Jane Doe", Identity: id, Nominee: "Alice",
	})
	assert.ErrorIs(t, err, voting.ErrAlreadyVoted)

	// A different category is still open to the same identity.
	err = s.SubmitVote(ctx, voting.Vote{
		CategoryID: 2, VoterName: "Jane Doe", Identity: id, Nominee: "Alice",
	})
	require.NoError(t, err)

	votes, err := s.VoterVotes(ctx, id)
	require.NoError(t, err)
	assert.Len(t, votes, 2)
}

func TestIdentitySpacesAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	err := s.SubmitVote(ctx, voting.Vote{
		CategoryID: 1, VoterName: "Jane Doe",
		Identity: voting.WebIdentity("jane@corp.test"), Nominee: "Bob",
	})
	require.NoError(t, err)

	// The same person voting via Telegram is a distinct identity.
	err = s.SubmitVote(ctx, voting.Vote{
		CategoryID: 1, VoterName: "Jane Doe",
		Identity: voting.ChatIdentity(42), Nominee: "Bob",
	})
	require.NoError(t, err)

	err = s.SubmitVote(ctx, voting.Vote{
		CategoryID: 1, VoterName: "Jane Doe",
		Identity: voting.ChatIdentity(42), Nominee: "Alice",
	})
	assert.ErrorIs(t, err, voting.ErrAlreadyVoted)
}

func TestConcurrentDuplicateSubmissions(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	id := voting.ChatIdentity(7)

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.SubmitVote(ctx, voting.Vote{
				CategoryID: 3, VoterName: "Racer", Identity: id, Nominee: "Bob",
			})
		}(i)
	}
	wg.Wait()

	var succeeded, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		default:
			require.ErrorIs(t, err, voting.ErrAlreadyVoted)
			rejected++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one concurrent submission may win")
	assert.Equal(t, attempts-1, rejected)

	votes, err := s.VoterVotes(ctx, id)
	require.NoError(t, err)
	assert.Len(t, votes, 1)
}

func TestResultsOrderingAndEmptyCategories(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	submit := func(email, nominee string) {
		t.Helper()
		require.NoError(t, s.SubmitVote(ctx, voting.Vote{
			CategoryID: 1, VoterName: "Voter",
			Identity: voting.WebIdentity(email), Nominee: nominee,
		}))
	}
	submit("a@corp.test", "Bob")
	submit("b@corp.test", "Bob")
	submit("c@corp.test", "Bob")
	submit("d@corp.test", "Alice")

	results, err := s.Results(ctx)
	require.NoError(t, err)
	require.Len(t, results, len(voting.SeedCategories))

	first := results[0]
	assert.Equal(t, "Best Dresser Award", first.Category.Name)
	require.Len(t, first.Nominees, 2)
	assert.Equal(t, voting.NomineeCount{Nominee: "Bob", Votes: 3}, first.Nominees[0])
	assert.Equal(t, voting.NomineeCount{Nominee: "Alice", Votes: 1}, first.Nominees[1])

	// Categories without votes are still listed, with an empty non-nil slice.
	for _, r := range results[1:] {
		require.NotNil(t, r.Nominees)
		assert.Empty(t, r.Nominees)
	}
}

func TestStatistics(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	empty, err := s.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.TotalVotes)
	assert.Equal(t, 0, empty.TotalVoters)
	assert.Zero(t, empty.AvgPerVoter)

	// Jane votes in three categories, the Telegram voter in one. The average
	// is 4 votes over 2 voters, reported to one decimal.
	jane := voting.WebIdentity("jane@corp.test")
	for _, cat := range []int64{1, 2, 3} {
		require.NoError(t, s.SubmitVote(ctx, voting.Vote{
			CategoryID: cat, VoterName: "Jane Doe", Identity: jane, Nominee: "Bob",
		}))
	}
	require.NoError(t, s.SubmitVote(ctx, voting.Vote{
		CategoryID: 1, VoterName: "Racer", Identity: voting.ChatIdentity(42), Nominee: "Bob",
	}))

	stats, err := s.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalVotes)
	assert.Equal(t, 2, stats.TotalVoters)
	assert.Equal(t, 2.0, stats.AvgPerVoter)
	require.Len(t, stats.ByCategory, len(voting.SeedCategories))
	assert.Equal(t, 2, stats.ByCategory[0].Count)
	assert.Equal(t, 1, stats.ByCategory[1].Count)
	assert.Equal(t, 0, stats.ByCategory[len(stats.ByCategory)-1].Count)
	assert.False(t, stats.GeneratedAt.IsZero())
}

func TestStatisticsRoundsAverage(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	// 4 votes over 3 voters: 1.333... rounds to 1.3.
	voters := []voting.Identity{
		voting.WebIdentity("a@corp.test"),
		voting.WebIdentity("b@corp.test"),
		voting.WebIdentity("c@corp.test"),
	}
	for _, id := range voters {
		require.NoError(t, s.SubmitVote(ctx, voting.Vote{
			CategoryID: 1, VoterName: "Voter", Identity: id, Nominee: "Bob",
		}))
	}
	require.NoError(t, s.SubmitVote(ctx, voting.Vote{
		CategoryID: 2, VoterName: "Voter", Identity: voters[0], Nominee: "Bob",
	}))

	stats, err := s.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.3, stats.AvgPerVoter)
}

func TestVerifyAdminPassword(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	ok, err := s.VerifyAdminPassword(ctx, voting.DefaultAdminPassword)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.VerifyAdminPassword(ctx, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	bare := newStore(t)
	ok, err = bare.VerifyAdminPassword(ctx, voting.DefaultAdminPassword)
	require.NoError(t, err)
	assert.False(t, ok, "no stored password means nothing verifies")
}

func TestWebIdentityNormalizesEmail(t *testing.T) {
	id := voting.WebIdentity("  Jane.Doe@Corp.TEST ")
	assert.Equal(t, "jane.doe@corp.test", id.Email)
}
