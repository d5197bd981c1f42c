package testutils

import (
	"time"

	rounddomain "github.com/Black-And-White-Club/golf-bot/app/modules/round/domain"
	scoredomain "github.com/Black-And-White-Club/golf-bot/app/modules/score/domain"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

// TestDataGenerator provides methods to create test data for integration tests
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewTestDataGenerator creates a new test data generator with optional seed
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}
	return &TestDataGenerator{
		faker: gofakeit.New(uint64(s)),
		seed:  s,
	}
}

// Seed returns the seed, for reproducing a failing run.
func (g *TestDataGenerator) Seed() int64 { return g.seed }

// PlayerName returns a display name.
func (g *TestDataGenerator) PlayerName() string {
	return g.faker.FirstName() + " " + g.faker.LastName()
}

// JoinCode returns a code drawn from the join code alphabet.
func (g *TestDataGenerator) JoinCode() string {
	b := make([]byte, rounddomain.JoinCodeLength)
	for i := range b {
		b[i] = rounddomain.JoinCodeAlphabet[g.faker.IntRange(0, len(rounddomain.JoinCodeAlphabet)-1)]
	}
	return string(b)
}

// GenerateRound returns a stableford round descriptor on course with a
// closest-to-pin prize on hole 3 and a longest-drive prize on hole 9.
func (g *TestDataGenerator) GenerateRound(course string) *rounddomain.Round {
	return &rounddomain.Round{
		ID:            uuid.NewString(),
		Name:          g.faker.Adjective() + " " + g.faker.Noun() + " Cup",
		JoinCode:      g.JoinCode(),
		Course:        course,
		Holes:         18,
		Date:          g.faker.Date().Format("2006-01-02"),
		ScoringFormat: rounddomain.ScoringFormatStableford,
		HolePrizes: []rounddomain.HolePrize{
			{Hole: 3, Type: rounddomain.PrizeClosestToPin},
			{Hole: 9, Type: rounddomain.PrizeLongestDrive},
		},
		InvitedPlayers: []string{},
		CreatedBy:      g.PlayerName(),
	}
}

// GenerateSnapshot returns an in-play snapshot for round with the first
// holesPlayed holes scored between 3 and 6 strokes.
func (g *TestDataGenerator) GenerateSnapshot(round *rounddomain.Round, holesPlayed int) *rounddomain.Snapshot {
	now := time.Now().UTC().Truncate(time.Millisecond)
	snap := &rounddomain.Snapshot{
		ID:          uuid.NewString(),
		RoundID:     round.ID,
		PlayerID:    uuid.NewString(),
		PlayerName:  g.PlayerName(),
		EntryType:   rounddomain.EntryPlayer,
		Handicap:    g.faker.IntRange(0, 36),
		Course:      round.Course,
		RoundName:   round.Name,
		Date:        round.Date,
		CurrentHole: holesPlayed,
		Status:      rounddomain.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for hole := 1; hole <= holesPlayed; hole++ {
		putts := g.faker.IntRange(1, 2)
		_ = snap.Holes.Set(hole, scoredomain.HoleRecord{
			Score: scoredomain.Stroked(g.faker.IntRange(3, 6)),
			Putts: &putts,
		})
	}
	return snap
}
