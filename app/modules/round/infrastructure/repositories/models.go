package rounddb

import (
	"time"

	rounddomain "github.com/Black-And-White-Club/golf-bot/app/modules/round/domain"
	"github.com/uptrace/bun"
)

// Round is the stored round descriptor.
type Round struct {
	bun.BaseModel  `bun:"table:rounds,alias:r"`
	ID             string                  `bun:"id,pk"`
	Name           string                  `bun:"name,notnull"`
	JoinCode       string                  `bun:"join_code,notnull,unique"`
	Course         string                  `bun:"course,notnull"`
	Tees           string                  `bun:"tees,nullzero"`
	Holes          int                     `bun:"holes,notnull,default:18"`
	Date           string                  `bun:"date,nullzero"`
	ScoringFormat  string                  `bun:"scoring_format,notnull,default:'stableford'"`
	HolePrizes     []rounddomain.HolePrize `bun:"hole_prizes,type:jsonb,notnull,default:'[]'"`
	InvitedPlayers []string                `bun:"invited_players,type:jsonb,notnull,default:'[]'"`
	CreatedBy      string                  `bun:"created_by,nullzero"`
	CreatedAt      time.Time               `bun:",nullzero,notnull,default:current_timestamp"`
}

// Document is one participant snapshot in one collection. The body is the
// whole snapshot and is always replaced as a unit.
type Document struct {
	bun.BaseModel `bun:"table:round_documents,alias:rd"`
	Collection    rounddomain.Collection `bun:"collection,pk"`
	Key           string                 `bun:"doc_key,pk"`
	RoundID       string                 `bun:"round_id,nullzero"`
	ScorecardID   string                 `bun:"scorecard_id,notnull"`
	PlayerName    string                 `bun:"player_name,nullzero"`
	Body          *rounddomain.Snapshot  `bun:"body,type:jsonb,notnull"`
	UpdatedAt     time.Time              `bun:",nullzero,notnull,default:current_timestamp"`
}

// CollectionCount is a row of CountDocuments.
type CollectionCount struct {
	Collection rounddomain.Collection `bun:"collection"`
	Count      int                    `bun:"count"`
}

func toDomainRound(r *Round) *rounddomain.Round {
	prizes := r.HolePrizes
	if prizes == nil {
		prizes = []rounddomain.HolePrize{}
	}
	invited := r.InvitedPlayers
	if invited == nil {
		invited = []string{}
	}
	return &rounddomain.Round{
		ID:             r.ID,
		Name:           r.Name,
		JoinCode:       r.JoinCode,
		Course:         r.Course,
		Tees:           r.Tees,
		Holes:          r.Holes,
		Date:           r.Date,
		ScoringFormat:  r.ScoringFormat,
		HolePrizes:     prizes,
		InvitedPlayers: invited,
		CreatedBy:      r.CreatedBy,
		CreatedAt:      r.CreatedAt,
	}
}

func fromDomainRound(r *rounddomain.Round) *Round {
	return &Round{
		ID:             r.ID,
		Name:           r.Name,
		JoinCode:       r.JoinCode,
		Course:         r.Course,
		Tees:           r.Tees,
		Holes:          r.Holes,
		Date:           r.Date,
		ScoringFormat:  r.ScoringFormat,
		HolePrizes:     r.HolePrizes,
		InvitedPlayers: r.InvitedPlayers,
		CreatedBy:      r.CreatedBy,
		CreatedAt:      r.CreatedAt,
	}
}
