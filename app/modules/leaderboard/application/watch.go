package leaderboardservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/Black-And-White-Club/golf-bot/app/events"
	leaderboarddomain "github.com/Black-And-White-Club/golf-bot/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/golf-bot/internal/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"golang.org/x/time/rate"
)

// ErrNoSubscriber is returned by Watch when the service was built without an
// event subscriber.
var ErrNoSubscriber = errors.New("leaderboard service has no event subscriber")

// Watch streams the board for a round: once immediately, then after every
// change to one of its snapshots. Changes that arrive while a rebuild is
// pending are coalesced into it. The channel is closed when ctx is done, and
// a rebuild that finishes after that is dropped instead of delivered.
func (s *LeaderboardService) Watch(ctx context.Context, roundID string, viewer leaderboarddomain.Viewer) (<-chan leaderboarddomain.Board, error) {
	if s.subscriber == nil {
		return nil, ErrNoSubscriber
	}
	msgs, err := s.subscriber.Subscribe(ctx, events.RoundSnapshotChangedV1)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to snapshot changes: %w", err)
	}

	out := make(chan leaderboarddomain.Board, 1)
	go s.watch(ctx, roundID, viewer, msgs, out)
	return out, nil
}

func (s *LeaderboardService) watch(
	ctx context.Context,
	roundID string,
	viewer leaderboarddomain.Viewer,
	msgs <-chan *message.Message,
	out chan leaderboarddomain.Board,
) {
	defer close(out)
	s.metrics.WatcherStarted(ctx)
	defer s.metrics.WatcherStopped(ctx)

	limit := rate.Inf
	if s.interval > 0 {
		limit = rate.Every(s.interval)
	}
	limiter := rate.NewLimiter(limit, 1)

	var last string
	emit := func(trigger string) bool {
		board, err := s.build(ctx, roundID, viewer, trigger)
		if ctx.Err() != nil {
			s.metrics.RecordStaleDiscard(ctx)
			return false
		}
		if err != nil {
			// Keep watching; the next change retries the rebuild.
			s.logger.WarnContext(ctx, "Leaderboard rebuild failed",
				attr.RoundID(roundID),
				attr.Error(err),
			)
			return true
		}

		fp := leaderboarddomain.Fingerprint(board)
		if fp == last {
			s.metrics.RecordPublishSkipped(ctx)
			return true
		}
		last = fp

		// A reader that has not taken the previous board gets this one instead.
		select {
		case <-out:
		default:
		}
		select {
		case out <- board:
			return true
		case <-ctx.Done():
			s.metrics.RecordStaleDiscard(ctx)
			return false
		}
	}

	if !emit(TriggerInitial) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			if !s.concernsRound(msg, roundID) {
				continue
			}
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			if !s.drain(msgs) {
				return
			}
			if !emit(TriggerChange) {
				return
			}
		}
	}
}

// concernsRound acks msg and reports whether it is a change to roundID.
func (s *LeaderboardService) concernsRound(msg *message.Message, roundID string) bool {
	defer msg.Ack()
	payload, err := events.Decode[events.SnapshotChangedPayloadV1](msg)
	if err != nil {
		s.logger.Warn("Dropping undecodable snapshot change", attr.String("message_id", msg.UUID), attr.Error(err))
		return false
	}
	return payload.RoundID == roundID
}

// drain acks every change already waiting, since the coming rebuild reads
// the store after all of them. It returns false if the stream closed.
func (s *LeaderboardService) drain(msgs <-chan *message.Message) bool {
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return false
			}
			msg.Ack()
		default:
			return true
		}
	}
}
