// Package call drives a call session from initiation to its terminal
// verdict. One row is written per call attempt; the rows are the call log
// and are never deleted.
package call

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"gorelay/internal/common"
	"gorelay/internal/dbmysql"
)

type CallService interface {
	// Start creates an Ongoing session with no verdict
	Start(ctx context.Context, kind, from, to, roomID string) (*dbmysql.CallSession, error)
	// NotPicked ends the session with verdict Missed
	NotPicked(ctx context.Context, kind, from, to string) (*dbmysql.CallSession, error)
	// Accept records the Accepted verdict; the session status is left as
	// stored so the ongoing call keeps its row until it ends
	Accept(ctx context.Context, kind, from, to string) (*dbmysql.CallSession, error)
	// Deny ends the session with verdict Denied
	Deny(ctx context.Context, kind, from, to string) (*dbmysql.CallSession, error)
	// Busy ends the session with verdict Busy
	Busy(ctx context.Context, kind, from, to string) (*dbmysql.CallSession, error)
}

type callService struct {
	repo CallRepository
}

func NewCallService(repo CallRepository) CallService {
	return &callService{repo: repo}
}

func (s *callService) Start(ctx context.Context, kind, from, to, roomID string) (*dbmysql.CallSession, error) {
	if from == "" || to == "" {
		return nil, errors.New("both call participants are required")
	}
	if kind != dbmysql.CallKindAudio && kind != dbmysql.CallKindVideo {
		return nil, errors.New("unknown call kind")
	}

	session := &dbmysql.CallSession{
		ID:             uuid.NewString(),
		Kind:           kind,
		ParticipantKey: common.PairKey(from, to),
		FromID:         from,
		ToID:           to,
		RoomID:         roomID,
		Status:         dbmysql.CallStatusOngoing,
		StartedAt:      time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *callService) NotPicked(ctx context.Context, kind, from, to string) (*dbmysql.CallSession, error) {
	return s.end(ctx, kind, from, to, dbmysql.CallVerdictMissed)
}

func (s *callService) Accept(ctx context.Context, kind, from, to string) (*dbmysql.CallSession, error) {
	session, err := s.repo.FindOngoing(ctx, kind, common.PairKey(from, to))
	if err != nil {
		return nil, err
	}

	session.Verdict = dbmysql.CallVerdictAccepted
	if err := s.repo.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *callService) Deny(ctx context.Context, kind, from, to string) (*dbmysql.CallSession, error) {
	return s.end(ctx, kind, from, to, dbmysql.CallVerdictDenied)
}

func (s *callService) Busy(ctx context.Context, kind, from, to string) (*dbmysql.CallSession, error) {
	return s.end(ctx, kind, from, to, dbmysql.CallVerdictBusy)
}

func (s *callService) end(ctx context.Context, kind, from, to, verdict string) (*dbmysql.CallSession, error) {
	session, err := s.repo.FindOngoing(ctx, kind, common.PairKey(from, to))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session.Verdict = verdict
	session.Status = dbmysql.CallStatusEnded
	session.EndedAt = &now
	if err := s.repo.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
