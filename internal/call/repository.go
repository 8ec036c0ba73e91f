package call

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"gorelay/internal/dbmysql"
)

var ErrNoOngoingCall = errors.New("no ongoing call for participant pair")

type CallRepository interface {
	Create(ctx context.Context, session *dbmysql.CallSession) error
	// FindOngoing returns the most recent Ongoing session for the unordered
	// participant pair. Picking the newest keeps behavior deterministic if
	// duplicate Ongoing sessions ever exist for the same pair.
	FindOngoing(ctx context.Context, kind, participantKey string) (*dbmysql.CallSession, error)
	Update(ctx context.Context, session *dbmysql.CallSession) error
}

type callRepository struct {
	db *gorm.DB
}

func NewCallRepository(db *gorm.DB) CallRepository {
	return &callRepository{db: db}
}

func (r *callRepository) Create(ctx context.Context, session *dbmysql.CallSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *callRepository) FindOngoing(ctx context.Context, kind, participantKey string) (*dbmysql.CallSession, error) {
	var session dbmysql.CallSession
	err := r.db.WithContext(ctx).
		Where("kind = ? AND participant_key = ? AND status = ?", kind, participantKey, dbmysql.CallStatusOngoing).
		Order("started_at DESC").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoOngoingCall
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *callRepository) Update(ctx context.Context, session *dbmysql.CallSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}
