package auth

import (
	"context"

	"github.com/iReady/iReady-Backend/internal/utils"
)

// SessionInfo adapts a Store to middleware.SessionFetcher.
type SessionInfo struct {
	Store Store
}

func (si SessionInfo) FindSessionByID(id string) (utils.SessionData, error) {
	session, err := si.Store.FindSession(context.Background(), id)
	if err != nil {
		return utils.SessionData{}, err
	}

	return utils.SessionData{
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}
