package service

import (
	"context"
	"time"

	"github.com/aussiebroadwan/grawsp/internal/grawsp/store"
	"github.com/aussiebroadwan/grawsp/pkg/slogx"
)

// HousekeepingService removes expired credential rows so the cache does not
// grow without bound. The resolver already deletes an expired row before
// replacing it; this catches the ones nobody asks for again.
type HousekeepingService struct {
	Store store.Store
}

// RunOnce deletes every expired credential. Meant to run at process startup.
func (s *HousekeepingService) RunOnce(ctx context.Context) error {
	l := slogx.FromContext(ctx)

	deleted, err := s.Store.Credentials().DeleteExpiredCredentials(ctx, time.Now().UTC())
	if err != nil {
		l.Error("failed to delete expired credentials", "error", err)
		return err
	}

	if deleted > 0 {
		l.Debug("expired credentials removed", "count", deleted)
	}
	return nil
}
