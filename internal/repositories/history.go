package repositories

import "github.com/desertthunder/habsync/internal/models"

// History adapts [SyncRunRepository] to the sync engine's recorder contract.
type History struct {
	repo *SyncRunRepository
}

func NewHistory(repo *SyncRunRepository) *History {
	return &History{repo: repo}
}

func (h *History) RecordRun(run *models.SyncRun) error {
	return h.repo.Create(run)
}
