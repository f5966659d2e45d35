package service

import (
	"sync"

	"github.com/noah-isme/fee-tracker-console/internal/dto"
)

// deleteStage holds the single record awaiting delete confirmation in a view.
type deleteStage struct {
	mu        sync.Mutex
	candidate *dto.StagedDelete
}

func (d *deleteStage) stage(candidate dto.StagedDelete) {
	candidate.Error = ""
	d.mu.Lock()
	d.candidate = &candidate
	d.mu.Unlock()
}

func (d *deleteStage) current() (dto.StagedDelete, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.candidate == nil {
		return dto.StagedDelete{}, false
	}
	return *d.candidate, true
}

// fail records the error against the candidate if it is still staged.
func (d *deleteStage) fail(id int64, message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.candidate != nil && d.candidate.ID == id {
		d.candidate.Error = message
	}
}

// done clears the candidate if it is still the one that was confirmed.
func (d *deleteStage) done(id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.candidate != nil && d.candidate.ID == id {
		d.candidate = nil
	}
}

func (d *deleteStage) cancel() {
	d.mu.Lock()
	d.candidate = nil
	d.mu.Unlock()
}
