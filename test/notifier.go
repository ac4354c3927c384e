package test

import (
	"sync"

	"team-recruit/internal/model"
)

// Notifier 记录通知而不发送
type Notifier struct {
	mu         sync.Mutex
	appliedIDs []uint
	changedIDs []uint
}

func (n *Notifier) Applied(_ *model.Project, a *model.Applicant) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.appliedIDs = append(n.appliedIDs, a.ID)
}

func (n *Notifier) StatusChanged(_ *model.Project, a *model.Applicant) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changedIDs = append(n.changedIDs, a.ID)
}

func (n *Notifier) AppliedIDs() []uint {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]uint(nil), n.appliedIDs...)
}

func (n *Notifier) ChangedIDs() []uint {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]uint(nil), n.changedIDs...)
}
