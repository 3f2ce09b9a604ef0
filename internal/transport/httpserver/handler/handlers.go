package handler

import (
	familydomain "family-planner/internal/domain/family"
	invitedomain "family-planner/internal/domain/invite"
	"family-planner/internal/domain/notification"
	tasksdomain "family-planner/internal/domain/tasks"
	userdomain "family-planner/internal/domain/user"
	"family-planner/internal/metrics"
	"family-planner/pkg/logger"
)

type Handlers struct {
	Users         *userdomain.Service
	Families      *familydomain.Service
	Invites       *invitedomain.Service
	Notifications *notification.Service
	Tasks         *tasksdomain.Service
	metrics       *metrics.Metrics
	log           logger.Logger
}

func New(
	users *userdomain.Service,
	families *familydomain.Service,
	invites *invitedomain.Service,
	notifications *notification.Service,
	tasks *tasksdomain.Service,
	m *metrics.Metrics,
	log logger.Logger,
) *Handlers {
	if m == nil {
		m = metrics.New()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Handlers{
		Users:         users,
		Families:      families,
		Invites:       invites,
		Notifications: notifications,
		Tasks:         tasks,
		metrics:       m,
		log:           log,
	}
}
