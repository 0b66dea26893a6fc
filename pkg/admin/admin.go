package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/helmcode/inr-assistant/pkg/auth"
	"github.com/helmcode/inr-assistant/pkg/model"
	"github.com/helmcode/inr-assistant/pkg/store"
)

// Notification levels.
const (
	LevelSuccess = "success"
	LevelError   = "error"
	LevelInfo    = "info"
)

// Notification is the transient message shown to the administrator after an action.
type Notification struct {
	Level   string `json:"level" yaml:"level"`
	Message string `json:"message" yaml:"message"`
}

var (
	ErrForbidden       = errors.New("administrator access required")
	ErrDeleteInFlight  = errors.New("deletion already in progress")
	errMissingIdentity = errors.New("missing user id")
)

// Service implements the administrator view over the users collection.
type Service struct {
	store      store.Store
	adminEmail string
	log        *zap.Logger

	mu       sync.Mutex
	deleting map[string]struct{}
}

func New(s store.Store, adminEmail string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:      s,
		adminEmail: adminEmail,
		log:        log.Named("admin"),
		deleting:   map[string]struct{}{},
	}
}

// Authorize returns ErrForbidden unless id is the administrator.
func (s *Service) Authorize(id *auth.Identity) error {
	if !auth.IsAdmin(id, s.adminEmail) {
		return ErrForbidden
	}
	return nil
}

// ListUsers returns every user, newest first.
func (s *Service) ListUsers(ctx context.Context) ([]model.UserRecord, Notification, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		s.log.Error("listing users failed", zap.Error(err))
		return nil, Notification{Level: LevelError, Message: "Failed to load users"}, err
	}
	if len(users) == 0 {
		return users, Notification{Level: LevelInfo, Message: "No users found"}, nil
	}
	return users, Notification{Level: LevelInfo, Message: fmt.Sprintf("%d users", len(users))}, nil
}

// DeleteUser removes the user's users and inrData records together. name is
// only used in the notification. On failure nothing is removed and the call
// may be repeated.
func (s *Service) DeleteUser(ctx context.Context, id, name string) (Notification, error) {
	if id == "" {
		return Notification{Level: LevelError, Message: "Failed to delete user data"}, errMissingIdentity
	}
	if name == "" {
		name = id
	}

	if !s.begin(id) {
		return Notification{Level: LevelInfo, Message: fmt.Sprintf("User %q is already being deleted", name)}, ErrDeleteInFlight
	}
	defer s.finish(id)

	if err := s.store.DeleteUser(ctx, id); err != nil {
		s.log.Error("deleting user data failed", zap.String("user", id), zap.Error(err))
		return Notification{Level: LevelError, Message: "Failed to delete user data"}, err
	}

	s.log.Info("user deleted", zap.String("user", id))
	return Notification{Level: LevelSuccess, Message: fmt.Sprintf("User %q deleted successfully", name)}, nil
}

func (s *Service) begin(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.deleting[id]; busy {
		return false
	}
	s.deleting[id] = struct{}{}
	return true
}

func (s *Service) finish(id string) {
	s.mu.Lock()
	delete(s.deleting, id)
	s.mu.Unlock()
}
