package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ssteja698/colony-events/internal/model"
)

// GroupRepository is the group data access the membership service needs
type GroupRepository interface {
	CreateWithEvents(ctx context.Context, group *model.Group, events []*model.Event) error
	Join(ctx context.Context, groupID, userID string) error
	Leave(ctx context.Context, groupID, userID string, eventIDs []string) error
	UpdateAttachments(ctx context.Context, group *model.Group, attach []*model.Event, detach []string) error
	GetByID(ctx context.Context, id string) (*model.Group, error)
	GetByName(ctx context.Context, name string) (*model.Group, error)
	ListAll(ctx context.Context) ([]*model.Group, error)
}

// EventRepository is the event data access the membership and event
// services need
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	GetByName(ctx context.Context, name string) (*model.Event, error)
	ListAll(ctx context.Context) ([]*model.Event, error)
	ListVisible(ctx context.Context, groupIDs []string) ([]*model.Event, error)
	ListByGroup(ctx context.Context, groupID string) ([]*model.Event, error)
	ListByIDs(ctx context.Context, ids []string) ([]*model.Event, error)
}

// UserRepository is the user data access the membership service needs
type UserRepository interface {
	Ensure(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, userID string) (*model.User, error)
	AddInterest(ctx context.Context, userID, eventID string) error
	RemoveInterest(ctx context.Context, userID, eventID string) error
}

// MembershipService mutates group membership and per-user interest sets,
// keeping the bidirectional group/user/event links consistent.
type MembershipService struct {
	groupRepo GroupRepository
	eventRepo EventRepository
	userRepo  UserRepository
	now       func() time.Time
}

// MembershipServiceConfig holds configuration for the membership service
type MembershipServiceConfig struct {
	GroupRepo GroupRepository
	EventRepo EventRepository
	UserRepo  UserRepository
	Now       func() time.Time // defaults to time.Now
}

// NewMembershipService creates a new membership service
func NewMembershipService(cfg MembershipServiceConfig) *MembershipService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &MembershipService{
		groupRepo: cfg.GroupRepo,
		eventRepo: cfg.EventRepo,
		userRepo:  cfg.UserRepo,
		now:       now,
	}
}

// JoinGroup adds the user to the group's member set and the group to the
// user's groups set. Both sides are written in one batch.
func (s *MembershipService) JoinGroup(ctx context.Context, userID, groupID string) error {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("getting group: %w", err)
	}
	if group == nil {
		return ErrGroupNotFound
	}

	return s.groupRepo.Join(ctx, groupID, userID)
}

// LeaveGroup removes both sides of the membership link and cascades:
// every event currently attached to the left group is dropped from the
// user's interests in the same batch.
func (s *MembershipService) LeaveGroup(ctx context.Context, userID, groupID string) error {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("getting group: %w", err)
	}
	if group == nil {
		return ErrGroupNotFound
	}

	events, err := s.eventRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return fmt.Errorf("listing group events: %w", err)
	}
	eventIDs := make([]string, 0, len(events))
	for _, event := range events {
		eventIDs = append(eventIDs, event.ID)
	}

	return s.groupRepo.Leave(ctx, groupID, userID, eventIDs)
}

// CreateGroup validates the name, selects the eligible subset of the
// requested events, and creates the group with the creator as sole
// member. The group document, the creator's groups set, and the event
// retags land in one atomic batch.
//
// Eligible at creation means the event has not started yet and is still
// public. The call fails only when no requested event is eligible; an
// eligible subset is attached silently.
func (s *MembershipService) CreateGroup(ctx context.Context, creatorID string, req *model.CreateGroupRequest) (*model.Group, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrGroupNameRequired
	}
	if strings.EqualFold(name, model.PublicGroupID) {
		return nil, ErrGroupNameReserved
	}
	if len(req.EventIDs) == 0 {
		return nil, ErrNoEventsSelected
	}

	// Best-effort duplicate pre-check; the unique index is the backstop.
	existing, err := s.groupRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("checking group name: %w", err)
	}
	if existing != nil {
		return nil, ErrGroupNameExists
	}

	eligible, err := s.eligibleEvents(ctx, req.EventIDs, "")
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		return nil, ErrNoEligibleEvents
	}

	eventIDs := make([]string, 0, len(eligible))
	for _, event := range eligible {
		eventIDs = append(eventIDs, event.ID)
	}

	group := &model.Group{
		Name:        name,
		Description: req.Description,
		CreatorID:   creatorID,
		EventIDs:    eventIDs,
	}
	if err := s.groupRepo.CreateWithEvents(ctx, group, eligible); err != nil {
		return nil, err
	}
	return group, nil
}

// EditGroup applies a group edit. The name is immutable. Events dropped
// from the attachment list revert to public with their group name
// cleared; newly selected eligible events are retagged to this group.
// All updates land in one atomic batch.
func (s *MembershipService) EditGroup(ctx context.Context, userID, groupID string, req *model.UpdateGroupRequest) (*model.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("getting group: %w", err)
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	if group.CreatorID != userID {
		return nil, ErrNotGroupCreator
	}
	if len(req.EventIDs) == 0 {
		return nil, ErrNoEventsSelected
	}

	eligible, err := s.eligibleEvents(ctx, req.EventIDs, group.ID)
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		return nil, ErrNoEligibleEvents
	}

	selected := make(map[string]bool, len(eligible))
	eventIDs := make([]string, 0, len(eligible))
	attach := make([]*model.Event, 0, len(eligible))
	for _, event := range eligible {
		selected[event.ID] = true
		eventIDs = append(eventIDs, event.ID)
		if event.GroupID != group.ID {
			attach = append(attach, event)
		}
	}

	detach := make([]string, 0)
	for _, eventID := range group.EventIDs {
		if !selected[eventID] {
			detach = append(detach, eventID)
		}
	}

	if req.Description != nil {
		group.Description = *req.Description
	}
	group.EventIDs = eventIDs

	if err := s.groupRepo.UpdateAttachments(ctx, group, attach, detach); err != nil {
		return nil, err
	}
	return group, nil
}

// GetGroup retrieves a group by id
func (s *MembershipService) GetGroup(ctx context.Context, groupID string) (*model.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

// ListGroups retrieves all groups
func (s *MembershipService) ListGroups(ctx context.Context) ([]*model.Group, error) {
	return s.groupRepo.ListAll(ctx)
}

// AddInterest adds a single event id to the user's interests set. The
// event id is not checked for existence.
func (s *MembershipService) AddInterest(ctx context.Context, userID, eventID string) error {
	return s.userRepo.AddInterest(ctx, userID, eventID)
}

// RemoveInterest removes a single event id from the user's interests set
func (s *MembershipService) RemoveInterest(ctx context.Context, userID, eventID string) error {
	return s.userRepo.RemoveInterest(ctx, userID, eventID)
}

// eligibleEvents resolves the requested ids and filters to events that
// can be attached: not yet started, and either still public or already
// attached to editGroupID when editing.
func (s *MembershipService) eligibleEvents(ctx context.Context, ids []string, editGroupID string) ([]*model.Event, error) {
	events, err := s.eventRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolving events: %w", err)
	}

	now := s.now()
	eligible := make([]*model.Event, 0, len(events))
	for _, event := range events {
		if event.IsPast(now) {
			continue
		}
		if event.IsPublic() || (editGroupID != "" && event.GroupID == editGroupID) {
			eligible = append(eligible, event)
		}
	}
	return eligible, nil
}
