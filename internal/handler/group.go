package handler

import (
	"context"
	"net/http"

	"github.com/ssteja698/colony-events/internal/middleware"
	"github.com/ssteja698/colony-events/internal/model"
)

// MembershipService interface for the group handler
type MembershipService interface {
	CreateGroup(ctx context.Context, creatorID string, req *model.CreateGroupRequest) (*model.Group, error)
	EditGroup(ctx context.Context, userID, groupID string, req *model.UpdateGroupRequest) (*model.Group, error)
	JoinGroup(ctx context.Context, userID, groupID string) error
	LeaveGroup(ctx context.Context, userID, groupID string) error
	GetGroup(ctx context.Context, groupID string) (*model.Group, error)
	ListGroups(ctx context.Context) ([]*model.Group, error)
}

// GroupHandler handles group HTTP requests
type GroupHandler struct {
	membership MembershipService
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(membership MembershipService) *GroupHandler {
	return &GroupHandler{membership: membership}
}

// Create handles POST /v1/groups
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.CreateGroupRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		WriteError(w, model.NewValidationError(errs))
		return
	}

	group, err := h.membership.CreateGroup(ctx, userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, group)
}

// List handles GET /v1/groups
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.membership.ListGroups(r.Context())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, groups)
}

// Get handles GET /v1/groups/{groupId}
func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("groupId")
	if groupID == "" {
		WriteError(w, model.NewBadRequestError("group ID required"))
		return
	}

	group, err := h.membership.GetGroup(r.Context(), groupID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, group)
}

// Update handles PATCH /v1/groups/{groupId} - edit description and
// event attachments; the name is immutable
func (h *GroupHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	groupID := r.PathValue("groupId")
	if groupID == "" {
		WriteError(w, model.NewBadRequestError("group ID required"))
		return
	}

	var req model.UpdateGroupRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		WriteError(w, model.NewValidationError(errs))
		return
	}

	group, err := h.membership.EditGroup(ctx, userID, groupID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, group)
}

// Join handles POST /v1/groups/{groupId}/join
func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	groupID := r.PathValue("groupId")
	if groupID == "" {
		WriteError(w, model.NewBadRequestError("group ID required"))
		return
	}

	if err := h.membership.JoinGroup(ctx, userID, groupID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// Leave handles POST /v1/groups/{groupId}/leave
func (h *GroupHandler) Leave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	groupID := r.PathValue("groupId")
	if groupID == "" {
		WriteError(w, model.NewBadRequestError("group ID required"))
		return
	}

	if err := h.membership.LeaveGroup(ctx, userID, groupID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}
