package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xraph/forge"

	"github.com/fincase/aegis/assignment"
	"github.com/fincase/aegis/id"
)

func (a *API) registerAssignmentRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("assignments"))

	if err := g.POST("/assignments", a.createAssignment,
		forge.WithSummary("Create assignment"),
		forge.WithDescription("Grants a user a role within an org unit."),
		forge.WithOperationID("createAssignment"),
		forge.WithRequestSchema(CreateAssignmentRequest{}),
		forge.WithCreatedResponse(&assignment.Assignment{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/assignments/:assignmentId", a.getAssignment,
		forge.WithSummary("Get assignment"),
		forge.WithOperationID("getAssignment"),
		forge.WithResponseSchema(http.StatusOK, "Assignment details", &assignment.Assignment{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.DELETE("/assignments/:assignmentId", a.deleteAssignment,
		forge.WithSummary("Delete assignment"),
		forge.WithOperationID("deleteAssignment"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/assignments", a.listAssignments,
		forge.WithSummary("List assignments"),
		forge.WithOperationID("listAssignments"),
		forge.WithRequestSchema(ListAssignmentsRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Assignment list", &ListResponse[*assignment.Assignment]{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) createAssignment(ctx forge.Context, req *CreateAssignmentRequest) (*assignment.Assignment, error) {
	userID, err := id.ParseUserID(req.UserID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid user ID: %v", err))
	}
	orgUnitID, err := id.ParseOrgUnitID(req.OrgUnitID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid org unit ID: %v", err))
	}
	roleID, err := id.ParseRoleID(req.RoleID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid role ID: %v", err))
	}

	asgn := &assignment.Assignment{
		ID:        id.NewAssignmentID(),
		UserID:    userID,
		OrgUnitID: orgUnitID,
		RoleID:    roleID,
		GrantedBy: req.GrantedBy,
		CreatedAt: time.Now(),
	}

	if err := a.eng.Store().CreateAssignment(ctx.Context(), asgn); err != nil {
		return nil, mapError(err)
	}

	if a.eng.Plugins() != nil {
		a.eng.Plugins().EmitAssignmentCreated(ctx.Context(), asgn)
	}

	return asgn, ctx.JSON(http.StatusCreated, asgn)
}

func (a *API) getAssignment(ctx forge.Context, _ *GetAssignmentRequest) (*assignment.Assignment, error) {
	assignmentID, err := id.ParseAssignmentID(ctx.Param("assignmentId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid assignment ID: %v", err))
	}

	asgn, err := a.eng.Store().GetAssignment(ctx.Context(), assignmentID)
	if err != nil {
		return nil, mapError(err)
	}

	return asgn, ctx.JSON(http.StatusOK, asgn)
}

func (a *API) deleteAssignment(ctx forge.Context, _ *GetAssignmentRequest) (*struct{}, error) {
	assignmentID, err := id.ParseAssignmentID(ctx.Param("assignmentId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid assignment ID: %v", err))
	}

	asgn, err := a.eng.Store().GetAssignment(ctx.Context(), assignmentID)
	if err != nil {
		return nil, mapError(err)
	}

	if err := a.eng.Store().DeleteAssignment(ctx.Context(), assignmentID); err != nil {
		return nil, mapError(err)
	}

	if a.eng.Plugins() != nil {
		a.eng.Plugins().EmitAssignmentDeleted(ctx.Context(), asgn)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) listAssignments(ctx forge.Context, req *ListAssignmentsRequest) (*ListResponse[*assignment.Assignment], error) {
	filter := &assignment.ListFilter{
		Limit:  defaultLimit(req.Limit),
		Offset: req.Offset,
	}

	if req.UserID != "" {
		uid, err := id.ParseUserID(req.UserID)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid user ID: %v", err))
		}
		filter.UserID = &uid
	}
	if req.OrgUnitID != "" {
		oid, err := id.ParseOrgUnitID(req.OrgUnitID)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid org unit ID: %v", err))
		}
		filter.OrgUnitID = &oid
	}
	if req.RoleID != "" {
		rid, err := id.ParseRoleID(req.RoleID)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid role ID: %v", err))
		}
		filter.RoleID = &rid
	}

	assignments, err := a.eng.Store().ListAssignments(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}
	total, err := a.eng.Store().CountAssignments(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &ListResponse[*assignment.Assignment]{
		Items:  assignments,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}
