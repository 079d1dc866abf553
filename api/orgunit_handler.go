package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xraph/forge"

	"github.com/fincase/aegis/id"
	"github.com/fincase/aegis/orgunit"
)

func (a *API) registerOrgUnitRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("org-units"))

	if err := g.POST("/org-units", a.createOrgUnit,
		forge.WithSummary("Create org unit"),
		forge.WithDescription("Creates a new organization unit."),
		forge.WithOperationID("createOrgUnit"),
		forge.WithRequestSchema(CreateOrgUnitRequest{}),
		forge.WithCreatedResponse(&orgunit.OrgUnit{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/org-units/:orgUnitId", a.getOrgUnit,
		forge.WithSummary("Get org unit"),
		forge.WithOperationID("getOrgUnit"),
		forge.WithResponseSchema(http.StatusOK, "Org unit details", &orgunit.OrgUnit{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/org-units/by-key/:orgKey", a.getOrgUnitByKey,
		forge.WithSummary("Get org unit by key"),
		forge.WithDescription("Returns the org unit with the given human-readable key."),
		forge.WithOperationID("getOrgUnitByKey"),
		forge.WithResponseSchema(http.StatusOK, "Org unit details", &orgunit.OrgUnit{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/org-units/:orgUnitId/children", a.listChildOrgUnits,
		forge.WithSummary("List child org units"),
		forge.WithOperationID("listChildOrgUnits"),
		forge.WithResponseSchema(http.StatusOK, "Child org units", []*orgunit.OrgUnit{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.PUT("/org-units/:orgUnitId", a.updateOrgUnit,
		forge.WithSummary("Update org unit"),
		forge.WithOperationID("updateOrgUnit"),
		forge.WithRequestSchema(UpdateOrgUnitRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Updated org unit", &orgunit.OrgUnit{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.DELETE("/org-units/:orgUnitId", a.deleteOrgUnit,
		forge.WithSummary("Delete org unit"),
		forge.WithDescription("Deletes an org unit and its assignments."),
		forge.WithOperationID("deleteOrgUnit"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/org-units", a.listOrgUnits,
		forge.WithSummary("List org units"),
		forge.WithOperationID("listOrgUnits"),
		forge.WithRequestSchema(ListOrgUnitsRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Org unit list", &ListResponse[*orgunit.OrgUnit]{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) createOrgUnit(ctx forge.Context, req *CreateOrgUnitRequest) (*orgunit.OrgUnit, error) {
	if req.Key == "" {
		return nil, forge.BadRequest("key is required")
	}
	if req.Name == "" {
		return nil, forge.BadRequest("name is required")
	}

	now := time.Now()
	ou := &orgunit.OrgUnit{
		ID:        id.NewOrgUnitID(),
		Key:       req.Key,
		Name:      req.Name,
		IsActive:  true,
		Metadata:  req.Metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.IsActive != nil {
		ou.IsActive = *req.IsActive
	}

	if req.ParentID != "" {
		pid, err := id.ParseOrgUnitID(req.ParentID)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid parent_id: %v", err))
		}
		ou.ParentID = &pid
	}

	if err := a.eng.Store().CreateOrgUnit(ctx.Context(), ou); err != nil {
		return nil, mapError(err)
	}

	return ou, ctx.JSON(http.StatusCreated, ou)
}

func (a *API) getOrgUnit(ctx forge.Context, _ *GetOrgUnitRequest) (*orgunit.OrgUnit, error) {
	orgUnitID, err := id.ParseOrgUnitID(ctx.Param("orgUnitId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid org unit ID: %v", err))
	}

	ou, err := a.eng.Store().GetOrgUnit(ctx.Context(), orgUnitID)
	if err != nil {
		return nil, mapError(err)
	}

	return ou, ctx.JSON(http.StatusOK, ou)
}

func (a *API) getOrgUnitByKey(ctx forge.Context, _ *struct{}) (*orgunit.OrgUnit, error) {
	key := ctx.Param("orgKey")
	if key == "" {
		return nil, forge.BadRequest("org key is required")
	}

	ou, err := a.eng.Store().GetOrgUnitByKey(ctx.Context(), key)
	if err != nil {
		return nil, mapError(err)
	}

	return ou, ctx.JSON(http.StatusOK, ou)
}

func (a *API) listChildOrgUnits(ctx forge.Context, _ *GetOrgUnitRequest) ([]*orgunit.OrgUnit, error) {
	orgUnitID, err := id.ParseOrgUnitID(ctx.Param("orgUnitId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid org unit ID: %v", err))
	}

	children, err := a.eng.Store().ListChildOrgUnits(ctx.Context(), orgUnitID)
	if err != nil {
		return nil, mapError(err)
	}

	return children, ctx.JSON(http.StatusOK, children)
}

func (a *API) updateOrgUnit(ctx forge.Context, req *UpdateOrgUnitRequest) (*orgunit.OrgUnit, error) {
	orgUnitID, err := id.ParseOrgUnitID(ctx.Param("orgUnitId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid org unit ID: %v", err))
	}

	ou, err := a.eng.Store().GetOrgUnit(ctx.Context(), orgUnitID)
	if err != nil {
		return nil, mapError(err)
	}

	if req.Key != "" {
		ou.Key = req.Key
	}
	if req.Name != "" {
		ou.Name = req.Name
	}
	if req.IsActive != nil {
		ou.IsActive = *req.IsActive
	}
	if req.Metadata != nil {
		ou.Metadata = req.Metadata
	}
	ou.UpdatedAt = time.Now()

	if err := a.eng.Store().UpdateOrgUnit(ctx.Context(), ou); err != nil {
		return nil, mapError(err)
	}

	return ou, ctx.JSON(http.StatusOK, ou)
}

func (a *API) deleteOrgUnit(ctx forge.Context, _ *GetOrgUnitRequest) (*struct{}, error) {
	orgUnitID, err := id.ParseOrgUnitID(ctx.Param("orgUnitId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid org unit ID: %v", err))
	}

	if err := a.eng.Store().DeleteOrgUnit(ctx.Context(), orgUnitID); err != nil {
		return nil, mapError(err)
	}
	if err := a.eng.Store().DeleteAssignmentsByOrgUnit(ctx.Context(), orgUnitID); err != nil {
		return nil, mapError(err)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) listOrgUnits(ctx forge.Context, req *ListOrgUnitsRequest) (*ListResponse[*orgunit.OrgUnit], error) {
	filter := &orgunit.ListFilter{
		IsActive: boolFilter(req.Active),
		Search:   req.Search,
		Limit:    defaultLimit(req.Limit),
		Offset:   req.Offset,
	}

	if req.ParentID != "" {
		pid, err := id.ParseOrgUnitID(req.ParentID)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid parent_id: %v", err))
		}
		filter.ParentID = &pid
	}

	units, err := a.eng.Store().ListOrgUnits(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}
	total, err := a.eng.Store().CountOrgUnits(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &ListResponse[*orgunit.OrgUnit]{
		Items:  units,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}
