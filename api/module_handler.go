package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xraph/forge"

	"github.com/fincase/aegis/id"
	"github.com/fincase/aegis/module"
)

func (a *API) registerModuleRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("modules"))

	if err := g.POST("/modules", a.createModule,
		forge.WithSummary("Create module"),
		forge.WithDescription("Creates a new application module."),
		forge.WithOperationID("createModule"),
		forge.WithRequestSchema(CreateModuleRequest{}),
		forge.WithCreatedResponse(&module.Module{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/modules/:moduleId", a.getModule,
		forge.WithSummary("Get module"),
		forge.WithOperationID("getModule"),
		forge.WithResponseSchema(http.StatusOK, "Module details", &module.Module{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.PUT("/modules/:moduleId", a.updateModule,
		forge.WithSummary("Update module"),
		forge.WithOperationID("updateModule"),
		forge.WithRequestSchema(UpdateModuleRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Updated module", &module.Module{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.DELETE("/modules/:moduleId", a.deleteModule,
		forge.WithSummary("Delete module"),
		forge.WithOperationID("deleteModule"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/modules", a.listModules,
		forge.WithSummary("List modules"),
		forge.WithOperationID("listModules"),
		forge.WithRequestSchema(ListModulesRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Module list", &ListResponse[*module.Module]{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) createModule(ctx forge.Context, req *CreateModuleRequest) (*module.Module, error) {
	if req.Name == "" {
		return nil, forge.BadRequest("name is required")
	}

	now := time.Now()
	m := &module.Module{
		ID:          id.NewModuleID(),
		Name:        req.Name,
		Description: req.Description,
		IsEnabled:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.IsEnabled != nil {
		m.IsEnabled = *req.IsEnabled
	}

	if err := a.eng.Store().CreateModule(ctx.Context(), m); err != nil {
		return nil, mapError(err)
	}

	return m, ctx.JSON(http.StatusCreated, m)
}

func (a *API) getModule(ctx forge.Context, _ *GetModuleRequest) (*module.Module, error) {
	moduleID, err := id.ParseModuleID(ctx.Param("moduleId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid module ID: %v", err))
	}

	m, err := a.eng.Store().GetModule(ctx.Context(), moduleID)
	if err != nil {
		return nil, mapError(err)
	}

	return m, ctx.JSON(http.StatusOK, m)
}

func (a *API) updateModule(ctx forge.Context, req *UpdateModuleRequest) (*module.Module, error) {
	moduleID, err := id.ParseModuleID(ctx.Param("moduleId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid module ID: %v", err))
	}

	m, err := a.eng.Store().GetModule(ctx.Context(), moduleID)
	if err != nil {
		return nil, mapError(err)
	}

	if req.Name != "" {
		m.Name = req.Name
	}
	if req.Description != "" {
		m.Description = req.Description
	}
	if req.IsEnabled != nil {
		m.IsEnabled = *req.IsEnabled
	}
	m.UpdatedAt = time.Now()

	if err := a.eng.Store().UpdateModule(ctx.Context(), m); err != nil {
		return nil, mapError(err)
	}

	return m, ctx.JSON(http.StatusOK, m)
}

func (a *API) deleteModule(ctx forge.Context, _ *GetModuleRequest) (*struct{}, error) {
	moduleID, err := id.ParseModuleID(ctx.Param("moduleId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid module ID: %v", err))
	}

	if err := a.eng.Store().DeleteModule(ctx.Context(), moduleID); err != nil {
		return nil, mapError(err)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) listModules(ctx forge.Context, req *ListModulesRequest) (*ListResponse[*module.Module], error) {
	filter := &module.ListFilter{
		IsEnabled: boolFilter(req.Enabled),
		Search:    req.Search,
		Limit:     defaultLimit(req.Limit),
		Offset:    req.Offset,
	}

	modules, err := a.eng.Store().ListModules(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}
	total, err := a.eng.Store().CountModules(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &ListResponse[*module.Module]{
		Items:  modules,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}
