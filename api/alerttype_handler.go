package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xraph/forge"

	"github.com/fincase/aegis/alerttype"
	"github.com/fincase/aegis/id"
)

func (a *API) registerAlertTypeRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("alert-types"))

	if err := g.POST("/alert-types", a.createAlertType,
		forge.WithSummary("Create alert type"),
		forge.WithDescription("Creates a new alert type."),
		forge.WithOperationID("createAlertType"),
		forge.WithRequestSchema(CreateAlertTypeRequest{}),
		forge.WithCreatedResponse(&alerttype.AlertType{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/alert-types/:alertTypeId", a.getAlertType,
		forge.WithSummary("Get alert type"),
		forge.WithOperationID("getAlertType"),
		forge.WithResponseSchema(http.StatusOK, "Alert type details", &alerttype.AlertType{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/alert-types/by-key/:alertTypeKey", a.getAlertTypeByKey,
		forge.WithSummary("Get alert type by key"),
		forge.WithOperationID("getAlertTypeByKey"),
		forge.WithResponseSchema(http.StatusOK, "Alert type details", &alerttype.AlertType{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.PUT("/alert-types/:alertTypeId", a.updateAlertType,
		forge.WithSummary("Update alert type"),
		forge.WithOperationID("updateAlertType"),
		forge.WithRequestSchema(UpdateAlertTypeRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Updated alert type", &alerttype.AlertType{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.DELETE("/alert-types/:alertTypeId", a.deleteAlertType,
		forge.WithSummary("Delete alert type"),
		forge.WithOperationID("deleteAlertType"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/alert-types", a.listAlertTypes,
		forge.WithSummary("List alert types"),
		forge.WithOperationID("listAlertTypes"),
		forge.WithRequestSchema(ListAlertTypesRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Alert type list", []*alerttype.AlertType{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) createAlertType(ctx forge.Context, req *CreateAlertTypeRequest) (*alerttype.AlertType, error) {
	if req.Key == "" {
		return nil, forge.BadRequest("key is required")
	}
	if req.Name == "" {
		return nil, forge.BadRequest("name is required")
	}

	now := time.Now()
	at := &alerttype.AlertType{
		ID:        id.NewAlertTypeID(),
		Key:       req.Key,
		Name:      req.Name,
		Category:  req.Category,
		IsEnabled: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.IsEnabled != nil {
		at.IsEnabled = *req.IsEnabled
	}

	if err := a.eng.Documents().CreateAlertType(ctx.Context(), at); err != nil {
		return nil, mapError(err)
	}

	return at, ctx.JSON(http.StatusCreated, at)
}

func (a *API) getAlertType(ctx forge.Context, _ *GetAlertTypeRequest) (*alerttype.AlertType, error) {
	alertTypeID, err := id.ParseAlertTypeID(ctx.Param("alertTypeId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid alert type ID: %v", err))
	}

	at, err := a.eng.Documents().GetAlertType(ctx.Context(), alertTypeID)
	if err != nil {
		return nil, mapError(err)
	}

	return at, ctx.JSON(http.StatusOK, at)
}

func (a *API) getAlertTypeByKey(ctx forge.Context, _ *struct{}) (*alerttype.AlertType, error) {
	key := ctx.Param("alertTypeKey")
	if key == "" {
		return nil, forge.BadRequest("alert type key is required")
	}

	at, err := a.eng.Documents().GetAlertTypeByKey(ctx.Context(), key)
	if err != nil {
		return nil, mapError(err)
	}

	return at, ctx.JSON(http.StatusOK, at)
}

func (a *API) updateAlertType(ctx forge.Context, req *UpdateAlertTypeRequest) (*alerttype.AlertType, error) {
	alertTypeID, err := id.ParseAlertTypeID(ctx.Param("alertTypeId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid alert type ID: %v", err))
	}

	at, err := a.eng.Documents().GetAlertType(ctx.Context(), alertTypeID)
	if err != nil {
		return nil, mapError(err)
	}

	if req.Name != "" {
		at.Name = req.Name
	}
	if req.Category != "" {
		at.Category = req.Category
	}
	if req.IsEnabled != nil {
		at.IsEnabled = *req.IsEnabled
	}
	at.UpdatedAt = time.Now()

	if err := a.eng.Documents().UpdateAlertType(ctx.Context(), at); err != nil {
		return nil, mapError(err)
	}

	return at, ctx.JSON(http.StatusOK, at)
}

func (a *API) deleteAlertType(ctx forge.Context, _ *GetAlertTypeRequest) (*struct{}, error) {
	alertTypeID, err := id.ParseAlertTypeID(ctx.Param("alertTypeId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid alert type ID: %v", err))
	}

	if err := a.eng.Documents().DeleteAlertType(ctx.Context(), alertTypeID); err != nil {
		return nil, mapError(err)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) listAlertTypes(ctx forge.Context, req *ListAlertTypesRequest) ([]*alerttype.AlertType, error) {
	filter := &alerttype.ListFilter{
		Category:  req.Category,
		IsEnabled: boolFilter(req.Enabled),
		Search:    req.Search,
		Limit:     defaultLimit(req.Limit),
		Offset:    req.Offset,
	}

	types, err := a.eng.Documents().ListAlertTypes(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}

	return types, ctx.JSON(http.StatusOK, types)
}
