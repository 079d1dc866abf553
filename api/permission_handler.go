package api

import (
	"fmt"
	"net/http"

	"github.com/xraph/forge"

	"github.com/fincase/aegis/id"
	"github.com/fincase/aegis/userperm"
)

func (a *API) registerPermissionRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("permissions"))

	if err := g.POST("/users/:userId/permissions/refresh", a.refreshPermissions,
		forge.WithSummary("Refresh permission document"),
		forge.WithDescription("Recomputes and persists the user's aggregated permission document."),
		forge.WithOperationID("refreshPermissions"),
		forge.WithResponseSchema(http.StatusOK, "Refresh outcome", &RefreshResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/users/:userId/permissions", a.getPermissions,
		forge.WithSummary("Get permission document"),
		forge.WithDescription("Returns the user's persisted permission document."),
		forge.WithOperationID("getPermissions"),
		forge.WithResponseSchema(http.StatusOK, "Permission document", &userperm.Document{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/users/:userId/permissions/preview", a.previewPermissions,
		forge.WithSummary("Preview permission document"),
		forge.WithDescription("Aggregates the user's permission document without persisting it."),
		forge.WithOperationID("previewPermissions"),
		forge.WithResponseSchema(http.StatusOK, "Aggregated permission document", &userperm.Document{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/users/:userId/org-ids", a.getOrgIDs,
		forge.WithSummary("Get distinct org IDs"),
		forge.WithDescription("Returns the ids of all org units the user holds any role in."),
		forge.WithOperationID("getOrgIDs"),
		forge.WithResponseSchema(http.StatusOK, "Distinct org unit IDs", &OrgIDsResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/users/:userId/org-keys", a.getOrgKeys,
		forge.WithSummary("Get distinct org keys"),
		forge.WithDescription("Returns the keys of all org units the user holds any role in."),
		forge.WithOperationID("getOrgKeys"),
		forge.WithResponseSchema(http.StatusOK, "Distinct org unit keys", &OrgKeysResponse{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) refreshPermissions(ctx forge.Context, _ *UserPathRequest) (*RefreshResponse, error) {
	userID, err := id.ParseUserID(ctx.Param("userId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid user ID: %v", err))
	}

	if err := a.eng.Refresh(ctx.Context(), userID); err != nil {
		return nil, mapError(err)
	}

	doc, err := a.eng.GetDocument(ctx.Context(), userID)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &RefreshResponse{
		UserID:     userID.String(),
		Refreshed:  true,
		GrantCount: doc.Permission.GrantCount(),
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) getPermissions(ctx forge.Context, _ *UserPathRequest) (*userperm.Document, error) {
	userID, err := id.ParseUserID(ctx.Param("userId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid user ID: %v", err))
	}

	doc, err := a.eng.GetDocument(ctx.Context(), userID)
	if err != nil {
		return nil, mapError(err)
	}

	return doc, ctx.JSON(http.StatusOK, doc)
}

func (a *API) previewPermissions(ctx forge.Context, _ *UserPathRequest) (*userperm.Document, error) {
	userID, err := id.ParseUserID(ctx.Param("userId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid user ID: %v", err))
	}

	doc, err := a.eng.Generate(ctx.Context(), userID)
	if err != nil {
		return nil, mapError(err)
	}

	return doc, ctx.JSON(http.StatusOK, doc)
}

func (a *API) getOrgIDs(ctx forge.Context, _ *UserPathRequest) (*OrgIDsResponse, error) {
	userID, err := id.ParseUserID(ctx.Param("userId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid user ID: %v", err))
	}

	ids, err := a.eng.GetDistinctOrgIDs(ctx.Context(), userID)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &OrgIDsResponse{UserID: userID.String(), OrgIDs: ids}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) getOrgKeys(ctx forge.Context, _ *UserPathRequest) (*OrgKeysResponse, error) {
	userID, err := id.ParseUserID(ctx.Param("userId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid user ID: %v", err))
	}

	keys, err := a.eng.GetDistinctOrgKeys(ctx.Context(), userID)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &OrgKeysResponse{UserID: userID.String(), OrgKeys: keys}
	return resp, ctx.JSON(http.StatusOK, resp)
}
