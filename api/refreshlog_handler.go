package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xraph/forge"

	"github.com/fincase/aegis/id"
	"github.com/fincase/aegis/refreshlog"
)

func (a *API) registerRefreshLogRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("refresh-log"))

	if err := g.GET("/refresh-log", a.queryRefreshLog,
		forge.WithSummary("Query refresh log"),
		forge.WithDescription("Queries permission refresh audit entries, newest first."),
		forge.WithOperationID("queryRefreshLog"),
		forge.WithRequestSchema(RefreshLogQueryRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Refresh log entries", &RefreshLogResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/users/:userId/refresh-log", a.userRefreshLog,
		forge.WithSummary("Get user refresh log"),
		forge.WithDescription("Queries refresh audit entries for one user, newest first."),
		forge.WithOperationID("userRefreshLog"),
		forge.WithRequestSchema(RefreshLogQueryRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Refresh log entries", &RefreshLogResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.DELETE("/refresh-log", a.purgeRefreshLog,
		forge.WithSummary("Purge refresh log"),
		forge.WithDescription("Removes refresh audit entries created before the given time."),
		forge.WithOperationID("purgeRefreshLog"),
		forge.WithRequestSchema(PurgeRefreshLogRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Purge outcome", &PurgeResponse{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) queryRefreshLog(ctx forge.Context, req *RefreshLogQueryRequest) (*RefreshLogResponse, error) {
	filter, err := refreshLogFilter(req)
	if err != nil {
		return nil, err
	}
	return a.respondRefreshLog(ctx, filter)
}

func (a *API) userRefreshLog(ctx forge.Context, req *RefreshLogQueryRequest) (*RefreshLogResponse, error) {
	userID, err := id.ParseUserID(ctx.Param("userId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid user ID: %v", err))
	}

	filter, err := refreshLogFilter(req)
	if err != nil {
		return nil, err
	}
	filter.UserID = userID.String()

	return a.respondRefreshLog(ctx, filter)
}

func (a *API) purgeRefreshLog(ctx forge.Context, req *PurgeRefreshLogRequest) (*PurgeResponse, error) {
	if req.Before == "" {
		return nil, forge.BadRequest("before is required")
	}
	before, err := time.Parse(time.RFC3339, req.Before)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid before: %v", err))
	}

	purged, err := a.eng.Store().PurgeRefreshLog(ctx.Context(), before)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &PurgeResponse{Purged: purged}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) respondRefreshLog(ctx forge.Context, filter *refreshlog.QueryFilter) (*RefreshLogResponse, error) {
	entries, err := a.eng.Store().QueryRefreshLog(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}
	total, err := a.eng.Store().CountRefreshLog(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &RefreshLogResponse{
		Entries: entries,
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func refreshLogFilter(req *RefreshLogQueryRequest) (*refreshlog.QueryFilter, error) {
	filter := &refreshlog.QueryFilter{
		UserID: req.UserID,
		Status: req.Status,
		Limit:  defaultLimit(req.Limit),
		Offset: req.Offset,
	}

	if req.After != "" {
		t, err := time.Parse(time.RFC3339, req.After)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid after: %v", err))
		}
		filter.After = &t
	}
	if req.Before != "" {
		t, err := time.Parse(time.RFC3339, req.Before)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid before: %v", err))
		}
		filter.Before = &t
	}

	return filter, nil
}
