// Package middleware provides HTTP authorization middleware for Aegis.
// Each middleware resolves the caller's permission document through the
// engine's cache-fronted read path and gates the request on a grant.
package middleware

import (
	"encoding/json"

	"github.com/xraph/forge"

	"github.com/fincase/aegis"
	"github.com/fincase/aegis/id"
)

// RequireAlertTypeAction gates a request on an alert-type grant. The
// alert type and org unit are read from the alertTypeId and orgId route
// parameters; the actor is resolved from the request context.
func RequireAlertTypeAction(eng *aegis.Engine, action string) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			actor, ok := resolveActor(ctx)
			if !ok {
				return denyResponse(ctx)
			}

			allowed, err := eng.CanAlertTypeAction(ctx.Context(), actor, ctx.Param("alertTypeId"), ctx.Param("orgId"), action)
			if err != nil || !allowed {
				return denyResponse(ctx)
			}
			return next(ctx)
		}
	}
}

// RequireModuleAction gates a request on a module grant.
func RequireModuleAction(eng *aegis.Engine, moduleName, action string) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			actor, ok := resolveActor(ctx)
			if !ok {
				return denyResponse(ctx)
			}

			allowed, err := eng.CanModuleAction(ctx.Context(), actor, moduleName, action)
			if err != nil || !allowed {
				return denyResponse(ctx)
			}
			return next(ctx)
		}
	}
}

// RequireReportAction gates a request on a report grant.
func RequireReportAction(eng *aegis.Engine, reportName, action string) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			actor, ok := resolveActor(ctx)
			if !ok {
				return denyResponse(ctx)
			}

			allowed, err := eng.CanReportAction(ctx.Context(), actor, reportName, action)
			if err != nil || !allowed {
				return denyResponse(ctx)
			}
			return next(ctx)
		}
	}
}

// resolveActor extracts the acting user from the request context.
// Priority: aegis actor context → Forge user ID (from Authsome).
func resolveActor(ctx forge.Context) (id.UserID, bool) {
	if actor, ok := aegis.ActorFrom(ctx.Context()); ok {
		return actor, true
	}
	if raw := forge.UserIDFromContext(ctx.Context()); raw != "" {
		if userID, err := id.ParseUserID(raw); err == nil {
			return userID, true
		}
	}
	return id.Nil, false
}

func denyResponse(ctx forge.Context) error {
	ctx.SetHeader("Content-Type", "application/json")
	ctx.Response().WriteHeader(403)
	return json.NewEncoder(ctx.Response()).Encode(map[string]string{"error": "access denied"})
}
