package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xraph/forge"

	"github.com/fincase/aegis/id"
	"github.com/fincase/aegis/policy"
)

func (a *API) registerPolicyRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("policies"))

	if err := g.POST("/policies", a.createPolicy,
		forge.WithSummary("Create policy"),
		forge.WithDescription("Creates a new policy."),
		forge.WithOperationID("createPolicy"),
		forge.WithRequestSchema(CreatePolicyRequest{}),
		forge.WithCreatedResponse(&policy.Policy{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/policies/:policyId", a.getPolicy,
		forge.WithSummary("Get policy"),
		forge.WithOperationID("getPolicy"),
		forge.WithResponseSchema(http.StatusOK, "Policy details", &policy.Policy{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.PUT("/policies/:policyId", a.updatePolicy,
		forge.WithSummary("Update policy"),
		forge.WithOperationID("updatePolicy"),
		forge.WithRequestSchema(UpdatePolicyRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Updated policy", &policy.Policy{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.DELETE("/policies/:policyId", a.deletePolicy,
		forge.WithSummary("Delete policy"),
		forge.WithDescription("Deletes a policy along with its mappings and role bindings."),
		forge.WithOperationID("deletePolicy"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/policies", a.listPolicies,
		forge.WithSummary("List policies"),
		forge.WithOperationID("listPolicies"),
		forge.WithRequestSchema(ListPoliciesRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Policy list", &ListResponse[*policy.Policy]{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/policies/:policyId/mappings", a.listPolicyMappings,
		forge.WithSummary("List policy mappings"),
		forge.WithDescription("Returns the entity-action mappings of a policy."),
		forge.WithOperationID("listPolicyMappings"),
		forge.WithResponseSchema(http.StatusOK, "Entity mappings", []*policy.EntityMapping{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/policies/:policyId/mappings", a.addPolicyMapping,
		forge.WithSummary("Add policy mapping"),
		forge.WithDescription("Adds one entity-action mapping to a policy."),
		forge.WithOperationID("addPolicyMapping"),
		forge.WithRequestSchema(AddMappingRequest{}),
		forge.WithCreatedResponse(&policy.EntityMapping{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.PUT("/policies/:policyId/mappings", a.replacePolicyMappings,
		forge.WithSummary("Replace policy mappings"),
		forge.WithDescription("Replaces the complete mapping set of a policy."),
		forge.WithOperationID("replacePolicyMappings"),
		forge.WithRequestSchema(ReplaceMappingsRequest{}),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.DELETE("/policies/:policyId/mappings/:mappingId", a.removePolicyMapping,
		forge.WithSummary("Remove policy mapping"),
		forge.WithOperationID("removePolicyMapping"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	)
}

func (a *API) createPolicy(ctx forge.Context, req *CreatePolicyRequest) (*policy.Policy, error) {
	if req.Name == "" {
		return nil, forge.BadRequest("name is required")
	}

	now := time.Now()
	p := &policy.Policy{
		ID:          id.NewPolicyID(),
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
		Metadata:    req.Metadata,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := a.eng.Store().CreatePolicy(ctx.Context(), p); err != nil {
		return nil, mapError(err)
	}

	if a.eng.Plugins() != nil {
		a.eng.Plugins().EmitPolicyCreated(ctx.Context(), p)
	}

	return p, ctx.JSON(http.StatusCreated, p)
}

func (a *API) getPolicy(ctx forge.Context, _ *GetPolicyRequest) (*policy.Policy, error) {
	policyID, err := id.ParsePolicyID(ctx.Param("policyId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid policy ID: %v", err))
	}

	p, err := a.eng.Store().GetPolicy(ctx.Context(), policyID)
	if err != nil {
		return nil, mapError(err)
	}

	return p, ctx.JSON(http.StatusOK, p)
}

func (a *API) updatePolicy(ctx forge.Context, req *UpdatePolicyRequest) (*policy.Policy, error) {
	policyID, err := id.ParsePolicyID(ctx.Param("policyId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid policy ID: %v", err))
	}

	p, err := a.eng.Store().GetPolicy(ctx.Context(), policyID)
	if err != nil {
		return nil, mapError(err)
	}

	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Description != "" {
		p.Description = req.Description
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if req.Metadata != nil {
		p.Metadata = req.Metadata
	}
	p.UpdatedAt = time.Now()

	if err := a.eng.Store().UpdatePolicy(ctx.Context(), p); err != nil {
		return nil, mapError(err)
	}

	if a.eng.Plugins() != nil {
		a.eng.Plugins().EmitPolicyUpdated(ctx.Context(), p)
	}

	return p, ctx.JSON(http.StatusOK, p)
}

func (a *API) deletePolicy(ctx forge.Context, _ *GetPolicyRequest) (*struct{}, error) {
	policyID, err := id.ParsePolicyID(ctx.Param("policyId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid policy ID: %v", err))
	}

	if err := a.eng.Store().DeletePolicy(ctx.Context(), policyID); err != nil {
		return nil, mapError(err)
	}

	if a.eng.Plugins() != nil {
		a.eng.Plugins().EmitPolicyDeleted(ctx.Context(), policyID)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) listPolicies(ctx forge.Context, req *ListPoliciesRequest) (*ListResponse[*policy.Policy], error) {
	filter := &policy.ListFilter{
		IsActive: boolFilter(req.Active),
		Search:   req.Search,
		Limit:    defaultLimit(req.Limit),
		Offset:   req.Offset,
	}

	policies, err := a.eng.Store().ListPolicies(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}
	total, err := a.eng.Store().CountPolicies(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &ListResponse[*policy.Policy]{
		Items:  policies,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) listPolicyMappings(ctx forge.Context, _ *GetPolicyRequest) ([]*policy.EntityMapping, error) {
	policyID, err := id.ParsePolicyID(ctx.Param("policyId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid policy ID: %v", err))
	}

	mappings, err := a.eng.Store().ListMappingsForPolicy(ctx.Context(), policyID)
	if err != nil {
		return nil, mapError(err)
	}

	return mappings, ctx.JSON(http.StatusOK, mappings)
}

func (a *API) addPolicyMapping(ctx forge.Context, req *AddMappingRequest) (*policy.EntityMapping, error) {
	policyID, err := id.ParsePolicyID(ctx.Param("policyId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid policy ID: %v", err))
	}

	if req.EntityType == "" || req.EntityID == "" || req.Action == "" {
		return nil, forge.BadRequest("entity_type, entity_id and action are required")
	}

	m := &policy.EntityMapping{
		ID:         id.NewMappingID(),
		PolicyID:   policyID,
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		Action:     req.Action,
		Condition:  req.Condition,
		CreatedAt:  time.Now(),
	}

	if err := a.eng.Store().AddMapping(ctx.Context(), m); err != nil {
		return nil, mapError(err)
	}

	return m, ctx.JSON(http.StatusCreated, m)
}

func (a *API) replacePolicyMappings(ctx forge.Context, req *ReplaceMappingsRequest) (*struct{}, error) {
	policyID, err := id.ParsePolicyID(ctx.Param("policyId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid policy ID: %v", err))
	}

	now := time.Now()
	mappings := make([]*policy.EntityMapping, 0, len(req.Mappings))
	for i, in := range req.Mappings {
		if in.EntityType == "" || in.EntityID == "" || in.Action == "" {
			return nil, forge.BadRequest(fmt.Sprintf("mapping %d: entity_type, entity_id and action are required", i))
		}
		mappings = append(mappings, &policy.EntityMapping{
			ID:         id.NewMappingID(),
			PolicyID:   policyID,
			EntityType: in.EntityType,
			EntityID:   in.EntityID,
			Action:     in.Action,
			Condition:  in.Condition,
			CreatedAt:  now,
		})
	}

	if err := a.eng.Store().ReplaceMappings(ctx.Context(), policyID, mappings); err != nil {
		return nil, mapError(err)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) removePolicyMapping(ctx forge.Context, _ *struct{}) (*struct{}, error) {
	if _, err := id.ParsePolicyID(ctx.Param("policyId")); err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid policy ID: %v", err))
	}

	mappingID, err := id.ParseMappingID(ctx.Param("mappingId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid mapping ID: %v", err))
	}

	if err := a.eng.Store().RemoveMapping(ctx.Context(), mappingID); err != nil {
		return nil, mapError(err)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}
