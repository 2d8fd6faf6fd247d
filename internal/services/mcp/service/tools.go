package service

import (
	"fmt"

	"github.com/louisbranch/stakes.space/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type registrationTarget interface {
	AddTool(*mcp.Tool, any) error
	AddResourceTemplate(*mcp.ResourceTemplate, mcp.ResourceHandler)
	AddResource(*mcp.Resource, mcp.ResourceHandler)
}

type registrationModule struct {
	name     string
	register func(registrationTarget) error
}

type toolRegistration struct {
	tool    *mcp.Tool
	handler any
}

func newRegistrationModules(server *Server, client domain.LedgerClient, notify domain.ResourceUpdateNotifier) []registrationModule {
	return []registrationModule{
		{
			name: "goal-tools",
			register: func(registrar registrationTarget) error {
				return registerTools(registrar, []toolRegistration{
					{tool: domain.GoalSetTool(), handler: domain.GoalSetHandler(client, server.getContext, notify)},
					{tool: domain.GoalGetTool(), handler: domain.GoalGetHandler(client)},
					{tool: domain.GoalListTool(), handler: domain.GoalListHandler(client)},
					{tool: domain.ProofPostTool(), handler: domain.ProofPostHandler(client, server.getContext, notify)},
					{tool: domain.VerificationAddTool(), handler: domain.VerificationAddHandler(client, server.getContext, notify)},
					{tool: domain.GoalCloseTool(), handler: domain.GoalCloseHandler(client, server.getContext, notify)},
				})
			},
		},
		{
			name: "participant-tools",
			register: func(registrar registrationTarget) error {
				return registerTools(registrar, []toolRegistration{
					{tool: domain.GoalJoinTool(), handler: domain.GoalJoinHandler(client, server.getContext, notify)},
					{tool: domain.ParticipantAcceptTool(), handler: domain.ParticipantAcceptHandler(client, server.getContext, notify)},
					{tool: domain.ParticipantListTool(), handler: domain.ParticipantListHandler(client)},
				})
			},
		},
		{
			name: "message-tools",
			register: func(registrar registrationTarget) error {
				return registerTools(registrar, []toolRegistration{
					{tool: domain.MessagePostTool(), handler: domain.MessagePostHandler(client, server.getContext, notify)},
					{tool: domain.MessageEvaluateTool(), handler: domain.MessageEvaluateHandler(client, server.getContext, notify)},
					{tool: domain.MessageListTool(), handler: domain.MessageListHandler(client)},
				})
			},
		},
		{
			name: "account-tools",
			register: func(registrar registrationTarget) error {
				return registerTools(registrar, []toolRegistration{
					{tool: domain.SetContextTool(), handler: domain.SetContextHandler(client, server.setContext, server.getContext, notify)},
					{tool: domain.AccountGetTool(), handler: domain.AccountGetHandler(client, server.getContext)},
					{tool: domain.ProfileSetTool(), handler: domain.ProfileSetHandler(client, server.getContext)},
					{tool: domain.SettingsGetTool(), handler: domain.SettingsGetHandler(client)},
				})
			},
		},
		{
			name: "resources",
			register: func(registrar registrationTarget) error {
				registrar.AddResourceTemplate(domain.GoalResourceTemplate(), domain.GoalResourceHandler(client))
				registrar.AddResource(domain.ContextResource(), domain.ContextResourceHandler(server.getContext))
				return nil
			},
		},
	}
}

func registerTools(registrar registrationTarget, registrations []toolRegistration) error {
	for _, registration := range registrations {
		if err := registerTool(registrar, registration.tool, registration.handler); err != nil {
			return err
		}
	}
	return nil
}

func registerTool(registrar registrationTarget, tool *mcp.Tool, handler any) error {
	if err := registrar.AddTool(tool, handler); err != nil {
		name := "<nil>"
		if tool != nil {
			name = tool.Name
		}
		return fmt.Errorf("register tool %q: %w", name, err)
	}
	return nil
}

// registrationAdapter forwards registrations to an MCP server, resolving the
// typed tool handler through the known registrars.
type registrationAdapter struct {
	server *mcp.Server
}

func (r registrationAdapter) AddTool(tool *mcp.Tool, handler any) error {
	for _, registrar := range toolRegistrars {
		if registrar.matches(handler) {
			registrar.add(r.server, tool, handler)
			return nil
		}
	}
	return fmt.Errorf("mcp registration adapter does not support handler type %T", handler)
}

func (r registrationAdapter) AddResourceTemplate(template *mcp.ResourceTemplate, handler mcp.ResourceHandler) {
	r.server.AddResourceTemplate(template, handler)
}

func (r registrationAdapter) AddResource(resource *mcp.Resource, handler mcp.ResourceHandler) {
	r.server.AddResource(resource, handler)
}

type toolRegistrar struct {
	matches func(any) bool
	add     func(*mcp.Server, *mcp.Tool, any)
}

func newToolRegistrar[I any, O any]() toolRegistrar {
	return toolRegistrar{
		matches: func(handler any) bool {
			_, ok := handler.(mcp.ToolHandlerFor[I, O])
			return ok
		},
		add: func(server *mcp.Server, tool *mcp.Tool, handler any) {
			mcp.AddTool(server, tool, handler.(mcp.ToolHandlerFor[I, O]))
		},
	}
}

var toolRegistrars = []toolRegistrar{
	newToolRegistrar[domain.GoalSetInput, domain.GoalSetResult](),
	newToolRegistrar[domain.GoalGetInput, domain.GoalResult](),
	newToolRegistrar[domain.GoalListInput, domain.GoalListResult](),
	newToolRegistrar[domain.ProofPostInput, domain.ProofPostResult](),
	newToolRegistrar[domain.VerificationAddInput, domain.VerificationAddResult](),
	newToolRegistrar[domain.GoalCloseInput, domain.SettlementResult](),
	newToolRegistrar[domain.GoalJoinInput, domain.GoalJoinResult](),
	newToolRegistrar[domain.ParticipantAcceptInput, domain.GoalJoinResult](),
	newToolRegistrar[domain.ParticipantListInput, domain.ParticipantListResult](),
	newToolRegistrar[domain.MessagePostInput, domain.MessagePostResult](),
	newToolRegistrar[domain.MessageEvaluateInput, domain.MessageEvaluateResult](),
	newToolRegistrar[domain.MessageListInput, domain.MessageListResult](),
	newToolRegistrar[domain.SetContextInput, domain.SetContextResult](),
	newToolRegistrar[domain.AccountGetInput, domain.AccountResult](),
	newToolRegistrar[domain.ProfileSetInput, domain.ProfileSetResult](),
	newToolRegistrar[domain.SettingsGetInput, domain.SettingsResult](),
}
