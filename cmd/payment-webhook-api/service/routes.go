// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/port"
	internalService "github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/errors"
)

// Route actions
const (
	ActionForward = "forward"
	ActionLog     = "log"
)

// Route maps a provider event name or an event kind to an action
type Route struct {
	// Provider restricts the route to one provider; empty matches all
	Provider string `yaml:"provider,omitempty"`
	// Event is a provider event name (payment_intent.succeeded) or an event kind (payment_succeeded)
	Event  string `yaml:"event"`
	Action string `yaml:"action"`
}

// RoutesConfig is the routing table file
//
//	routes:
//	  - event: payment_succeeded
//	    action: forward
//	  - provider: stripe
//	    event: customer.subscription.trial_will_end
//	    action: log
//	default: log
type RoutesConfig struct {
	Routes  []Route `yaml:"routes"`
	Default string  `yaml:"default,omitempty"`
}

// DefaultRoutes forwards every known event kind and ignores the rest
func DefaultRoutes() RoutesConfig {
	kinds := model.KnownEventKinds()
	routes := make([]Route, 0, len(kinds))
	for _, kind := range kinds {
		routes = append(routes, Route{Event: string(kind), Action: ActionForward})
	}
	return RoutesConfig{Routes: routes}
}

// LoadRoutes reads the routing table at path; an empty path yields DefaultRoutes
func LoadRoutes(path string) (RoutesConfig, error) {
	if path == "" {
		return DefaultRoutes(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return RoutesConfig{}, errors.NewValidation(fmt.Sprintf("failed to read routes file %s", path), err)
	}

	return ParseRoutes(data)
}

// ParseRoutes decodes and validates a YAML routing table
func ParseRoutes(data []byte) (RoutesConfig, error) {
	var config RoutesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return RoutesConfig{}, errors.NewValidation("invalid routes file", err)
	}

	for i, route := range config.Routes {
		if route.Event == "" {
			return RoutesConfig{}, errors.NewValidation(fmt.Sprintf("route %d: event is required", i))
		}
		if !validAction(route.Action) {
			return RoutesConfig{}, errors.NewValidation(fmt.Sprintf("route %d: unsupported action %q", i, route.Action))
		}
		if route.Provider != "" {
			if _, ok := model.ParseProvider(route.Provider); !ok {
				return RoutesConfig{}, errors.NewValidation(fmt.Sprintf("route %d: unknown provider %q", i, route.Provider))
			}
		}
	}

	if config.Default != "" && !validAction(config.Default) {
		return RoutesConfig{}, errors.NewValidation(fmt.Sprintf("unsupported default action %q", config.Default))
	}

	return config, nil
}

// Registry builds the dispatch registry, binding actions to handlers
func (c RoutesConfig) Registry(forward, logOnly port.WebhookHandler) *internalService.WebhookRegistry {
	handlers := map[string]port.WebhookHandler{
		ActionForward: forward,
		ActionLog:     logOnly,
	}

	builder := internalService.NewWebhookRegistryBuilder()
	for _, route := range c.Routes {
		handler := handlers[route.Action]
		if provider, ok := model.ParseProvider(route.Provider); ok {
			builder.OnProvider(provider, route.Event, handler)
			continue
		}
		builder.On(route.Event, handler)
	}
	if c.Default != "" {
		builder.Default(handlers[c.Default])
	}

	registry := builder.Build()
	slog.Info("webhook routes loaded",
		"routes", registry.Len(),
		"default", c.Default,
	)
	return registry
}

func validAction(action string) bool {
	return action == ActionForward || action == ActionLog
}
