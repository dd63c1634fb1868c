// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package authz

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"

	"github.com/tomtom215/campus/internal/config"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Objects and actions named by the embedded policy.
const (
	ObjectCatalog        = "catalog"
	ObjectLearning       = "learning"
	ObjectAuthoring      = "authoring"
	ObjectTeacherProfile = "teacher_profile"

	ActionRead  = "read"
	ActionWrite = "write"
)

// Role names carried in token groups.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// EnforcerConfig holds configuration for the Casbin enforcer.
type EnforcerConfig struct {
	// ModelPath is the path to the Casbin model file.
	// If empty, uses embedded model.
	ModelPath string

	// PolicyPath is the path to the Casbin policy file.
	// If empty, uses embedded policy.
	PolicyPath string

	// DefaultRole is assigned to users without explicit roles.
	DefaultRole string
}

// EnforcerConfigFrom maps the security settings onto an EnforcerConfig.
func EnforcerConfigFrom(cfg *config.SecurityConfig) *EnforcerConfig {
	return &EnforcerConfig{
		ModelPath:   cfg.AuthzModelPath,
		PolicyPath:  cfg.AuthzPolicyPath,
		DefaultRole: cfg.DefaultRole,
	}
}

// DefaultEnforcerConfig returns default configuration.
func DefaultEnforcerConfig() *EnforcerConfig {
	return &EnforcerConfig{DefaultRole: RoleStudent}
}

// Enforcer wraps the Casbin enforcer.
type Enforcer struct {
	config   *EnforcerConfig
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer creates a new authorization enforcer.
func NewEnforcer(cfg *EnforcerConfig) (*Enforcer, error) {
	if cfg == nil {
		cfg = DefaultEnforcerConfig()
	}

	var m model.Model
	var err error
	if cfg.ModelPath != "" {
		if !fileExists(cfg.ModelPath) {
			return nil, fmt.Errorf("casbin model %s does not exist", cfg.ModelPath)
		}
		m, err = model.NewModelFromFile(cfg.ModelPath)
	} else {
		m, err = model.NewModelFromString(embeddedModel)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	var enforcer *casbin.SyncedEnforcer
	if cfg.PolicyPath != "" {
		if !fileExists(cfg.PolicyPath) {
			return nil, fmt.Errorf("casbin policy %s does not exist", cfg.PolicyPath)
		}
		enforcer, err = casbin.NewSyncedEnforcer(m, fileadapter.NewAdapter(cfg.PolicyPath))
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
		if err == nil {
			err = loadEmbeddedPolicy(enforcer, embeddedPolicy)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	return &Enforcer{config: cfg, enforcer: enforcer}, nil
}

// loadEmbeddedPolicy parses and loads the embedded policy CSV.
func loadEmbeddedPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		ptype, rule := parts[0], parts[1:]

		switch {
		case ptype == "p" && len(rule) == 3:
			if _, err := enforcer.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
				return fmt.Errorf("failed to add policy %v: %w", rule, err)
			}
		case ptype == "g" && len(rule) == 2:
			if _, err := enforcer.AddGroupingPolicy(rule[0], rule[1]); err != nil {
				return fmt.Errorf("failed to add grouping policy %v: %w", rule, err)
			}
		default:
			return fmt.Errorf("malformed policy line %q", line)
		}
	}
	return nil
}

// Enforce checks if the subject can perform the action on the object.
func (e *Enforcer) Enforce(subject, object, action string) (bool, error) {
	allowed, err := e.enforcer.Enforce(subject, object, action)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}
	return allowed, nil
}

// EnforceWithRoles checks if the subject or any of its roles allow the
// action. A subject without roles is checked under the default role.
func (e *Enforcer) EnforceWithRoles(subject string, roles []string, object, action string) (bool, error) {
	if allowed, err := e.Enforce(subject, object, action); err != nil || allowed {
		return allowed, err
	}

	for _, role := range e.effectiveRoles(roles) {
		if allowed, err := e.Enforce(role, object, action); err != nil || allowed {
			return allowed, err
		}
	}
	return false, nil
}

// HasRole reports whether roles include role, directly or through role
// inheritance.
func (e *Enforcer) HasRole(roles []string, role string) (bool, error) {
	for _, r := range e.effectiveRoles(roles) {
		if r == role {
			return true, nil
		}
		implied, err := e.enforcer.GetImplicitRolesForUser(r)
		if err != nil {
			return false, fmt.Errorf("failed to resolve roles for %s: %w", r, err)
		}
		if slices.Contains(implied, role) {
			return true, nil
		}
	}
	return false, nil
}

func (e *Enforcer) effectiveRoles(roles []string) []string {
	if len(roles) == 0 && e.config.DefaultRole != "" {
		return []string{e.config.DefaultRole}
	}
	return roles
}

// GetPolicy returns all policy rules.
func (e *Enforcer) GetPolicy() [][]string {
	//nolint:errcheck // GetPolicy only fails if enforcer is nil, which is a programming error
	policies, _ := e.enforcer.GetPolicy()
	return policies
}

// GetGroupingPolicy returns all role inheritance rules.
func (e *Enforcer) GetGroupingPolicy() [][]string {
	//nolint:errcheck // GetGroupingPolicy only fails if enforcer is nil, which is a programming error
	policies, _ := e.enforcer.GetGroupingPolicy()
	return policies
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
