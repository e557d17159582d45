package workflow

import (
	"context"
	"strings"

	"loandesk-cli/internal/model"
)

// PermissionSource is the authoritative provider of actor permissions,
// normally the remote API.
type PermissionSource interface {
	GetUserPermissions(ctx context.Context, actorName string) (*model.Permissions, error)
}

// ResolveActorContext builds the effective actor for one modal open.
//
// Two-tier resolution: the server permissions endpoint is authoritative;
// when it fails or returns nothing, fall back to the locally cached role and
// the static role → level table. The result is advisory UX state either way;
// the server enforces authorization on every mutation.
func ResolveActorContext(ctx context.Context, src PermissionSource, name, cachedRole string, cachedLevel int) model.ActorContext {
	if src != nil && strings.TrimSpace(name) != "" {
		if perms, err := src.GetUserPermissions(ctx, name); err == nil && perms != nil && strings.TrimSpace(perms.Role) != "" {
			level := perms.Level
			if perms.IsAdmin {
				level = model.AdminLevel
			}
			if level == 0 {
				level = model.LevelForRole(perms.Role)
			}
			return model.ActorContext{
				Name:            name,
				Role:            perms.Role,
				Level:           level,
				AllowedStages:   perms.AllowedStages,
				AllowedStatuses: perms.AllowedStatuses,
				Source:          model.ContextServer,
			}
		}
	}

	level := cachedLevel
	if level == 0 {
		level = model.LevelForRole(cachedRole)
	}
	return model.ActorContext{
		Name:   name,
		Role:   strings.TrimSpace(cachedRole),
		Level:  level,
		Source: model.ContextCached,
	}
}
