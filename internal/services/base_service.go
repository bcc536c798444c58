package services

import (
	"context"

	"hvac-service/internal/entities"
	"hvac-service/pkg/constants"
	apperrors "hvac-service/pkg/errors"
	"hvac-service/pkg/eventbus"
	"hvac-service/pkg/utils"

	"github.com/google/uuid"
)

// EventPublisher is the part of *eventbus.Bus the services depend on.
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event)
}

func newID() string {
	return uuid.NewString()
}

func currentActor(ctx context.Context) (utils.Actor, error) {
	actor, err := utils.ActorFromContext(ctx)
	if err != nil {
		return utils.Actor{}, apperrors.ErrUnauthorized
	}
	return actor, nil
}

func requireRole(ctx context.Context, roles ...constants.Role) (utils.Actor, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return actor, err
	}
	for _, r := range roles {
		if actor.Role == r {
			return actor, nil
		}
	}
	return actor, apperrors.ErrForbidden
}

// canViewWorkOrder applies the visibility rules used by List to a single
// work order: clients see their own site, technicians see work they are
// assigned to.
func canViewWorkOrder(actor utils.Actor, wo *entities.WorkOrder, technicianIDs []string) bool {
	switch actor.Role {
	case constants.RoleAdmin:
		return true
	case constants.RoleClient:
		return actor.SiteID != "" && actor.SiteID == wo.SiteID
	case constants.RoleTechnician:
		for _, id := range technicianIDs {
			if id == actor.UserID {
				return true
			}
		}
	}
	return false
}

func strPtr(s string) *string {
	return &s
}

func nullableString(valid bool, v string) *string {
	if !valid {
		return nil
	}
	return &v
}
