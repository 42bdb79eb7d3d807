package commands

import (
	"context"

	"venue-booking/internal/domain/space"
	"venue-booking/internal/engine"
	"venue-booking/internal/pkg/errs"
)

type SpaceCommands interface {
	Update(ctx context.Context, sp space.Space) (space.Space, error)
}

type spaceCommandsImpl struct {
	writer SpaceWriter
	engine *engine.Engine
}

func NewSpaceCommands(writer SpaceWriter, eng *engine.Engine) SpaceCommands {
	return &spaceCommandsImpl{writer: writer, engine: eng}
}

func (c *spaceCommandsImpl) Update(ctx context.Context, sp space.Space) (space.Space, error) {
	if sp.ID == "" {
		return space.Space{}, errs.NewValidation("id")
	}
	if sp.Name == "" {
		return space.Space{}, errs.NewValidation("name")
	}
	if _, ok := c.engine.FindSpace(sp.ID); !ok {
		return space.Space{}, errs.NewNotFound("space " + sp.ID)
	}

	updated, err := c.writer.UpdateSpace(ctx, sp)
	if err != nil {
		return space.Space{}, errs.Wrap(err, "update space")
	}
	c.engine.UpsertSpace(updated)

	c.engine.Refresh(ctx, engine.RefreshOptions{Silent: true})
	return updated, nil
}
