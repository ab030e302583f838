package ops

import (
	"context"

	"github.com/hpungsan/hmchef/internal/errors"
	"github.com/hpungsan/hmchef/internal/media"
	"github.com/hpungsan/hmchef/internal/recipe"
	"github.com/hpungsan/hmchef/internal/store"
)

// Draft holds the in-progress fields of the recipe creation form.
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}

// PickImage asks the picker for media library access and an image.
// If access is denied it returns a PERMISSION_DENIED error and leaves the
// draft untouched. A cancelled pick also leaves the draft untouched.
func (d *Draft) PickImage(ctx context.Context, p media.Picker) error {
	granted, err := p.RequestPermission(ctx)
	if err != nil {
		return errors.NewInternal(err)
	}
	if !granted {
		return errors.NewPermissionDenied(MsgPermissionNeeded)
	}

	ref, ok, err := p.Pick(ctx)
	if err != nil {
		if _, isChef := err.(*errors.ChefError); isChef {
			return err
		}
		return errors.NewInternal(err)
	}
	if !ok {
		return nil
	}
	d.Image = ref
	return nil
}

// Reset clears every field.
func (d *Draft) Reset() {
	*d = Draft{}
}

// Save appends the draft to the store and resets it. The title must not be
// blank; on error the draft is kept so the user can fix it.
func (d *Draft) Save(ctx context.Context, acc store.Accessor) (*recipe.Recipe, error) {
	title := recipe.CollapseSpace(d.Title)
	if title == "" {
		return nil, errors.NewInvalidRequest("title is required")
	}

	stored, err := acc.Append(ctx, recipe.Recipe{
		Title:       title,
		Description: recipe.NormalizeText(d.Description),
		Image:       d.Image,
	})
	if err != nil {
		return nil, err
	}

	d.Reset()
	return &stored, nil
}
