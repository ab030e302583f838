package ops

import (
	"context"
	"fmt"
	"testing"

	"github.com/hpungsan/hmchef/internal/errors"
	"github.com/hpungsan/hmchef/internal/store"
)

func TestDraftSave_AppendsAndResets(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	d := &Draft{Title: "Tacos", Description: "Spicy"}
	saved, err := d.Save(ctx, s.Accessor())
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.ID != 0 || saved.Title != "Tacos" || saved.Description != "Spicy" || saved.Image != "" {
		t.Errorf("saved = %+v", saved)
	}
	if *d != (Draft{}) {
		t.Errorf("draft not reset: %+v", d)
	}

	all, err := s.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(all) != 1 || all[0].Title != "Tacos" {
		t.Errorf("store = %+v", all)
	}
}

func TestDraftSave_BlankTitle(t *testing.T) {
	s := newTestStore(t)

	d := &Draft{Title: "   ", Description: "kept"}
	_, err := d.Save(context.Background(), s.Accessor())
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Fatalf("Save() error = %v, want INVALID_REQUEST", err)
	}
	if d.Description != "kept" {
		t.Errorf("draft modified on error: %+v", d)
	}
	if n, _ := s.Len(context.Background()); n != 0 {
		t.Errorf("Len() = %d, want 0", n)
	}
}

func TestDraftSave_UnboundAccessorIsNoop(t *testing.T) {
	d := &Draft{Title: "Soup"}
	saved, err := d.Save(context.Background(), store.Accessor{})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.Title != "Soup" {
		t.Errorf("Title = %q, want Soup", saved.Title)
	}
}

func TestPickImage_PermissionDenied(t *testing.T) {
	p := &fakePicker{granted: false, ref: "/media/x.png"}
	d := &Draft{Title: "Pie", Image: "/media/old.png"}

	err := d.PickImage(context.Background(), p)
	if !errors.Is(err, errors.ErrPermissionDenied) {
		t.Fatalf("PickImage() error = %v, want PERMISSION_DENIED", err)
	}
	if err.(*errors.ChefError).Message != MsgPermissionNeeded {
		t.Errorf("Message = %q", err.(*errors.ChefError).Message)
	}
	if p.picked != 0 {
		t.Errorf("Pick called %d times after denial", p.picked)
	}
	if d.Image != "/media/old.png" {
		t.Errorf("Image = %q, want unchanged", d.Image)
	}
}

func TestPickImage_Cancelled(t *testing.T) {
	d := &Draft{Image: "/media/old.png"}
	if err := d.PickImage(context.Background(), &fakePicker{granted: true, cancelled: true}); err != nil {
		t.Fatalf("PickImage() error = %v", err)
	}
	if d.Image != "/media/old.png" {
		t.Errorf("Image = %q, want unchanged", d.Image)
	}
}

func TestPickImage_Selected(t *testing.T) {
	d := &Draft{}
	if err := d.PickImage(context.Background(), &fakePicker{granted: true, ref: "/media/new.png"}); err != nil {
		t.Fatalf("PickImage() error = %v", err)
	}
	if d.Image != "/media/new.png" {
		t.Errorf("Image = %q, want /media/new.png", d.Image)
	}
}

func TestPickImage_Errors(t *testing.T) {
	d := &Draft{}

	err := d.PickImage(context.Background(), &fakePicker{permErr: fmt.Errorf("boom")})
	if !errors.Is(err, errors.ErrInternal) {
		t.Errorf("permission error = %v, want INTERNAL", err)
	}

	err = d.PickImage(context.Background(), &fakePicker{granted: true, pickErr: errors.NewUnsupportedMedia("text/plain")})
	if !errors.Is(err, errors.ErrUnsupportedMedia) {
		t.Errorf("pick error = %v, want UNSUPPORTED_MEDIA", err)
	}
	if d.Image != "" {
		t.Errorf("Image = %q, want empty", d.Image)
	}
}

func TestDraftSave_NormalizesFields(t *testing.T) {
	s := newTestStore(t)

	d := &Draft{Title: "  Mac   and Cheese ", Description: "1. Boil  \r\n2. Stir\r\n"}
	saved, err := d.Save(context.Background(), s.Accessor())
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.Title != "Mac and Cheese" {
		t.Errorf("Title = %q", saved.Title)
	}
	if saved.Description != "1. Boil\n2. Stir" {
		t.Errorf("Description = %q", saved.Description)
	}
}
