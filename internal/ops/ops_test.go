package ops

import (
	"context"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/hpungsan/hmchef/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// fakePicker is a scripted media.Picker.
type fakePicker struct {
	granted   bool
	permErr   error
	ref       string
	cancelled bool
	pickErr   error
	picked    int
}

func (p *fakePicker) RequestPermission(context.Context) (bool, error) {
	return p.granted, p.permErr
}

func (p *fakePicker) Pick(context.Context) (string, bool, error) {
	p.picked++
	if p.pickErr != nil {
		return "", false, p.pickErr
	}
	if p.cancelled {
		return "", false, nil
	}
	return p.ref, true, nil
}

func TestListRecipes_UnboundAccessor(t *testing.T) {
	out, err := ListRecipes(context.Background(), store.Accessor{})
	if err != nil {
		t.Fatalf("ListRecipes() error = %v", err)
	}
	if out.Items == nil {
		t.Fatal("Items should be empty slice, not nil")
	}
	if !out.Empty || out.Message != MsgNoRecipes {
		t.Errorf("Empty = %v, Message = %q; want true, %q", out.Empty, out.Message, MsgNoRecipes)
	}
}
