package auth_test

import (
	"context"
	"testing"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model/auth"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestSessionContext(t *testing.T) {
	ctx := context.Background()
	gt.Value(t, auth.SessionFromContext(ctx)).Nil()

	s := &auth.Session{UserID: "user-1", Role: types.RoleAdmin}
	ctx = auth.ContextWithSession(ctx, s)

	got := auth.SessionFromContext(ctx)
	gt.Value(t, got).NotNil()
	gt.Value(t, got.UserID).Equal(types.UserID("user-1"))
	gt.B(t, got.IsAdmin()).True()

	var anonymous *auth.Session
	gt.B(t, anonymous.IsAdmin()).False()
}
