package usecase

import (
	"context"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model/auth"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

func requireSession(ctx context.Context) (*auth.Session, error) {
	sess := auth.SessionFromContext(ctx)
	if sess == nil || sess.UserID == "" {
		return nil, goerr.Wrap(ErrUnauthorized, "no session in context")
	}
	return sess, nil
}

func requireAdmin(ctx context.Context) (*auth.Session, error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if !sess.IsAdmin() {
		return nil, goerr.Wrap(ErrForbidden, "admin role required", goerr.V(UserIDKey, sess.UserID))
	}
	return sess, nil
}

// requirePublisher allows companies and admins
func requirePublisher(ctx context.Context) (*auth.Session, error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if sess.Role != types.RoleCompany && sess.Role != types.RoleAdmin {
		return nil, goerr.Wrap(ErrForbidden, "company or admin role required", goerr.V(UserIDKey, sess.UserID))
	}
	return sess, nil
}

// requireOwner allows admins and the company that published o
func requireOwner(sess *auth.Session, o *model.Opportunity) error {
	if sess.IsAdmin() || o.CompanyID == sess.UserID {
		return nil
	}
	return goerr.Wrap(ErrForbidden, "not the owner of the opportunity",
		goerr.V(UserIDKey, sess.UserID), goerr.V(OpportunityIDKey, o.ID))
}
