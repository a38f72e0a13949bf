package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/estudio/internal/db"
	"github.com/alexanderramin/estudio/internal/domain"
	"github.com/alexanderramin/estudio/internal/repository"
)

type adminService struct {
	users repository.UserRepo
	uow   db.UnitOfWork
}

func NewAdminService(users repository.UserRepo, uow db.UnitOfWork) AdminService {
	return &adminService{users: users, uow: uow}
}

func requireAdmin(actor *domain.User) error {
	if actor == nil || !actor.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

func (s *adminService) ListUsers(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// SetRole changes a user's role. The last admin cannot be demoted.
func (s *adminService) SetRole(ctx context.Context, actor *domain.User, userID string, role domain.Role) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	parsed, err := domain.ParseRole(string(role))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txUsers := repository.NewSQLiteUserRepo(tx)
		if parsed != domain.RoleAdmin {
			if err := ensureOtherAdmin(ctx, txUsers, userID); err != nil {
				return err
			}
		}
		return txUsers.UpdateRole(ctx, userID, parsed)
	})
}

// RemoveUser deletes a user and, by cascade, the user's calendar.
func (s *adminService) RemoveUser(ctx context.Context, actor *domain.User, userID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txUsers := repository.NewSQLiteUserRepo(tx)
		if err := ensureOtherAdmin(ctx, txUsers, userID); err != nil {
			return err
		}
		return txUsers.Delete(ctx, userID)
	})
}

// ensureOtherAdmin fails when userID is the only admin left.
func ensureOtherAdmin(ctx context.Context, users repository.UserRepo, userID string) error {
	target, err := users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !target.IsAdmin() {
		return nil
	}
	all, err := users.List(ctx)
	if err != nil {
		return err
	}
	for _, u := range all {
		if u.ID != userID && u.IsAdmin() {
			return nil
		}
	}
	return ErrLastAdmin
}
