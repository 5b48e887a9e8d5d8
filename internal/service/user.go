package service

import (
	"log/slog"

	"github.com/kazi-s/usermgmt/internal/model"
	"github.com/kazi-s/usermgmt/internal/repository"
)

type UserService struct {
	userRepository repository.UserRepository
}

func NewUserService(userRepository repository.UserRepository) *UserService {
	return &UserService{userRepository: userRepository}
}

func (s *UserService) ByID(id string) (*model.User, error) {
	return s.userRepository.ByID(id)
}

func (s *UserService) List() ([]model.User, error) {
	return s.userRepository.List()
}

// Block is unconditional and idempotent; ids with no matching account
// are silently skipped.
func (s *UserService) Block(ids []string) (int64, error) {
	count, err := s.userRepository.Block(ids)
	if err != nil {
		return 0, err
	}
	slog.Info("users blocked", "count", count)
	return count, nil
}

// Unblock restores matched blocked accounts to active, or unverified
// when email confirmation is still pending so a block/unblock cycle
// never grants access to an unconfirmed account. The count is the
// number of matched ids (see DESIGN.md).
func (s *UserService) Unblock(ids []string) (int64, error) {
	count, err := s.userRepository.Unblock(ids)
	if err != nil {
		return 0, err
	}
	slog.Info("users unblocked", "count", count)
	return count, nil
}

// Delete permanently removes matched accounts. No soft delete, no recovery.
func (s *UserService) Delete(ids []string) (int64, error) {
	count, err := s.userRepository.Delete(ids)
	if err != nil {
		return 0, err
	}
	slog.Info("users deleted", "count", count)
	return count, nil
}

func (s *UserService) DeleteUnverified() (int64, error) {
	count, err := s.userRepository.DeleteUnverified()
	if err != nil {
		return 0, err
	}
	slog.Info("unverified users deleted", "count", count)
	return count, nil
}
