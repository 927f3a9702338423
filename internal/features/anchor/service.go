package anchor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	common_models "anchor-sync/internal/common/models"
	"anchor-sync/internal/config"
	"anchor-sync/internal/middleware"
)

var (
	ErrInvalidInput   = errors.New("invalid anchor input")
	ErrDuplicateID    = errors.New("anchor id already exists")
	ErrPasswordInUse  = errors.New("password already in use")
	ErrPasswordIsRoot = errors.New("password must differ from the system access password")
)

type AnchorService interface {
	Get(ctx context.Context, anchorID string) (*Anchor, error)
	List(ctx context.Context, filter Filter, page common_models.PageQuery) ([]Anchor, int64, error)
	Names(ctx context.Context, filter Filter) ([]string, error)
	Directory(ctx context.Context, filter Filter) ([]Anchor, error)
	Stats(ctx context.Context) (map[Status]int64, error)
	Create(ctx context.Context, input Input) (*Anchor, error)
	Update(ctx context.Context, anchorID string, input Input) (*Anchor, error)
	Delete(ctx context.Context, anchorID string) error
	CheckPassword(ctx context.Context, password, excludeAnchorID string) error
	ResolvePassword(ctx context.Context, password string) (*middleware.Principal, error)
}

type AnchorServiceImpl struct {
	repo          AnchorRepository
	adminPassword string
}

func NewAnchorService(repo AnchorRepository, cfg *config.Config) AnchorService {
	return &AnchorServiceImpl{
		repo:          repo,
		adminPassword: cfg.Password,
	}
}

func (s *AnchorServiceImpl) Get(ctx context.Context, anchorID string) (*Anchor, error) {
	return s.repo.GetByAnchorID(ctx, anchorID)
}

func (s *AnchorServiceImpl) List(ctx context.Context, filter Filter, page common_models.PageQuery) ([]Anchor, int64, error) {
	return s.repo.List(ctx, filter, page)
}

func (s *AnchorServiceImpl) Names(ctx context.Context, filter Filter) ([]string, error) {
	return s.repo.ListNames(ctx, filter)
}

func (s *AnchorServiceImpl) Directory(ctx context.Context, filter Filter) ([]Anchor, error) {
	return s.repo.ListAll(ctx, filter)
}

func (s *AnchorServiceImpl) Stats(ctx context.Context) (map[Status]int64, error) {
	return s.repo.CountByStatus(ctx)
}

func (s *AnchorServiceImpl) Create(ctx context.Context, input Input) (*Anchor, error) {
	input = trimInput(input)
	if input.AnchorID == "" || input.AnchorName == "" {
		return nil, fmt.Errorf("%w: anchor_id and anchor_name are required", ErrInvalidInput)
	}
	if input.Status == "" {
		input.Status = StatusActive
	}
	if !input.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, input.Status)
	}

	if _, err := s.repo.GetByAnchorID(ctx, input.AnchorID); err == nil {
		return nil, ErrDuplicateID
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if input.Password != "" {
		if err := s.CheckPassword(ctx, input.Password, ""); err != nil {
			return nil, err
		}
	}

	a := &Anchor{
		AnchorID:     input.AnchorID,
		AnchorName:   input.AnchorName,
		AnchorCookie: input.AnchorCookie,
		Password:     input.Password,
		Status:       input.Status,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AnchorServiceImpl) Update(ctx context.Context, anchorID string, input Input) (*Anchor, error) {
	existing, err := s.repo.GetByAnchorID(ctx, anchorID)
	if err != nil {
		return nil, err
	}

	input = trimInput(input)
	if input.AnchorID != "" && input.AnchorID != anchorID {
		if _, err := s.repo.GetByAnchorID(ctx, input.AnchorID); err == nil {
			return nil, ErrDuplicateID
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		existing.AnchorID = input.AnchorID
	}
	if input.AnchorName != "" {
		existing.AnchorName = input.AnchorName
	}
	if input.AnchorCookie != "" {
		existing.AnchorCookie = input.AnchorCookie
	}
	if input.Status != "" {
		if !input.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, input.Status)
		}
		existing.Status = input.Status
	}
	if input.Password != "" {
		if err := s.CheckPassword(ctx, input.Password, anchorID); err != nil {
			return nil, err
		}
		existing.Password = input.Password
	}

	if err := s.repo.Update(ctx, anchorID, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *AnchorServiceImpl) Delete(ctx context.Context, anchorID string) error {
	return s.repo.Delete(ctx, anchorID)
}

// CheckPassword rejects the admin password and passwords owned by another anchor.
func (s *AnchorServiceImpl) CheckPassword(ctx context.Context, password, excludeAnchorID string) error {
	if password == "" {
		return fmt.Errorf("%w: password is empty", ErrInvalidInput)
	}
	if password == s.adminPassword {
		return ErrPasswordIsRoot
	}
	owner, err := s.repo.FindByPassword(ctx, password, excludeAnchorID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%w by anchor %q", ErrPasswordInUse, owner.AnchorName)
}

func (s *AnchorServiceImpl) ResolvePassword(ctx context.Context, password string) (*middleware.Principal, error) {
	a, err := s.repo.FindActiveByPassword(ctx, password)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &middleware.Principal{
		UserType:   middleware.UserTypeAnchor,
		AnchorDBID: a.ID,
		AnchorID:   a.AnchorID,
		AnchorName: a.AnchorName,
	}, nil
}

func trimInput(in Input) Input {
	in.AnchorID = strings.TrimSpace(in.AnchorID)
	in.AnchorName = strings.TrimSpace(in.AnchorName)
	in.AnchorCookie = strings.TrimSpace(in.AnchorCookie)
	in.Password = strings.TrimSpace(in.Password)
	return in
}
