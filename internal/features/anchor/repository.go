package anchor

import (
	"context"
	"errors"
	"time"

	common_models "anchor-sync/internal/common/models"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("anchor not found")

type AnchorRepository interface {
	GetByAnchorID(ctx context.Context, anchorID string) (*Anchor, error)
	ListActive(ctx context.Context) ([]Anchor, error)
	ListNames(ctx context.Context, filter Filter) ([]string, error)
	ListAll(ctx context.Context, filter Filter) ([]Anchor, error)
	MarkInvalid(ctx context.Context, anchorID string) error
	List(ctx context.Context, filter Filter, page common_models.PageQuery) ([]Anchor, int64, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
	Create(ctx context.Context, a *Anchor) error
	Update(ctx context.Context, anchorID string, a *Anchor) error
	Delete(ctx context.Context, anchorID string) error
	FindActiveByPassword(ctx context.Context, password string) (*Anchor, error)
	// FindByPassword returns the anchor using password, ignoring excludeAnchorID.
	FindByPassword(ctx context.Context, password, excludeAnchorID string) (*Anchor, error)
}

type AnchorRepositoryImpl struct {
	db *gorm.DB
}

func NewAnchorRepository(db *gorm.DB) AnchorRepository {
	return &AnchorRepositoryImpl{db: db}
}

var AnchorSortFields = []string{"id", "anchor_name", "anchor_id", "status", "created_at", "updated_at"}

func (r *AnchorRepositoryImpl) first(query *gorm.DB) (*Anchor, error) {
	var a Anchor
	err := query.First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AnchorRepositoryImpl) filtered(ctx context.Context, filter Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&Anchor{})
	if filter.AnchorID != "" {
		query = query.Where("anchor_id = ?", filter.AnchorID)
	}
	if filter.AnchorName != "" {
		query = query.Where("anchor_name LIKE ?", "%"+filter.AnchorName+"%")
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	return query
}

func (r *AnchorRepositoryImpl) GetByAnchorID(ctx context.Context, anchorID string) (*Anchor, error) {
	return r.first(r.db.WithContext(ctx).Where("anchor_id = ?", anchorID))
}

func (r *AnchorRepositoryImpl) ListActive(ctx context.Context) ([]Anchor, error) {
	anchors := []Anchor{}
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusActive).
		Order("id").
		Find(&anchors).Error
	return anchors, err
}

// ListNames returns the display names matching filter, sorted by name.
func (r *AnchorRepositoryImpl) ListNames(ctx context.Context, filter Filter) ([]string, error) {
	names := []string{}
	err := r.filtered(ctx, filter).Order("anchor_name").Pluck("anchor_name", &names).Error
	return names, err
}

// ListAll returns every matching anchor without its cookie or password.
func (r *AnchorRepositoryImpl) ListAll(ctx context.Context, filter Filter) ([]Anchor, error) {
	anchors := []Anchor{}
	err := r.filtered(ctx, filter).
		Select("id", "anchor_id", "anchor_name", "status", "total_orders", "total_amount", "created_at", "updated_at").
		Order("anchor_name").
		Find(&anchors).Error
	return anchors, err
}

func (r *AnchorRepositoryImpl) MarkInvalid(ctx context.Context, anchorID string) error {
	return r.db.WithContext(ctx).
		Model(&Anchor{}).
		Where("anchor_id = ?", anchorID).
		Updates(map[string]any{
			"status":     StatusInvalid,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *AnchorRepositoryImpl) List(ctx context.Context, filter Filter, page common_models.PageQuery) ([]Anchor, int64, error) {
	page = page.Normalize(AnchorSortFields)

	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	anchors := []Anchor{}
	err := r.filtered(ctx, filter).
		Order(page.OrderBy()).
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&anchors).Error
	if err != nil {
		return nil, 0, err
	}
	return anchors, total, nil
}

func (r *AnchorRepositoryImpl) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	var rows []struct {
		Status Status
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&Anchor{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[Status]int64{
		StatusActive:   0,
		StatusInvalid:  0,
		StatusDisabled: 0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *AnchorRepositoryImpl) Create(ctx context.Context, a *Anchor) error {
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.Status == "" {
		a.Status = StatusActive
	}
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AnchorRepositoryImpl) Update(ctx context.Context, anchorID string, a *Anchor) error {
	a.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&Anchor{}).
		Where("anchor_id = ?", anchorID).
		Updates(map[string]any{
			"anchor_id":     a.AnchorID,
			"anchor_name":   a.AnchorName,
			"anchor_cookie": a.AnchorCookie,
			"password":      a.Password,
			"status":        a.Status,
			"updated_at":    a.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AnchorRepositoryImpl) Delete(ctx context.Context, anchorID string) error {
	res := r.db.WithContext(ctx).Where("anchor_id = ?", anchorID).Delete(&Anchor{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AnchorRepositoryImpl) FindActiveByPassword(ctx context.Context, password string) (*Anchor, error) {
	if password == "" {
		return nil, ErrNotFound
	}
	return r.first(r.db.WithContext(ctx).Where("password = ? AND status = ?", password, StatusActive))
}

func (r *AnchorRepositoryImpl) FindByPassword(ctx context.Context, password, excludeAnchorID string) (*Anchor, error) {
	if password == "" {
		return nil, ErrNotFound
	}
	return r.first(r.db.WithContext(ctx).Where("password = ? AND anchor_id <> ?", password, excludeAnchorID))
}
