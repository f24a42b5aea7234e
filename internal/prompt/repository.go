package prompt

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type PromptRepository interface {
	List(ctx context.Context) ([]Prompt, error)
	Get(ctx context.Context, id uint) (*Prompt, error)
	LatestForType(ctx context.Context, t string) (*Prompt, error)
	Create(ctx context.Context, p *Prompt) error
	Update(ctx context.Context, p *Prompt) error
	Delete(ctx context.Context, id uint) error
}

type GormPromptRepository struct {
	db *gorm.DB
}

func NewPromptRepository(db *gorm.DB) *GormPromptRepository {
	return &GormPromptRepository{db: db}
}

func (r *GormPromptRepository) List(ctx context.Context) ([]Prompt, error) {
	var prompts []Prompt
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&prompts).Error
	return prompts, err
}

func (r *GormPromptRepository) Get(ctx context.Context, id uint) (*Prompt, error) {
	var p Prompt
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *GormPromptRepository) LatestForType(ctx context.Context, t string) (*Prompt, error) {
	var p Prompt
	err := r.db.WithContext(ctx).Where("type = ?", t).Order("updated_at DESC, id DESC").First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *GormPromptRepository) Create(ctx context.Context, p *Prompt) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *GormPromptRepository) Update(ctx context.Context, p *Prompt) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *GormPromptRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&Prompt{}, id).Error
}
