package usecase

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/interfaces"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type CategoryUseCase struct {
	repo interfaces.Repository
}

func NewCategoryUseCase(repo interfaces.Repository) *CategoryUseCase {
	return &CategoryUseCase{
		repo: repo,
	}
}

// CategoryInput carries the editable attributes of a category. An empty ID
// on create is derived from the title.
type CategoryInput struct {
	ID          types.CategoryID
	Title       string
	Description string
	Icon        string
	Color       string
}

// CategoryUpdate carries optional changes; nil leaves a value untouched
type CategoryUpdate struct {
	Title       *string
	Description *string
	Icon        *string
	Color       *string
}

// CategoryIDFromTitle turns "Remote Jobs" into "remote-jobs". Accents are
// folded ("Bourses d'études" becomes "bourses-d-etudes") and any other
// non-ASCII letter acts as a separator. A title without a usable ASCII
// character gets a random ID.
func CategoryIDFromTitle(title string) types.CategoryID {
	folded, _, err := transform.String(accentFolder(), title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}

	id := types.CategoryID(b.String())
	if id.Validate() != nil {
		return types.NewCategoryID()
	}
	return id
}

func accentFolder() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

func (uc *CategoryUseCase) CreateCategory(ctx context.Context, in CategoryInput) (*model.Category, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	c := &model.Category{
		ID:          in.ID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Icon:        in.Icon,
		Color:       in.Color,
	}
	if c.ID == "" && c.Title != "" {
		c.ID = CategoryIDFromTitle(c.Title)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	created, err := uc.repo.Category().Create(ctx, c)
	if err != nil {
		if errors.Is(err, interfaces.ErrAlreadyExists) {
			return nil, goerr.Wrap(ErrConflict, "category ID already in use", goerr.V(CategoryIDKey, c.ID))
		}
		return nil, goerr.Wrap(err, "failed to create category")
	}
	return created, nil
}

func (uc *CategoryUseCase) GetCategory(ctx context.Context, id types.CategoryID) (*model.Category, error) {
	c, err := uc.repo.Category().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get category", goerr.V(CategoryIDKey, id))
	}
	return c, nil
}

func (uc *CategoryUseCase) ListCategories(ctx context.Context) ([]*model.Category, error) {
	categories, err := uc.repo.Category().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list categories")
	}
	return categories, nil
}

func (uc *CategoryUseCase) UpdateCategory(ctx context.Context, id types.CategoryID, in CategoryUpdate) (*model.Category, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	c, err := uc.repo.Category().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get category", goerr.V(CategoryIDKey, id))
	}

	if in.Title != nil {
		c.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Icon != nil {
		c.Icon = *in.Icon
	}
	if in.Color != nil {
		c.Color = *in.Color
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Category().Update(ctx, c)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update category", goerr.V(CategoryIDKey, id))
	}
	return updated, nil
}

// DeleteCategory removes an empty category together with its fields. A
// category that still has opportunities is a conflict.
func (uc *CategoryUseCase) DeleteCategory(ctx context.Context, id types.CategoryID) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}

	if _, err := uc.repo.Category().Get(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to get category", goerr.V(CategoryIDKey, id))
	}

	remaining, err := uc.repo.Opportunity().List(ctx, interfaces.WithCategory(id), interfaces.WithLimit(1))
	if err != nil {
		return goerr.Wrap(err, "failed to list opportunities", goerr.V(CategoryIDKey, id))
	}
	if len(remaining) > 0 {
		return goerr.Wrap(ErrConflict, "category still has opportunities", goerr.V(CategoryIDKey, id))
	}

	if err := uc.repo.Category().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete category", goerr.V(CategoryIDKey, id))
	}
	if err := uc.repo.CategoryField().DeleteByCategory(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete category fields", goerr.V(CategoryIDKey, id))
	}
	return nil
}
