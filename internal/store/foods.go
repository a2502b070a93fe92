package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lg/calorie-tracker/internal/apperr"
	"lg/calorie-tracker/internal/db"
	"lg/calorie-tracker/internal/models"
)

// DefaultFoodListLimit caps ListFoods when no limit is given.
const DefaultFoodListLimit = 20

// FoodFilter narrows ListFoods. Zero values disable a filter.
type FoodFilter struct {
	Category string
	Verified *bool
	Custom   *bool
	Query    string // case-insensitive substring of name, brand or description
	Limit    int
}

// FoodPatch lists the food fields an update may change. Nil fields are left as-is.
// Categories, when non-nil, replaces the food's category set.
type FoodPatch struct {
	Name         *string   `json:"name"`
	Brand        *string   `json:"brand"`
	Description  *string   `json:"description"`
	ServingSizeG *float64  `json:"serving_size_g"`
	Calories     *float64  `json:"calories"`
	ProteinG     *float64  `json:"protein_g"`
	CarbsG       *float64  `json:"carbs_g"`
	FatG         *float64  `json:"fat_g"`
	FiberG       *float64  `json:"fiber_g"`
	SugarG       *float64  `json:"sugar_g"`
	SodiumMg     *float64  `json:"sodium_mg"`
	IsVerified   *bool     `json:"is_verified"`
	IsCustom     *bool     `json:"is_custom"`
	Categories   *[]string `json:"categories"`
}

func (p FoodPatch) apply(f *models.Food) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setFloat := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setOptional := func(dst **float64, src *float64) {
		if src != nil {
			v := *src
			*dst = &v
		}
	}

	setString(&f.Name, p.Name)
	if p.Brand != nil {
		brand := *p.Brand
		f.Brand = &brand
	}
	if p.Description != nil {
		desc := *p.Description
		f.Description = &desc
	}
	setFloat(&f.ServingSizeG, p.ServingSizeG)
	setFloat(&f.Calories, p.Calories)
	setFloat(&f.ProteinG, p.ProteinG)
	setFloat(&f.CarbsG, p.CarbsG)
	setFloat(&f.FatG, p.FatG)
	setOptional(&f.FiberG, p.FiberG)
	setOptional(&f.SugarG, p.SugarG)
	setOptional(&f.SodiumMg, p.SodiumMg)
	if p.IsVerified != nil {
		f.IsVerified = *p.IsVerified
	}
	if p.IsCustom != nil {
		f.IsCustom = *p.IsCustom
	}
}

/* ─── Categories ─────────────────────────────────────────────────────── */

// CreateCategory stores a new category. Names are unique.
func (s *Store) CreateCategory(ctx context.Context, name string, description *string) (*models.FoodCategory, error) {
	cat := models.FoodCategory{Name: strings.TrimSpace(name), Description: description}
	if cat.Name == "" {
		return nil, apperr.Invalid("name", "is required")
	}
	if err := s.db.WithContext(ctx).Create(&cat).Error; err != nil {
		return nil, db.Classify(err, "category", cat.Name)
	}
	return &cat, nil
}

// ListCategories returns every category ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]models.FoodCategory, error) {
	var cats []models.FoodCategory
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("store: list categories: %w", err)
	}
	return cats, nil
}

// findOrCreateCategories resolves names to categories, creating missing ones.
func findOrCreateCategories(tx *gorm.DB, names []string) ([]models.FoodCategory, error) {
	seen := make(map[string]bool, len(names))
	cats := make([]models.FoodCategory, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		cat := models.FoodCategory{Name: name}
		if errFind := tx.Where(models.FoodCategory{Name: name}).FirstOrCreate(&cat).Error; errFind != nil {
			return nil, fmt.Errorf("store: resolve category %q: %w", name, errFind)
		}
		cats = append(cats, cat)
	}
	return cats, nil
}

/* ─── Foods ──────────────────────────────────────────────────────────── */

// CreateFood stores f and links it to the named categories, creating any that
// do not exist yet.
func (s *Store) CreateFood(ctx context.Context, f *models.Food, categories []string) (*models.Food, error) {
	f.Normalize()
	if err := f.Validate(); err != nil {
		return nil, err
	}
	errTx := s.tx(ctx, func(tx *gorm.DB) error {
		if f.CreatedByUserID != nil {
			var count int64
			if errCount := tx.Model(&models.User{}).Where("id = ?", *f.CreatedByUserID).Count(&count).Error; errCount != nil {
				return fmt.Errorf("store: check food owner: %w", errCount)
			}
			if count == 0 {
				return apperr.NotFound("user", *f.CreatedByUserID)
			}
		}
		cats, errCats := findOrCreateCategories(tx, categories)
		if errCats != nil {
			return errCats
		}
		f.Categories = cats
		if errCreate := tx.Create(f).Error; errCreate != nil {
			return db.Classify(errCreate, "food", f.Name)
		}
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}
	return f, nil
}

// GetFood loads a food and its categories.
func (s *Store) GetFood(ctx context.Context, id uint64) (*models.Food, error) {
	var f models.Food
	if err := s.db.WithContext(ctx).Preload("Categories").First(&f, id).Error; err != nil {
		return nil, db.Classify(err, "food", id)
	}
	return &f, nil
}

// FoodsByID loads the foods with the given IDs. Missing IDs are simply absent
// from the result.
func (s *Store) FoodsByID(ctx context.Context, ids []uint64) (map[uint64]models.Food, error) {
	out := make(map[uint64]models.Food, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var foods []models.Food
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&foods).Error; err != nil {
		return nil, fmt.Errorf("store: foods by id: %w", err)
	}
	for _, f := range foods {
		out[f.ID] = f
	}
	return out, nil
}

// ListFoods returns foods matching filter ordered by name. An unknown category
// yields an empty result.
func (s *Store) ListFoods(ctx context.Context, filter FoodFilter) ([]models.Food, error) {
	conn := s.db.WithContext(ctx)
	q := conn.Model(&models.Food{}).Preload("Categories")

	if name := strings.TrimSpace(filter.Category); name != "" {
		var cat models.FoodCategory
		errFind := conn.Where("name = ?", name).First(&cat).Error
		if errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				log.WithField("category", name).Warn("store: list foods: category not found")
				return []models.Food{}, nil
			}
			return nil, fmt.Errorf("store: list foods: %w", errFind)
		}
		q = q.Where("id IN (?)", conn.Table("food_category_association").
			Select("food_id").
			Where("food_category_id = ?", cat.ID))
	}
	if filter.Verified != nil {
		q = q.Where("is_verified = ?", *filter.Verified)
	}
	if filter.Custom != nil {
		q = q.Where("is_custom = ?", *filter.Custom)
	}
	if query := strings.TrimSpace(filter.Query); query != "" {
		pattern := db.ContainsPattern(conn, query)
		q = q.Where(fmt.Sprintf("(%s OR %s OR %s)",
			db.CaseInsensitiveLikeExpr(conn, "name"),
			db.CaseInsensitiveLikeExpr(conn, "brand"),
			db.CaseInsensitiveLikeExpr(conn, "description"),
		), pattern, pattern, pattern)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultFoodListLimit
	}

	var foods []models.Food
	if err := q.Order("name ASC, id ASC").Limit(limit).Find(&foods).Error; err != nil {
		return nil, fmt.Errorf("store: list foods: %w", err)
	}
	return foods, nil
}

// UpdateFood applies patch. Logs derive nutrients on read, so nutrient edits
// change the totals of logs already recorded against this food.
func (s *Store) UpdateFood(ctx context.Context, id uint64, patch FoodPatch) (*models.Food, error) {
	var f models.Food
	errTx := s.tx(ctx, func(tx *gorm.DB) error {
		if errFind := tx.First(&f, id).Error; errFind != nil {
			return db.Classify(errFind, "food", id)
		}
		patch.apply(&f)
		f.Normalize()
		if errValidate := f.Validate(); errValidate != nil {
			return errValidate
		}
		if errSave := tx.Omit(clause.Associations).Save(&f).Error; errSave != nil {
			return db.Classify(errSave, "food", id)
		}
		if patch.Categories != nil {
			cats, errCats := findOrCreateCategories(tx, *patch.Categories)
			if errCats != nil {
				return errCats
			}
			if errReplace := tx.Model(&f).Association("Categories").Replace(cats); errReplace != nil {
				return fmt.Errorf("store: replace food categories: %w", errReplace)
			}
		}
		return tx.Preload("Categories").First(&f, id).Error
	})
	if errTx != nil {
		return nil, errTx
	}
	return &f, nil
}

// DeleteFood removes a food and its category links. Food logs that reference
// it are kept and become orphaned.
func (s *Store) DeleteFood(ctx context.Context, id uint64) error {
	return s.tx(ctx, func(tx *gorm.DB) error {
		var f models.Food
		if errFind := tx.First(&f, id).Error; errFind != nil {
			return db.Classify(errFind, "food", id)
		}
		if errClear := tx.Model(&f).Association("Categories").Clear(); errClear != nil {
			return fmt.Errorf("store: clear food categories: %w", errClear)
		}
		if errDelete := tx.Delete(&f).Error; errDelete != nil {
			return fmt.Errorf("store: delete food: %w", errDelete)
		}
		return nil
	})
}
