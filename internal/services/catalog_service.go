// internal/services/catalog_service.go
package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/javajoker/museum-backend/internal/models"
	"github.com/javajoker/museum-backend/internal/utils"
)

const (
	popularTagsLimit     = 10
	otherCategoriesLimit = 5
	similarExhibitsLimit = 4
)

// MediaURLResolver turns stored file keys into client-facing URLs.
type MediaURLResolver interface {
	URL(key string) string
}

// CatalogService answers the public browsing queries. It only ever shows
// published exhibits, except on the detail page for authenticated staff.
type CatalogService struct {
	db    *gorm.DB
	media MediaURLResolver
}

type ExhibitQuery struct {
	Query        string
	CategoryID   *uint
	Tag          string
	FeaturedOnly bool
	Page         int
	Extended     bool // also search historical context and material
}

type CategorySummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type PhotoView struct {
	models.ExhibitPhoto
	URL string `json:"url"`
}

type DocumentView struct {
	models.Document
	URL string `json:"url"`
}

// ExhibitCard is the listing representation of an exhibit.
type ExhibitCard struct {
	ID               uint             `json:"id"`
	Title            string           `json:"title"`
	ShortDescription string           `json:"short_description"`
	Excerpt          string           `json:"excerpt"`
	InventoryNumber  string           `json:"inventory_number"`
	Category         *CategorySummary `json:"category"`
	Tags             []string         `json:"tags"`
	IsFeatured       bool             `json:"is_featured"`
	PrimaryPhoto     *PhotoView       `json:"primary_photo"`
	CreatedAt        time.Time        `json:"created_at"`
}

type CategoryCount struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ParentID     *uint  `json:"parent_id"`
	Icon         string `json:"icon"`
	ExhibitCount int64  `json:"exhibit_count"`
}

type CatalogStats struct {
	TotalPublished int64 `json:"total_published"`
	Featured       int64 `json:"featured"`
}

type ExhibitListing struct {
	Exhibits         []ExhibitCard   `json:"exhibits"`
	Page             utils.Page      `json:"pagination"`
	Categories       []CategoryCount `json:"categories"`
	PopularTags      []string        `json:"popular_tags"`
	Stats            CatalogStats    `json:"stats"`
	Query            string          `json:"query,omitempty"`
	SelectedCategory *uint           `json:"selected_category,omitempty"`
	SelectedTag      string          `json:"selected_tag,omitempty"`
	FeaturedOnly     bool            `json:"featured_only,omitempty"`
}

type CategoryPage struct {
	Category        CategoryCount   `json:"category"`
	Exhibits        []ExhibitCard   `json:"exhibits"`
	Page            utils.Page      `json:"pagination"`
	OtherCategories []CategoryCount `json:"other_categories"`
}

type CategoryIndex struct {
	Categories      []CategoryCount `json:"categories"`
	TotalCategories int             `json:"total_categories"`
	TotalExhibits   int64           `json:"total_exhibits"`
}

type ExhibitDetail struct {
	Exhibit       *models.Exhibit `json:"exhibit"`
	Tags          []string        `json:"tags"`
	Photos        []PhotoView     `json:"photos"`
	Documents     []DocumentView  `json:"documents"`
	PrimaryPhoto  *PhotoView      `json:"primary_photo"`
	Similar       []ExhibitCard   `json:"similar_exhibits"`
	CategoryCount int64           `json:"category_exhibit_count"`
}

func NewCatalogService(db *gorm.DB, media MediaURLResolver) *CatalogService {
	return &CatalogService{db: db, media: media}
}

// ListExhibits returns one page of published exhibits matching q together
// with the sidebar data: category counts, popular tags and totals.
func (s *CatalogService) ListExhibits(q ExhibitQuery) (*ExhibitListing, error) {
	query := publishedExhibits(s.db)

	if term := strings.TrimSpace(q.Query); term != "" {
		columns := publicSearchColumns
		if q.Extended {
			columns = extendedSearchColumns
		}
		query = whereContains(query, term, columns)
	}
	if q.CategoryID != nil {
		query = query.Where("exhibits.category_id = ?", *q.CategoryID)
	}
	if tag := strings.TrimSpace(q.Tag); tag != "" {
		query = whereContains(query, tag, []string{"tags"})
	}
	if q.FeaturedOnly {
		query = query.Where("exhibits.is_featured = ?", true)
	}

	cards, page, err := s.pageOfCards(query, q.Page)
	if err != nil {
		return nil, err
	}

	categories, err := s.CategoryCounts()
	if err != nil {
		return nil, err
	}
	tags, err := s.PopularTags()
	if err != nil {
		return nil, err
	}
	stats, err := s.Stats()
	if err != nil {
		return nil, err
	}

	return &ExhibitListing{
		Exhibits:         cards,
		Page:             page,
		Categories:       categories,
		PopularTags:      tags,
		Stats:            *stats,
		Query:            strings.TrimSpace(q.Query),
		SelectedCategory: q.CategoryID,
		SelectedTag:      strings.TrimSpace(q.Tag),
		FeaturedOnly:     q.FeaturedOnly,
	}, nil
}

func (s *CatalogService) Featured(page int) (*ExhibitListing, error) {
	return s.ListExhibits(ExhibitQuery{FeaturedOnly: true, Page: page})
}

// Search runs the extended search. Callers handle the empty query.
func (s *CatalogService) Search(term string, page int) (*ExhibitListing, error) {
	return s.ListExhibits(ExhibitQuery{Query: term, Page: page, Extended: true})
}

func (s *CatalogService) CategoryDetail(id uint, page int) (*CategoryPage, error) {
	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		return nil, storeError("category", err)
	}

	query := publishedExhibits(s.db).Where("exhibits.category_id = ?", id)
	cards, resolved, err := s.pageOfCards(query, page)
	if err != nil {
		return nil, err
	}

	var others []CategoryCount
	if err := s.categoryCountsQuery().Where("categories.id <> ?", id).Limit(otherCategoriesLimit).Scan(&others).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch other categories: %w", err)
	}

	return &CategoryPage{
		Category: CategoryCount{
			ID:           category.ID,
			Name:         category.Name,
			Description:  category.Description,
			ParentID:     category.ParentID,
			Icon:         category.Icon,
			ExhibitCount: resolved.Total,
		},
		Exhibits:        cards,
		Page:            resolved,
		OtherCategories: emptyIfNil(others),
	}, nil
}

// ExhibitDetail loads the public detail page. Unpublished exhibits are only
// visible to authenticated users.
func (s *CatalogService) ExhibitDetail(id uint, authenticated bool) (*ExhibitDetail, error) {
	var exhibit models.Exhibit
	if err := s.db.Preload("Category").First(&exhibit, id).Error; err != nil {
		return nil, storeError("exhibit", err)
	}

	if exhibit.Status != models.ExhibitStatusPublished && !authenticated {
		return nil, fmt.Errorf("exhibit %d is %s: %w", id, exhibit.Status, ErrAccessDenied)
	}

	var photos []models.ExhibitPhoto
	if err := s.db.Where("exhibit_id = ?", id).Order(photoOrder).Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch photos: %w", err)
	}

	var documents []models.Document
	if err := s.db.Where("exhibit_id = ?", id).Order(documentOrder).Find(&documents).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}

	similarQuery := publishedExhibits(s.db).Where("exhibits.id <> ?", id)
	if exhibit.CategoryID != nil {
		similarQuery = similarQuery.Where("exhibits.category_id = ?", *exhibit.CategoryID)
	} else {
		similarQuery = similarQuery.Where("exhibits.category_id IS NULL")
	}

	var similar []models.Exhibit
	if err := similarQuery.Preload("Category").Order(exhibitOrder).Limit(similarExhibitsLimit).Find(&similar).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch similar exhibits: %w", err)
	}
	similarCards, err := s.buildCards(similar)
	if err != nil {
		return nil, err
	}

	var categoryCount int64
	if exhibit.CategoryID != nil {
		if err := publishedExhibits(s.db).Where("exhibits.category_id = ?", *exhibit.CategoryID).Count(&categoryCount).Error; err != nil {
			return nil, fmt.Errorf("failed to count category exhibits: %w", err)
		}
	}

	detail := &ExhibitDetail{
		Exhibit:       &exhibit,
		Tags:          emptyIfNil(utils.SplitTags(exhibit.Tags)),
		Photos:        make([]PhotoView, 0, len(photos)),
		Documents:     make([]DocumentView, 0, len(documents)),
		Similar:       similarCards,
		CategoryCount: categoryCount,
	}
	for _, photo := range photos {
		detail.Photos = append(detail.Photos, s.photoView(photo))
	}
	for _, document := range documents {
		detail.Documents = append(detail.Documents, DocumentView{Document: document, URL: s.url(document.File)})
	}
	// Photos are ordered primary first, then by upload time
	if len(detail.Photos) > 0 {
		primary := detail.Photos[0]
		detail.PrimaryPhoto = &primary
	}

	return detail, nil
}

func (s *CatalogService) ListCategories() (*CategoryIndex, error) {
	categories, err := s.CategoryCounts()
	if err != nil {
		return nil, err
	}

	var total int64
	if err := publishedExhibits(s.db).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count exhibits: %w", err)
	}

	return &CategoryIndex{
		Categories:      categories,
		TotalCategories: len(categories),
		TotalExhibits:   total,
	}, nil
}

// CategoryCounts lists every category, ordered by name, with the number of
// published exhibits it holds.
func (s *CatalogService) CategoryCounts() ([]CategoryCount, error) {
	var counts []CategoryCount
	if err := s.categoryCountsQuery().Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}
	return emptyIfNil(counts), nil
}

// PopularTags returns the first tags, alphabetically, of the distinct tags
// used by published exhibits.
func (s *CatalogService) PopularTags() ([]string, error) {
	var raw []string
	err := publishedExhibits(s.db).Where("exhibits.tags <> ?", "").Pluck("exhibits.tags", &raw).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tags: %w", err)
	}

	tags := utils.UniqueSortedTags(raw)
	if len(tags) > popularTagsLimit {
		tags = tags[:popularTagsLimit]
	}
	return tags, nil
}

func (s *CatalogService) Stats() (*CatalogStats, error) {
	var stats CatalogStats
	if err := publishedExhibits(s.db).Count(&stats.TotalPublished).Error; err != nil {
		return nil, fmt.Errorf("failed to count exhibits: %w", err)
	}
	if err := publishedExhibits(s.db).Where("exhibits.is_featured = ?", true).Count(&stats.Featured).Error; err != nil {
		return nil, fmt.Errorf("failed to count featured exhibits: %w", err)
	}
	return &stats, nil
}

func (s *CatalogService) categoryCountsQuery() *gorm.DB {
	return s.db.Model(&models.Category{}).
		Select("categories.id, categories.name, categories.description, categories.parent_id, categories.icon, COUNT(exhibits.id) AS exhibit_count").
		Joins("LEFT JOIN exhibits ON exhibits.category_id = categories.id AND exhibits.status = ?", models.ExhibitStatusPublished).
		Group("categories.id, categories.name, categories.description, categories.parent_id, categories.icon").
		Order("categories.name ASC, categories.id ASC")
}

// pageOfCards counts query, clamps the requested page and loads it.
func (s *CatalogService) pageOfCards(query *gorm.DB, requested int) ([]ExhibitCard, utils.Page, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, utils.Page{}, fmt.Errorf("failed to count exhibits: %w", err)
	}

	page := utils.ClampPage(requested, total, utils.CatalogPageSize)

	var exhibits []models.Exhibit
	err := query.Session(&gorm.Session{}).Preload("Category").
		Order(exhibitOrder).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&exhibits).Error
	if err != nil {
		return nil, utils.Page{}, fmt.Errorf("failed to fetch exhibits: %w", err)
	}

	cards, err := s.buildCards(exhibits)
	if err != nil {
		return nil, utils.Page{}, err
	}
	return cards, page, nil
}

func (s *CatalogService) buildCards(exhibits []models.Exhibit) ([]ExhibitCard, error) {
	cards := make([]ExhibitCard, 0, len(exhibits))
	if len(exhibits) == 0 {
		return cards, nil
	}

	ids := make([]uint, len(exhibits))
	for i, exhibit := range exhibits {
		ids[i] = exhibit.ID
	}

	// The first photo per exhibit in photo order is its primary photo
	var photos []models.ExhibitPhoto
	if err := s.db.Where("exhibit_id IN ?", ids).Order("exhibit_id ASC, " + photoOrder).Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch photos: %w", err)
	}
	primary := make(map[uint]models.ExhibitPhoto, len(exhibits))
	for _, photo := range photos {
		if _, seen := primary[photo.ExhibitID]; !seen {
			primary[photo.ExhibitID] = photo
		}
	}

	for _, exhibit := range exhibits {
		card := ExhibitCard{
			ID:               exhibit.ID,
			Title:            exhibit.Title,
			ShortDescription: exhibit.ShortDescription,
			Excerpt:          utils.Excerpt(exhibit.Description),
			InventoryNumber:  exhibit.InventoryNumber,
			Tags:             emptyIfNil(utils.SplitTags(exhibit.Tags)),
			IsFeatured:       exhibit.IsFeatured,
			CreatedAt:        exhibit.CreatedAt,
		}
		if exhibit.Category != nil {
			card.Category = &CategorySummary{
				ID:   exhibit.Category.ID,
				Name: exhibit.Category.Name,
				Icon: exhibit.Category.Icon,
			}
		}
		if photo, ok := primary[exhibit.ID]; ok {
			view := s.photoView(photo)
			card.PrimaryPhoto = &view
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func (s *CatalogService) photoView(photo models.ExhibitPhoto) PhotoView {
	return PhotoView{ExhibitPhoto: photo, URL: s.url(photo.Image)}
}

func (s *CatalogService) url(key string) string {
	if s.media == nil {
		return key
	}
	return s.media.URL(key)
}

func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
