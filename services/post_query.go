package services

import (
	"context"
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"inkwell/models"
	"inkwell/utils"

	"gorm.io/gorm"
)

// Filter is a bit set of the post filters an endpoint recognizes.
type Filter uint

const (
	FilterStatus Filter = 1 << iota
	FilterCategory
	FilterSearch
	FilterTags
	FilterTimeRange
	FilterReadTime
	FilterContentType
	FilterFeatured
)

func (f Filter) Has(flag Filter) bool { return f&flag != 0 }

// QueryProfile configures how query parameters become a PostQuery for one endpoint.
type QueryProfile struct {
	Filters       Filter
	SearchParams  []string
	SortParam     string
	PublishedOnly bool
	DefaultLimit  int
	MaxLimit      int
}

var (
	ListingProfile = QueryProfile{
		Filters:       FilterCategory | FilterSearch | FilterTags,
		SearchParams:  []string{"search"},
		SortParam:     "sort",
		PublishedOnly: true,
		DefaultLimit:  10,
		MaxLimit:      100,
	}
	SearchProfile = QueryProfile{
		Filters: FilterCategory | FilterSearch | FilterTags | FilterTimeRange |
			FilterReadTime | FilterContentType | FilterFeatured,
		SearchParams:  []string{"q", "search"},
		SortParam:     "sortBy",
		PublishedOnly: true,
		DefaultLimit:  10,
		MaxLimit:      100,
	}
	AuthorProfile = QueryProfile{
		Filters:      FilterStatus | FilterCategory | FilterSearch | FilterTags,
		SearchParams: []string{"search"},
		SortParam:    "sort",
		DefaultLimit: 10,
		MaxLimit:     100,
	}
)

type SortOrder string

const (
	SortNewest   SortOrder = "newest"
	SortOldest   SortOrder = "oldest"
	SortPopular  SortOrder = "popular"
	SortTrending SortOrder = "trending"
	SortReadTime SortOrder = "readTime"
)

func parseSort(s string) SortOrder {
	switch SortOrder(s) {
	case SortOldest, SortPopular, SortTrending, SortReadTime:
		return SortOrder(s)
	default:
		return SortNewest
	}
}

func (o SortOrder) clause() string {
	switch o {
	case SortOldest:
		return "COALESCE(posts.published_at, posts.created_at) ASC, posts.id ASC"
	case SortPopular:
		return "posts.meta_like_count DESC, posts.meta_views DESC, posts.id DESC"
	case SortTrending:
		return "posts.meta_views DESC, posts.meta_like_count DESC, posts.id DESC"
	case SortReadTime:
		return "posts.read_minutes ASC, posts.id DESC"
	default:
		return "COALESCE(posts.published_at, posts.created_at) DESC, posts.id DESC"
	}
}

type TimeRange string

const (
	RangeAll   TimeRange = ""
	RangeToday TimeRange = "today"
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
	RangeYear  TimeRange = "year"
)

func parseTimeRange(s string) TimeRange {
	switch TimeRange(s) {
	case RangeToday, RangeWeek, RangeMonth, RangeYear:
		return TimeRange(s)
	default:
		return RangeAll
	}
}

// Since returns the lower publish-time bound for the range, or false when unbounded.
func (r TimeRange) Since(now time.Time) (time.Time, bool) {
	switch r {
	case RangeToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), true
	case RangeWeek:
		return now.AddDate(0, 0, -7), true
	case RangeMonth:
		return now.AddDate(0, -1, 0), true
	case RangeYear:
		return now.AddDate(-1, 0, 0), true
	default:
		return time.Time{}, false
	}
}

// PostQuery is a parsed, validated set of post filters.
type PostQuery struct {
	Status       models.PostStatus
	AuthorID     uint
	Category     string
	Search       string
	Tags         []string
	Sort         SortOrder
	TimeRange    TimeRange
	MinReadTime  *int
	MaxReadTime  *int
	ContentType  string
	FeaturedOnly bool
	Page         int
	Limit        int
}

// MaxPage bounds the page number so the row offset cannot overflow.
const MaxPage = 100000

func (q PostQuery) Offset() int {
	page := q.Page
	if page > MaxPage {
		page = MaxPage
	}
	return (page - 1) * q.Limit
}

func (q PostQuery) TotalPages(total int64) int {
	if q.Limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(q.Limit)))
}

// ParsePostQuery never fails: malformed or unrecognized values fall back to defaults.
func ParsePostQuery(values url.Values, profile QueryProfile) PostQuery {
	q := PostQuery{
		Sort:  parseSort(values.Get(profile.SortParam)),
		Page:  parsePositiveInt(values.Get("page"), 1),
		Limit: parsePositiveInt(values.Get("limit"), profile.DefaultLimit),
	}
	if profile.MaxLimit > 0 && q.Limit > profile.MaxLimit {
		q.Limit = profile.MaxLimit
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}

	if profile.PublishedOnly {
		q.Status = models.StatusPublished
	} else if profile.Filters.Has(FilterStatus) {
		switch s := models.PostStatus(values.Get("status")); s {
		case models.StatusDraft, models.StatusPublished:
			q.Status = s
		}
	}

	if profile.Filters.Has(FilterCategory) {
		if c := strings.TrimSpace(values.Get("category")); c != "" && !strings.EqualFold(c, "all") {
			q.Category = c
		}
	}
	if profile.Filters.Has(FilterSearch) {
		for _, name := range profile.SearchParams {
			if s := strings.TrimSpace(values.Get(name)); s != "" {
				q.Search = s
				break
			}
		}
	}
	if profile.Filters.Has(FilterTags) {
		q.Tags = splitTags(values.Get("tags"))
	}
	if profile.Filters.Has(FilterTimeRange) {
		q.TimeRange = parseTimeRange(values.Get("timeRange"))
	}
	if profile.Filters.Has(FilterReadTime) {
		q.MinReadTime = parseOptionalInt(values.Get("minReadTime"))
		q.MaxReadTime = parseOptionalInt(values.Get("maxReadTime"))
	}
	if profile.Filters.Has(FilterContentType) {
		if ct := strings.TrimSpace(values.Get("contentType")); ct != "" && !strings.EqualFold(ct, "all") {
			q.ContentType = ct
		}
	}
	if profile.Filters.Has(FilterFeatured) {
		featured, err := strconv.ParseBool(values.Get("featuredOnly"))
		q.FeaturedOnly = err == nil && featured
	}
	return q
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	seen := make(map[string]bool)
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

func parsePositiveInt(value string, fallback int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func parseOptionalInt(value string) *int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed < 0 {
		return nil
	}
	return &parsed
}

type ListingResult struct {
	Articles    []models.Post          `json:"articles"`
	TotalCount  int64                  `json:"totalCount"`
	TotalPages  int                    `json:"totalPages"`
	CurrentPage int                    `json:"currentPage"`
	Categories  []models.CategoryFacet `json:"categories"`
	Tags        []string               `json:"tags"`
}

type SearchResult struct {
	Results     []models.Post          `json:"results"`
	Total       int64                  `json:"total"`
	TotalPages  int                    `json:"totalPages"`
	CurrentPage int                    `json:"currentPage"`
	Categories  []models.CategoryFacet `json:"categories"`
	Authors     []models.AuthorFacet   `json:"authors"`
	AvgReadTime int                    `json:"avgReadTime"`
}

// PostQueryService runs PostQuery values against the store. Listing and
// search share the same filter construction and differ only in projection.
type PostQueryService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewPostQueryService(db *gorm.DB) *PostQueryService {
	return &PostQueryService{db: db, now: time.Now}
}

// filtered returns a reusable query over posts matching q. ok is false when
// the filters cannot match anything (an unknown category slug).
func (s *PostQueryService) filtered(ctx context.Context, q PostQuery) (tx *gorm.DB, ok bool, err error) {
	tx = s.db.WithContext(ctx).Model(&models.Post{})

	if q.Status != "" {
		tx = tx.Where("posts.status = ?", q.Status)
	}
	if q.AuthorID != 0 {
		tx = tx.Where("posts.author_id = ?", q.AuthorID)
	}
	if q.Category != "" {
		var category models.Category
		err := s.db.WithContext(ctx).Select("id").Where("slug = ?", q.Category).First(&category).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		tx = tx.Where("EXISTS (SELECT 1 FROM post_categories pc WHERE pc.post_id = posts.id AND pc.category_id = ?)", category.ID)
	}
	if q.Search != "" {
		pattern := "%" + utils.EscapeLike(strings.ToLower(q.Search)) + "%"
		tx = tx.Where(`(LOWER(posts.title) LIKE ? ESCAPE '\'`+
			` OR LOWER(posts.excerpt) LIKE ? ESCAPE '\'`+
			` OR LOWER(posts.content) LIKE ? ESCAPE '\'`+
			` OR EXISTS (SELECT 1 FROM post_tags st WHERE st.post_id = posts.id AND LOWER(st.name) LIKE ? ESCAPE '\'))`,
			pattern, pattern, pattern, pattern)
	}
	if len(q.Tags) > 0 {
		tx = tx.Where("EXISTS (SELECT 1 FROM post_tags pt WHERE pt.post_id = posts.id AND pt.name IN ?)", q.Tags)
	}
	if since, bounded := q.TimeRange.Since(s.now().UTC()); bounded {
		tx = tx.Where("posts.published_at >= ?", since)
	}
	if q.MinReadTime != nil {
		tx = tx.Where("posts.read_minutes >= ?", *q.MinReadTime)
	}
	if q.MaxReadTime != nil {
		tx = tx.Where("posts.read_minutes <= ?", *q.MaxReadTime)
	}
	if q.ContentType != "" {
		tx = tx.Where("posts.content_type = ?", q.ContentType)
	}
	if q.FeaturedOnly {
		tx = tx.Where("posts.featured = ?", true)
	}

	return tx.Session(&gorm.Session{}), true, nil
}

func (s *PostQueryService) page(ctx context.Context, q PostQuery) ([]models.Post, int64, *gorm.DB, error) {
	base, ok, err := s.filtered(ctx, q)
	if err != nil {
		return nil, 0, nil, err
	}
	if !ok {
		return []models.Post{}, 0, nil, nil
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, nil, err
	}

	posts := []models.Post{}
	err = base.
		Preload("Author").
		Preload("Categories").
		Preload("TagRows").
		Preload("LikeRows").
		Order(q.Sort.clause()).
		Limit(q.Limit).
		Offset(q.Offset()).
		Find(&posts).Error
	if err != nil {
		return nil, 0, nil, err
	}
	return posts, total, base, nil
}

// List is the public listing: one page of published posts plus store-wide facets.
func (s *PostQueryService) List(ctx context.Context, q PostQuery) (*ListingResult, error) {
	posts, total, _, err := s.page(ctx, q)
	if err != nil {
		return nil, utils.Internal(err)
	}

	categories, err := s.publishedCategoryFacets(ctx)
	if err != nil {
		return nil, utils.Internal(err)
	}
	tags, err := s.publishedTags(ctx)
	if err != nil {
		return nil, utils.Internal(err)
	}

	return &ListingResult{
		Articles:    posts,
		TotalCount:  total,
		TotalPages:  q.TotalPages(total),
		CurrentPage: q.Page,
		Categories:  categories,
		Tags:        tags,
	}, nil
}

// ListByAuthor pages through one author's posts in any status.
func (s *PostQueryService) ListByAuthor(ctx context.Context, authorID uint, q PostQuery) (*ListingResult, error) {
	q.AuthorID = authorID
	posts, total, _, err := s.page(ctx, q)
	if err != nil {
		return nil, utils.Internal(err)
	}
	return &ListingResult{
		Articles:    posts,
		TotalCount:  total,
		TotalPages:  q.TotalPages(total),
		CurrentPage: q.Page,
		Categories:  []models.CategoryFacet{},
		Tags:        []string{},
	}, nil
}

// Search returns one page of matches with facets computed over every match.
func (s *PostQueryService) Search(ctx context.Context, q PostQuery) (*SearchResult, error) {
	posts, total, base, err := s.page(ctx, q)
	if err != nil {
		return nil, utils.Internal(err)
	}

	result := &SearchResult{
		Results:     posts,
		Total:       total,
		TotalPages:  q.TotalPages(total),
		CurrentPage: q.Page,
		Categories:  []models.CategoryFacet{},
		Authors:     []models.AuthorFacet{},
	}
	if base == nil || total == 0 {
		return result, nil
	}

	ids := base.Select("posts.id")
	db := s.db.WithContext(ctx)

	err = db.Table("categories").
		Select("categories.id AS id, categories.name AS name, categories.slug AS slug, COUNT(*) AS count").
		Joins("JOIN post_categories ON post_categories.category_id = categories.id").
		Where("post_categories.post_id IN (?)", ids).
		Group("categories.id, categories.name, categories.slug").
		Order("COUNT(*) DESC, categories.name ASC").
		Scan(&result.Categories).Error
	if err != nil {
		return nil, utils.Internal(err)
	}

	err = db.Table("posts").
		Select("users.id AS id, users.username AS username, COUNT(*) AS count").
		Joins("JOIN users ON users.id = posts.author_id").
		Where("posts.id IN (?)", ids).
		Group("users.id, users.username").
		Order("COUNT(*) DESC, users.username ASC").
		Scan(&result.Authors).Error
	if err != nil {
		return nil, utils.Internal(err)
	}

	var avg float64
	row := db.Table("posts").
		Select("COALESCE(AVG(posts.read_minutes), 0)").
		Where("posts.id IN (?)", ids).
		Row()
	if err := row.Scan(&avg); err != nil {
		return nil, utils.Internal(err)
	}
	result.AvgReadTime = int(math.Round(avg))

	return result, nil
}

// publishedCategoryFacets counts published posts per category, led by the
// synthetic "All" facet.
func (s *PostQueryService) publishedCategoryFacets(ctx context.Context) ([]models.CategoryFacet, error) {
	db := s.db.WithContext(ctx)

	var all int64
	if err := db.Model(&models.Post{}).Where("status = ?", models.StatusPublished).Count(&all).Error; err != nil {
		return nil, err
	}

	var facets []models.CategoryFacet
	err := db.Table("categories").
		Select("categories.id AS id, categories.name AS name, categories.slug AS slug, COUNT(posts.id) AS count").
		Joins("LEFT JOIN post_categories ON post_categories.category_id = categories.id").
		Joins("LEFT JOIN posts ON posts.id = post_categories.post_id AND posts.status = ?", models.StatusPublished).
		Group("categories.id, categories.name, categories.slug").
		Order("categories.name ASC").
		Scan(&facets).Error
	if err != nil {
		return nil, err
	}

	return append([]models.CategoryFacet{{Name: "All", Slug: "all", Count: all}}, facets...), nil
}

func (s *PostQueryService) publishedTags(ctx context.Context) ([]string, error) {
	tags := []string{}
	err := s.db.WithContext(ctx).
		Table("post_tags").
		Joins("JOIN posts ON posts.id = post_tags.post_id").
		Where("posts.status = ?", models.StatusPublished).
		Distinct().
		Order("post_tags.name ASC").
		Pluck("post_tags.name", &tags).Error
	return tags, err
}
