package course

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/juju/errors"

	cachelib "github.com/JongMin999/inflearn-fullstack-clone/common/cache"
	"github.com/JongMin999/inflearn-fullstack-clone/common/pagination"
)

// RankedCourse is a catalog row with the counters the ranking and annotation
// steps need.
type RankedCourse struct {
	Course
	InstructorName  string
	RatingSum       int64
	ReviewCount     int
	EnrollmentCount int
	FavoriteCount   int
}

// SearchResultCourse is a catalog row as returned to clients.
type SearchResultCourse struct {
	Course
	InstructorName   string  `json:"instructor_name"`
	AverageRating    float64 `json:"averageRating"`
	TotalReviews     int     `json:"totalReviews"`
	TotalEnrollments int     `json:"totalEnrollments"`
}

type SearchResult struct {
	Courses    []SearchResultCourse `json:"courses"`
	Pagination pagination.Pages     `json:"pagination"`
}

type Searcher struct {
	repo  Repository
	cache cachelib.Cache
}

func NewSearcher(repo Repository, cache cachelib.Cache) *Searcher {
	return &Searcher{repo: repo, cache: cache}
}

// Search pages through the published catalog. Price-ordered and latest modes
// page in the persistence layer. Popularity and recommendation rank on derived
// counters, so those modes fetch the whole filtered set and rank here.
// Unfiltered ranked pages are the hot path and are served read-through from
// the cache.
func (s *Searcher) Search(ctx context.Context, criteria SearchCriteria, page pagination.Request) (SearchResult, error) {
	cacheable := s.cacheable(criteria)

	var key string
	if cacheable {
		key = searchCacheKey(criteria.Sort, criteria.CategorySlug, page.Page, page.PageSize)
		if result, hit := s.lookup(ctx, key); hit {
			return result, nil
		}
	}

	total, err := s.repo.CountCourses(ctx, criteria)
	if err != nil {
		return SearchResult{}, errors.Trace(err)
	}

	var ranked []RankedCourse
	if criteria.Sort.RequiresInMemorySort() {
		all, err := s.repo.SearchCourses(ctx, criteria, 0, total)
		if err != nil {
			return SearchResult{}, errors.Trace(err)
		}

		rankCourses(all, criteria.Sort)

		start, end := page.Slice(len(all))
		ranked = all[start:end]
	} else {
		ranked, err = s.repo.SearchCourses(ctx, criteria, page.Offset(), page.PageSize)
		if err != nil {
			return SearchResult{}, errors.Trace(err)
		}
	}

	result := SearchResult{
		Courses:    annotate(ranked),
		Pagination: pagination.NewPages(page, total),
	}

	if cacheable {
		s.store(ctx, key, result)
	}

	return result, nil
}

// Only queries whose every parameter is part of the cache key may be cached.
// Free-text and price filters are not, so those results always go to the
// repository.
func (s *Searcher) cacheable(criteria SearchCriteria) bool {
	return criteria.Sort.RequiresInMemorySort() &&
		criteria.Query == "" &&
		criteria.PriceMin == nil &&
		criteria.PriceMax == nil
}

// rankCourses orders in place, by enrollments for popular and by favorites
// for recommended. Rows arrive newest-first and the sort is stable, so ties
// stay in recency order.
func rankCourses(courses []RankedCourse, mode SortMode) {
	key := func(rc RankedCourse) int { return rc.EnrollmentCount }
	if mode == SortRecommended {
		key = func(rc RankedCourse) int { return rc.FavoriteCount }
	}

	sort.SliceStable(courses, func(i, j int) bool {
		return key(courses[i]) > key(courses[j])
	})
}

func annotate(ranked []RankedCourse) []SearchResultCourse {
	out := make([]SearchResultCourse, 0, len(ranked))
	for _, rc := range ranked {
		out = append(out, SearchResultCourse{
			Course:           rc.Course,
			InstructorName:   rc.InstructorName,
			AverageRating:    AverageRating(rc.RatingSum, rc.ReviewCount),
			TotalReviews:     rc.ReviewCount,
			TotalEnrollments: rc.EnrollmentCount,
		})
	}

	return out
}

// A cache failure is served as a miss.
func (s *Searcher) lookup(ctx context.Context, key string) (SearchResult, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cachelib.ErrNoValueForKey) {
			slog.Warn("search cache read failed", "key", key, "error", err)
		}

		return SearchResult{}, false
	}

	var result SearchResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		slog.Warn("search cache entry corrupt", "key", key, "error", err)

		return SearchResult{}, false
	}

	return result, true
}

func (s *Searcher) store(ctx context.Context, key string, result SearchResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		slog.Warn("search cache encode failed", "key", key, "error", err)

		return
	}

	if err := s.cache.SetEx(ctx, key, string(payload), searchCacheTTL); err != nil {
		slog.Warn("search cache write failed", "key", key, "error", err)
	}
}
