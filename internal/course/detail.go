package course

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/juju/errors"

	cachelib "github.com/JongMin999/inflearn-fullstack-clone/common/cache"
)

// InstructorStats aggregates an instructor's footprint across all their
// courses.
type InstructorStats struct {
	TotalStudents int `json:"totalStudents"`
	TotalReviews  int `json:"totalReviews"`
	TotalAnswers  int `json:"totalAnswers"`
	TotalCourses  int `json:"totalCourses"`
}

// CourseDetail is the full course page payload.
type CourseDetail struct {
	Course
	InstructorName   string          `json:"instructor_name"`
	Categories       []Category      `json:"categories"`
	Sections         []Section       `json:"sections"`
	Reviews          []Review        `json:"reviews"`
	IsEnrolled       bool            `json:"isEnrolled"`
	TotalEnrollments int             `json:"totalEnrollments"`
	AverageRating    float64         `json:"averageRating"`
	TotalReviews     int             `json:"totalReviews"`
	TotalLectures    int             `json:"totalLectures"`
	TotalDuration    int             `json:"totalDuration"`
	InstructorStats  InstructorStats `json:"instructorStats"`
}

type DetailAssembler struct {
	repo  Repository
	cache cachelib.Cache
}

func NewDetailAssembler(repo Repository, cache cachelib.Cache) *DetailAssembler {
	return &DetailAssembler{repo: repo, cache: cache}
}

// GetDetail assembles the course page for a viewer. Drafts exist only for
// their instructor; everyone else gets not-found rather than a hint that the
// course exists. Video storage metadata is stripped from lectures the viewer
// may not play.
func (a *DetailAssembler) GetDetail(ctx context.Context, courseID uuid.UUID, viewerID *uuid.UUID) (CourseDetail, error) {
	d, err := a.repo.GetCourseDetail(ctx, courseID)
	if err != nil {
		return CourseDetail{}, errors.Trace(err)
	}

	isOwner := viewerID != nil && *viewerID == d.InstructorID
	if d.Status == StatusDraft && !isOwner {
		return CourseDetail{}, errors.Trace(ErrCourseNotFound)
	}

	if viewerID != nil && !isOwner {
		d.IsEnrolled, err = a.repo.IsEnrolled(ctx, *viewerID, courseID)
		if err != nil {
			return CourseDetail{}, errors.Trace(err)
		}
	}

	var ratingSum int64
	for _, rv := range d.Reviews {
		ratingSum += int64(rv.Rating)
	}
	d.AverageRating = AverageRating(ratingSum, len(d.Reviews))

	canPlay := isOwner || d.IsEnrolled
	for si := range d.Sections {
		for li := range d.Sections[si].Lectures {
			lecture := &d.Sections[si].Lectures[li]
			d.TotalDuration += lecture.DurationSeconds()

			if !canPlay && !lecture.IsPreview {
				lecture.VideoStorageInfo = nil
			}
		}
	}

	d.InstructorStats, err = a.instructorStats(ctx, d.InstructorID)
	if err != nil {
		return CourseDetail{}, errors.Trace(err)
	}

	return d, nil
}

// instructorStats reads through the cache; aggregating over every course of a
// prolific instructor is the most expensive part of the page.
func (a *DetailAssembler) instructorStats(ctx context.Context, instructorID uuid.UUID) (InstructorStats, error) {
	key := instructorStatsCacheKey(instructorID)

	raw, err := a.cache.Get(ctx, key)
	if err == nil {
		var stats InstructorStats
		if err := json.Unmarshal([]byte(raw), &stats); err == nil {
			return stats, nil
		}

		slog.Warn("instructor stats cache entry corrupt", "key", key)
	} else if !errors.Is(err, cachelib.ErrNoValueForKey) {
		slog.Warn("instructor stats cache read failed", "key", key, "error", err)
	}

	stats, err := a.repo.GetInstructorStats(ctx, instructorID)
	if err != nil {
		return InstructorStats{}, errors.Trace(err)
	}

	if payload, err := json.Marshal(stats); err == nil {
		if err := a.cache.SetEx(ctx, key, string(payload), instructorStatsCacheTTL); err != nil {
			slog.Warn("instructor stats cache write failed", "key", key, "error", err)
		}
	}

	return stats, nil
}
