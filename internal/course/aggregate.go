package course

import "math"

// AverageRating returns the mean of a course's ratings rounded to one
// decimal. Zero reviews yields exactly 0. The same rounding must be applied
// everywhere an average rating is shown so list and detail pages agree.
func AverageRating(ratingSum int64, reviewCount int) float64 {
	if reviewCount == 0 {
		return 0
	}

	return math.Round(float64(ratingSum)/float64(reviewCount)*10) / 10
}

// CourseStats are the derived counters shown alongside a course.
type CourseStats struct {
	AverageRating    float64 `json:"averageRating"`
	TotalReviews     int     `json:"totalReviews"`
	TotalEnrollments int     `json:"totalEnrollments"`
}
