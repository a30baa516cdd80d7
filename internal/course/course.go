package course

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/juju/errors"
)

var (
	ErrCourseNotFound     = errors.New("course: course not found")
	ErrReviewNotFound     = errors.New("course: review not found")
	ErrEnrollmentNotFound = errors.New("course: enrollment not found")

	ErrNotCourseOwner  = errors.New("course: only the course owner may do this")
	ErrNotReviewAuthor = errors.New("course: only the review author may do this")
	ErrOwnCourseReview = errors.New("course: instructors cannot review their own course")
	ErrNotEnrolled     = errors.New("course: only enrolled users may review a course")

	ErrAlreadyEnrolled = errors.New("course: user already enrolled in course")
	ErrReviewExists    = errors.New("course: user already reviewed this course")

	ErrPriceTooLarge = errors.New("course: price exceeds the maximum storable value")

	ErrPaymentRequired = errors.New("course: paid courses require checkout")

	ErrNoTitle = errors.New("course: title is missing")
)

// MaxPrice is the largest price the persistence layer can hold (INT4).
const MaxPrice = math.MaxInt32

type CourseStatus string

const (
	StatusDraft     CourseStatus = "DRAFT"
	StatusPublished CourseStatus = "PUBLISHED"
)

type Course struct {
	ID            uuid.UUID    `json:"id"`
	Slug          string       `json:"slug"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Price         int64        `json:"price"`
	DiscountPrice *int64       `json:"discount_price,omitempty"`
	Status        CourseStatus `json:"status"`
	InstructorID  uuid.UUID    `json:"instructor_id"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     *time.Time   `json:"updated_at,omitempty"`
}

// EffectivePrice is what a learner actually pays: the discount price when one
// is set and non-zero, the list price otherwise.
func (c Course) EffectivePrice() int64 {
	if c.DiscountPrice != nil && *c.DiscountPrice != 0 {
		return *c.DiscountPrice
	}

	return c.Price
}

type Category struct {
	ID   uuid.UUID `json:"id"`
	Slug string    `json:"slug"`
	Name string    `json:"name"`
}

type Section struct {
	ID       uuid.UUID `json:"id"`
	CourseID uuid.UUID `json:"course_id"`
	Order    int       `json:"order"`
	Title    string    `json:"title"`
	Lectures []Lecture `json:"lectures"`
}

type Lecture struct {
	ID        uuid.UUID `json:"id"`
	SectionID uuid.UUID `json:"section_id"`
	Order     int       `json:"order"`
	Title     string    `json:"title"`
	// Duration in seconds; nil when the video has not been processed yet.
	Duration  *int `json:"duration,omitempty"`
	IsPreview bool `json:"is_preview"`
	// VideoStorageInfo is opaque storage metadata. It is redacted from detail
	// views unless the viewer is the instructor, is enrolled, or the lecture
	// is a preview.
	VideoStorageInfo json.RawMessage `json:"video_storage_info,omitempty"`
}

// DurationSeconds treats an unset duration as zero.
func (l Lecture) DurationSeconds() int {
	if l.Duration == nil {
		return 0
	}

	return *l.Duration
}

type Enrollment struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	CourseID   uuid.UUID `json:"course_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// LectureActivity is written by the playback tracker and read-only here.
// WatchedSeconds is the cumulative maximum watched position.
type LectureActivity struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	CourseID       uuid.UUID `json:"course_id"`
	LectureID      uuid.UUID `json:"lecture_id"`
	IsCompleted    bool      `json:"is_completed"`
	WatchedSeconds int       `json:"watched_seconds"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type ReviewAuthor struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Image *string   `json:"image,omitempty"`
}

type Review struct {
	ID              uuid.UUID     `json:"id"`
	UserID          uuid.UUID     `json:"user_id"`
	CourseID        uuid.UUID     `json:"course_id"`
	Rating          int           `json:"rating"`
	Content         string        `json:"content"`
	InstructorReply *string       `json:"instructor_reply,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       *time.Time    `json:"updated_at,omitempty"`
	User            *ReviewAuthor `json:"user,omitempty"`
}

type Favorite struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CourseID  uuid.UUID `json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
}
