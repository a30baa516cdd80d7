package course

import (
	"context"

	"github.com/google/uuid"
	"github.com/juju/errors"
)

// EnrolledCourse is a course row with its flattened lecture list, the shape
// progress computation consumes.
type EnrolledCourse struct {
	Course
	InstructorName string    `json:"instructor_name"`
	Lectures       []Lecture `json:"lectures"`
}

// CourseWithProgress is one entry on a learner's "my courses" page.
type CourseWithProgress struct {
	Course
	InstructorName string   `json:"instructor_name"`
	Progress       Progress `json:"progress"`
	MyReviewExists bool     `json:"myReviewExists"`
}

type CoursesBrowser struct {
	repo Repository
}

func NewCoursesBrowser(repo Repository) *CoursesBrowser {
	return &CoursesBrowser{repo: repo}
}

// Progress computes a user's position in a single course.
func (b *CoursesBrowser) Progress(ctx context.Context, userID, courseID uuid.UUID) (Progress, error) {
	if _, err := b.repo.GetCourse(ctx, courseID); err != nil {
		return Progress{}, errors.Trace(err)
	}

	lectures, err := b.repo.GetCourseLectures(ctx, courseID)
	if err != nil {
		return Progress{}, errors.Trace(err)
	}

	activities, err := b.repo.GetLectureActivities(ctx, userID, courseID)
	if err != nil {
		return Progress{}, errors.Trace(err)
	}

	return ComputeProgress(lectures, activities), nil
}

// BrowseEnrolled lists the user's enrolled courses with per-course progress
// and whether they already left a review. Courses the user instructs are
// excluded even when an enrollment row exists. Activities and review flags
// are fetched in bulk so the page costs a fixed number of queries regardless
// of how many courses the user takes.
func (b *CoursesBrowser) BrowseEnrolled(ctx context.Context, userID uuid.UUID) ([]CourseWithProgress, error) {
	enrolled, err := b.repo.GetEnrolledCourses(ctx, userID)
	if err != nil {
		return nil, errors.Trace(err)
	}

	out := make([]CourseWithProgress, 0, len(enrolled))
	if len(enrolled) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, len(enrolled))
	for i, ec := range enrolled {
		ids[i] = ec.ID
	}

	activities, err := b.repo.GetLectureActivitiesForCourses(ctx, userID, ids)
	if err != nil {
		return nil, errors.Trace(err)
	}

	byCourse := make(map[uuid.UUID][]LectureActivity)
	for _, a := range activities {
		byCourse[a.CourseID] = append(byCourse[a.CourseID], a)
	}

	reviewed, err := b.repo.GetReviewedCourseIDs(ctx, userID, ids)
	if err != nil {
		return nil, errors.Trace(err)
	}

	for _, ec := range enrolled {
		out = append(out, CourseWithProgress{
			Course:         ec.Course,
			InstructorName: ec.InstructorName,
			Progress:       ComputeProgress(ec.Lectures, byCourse[ec.ID]),
			MyReviewExists: reviewed[ec.ID],
		})
	}

	return out, nil
}
