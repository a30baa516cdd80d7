package course

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/lib/pq"

	"github.com/JongMin999/inflearn-fullstack-clone/common/db"
)

// Constraint names the repository maps to conflict errors.
const (
	enrollmentUniqueConstraint = "course_enrollments_user_course_key"
	reviewUniqueConstraint     = "course_reviews_user_course_key"
	favoriteUniqueConstraint   = "course_favorites_user_course_key"
)

// Repository defines the interface for course data access.
type Repository interface {
	// Courses
	GetCourse(ctx context.Context, id uuid.UUID) (Course, error)
	CreateCourse(ctx context.Context, c Course, categoryIDs []uuid.UUID) error
	UpdateCourse(ctx context.Context, id uuid.UUID, updates CourseUpdates) (Course, error)
	DeleteCourse(ctx context.Context, id uuid.UUID) error
	SlugExists(ctx context.Context, slug string) (bool, error)

	// Search
	CountCourses(ctx context.Context, criteria SearchCriteria) (int, error)
	SearchCourses(ctx context.Context, criteria SearchCriteria, offset, limit int) ([]RankedCourse, error)

	// Detail
	GetCourseDetail(ctx context.Context, id uuid.UUID) (CourseDetail, error)
	GetInstructorStats(ctx context.Context, instructorID uuid.UUID) (InstructorStats, error)

	// Enrollments
	CreateEnrollment(ctx context.Context, e Enrollment) error
	DeleteEnrollment(ctx context.Context, userID, courseID uuid.UUID) error
	IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error)

	// Favorites
	CreateFavorite(ctx context.Context, f Favorite) error
	DeleteFavorite(ctx context.Context, userID, courseID uuid.UUID) error
	HasFavorite(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
	CountFavorites(ctx context.Context, courseID uuid.UUID) (int, error)
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]Favorite, error)

	// Reviews
	CreateReview(ctx context.Context, r Review) error
	GetReview(ctx context.Context, id uuid.UUID) (Review, error)
	UpdateReview(ctx context.Context, id uuid.UUID, rating int, content string, at time.Time) (Review, error)
	DeleteReview(ctx context.Context, id uuid.UUID) error
	SetInstructorReply(ctx context.Context, id uuid.UUID, reply string, at time.Time) (Review, error)
	HasUserReview(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
	ListCourseReviews(ctx context.Context, courseID uuid.UUID, sort ReviewSort, offset, limit int) ([]Review, error)
	CountCourseReviews(ctx context.Context, courseID uuid.UUID) (int, error)
	ListInstructorReviews(ctx context.Context, instructorID uuid.UUID) ([]InstructorReview, error)

	// Progress inputs
	GetCourseLectures(ctx context.Context, courseID uuid.UUID) ([]Lecture, error)
	GetLectureActivities(ctx context.Context, userID, courseID uuid.UUID) ([]LectureActivity, error)
	GetEnrolledCourses(ctx context.Context, userID uuid.UUID) ([]EnrolledCourse, error)
	GetLectureActivitiesForCourses(ctx context.Context, userID uuid.UUID, courseIDs []uuid.UUID) ([]LectureActivity, error)
	GetReviewedCourseIDs(ctx context.Context, userID uuid.UUID, courseIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

// CourseUpdates contains optional fields for updating a course.
// A nil CategoryIDs leaves category links untouched; an empty slice clears them.
type CourseUpdates struct {
	Title         *string
	Description   *string
	Price         *int64
	DiscountPrice *int64
	Status        *CourseStatus
	CategoryIDs   []uuid.UUID
}

// HasUpdates returns true if at least one field is set
func (u CourseUpdates) HasUpdates() bool {
	return u.Title != nil || u.Description != nil || u.Price != nil ||
		u.DiscountPrice != nil || u.Status != nil || u.CategoryIDs != nil
}

type pgRepository struct {
	db *sql.DB
}

// NewPGRepository creates a new PostgreSQL repository
func NewPGRepository(db *sql.DB) Repository {
	return &pgRepository{db: db}
}

const courseColumns = `c.id, c.slug, c.title, c.description, c.price, c.discount_price, c.status, c.instructor_id, c.created_at, c.updated_at`

func scanCourse(row interface{ Scan(...any) error }) (Course, error) {
	var c Course
	err := row.Scan(
		&c.ID, &c.Slug, &c.Title, &c.Description, &c.Price, &c.DiscountPrice,
		&c.Status, &c.InstructorID, &c.CreatedAt, &c.UpdatedAt,
	)

	return c, err
}

func (r *pgRepository) GetCourse(ctx context.Context, id uuid.UUID) (Course, error) {
	row := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM courses c WHERE c.id = $1`, courseColumns),
		id,
	)

	c, err := scanCourse(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Course{}, errors.Trace(ErrCourseNotFound)
		}

		return Course{}, errors.Trace(err)
	}

	return c, nil
}

func (r *pgRepository) CreateCourse(ctx context.Context, c Course, categoryIDs []uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Trace(err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO courses (id, slug, title, description, price, discount_price, status, instructor_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.Slug, c.Title, c.Description, c.Price, c.DiscountPrice, c.Status, c.InstructorID, c.CreatedAt,
	)
	if err != nil {
		return errors.Trace(err)
	}

	for _, catID := range categoryIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO course_categories (course_id, category_id) VALUES ($1, $2)`,
			c.ID, catID,
		); err != nil {
			return errors.Trace(err)
		}
	}

	return errors.Trace(tx.Commit())
}

func (r *pgRepository) UpdateCourse(ctx context.Context, id uuid.UUID, updates CourseUpdates) (Course, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Course{}, errors.Trace(err)
	}
	defer tx.Rollback()

	var arger db.Argumenter
	setClauses := []string{fmt.Sprintf("updated_at = %s", arger.Add(time.Now().UTC()))}

	if updates.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = %s", arger.Add(*updates.Title)))
	}
	if updates.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = %s", arger.Add(*updates.Description)))
	}
	if updates.Price != nil {
		setClauses = append(setClauses, fmt.Sprintf("price = %s", arger.Add(*updates.Price)))
	}
	if updates.DiscountPrice != nil {
		setClauses = append(setClauses, fmt.Sprintf("discount_price = %s", arger.Add(*updates.DiscountPrice)))
	}
	if updates.Status != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = %s", arger.Add(string(*updates.Status))))
	}

	query := fmt.Sprintf(
		`UPDATE courses c SET %s WHERE c.id = %s RETURNING %s`,
		strings.Join(setClauses, ", "),
		arger.Add(id),
		strings.ReplaceAll(courseColumns, "c.", ""),
	)

	course, err := scanCourse(tx.QueryRowContext(ctx, query, arger.Values()...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Course{}, errors.Trace(ErrCourseNotFound)
		}

		return Course{}, errors.Trace(err)
	}

	if updates.CategoryIDs != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM course_categories WHERE course_id = $1`, id); err != nil {
			return Course{}, errors.Trace(err)
		}

		for _, catID := range updates.CategoryIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO course_categories (course_id, category_id) VALUES ($1, $2)`,
				id, catID,
			); err != nil {
				return Course{}, errors.Trace(err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Course{}, errors.Trace(err)
	}

	return course, nil
}

func (r *pgRepository) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return errors.Trace(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Trace(err)
	}

	if affected == 0 {
		return errors.Trace(ErrCourseNotFound)
	}

	return nil
}

func (r *pgRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM courses WHERE slug = $1)`,
		slug,
	).Scan(&exists)

	return exists, errors.Trace(err)
}

func (r *pgRepository) CountCourses(ctx context.Context, criteria SearchCriteria) (int, error) {
	var arger db.Argumenter
	query := fmt.Sprintf(
		`SELECT COUNT(*)
		 FROM courses c
		 JOIN users u ON u.id = c.instructor_id
		 WHERE %s`,
		strings.Join(criteria.whereClauses(&arger), " AND "),
	)

	var count int
	if err := r.db.QueryRowContext(ctx, query, arger.Values()...).Scan(&count); err != nil {
		return 0, errors.Trace(err)
	}

	return count, nil
}

func (r *pgRepository) SearchCourses(ctx context.Context, criteria SearchCriteria, offset, limit int) ([]RankedCourse, error) {
	var arger db.Argumenter
	whereClauses := criteria.whereClauses(&arger)

	query := fmt.Sprintf(
		`SELECT %s, u.name,
		        COALESCE(rv.rating_sum, 0), COALESCE(rv.review_count, 0),
		        COALESCE(en.enrollment_count, 0), COALESCE(fv.favorite_count, 0)
		 FROM courses c
		 JOIN users u ON u.id = c.instructor_id
		 LEFT JOIN (
		 	SELECT course_id, SUM(rating) AS rating_sum, COUNT(*) AS review_count
		 	FROM course_reviews GROUP BY course_id
		 ) rv ON rv.course_id = c.id
		 LEFT JOIN (
		 	SELECT course_id, COUNT(*) AS enrollment_count
		 	FROM course_enrollments GROUP BY course_id
		 ) en ON en.course_id = c.id
		 LEFT JOIN (
		 	SELECT course_id, COUNT(*) AS favorite_count
		 	FROM course_favorites GROUP BY course_id
		 ) fv ON fv.course_id = c.id
		 WHERE %s
		 ORDER BY %s
		 OFFSET %s LIMIT %s`,
		courseColumns,
		strings.Join(whereClauses, " AND "),
		criteria.Sort.OrderBy(),
		arger.Add(offset),
		arger.Add(limit),
	)

	rows, err := r.db.QueryContext(ctx, query, arger.Values()...)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()

	var out []RankedCourse
	for rows.Next() {
		var rc RankedCourse
		if err := rows.Scan(
			&rc.ID, &rc.Slug, &rc.Title, &rc.Description, &rc.Price, &rc.DiscountPrice,
			&rc.Status, &rc.InstructorID, &rc.CreatedAt, &rc.UpdatedAt,
			&rc.InstructorName,
			&rc.RatingSum, &rc.ReviewCount,
			&rc.EnrollmentCount, &rc.FavoriteCount,
		); err != nil {
			return nil, errors.Trace(err)
		}

		out = append(out, rc)
	}

	return out, errors.Trace(rows.Err())
}

func (r *pgRepository) GetCourseDetail(ctx context.Context, id uuid.UUID) (CourseDetail, error) {
	var d CourseDetail
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf(
			`SELECT %s, u.name,
			        (SELECT COUNT(*) FROM course_enrollments e WHERE e.course_id = c.id),
			        (SELECT COUNT(*) FROM course_reviews rv WHERE rv.course_id = c.id),
			        (SELECT COUNT(*) FROM lectures l WHERE l.course_id = c.id)
			 FROM courses c
			 JOIN users u ON u.id = c.instructor_id
			 WHERE c.id = $1`,
			courseColumns,
		),
		id,
	).Scan(
		&d.ID, &d.Slug, &d.Title, &d.Description, &d.Price, &d.DiscountPrice,
		&d.Status, &d.InstructorID, &d.CreatedAt, &d.UpdatedAt,
		&d.InstructorName,
		&d.TotalEnrollments, &d.TotalReviews, &d.TotalLectures,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CourseDetail{}, errors.Trace(ErrCourseNotFound)
		}

		return CourseDetail{}, errors.Trace(err)
	}

	if d.Categories, err = r.courseCategories(ctx, id); err != nil {
		return CourseDetail{}, errors.Trace(err)
	}

	if d.Sections, err = r.courseSections(ctx, id); err != nil {
		return CourseDetail{}, errors.Trace(err)
	}

	if d.Reviews, err = r.ListCourseReviews(ctx, id, ReviewSortLatest, 0, d.TotalReviews); err != nil {
		return CourseDetail{}, errors.Trace(err)
	}

	return d, nil
}

func (r *pgRepository) courseCategories(ctx context.Context, courseID uuid.UUID) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT cat.id, cat.slug, cat.name
		 FROM categories cat
		 JOIN course_categories cc ON cc.category_id = cat.id
		 WHERE cc.course_id = $1
		 ORDER BY cat.name`,
		courseID,
	)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var cat Category
		if err := rows.Scan(&cat.ID, &cat.Slug, &cat.Name); err != nil {
			return nil, errors.Trace(err)
		}
		out = append(out, cat)
	}

	return out, errors.Trace(rows.Err())
}

func (r *pgRepository) courseSections(ctx context.Context, courseID uuid.UUID) ([]Section, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, course_id, "order", title FROM sections WHERE course_id = $1 ORDER BY "order"`,
		courseID,
	)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()

	var sections []Section
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var s Section
		if err := rows.Scan(&s.ID, &s.CourseID, &s.Order, &s.Title); err != nil {
			return nil, errors.Trace(err)
		}

		index[s.ID] = len(sections)
		sections = append(sections, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Trace(err)
	}

	lectureRows, err := r.db.QueryContext(ctx,
		`SELECT id, section_id, "order", title, duration, is_preview, video_storage_info
		 FROM lectures WHERE course_id = $1 ORDER BY "order"`,
		courseID,
	)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer lectureRows.Close()

	for lectureRows.Next() {
		var l Lecture
		if err := lectureRows.Scan(&l.ID, &l.SectionID, &l.Order, &l.Title, &l.Duration, &l.IsPreview, &l.VideoStorageInfo); err != nil {
			return nil, errors.Trace(err)
		}

		if i, ok := index[l.SectionID]; ok {
			sections[i].Lectures = append(sections[i].Lectures, l)
		}
	}

	return sections, errors.Trace(lectureRows.Err())
}

func (r *pgRepository) GetInstructorStats(ctx context.Context, instructorID uuid.UUID) (InstructorStats, error) {
	var stats InstructorStats
	err := r.db.QueryRowContext(ctx,
		`SELECT
			(SELECT COUNT(DISTINCT e.user_id)
			 FROM course_enrollments e JOIN courses c ON c.id = e.course_id
			 WHERE c.instructor_id = $1),
			(SELECT COUNT(*)
			 FROM course_reviews rv JOIN courses c ON c.id = rv.course_id
			 WHERE c.instructor_id = $1),
			(SELECT COUNT(*)
			 FROM course_reviews rv JOIN courses c ON c.id = rv.course_id
			 WHERE c.instructor_id = $1 AND rv.instructor_reply IS NOT NULL),
			(SELECT COUNT(*) FROM courses WHERE instructor_id = $1)`,
		instructorID,
	).Scan(&stats.TotalStudents, &stats.TotalReviews, &stats.TotalAnswers, &stats.TotalCourses)

	return stats, errors.Trace(err)
}

func (r *pgRepository) CreateEnrollment(ctx context.Context, e Enrollment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO course_enrollments (id, user_id, course_id, enrolled_at) VALUES ($1, $2, $3, $4)`,
		e.ID, e.UserID, e.CourseID, e.EnrolledAt,
	)
	if err != nil {
		if db.IsConstraintError(err, enrollmentUniqueConstraint) {
			return errors.Trace(ErrAlreadyEnrolled)
		}

		return errors.Trace(err)
	}

	return nil
}

func (r *pgRepository) DeleteEnrollment(ctx context.Context, userID, courseID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM course_enrollments WHERE user_id = $1 AND course_id = $2`,
		userID, courseID,
	)
	if err != nil {
		return errors.Trace(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Trace(err)
	}

	if affected == 0 {
		return errors.Trace(ErrEnrollmentNotFound)
	}

	return nil
}

func (r *pgRepository) IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	var enrolled bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM course_enrollments WHERE user_id = $1 AND course_id = $2)`,
		userID, courseID,
	).Scan(&enrolled)

	return enrolled, errors.Trace(err)
}

func (r *pgRepository) CreateFavorite(ctx context.Context, f Favorite) error {
	// Idempotent under race: a concurrent duplicate insert is a no-op.
	_, err := r.db.ExecContext(ctx,
		fmt.Sprintf(
			`INSERT INTO course_favorites (id, user_id, course_id, created_at)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT ON CONSTRAINT %s DO NOTHING`,
			favoriteUniqueConstraint,
		),
		f.ID, f.UserID, f.CourseID, f.CreatedAt,
	)

	return errors.Trace(err)
}

func (r *pgRepository) DeleteFavorite(ctx context.Context, userID, courseID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM course_favorites WHERE user_id = $1 AND course_id = $2`,
		userID, courseID,
	)

	return errors.Trace(err)
}

func (r *pgRepository) HasFavorite(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM course_favorites WHERE user_id = $1 AND course_id = $2)`,
		userID, courseID,
	).Scan(&exists)

	return exists, errors.Trace(err)
}

func (r *pgRepository) CountFavorites(ctx context.Context, courseID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM course_favorites WHERE course_id = $1`,
		courseID,
	).Scan(&count)

	return count, errors.Trace(err)
}

func (r *pgRepository) ListFavorites(ctx context.Context, userID uuid.UUID) ([]Favorite, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, course_id, created_at FROM course_favorites WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()

	var out []Favorite
	for rows.Next() {
		var f Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.CourseID, &f.CreatedAt); err != nil {
			return nil, errors.Trace(err)
		}
		out = append(out, f)
	}

	return out, errors.Trace(rows.Err())
}

func (r *pgRepository) CreateReview(ctx context.Context, review Review) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO course_reviews (id, user_id, course_id, rating, content, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		review.ID, review.UserID, review.CourseID, review.Rating, review.Content, review.CreatedAt,
	)
	if err != nil {
		if db.IsConstraintError(err, reviewUniqueConstraint) {
			return errors.Trace(ErrReviewExists)
		}

		return errors.Trace(err)
	}

	return nil
}

const reviewColumns = `rv.id, rv.user_id, rv.course_id, rv.rating, rv.content, rv.instructor_reply, rv.created_at, rv.updated_at`

func scanReview(row interface{ Scan(...any) error }) (Review, error) {
	var rv Review
	err := row.Scan(
		&rv.ID, &rv.UserID, &rv.CourseID, &rv.Rating, &rv.Content,
		&rv.InstructorReply, &rv.CreatedAt, &rv.UpdatedAt,
	)

	return rv, err
}

func (r *pgRepository) GetReview(ctx context.Context, id uuid.UUID) (Review, error) {
	row := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM course_reviews rv WHERE rv.id = $1`, reviewColumns),
		id,
	)

	review, err := scanReview(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Review{}, errors.Trace(ErrReviewNotFound)
		}

		return Review{}, errors.Trace(err)
	}

	return review, nil
}

func (r *pgRepository) UpdateReview(ctx context.Context, id uuid.UUID, rating int, content string, at time.Time) (Review, error) {
	row := r.db.QueryRowContext(ctx,
		fmt.Sprintf(
			`UPDATE course_reviews rv SET rating = $1, content = $2, updated_at = $3
			 WHERE rv.id = $4
			 RETURNING %s`,
			strings.ReplaceAll(reviewColumns, "rv.", ""),
		),
		rating, content, at, id,
	)

	review, err := scanReview(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Review{}, errors.Trace(ErrReviewNotFound)
		}

		return Review{}, errors.Trace(err)
	}

	return review, nil
}

func (r *pgRepository) DeleteReview(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM course_reviews WHERE id = $1`, id)
	if err != nil {
		return errors.Trace(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Trace(err)
	}

	if affected == 0 {
		return errors.Trace(ErrReviewNotFound)
	}

	return nil
}

func (r *pgRepository) SetInstructorReply(ctx context.Context, id uuid.UUID, reply string, at time.Time) (Review, error) {
	row := r.db.QueryRowContext(ctx,
		fmt.Sprintf(
			`UPDATE course_reviews rv SET instructor_reply = $1, updated_at = $2
			 WHERE rv.id = $3
			 RETURNING %s`,
			strings.ReplaceAll(reviewColumns, "rv.", ""),
		),
		reply, at, id,
	)

	review, err := scanReview(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Review{}, errors.Trace(ErrReviewNotFound)
		}

		return Review{}, errors.Trace(err)
	}

	return review, nil
}

func (r *pgRepository) HasUserReview(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM course_reviews WHERE user_id = $1 AND course_id = $2)`,
		userID, courseID,
	).Scan(&exists)

	return exists, errors.Trace(err)
}

func (r *pgRepository) ListCourseReviews(ctx context.Context, courseID uuid.UUID, sort ReviewSort, offset, limit int) ([]Review, error) {
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(
			`SELECT %s, u.id, u.name, u.image
			 FROM course_reviews rv
			 JOIN users u ON u.id = rv.user_id
			 WHERE rv.course_id = $1
			 ORDER BY %s
			 OFFSET $2 LIMIT $3`,
			reviewColumns,
			sort.OrderBy(),
		),
		courseID, offset, limit,
	)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var rv Review
		var author ReviewAuthor
		if err := rows.Scan(
			&rv.ID, &rv.UserID, &rv.CourseID, &rv.Rating, &rv.Content,
			&rv.InstructorReply, &rv.CreatedAt, &rv.UpdatedAt,
			&author.ID, &author.Name, &author.Image,
		); err != nil {
			return nil, errors.Trace(err)
		}

		rv.User = &author
		out = append(out, rv)
	}

	return out, errors.Trace(rows.Err())
}

func (r *pgRepository) CountCourseReviews(ctx context.Context, courseID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM course_reviews WHERE course_id = $1`,
		courseID,
	).Scan(&count)

	return count, errors.Trace(err)
}

func (r *pgRepository) ListInstructorReviews(ctx context.Context, instructorID uuid.UUID) ([]InstructorReview, error) {
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(
			`SELECT %s, u.id, u.name, u.image, c.title
			 FROM course_reviews rv
			 JOIN users u ON u.id = rv.user_id
			 JOIN courses c ON c.id = rv.course_id
			 WHERE c.instructor_id = $1`,
			reviewColumns,
		),
		instructorID,
	)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()

	var out []InstructorReview
	for rows.Next() {
		var ir InstructorReview
		var author ReviewAuthor
		if err := rows.Scan(
			&ir.ID, &ir.UserID, &ir.CourseID, &ir.Rating, &ir.Content,
			&ir.InstructorReply, &ir.CreatedAt, &ir.UpdatedAt,
			&author.ID, &author.Name, &author.Image,
			&ir.CourseTitle,
		); err != nil {
			return nil, errors.Trace(err)
		}

		ir.User = &author
		out = append(out, ir)
	}

	return out, errors.Trace(rows.Err())
}

func (r *pgRepository) GetCourseLectures(ctx context.Context, courseID uuid.UUID) ([]Lecture, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, section_id, "order", title, duration, is_preview
		 FROM lectures WHERE course_id = $1 ORDER BY "order"`,
		courseID,
	)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()

	var out []Lecture
	for rows.Next() {
		var l Lecture
		if err := rows.Scan(&l.ID, &l.SectionID, &l.Order, &l.Title, &l.Duration, &l.IsPreview); err != nil {
			return nil, errors.Trace(err)
		}
		out = append(out, l)
	}

	return out, errors.Trace(rows.Err())
}

func (r *pgRepository) GetLectureActivities(ctx context.Context, userID, courseID uuid.UUID) ([]LectureActivity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, course_id, lecture_id, is_completed, duration, updated_at
		 FROM lecture_activities WHERE user_id = $1 AND course_id = $2`,
		userID, courseID,
	)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()

	return scanActivities(rows)
}

func (r *pgRepository) GetLectureActivitiesForCourses(ctx context.Context, userID uuid.UUID, courseIDs []uuid.UUID) ([]LectureActivity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, course_id, lecture_id, is_completed, duration, updated_at
		 FROM lecture_activities WHERE user_id = $1 AND course_id = ANY($2)`,
		userID, pq.Array(uuidStrings(courseIDs)),
	)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()

	return scanActivities(rows)
}

func scanActivities(rows *sql.Rows) ([]LectureActivity, error) {
	var out []LectureActivity
	for rows.Next() {
		var a LectureActivity
		if err := rows.Scan(&a.ID, &a.UserID, &a.CourseID, &a.LectureID, &a.IsCompleted, &a.WatchedSeconds, &a.UpdatedAt); err != nil {
			return nil, errors.Trace(err)
		}
		out = append(out, a)
	}

	return out, errors.Trace(rows.Err())
}

func (r *pgRepository) GetEnrolledCourses(ctx context.Context, userID uuid.UUID) ([]EnrolledCourse, error) {
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(
			`SELECT %s, u.name
			 FROM course_enrollments e
			 JOIN courses c ON c.id = e.course_id
			 JOIN users u ON u.id = c.instructor_id
			 WHERE e.user_id = $1 AND c.instructor_id <> $1
			 ORDER BY e.enrolled_at DESC`,
			courseColumns,
		),
		userID,
	)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()

	var out []EnrolledCourse
	index := make(map[uuid.UUID]int)
	var ids []uuid.UUID
	for rows.Next() {
		var ec EnrolledCourse
		if err := rows.Scan(
			&ec.ID, &ec.Slug, &ec.Title, &ec.Description, &ec.Price, &ec.DiscountPrice,
			&ec.Status, &ec.InstructorID, &ec.CreatedAt, &ec.UpdatedAt,
			&ec.InstructorName,
		); err != nil {
			return nil, errors.Trace(err)
		}

		index[ec.ID] = len(out)
		ids = append(ids, ec.ID)
		out = append(out, ec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Trace(err)
	}

	if len(out) == 0 {
		return out, nil
	}

	lectureRows, err := r.db.QueryContext(ctx,
		`SELECT id, section_id, course_id, "order", title, duration, is_preview
		 FROM lectures WHERE course_id = ANY($1)`,
		pq.Array(uuidStrings(ids)),
	)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer lectureRows.Close()

	for lectureRows.Next() {
		var l Lecture
		var courseID uuid.UUID
		if err := lectureRows.Scan(&l.ID, &l.SectionID, &courseID, &l.Order, &l.Title, &l.Duration, &l.IsPreview); err != nil {
			return nil, errors.Trace(err)
		}

		if i, ok := index[courseID]; ok {
			out[i].Lectures = append(out[i].Lectures, l)
		}
	}

	return out, errors.Trace(lectureRows.Err())
}

func (r *pgRepository) GetReviewedCourseIDs(ctx context.Context, userID uuid.UUID, courseIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT course_id FROM course_reviews WHERE user_id = $1 AND course_id = ANY($2)`,
		userID, pq.Array(uuidStrings(courseIDs)),
	)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]bool)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Trace(err)
		}
		out[id] = true
	}

	return out, errors.Trace(rows.Err())
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}

	return out
}
