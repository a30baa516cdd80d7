package course

import (
	"math"

	"github.com/google/uuid"
)

// Progress summarizes a user's position in a course. The percentage is based
// on the completed-lecture ratio, not watched duration, even though both are
// reported.
type Progress struct {
	CompletedLectures  int     `json:"completedLectures"`
	TotalLectures      int     `json:"totalLectures"`
	WatchedDuration    int     `json:"watchedDuration"`
	TotalDuration      int     `json:"totalDuration"`
	ProgressPercentage float64 `json:"progressPercentage"`
}

// ComputeProgress derives a Progress block from a course's flattened lecture
// list and the user's activity records. Activities referencing lectures no
// longer in the course contribute nothing to durations but still count as
// completed when flagged so. A completed lecture contributes its full
// duration; a partial watch is clamped to the lecture's own length so
// over-reported positions cannot inflate the total.
func ComputeProgress(lectures []Lecture, activities []LectureActivity) Progress {
	byID := make(map[uuid.UUID]Lecture, len(lectures))

	var totalDuration int
	for _, l := range lectures {
		byID[l.ID] = l
		totalDuration += l.DurationSeconds()
	}

	var completed, watched int
	for _, a := range activities {
		if a.IsCompleted {
			completed++
		}

		lecture, ok := byID[a.LectureID]
		if !ok || lecture.DurationSeconds() == 0 {
			continue
		}

		if a.IsCompleted {
			watched += lecture.DurationSeconds()
			continue
		}

		w := a.WatchedSeconds
		if w > lecture.DurationSeconds() {
			w = lecture.DurationSeconds()
		}
		watched += w
	}

	var percentage float64
	if len(lectures) > 0 {
		percentage = math.Round(float64(completed)/float64(len(lectures))*10000) / 100
		percentage = math.Min(100, percentage)
	}

	return Progress{
		CompletedLectures:  completed,
		TotalLectures:      len(lectures),
		WatchedDuration:    watched,
		TotalDuration:      totalDuration,
		ProgressPercentage: percentage,
	}
}
