package learning

import (
	"context"
	"errors"
	"testing"

	"coursemarket/internal/domain"
	"coursemarket/internal/latency"
	cartrepo "coursemarket/internal/repository/cart"
	courserepo "coursemarket/internal/repository/course"
	enrollmentrepo "coursemarket/internal/repository/enrollment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc         *Service
	enrollments enrollmentrepo.Repository
	cart        cartrepo.Repository
}

func courses() []domain.Course {
	return []domain.Course{
		{
			ID: 1, Title: "Go", Price: decimal.NewFromInt(50),
			Sections: []domain.Section{
				{ID: 1, Title: "Basics", Lessons: []domain.Lesson{{ID: 1, Title: "Intro"}, {ID: 2, Title: "Types"}}},
				{ID: 2, Title: "Concurrency", Lessons: []domain.Lesson{{ID: 3, Title: "Goroutines"}, {ID: 4, Title: "Channels"}}},
			},
		},
		{
			ID: 2, Title: "SQL", Price: decimal.NewFromInt(30),
			Sections: []domain.Section{{ID: 1, Title: "Select", Lessons: []domain.Lesson{{ID: 10, Title: "Where"}}}},
		},
	}
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	courseRepo, err := courserepo.NewMemory(courses(), latency.None, nil)
	require.NoError(t, err)
	enrollments, err := enrollmentrepo.NewMemory(nil, latency.None, nil)
	require.NoError(t, err)
	cart, err := cartrepo.NewMemory(nil, latency.None, nil)
	require.NoError(t, err)
	return fixture{
		svc:         New(enrollments, courseRepo, cart, nil),
		enrollments: enrollments,
		cart:        cart,
	}
}

func TestEnrollRemovesCartEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, err := f.cart.Add(ctx, 1, decimal.NewFromInt(50))
	require.NoError(t, err)

	e, created, err := f.svc.Enroll(ctx, 1)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1, e.CourseID)
	assert.Zero(t, e.Progress)

	items, err := f.cart.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestEnrollTwiceReturnsExisting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first, _, err := f.svc.Enroll(ctx, 1)
	require.NoError(t, err)
	again, created, err := f.svc.Enroll(ctx, 1)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	all, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestEnrollUnknownCourse(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.svc.Enroll(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCompleteLessonDerivesProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, err := f.svc.Enroll(ctx, 1)
	require.NoError(t, err)

	e, err := f.svc.CompleteLesson(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 25, e.Progress)

	e, err = f.svc.CompleteLesson(ctx, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 50, e.Progress)
	assert.Equal(t, []int{1, 3}, e.CompletedLessons.IDs())
	assert.Equal(t, domain.StatusAlmostDone, domain.StatusFor(e.Progress))

	e, err = f.svc.CompleteLesson(ctx, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 50, e.Progress)
	assert.Equal(t, 2, e.CompletedLessons.Len())
}

func TestCompleteLessonReachesHundred(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, err := f.svc.Enroll(ctx, 2)
	require.NoError(t, err)
	e, err := f.svc.CompleteLesson(ctx, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 100, e.Progress)
}

func TestCompleteLessonRejectsForeignLesson(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, err := f.svc.Enroll(ctx, 1)
	require.NoError(t, err)

	_, err = f.svc.CompleteLesson(ctx, 1, 10)
	assert.ErrorIs(t, err, domain.ErrInvalid)

	e, err := f.svc.ForCourse(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, e.Progress)
	assert.Zero(t, e.CompletedLessons.Len())
}

func TestCompleteLessonWithoutEnrollment(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CompleteLesson(context.Background(), 1, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateValidatesProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e, _, err := f.svc.Enroll(ctx, 1)
	require.NoError(t, err)

	bad := 101
	_, err = f.svc.Update(ctx, e.ID, domain.EnrollmentPatch{Progress: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalid)

	zero := 0
	_, err = f.svc.Update(ctx, 999, domain.EnrollmentPatch{Progress: &zero})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUpdateKeepsProgressInStepWithLessons(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e, _, err := f.svc.Enroll(ctx, 1)
	require.NoError(t, err)

	seventy := 70
	_, err = f.svc.Update(ctx, e.ID, domain.EnrollmentPatch{Progress: &seventy})
	assert.ErrorIs(t, err, domain.ErrInvalid)

	lessons := domain.NewLessonSet(1, 3)
	updated, err := f.svc.Update(ctx, e.ID, domain.EnrollmentPatch{CompletedLessons: &lessons})
	require.NoError(t, err)
	assert.Equal(t, 50, updated.Progress)
	assert.Equal(t, []int{1, 3}, updated.CompletedLessons.IDs())

	fifty := 50
	_, err = f.svc.Update(ctx, e.ID, domain.EnrollmentPatch{Progress: &fifty})
	require.NoError(t, err)

	foreign := domain.NewLessonSet(1, 10)
	_, err = f.svc.Update(ctx, e.ID, domain.EnrollmentPatch{CompletedLessons: &foreign})
	assert.ErrorIs(t, err, domain.ErrInvalid)

	mismatched := domain.NewLessonSet(1)
	_, err = f.svc.Update(ctx, e.ID, domain.EnrollmentPatch{CompletedLessons: &mismatched, Progress: &fifty})
	assert.ErrorIs(t, err, domain.ErrInvalid)

	stored, err := f.svc.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, stored.Progress)
	assert.Equal(t, 2, stored.CompletedLessons.Len())
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e, _, err := f.svc.Enroll(ctx, 1)
	require.NoError(t, err)

	ok, err := f.svc.Delete(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = f.svc.Delete(ctx, e.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.svc.Get(ctx, e.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestViewStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, err := f.svc.Enroll(ctx, 1)
	require.NoError(t, err)
	_, _, err = f.svc.Enroll(ctx, 2)
	require.NoError(t, err)
	_, err = f.svc.CompleteLesson(ctx, 2, 10)
	require.NoError(t, err)
	_, err = f.svc.CompleteLesson(ctx, 1, 2)
	require.NoError(t, err)

	view, err := f.svc.View(ctx)
	require.NoError(t, err)
	require.Len(t, view.Entries, 2)
	assert.Equal(t, domain.LearningStats{Enrolled: 2, Completed: 1, InProgress: 1}, view.Stats)
	assert.Equal(t, domain.StatusInProgress, view.Entries[0].Status)
	assert.Equal(t, domain.StatusCompleted, view.Entries[1].Status)
	assert.Equal(t, "SQL", view.Entries[1].Course.Title)
}
