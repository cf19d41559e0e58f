package domain

func indexCourses(courses []Course) map[int]Course {
	idx := make(map[int]Course, len(courses))
	for _, c := range courses {
		idx[c.ID] = c
	}
	return idx
}

// JoinCart pairs cart items with their courses. Items whose course is gone are dropped.
func JoinCart(items []CartItem, courses []Course) []CartLine {
	idx := indexCourses(courses)
	lines := make([]CartLine, 0, len(items))
	for _, it := range items {
		c, ok := idx[it.CourseID]
		if !ok {
			continue
		}
		lines = append(lines, CartLine{CartItem: it, Course: c.Clone()})
	}
	return lines
}

// JoinEnrollments pairs enrollments with their courses and status. Unresolved ones are dropped.
func JoinEnrollments(enrollments []Enrollment, courses []Course) []LearningEntry {
	idx := indexCourses(courses)
	entries := make([]LearningEntry, 0, len(enrollments))
	for _, e := range enrollments {
		c, ok := idx[e.CourseID]
		if !ok {
			continue
		}
		entries = append(entries, LearningEntry{
			Enrollment: e.Clone(),
			Course:     c.Clone(),
			Status:     StatusFor(e.Progress),
		})
	}
	return entries
}

// MissingCourses lists, in cart order, the course ids of items with no matching course.
func MissingCourses(items []CartItem, courses []Course) []int {
	idx := indexCourses(courses)
	missing := []int{}
	for _, it := range items {
		if _, ok := idx[it.CourseID]; !ok {
			missing = append(missing, it.CourseID)
		}
	}
	return missing
}
