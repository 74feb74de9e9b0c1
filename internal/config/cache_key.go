package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// CourseSummaryKey returns the cache key for a course's monthly completeness summary.
func (r *CacheKeyStruct) CourseSummaryKey(courseID, year, month int, excludeBlocked bool) string {
	return fmt.Sprintf("summary:course:%d:%04d-%02d:blocked=%t", courseID, year, month, excludeBlocked)
}

// AllCoursesSummaryKey returns the cache key for the all-courses monthly summary.
func (r *CacheKeyStruct) AllCoursesSummaryKey(year, month int, excludeBlocked bool) string {
	return fmt.Sprintf("summary:all:%04d-%02d:blocked=%t", year, month, excludeBlocked)
}

// PerfectAttendanceKey returns the cache key for a perfect-attendance listing.
// courseID 0 means the school-wide listing.
func (r *CacheKeyStruct) PerfectAttendanceKey(year, month, courseID int) string {
	return fmt.Sprintf("perfect:%04d-%02d:course:%d", year, month, courseID)
}

// SummaryInvalidationPattern matches every cached summary so attendance
// writes can drop them all in one SCAN pass.
func (r *CacheKeyStruct) SummaryInvalidationPattern() string {
	return "summary:*"
}

// PerfectInvalidationPattern matches every cached perfect-attendance listing.
func (r *CacheKeyStruct) PerfectInvalidationPattern() string {
	return "perfect:*"
}

var CacheKey = NewCacheKeyStruct()
