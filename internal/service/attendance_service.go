package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sekolahku/presensi-backend/internal/calendar"
	"github.com/sekolahku/presensi-backend/internal/config"
	"github.com/sekolahku/presensi-backend/internal/model"
)

// Completeness status thresholds, as integer percentages.
const (
	StatusCompleteThreshold = 95
	StatusPartialThreshold  = 70
)

// Completeness status labels.
const (
	StatusComplete   = "complete"
	StatusPartial    = "partial"
	StatusIncomplete = "incomplete"
)

// summaryWorkers bounds the per-course fan-out on the all-courses summary.
const summaryWorkers = 4

// ErrInvalidPeriod signals a month outside 1..12 or a non-positive year.
var ErrInvalidPeriod = errors.New("month must be between 1 and 12 and year must be positive")

// DataStoreError wraps an underlying query failure. The message is preserved
// for diagnostics; callers surface it as a 500 and may retry the request.
type DataStoreError struct {
	Op  string
	Err error
}

func (e *DataStoreError) Error() string {
	return fmt.Sprintf("data store: %s: %v", e.Op, e.Err)
}

func (e *DataStoreError) Unwrap() error {
	return e.Err
}

// ────────────────────────────────────────────────────────────────────────────
// Store interfaces
// ────────────────────────────────────────────────────────────────────────────

// AttendanceStore reads and writes raw attendance rows.
type AttendanceStore interface {
	ListByRange(ctx context.Context, courseID *int, start, end time.Time) ([]model.AttendanceRecord, error)
	Upsert(ctx context.Context, rec *model.AttendanceRecord) error
}

// EnrollmentStore reads enrollment windows.
type EnrollmentStore interface {
	List(ctx context.Context, courseID *int) ([]model.Enrollment, error)
}

// BlockedDayStore reads calendar exclusions.
type BlockedDayStore interface {
	ListByRange(ctx context.Context, courseID *int, start, end time.Time) ([]model.BlockedDay, error)
}

// CourseStore resolves courses for display and for the all-courses fan-out.
type CourseStore interface {
	GetByID(ctx context.Context, id int) (*model.Course, error)
	List(ctx context.Context) ([]model.Course, error)
}

// StudentNamer resolves student ids to display names.
type StudentNamer interface {
	NamesByID(ctx context.Context, ids []int) (map[int]string, error)
}

// ────────────────────────────────────────────────────────────────────────────
// Result types
// ────────────────────────────────────────────────────────────────────────────

// WeekdayBreakdown aggregates expected/recorded per weekday bucket.
type WeekdayBreakdown struct {
	Weekday    string `json:"weekday"`
	Expected   int    `json:"expected"`
	Recorded   int    `json:"recorded"`
	Percentage int    `json:"percentage"`
	Status     string `json:"status"`
}

// CourseAttendanceSummary is the per-course completeness result for a month.
type CourseAttendanceSummary struct {
	CourseID            int                `json:"course_id"`
	CourseCode          string             `json:"course_code"`
	CourseName          string             `json:"course_name"`
	Year                int                `json:"year"`
	Month               int                `json:"month"`
	BusinessDaysInRange int                `json:"business_days_in_range"`
	TotalExpected       int                `json:"total_expected"`
	TotalRecorded       int                `json:"total_recorded"`
	Percentage          int                `json:"percentage"`
	Status              string             `json:"status"`
	Weekdays            []WeekdayBreakdown `json:"weekdays"`
}

// AllCoursesSummary wraps every course's summary for one month.
type AllCoursesSummary struct {
	Year            int                       `json:"year"`
	Month           int                       `json:"month"`
	Courses         []CourseAttendanceSummary `json:"courses"`
	CoursesWithData []int                     `json:"courses_with_data"`
}

// StudentAttendanceOutcome is one student's attendance result for a month.
// DaysRequired derives from the enrollment calendar, never from however many
// rows happen to exist, so unrecorded absence days count against perfection.
type StudentAttendanceOutcome struct {
	StudentID    int    `json:"student_id"`
	StudentName  string `json:"student_name"`
	CourseID     int    `json:"course_id"`
	CourseName   string `json:"course_name"`
	DaysRequired int    `json:"days_required"`
	DaysPresent  int    `json:"days_present"`
	IsPerfect    bool   `json:"is_perfect"`
}

// PerfectAttendanceResult lists students with perfect attendance for a month.
type PerfectAttendanceResult struct {
	Year              int                        `json:"year"`
	Month             int                        `json:"month"`
	TotalBusinessDays int                        `json:"total_business_days"`
	Students          []StudentAttendanceOutcome `json:"students"`
	Total             int                        `json:"total"`
}

// DailyAnalysisRow is one business day's expected/recorded detail.
type DailyAnalysisRow struct {
	Date     model.Date `json:"date"`
	Weekday  string     `json:"weekday"`
	Expected int        `json:"expected"`
	Recorded int        `json:"recorded"`
}

// DailyAnalysis is the diagnostic per-day view behind the summary.
type DailyAnalysis struct {
	CourseID         int                `json:"course_id"`
	Year             int                `json:"year"`
	Month            int                `json:"month"`
	Days             []DailyAnalysisRow `json:"days"`
	DuplicateRecords int                `json:"duplicate_records"`
}

// UpsertItemResult reports one record's outcome in a bulk upsert.
type UpsertItemResult struct {
	Index  int                     `json:"index"`
	Record *model.AttendanceRecord `json:"record,omitempty"`
	Error  string                  `json:"error,omitempty"`
}

// UpsertOutcome is the bulk attendance-entry result. Partial failure is
// expected and reported per item, not as a transaction abort.
type UpsertOutcome struct {
	Succeeded       int                `json:"succeeded"`
	Failed          int                `json:"failed"`
	DuplicateInputs int                `json:"duplicate_inputs"`
	Results         []UpsertItemResult `json:"results"`
}

// ────────────────────────────────────────────────────────────────────────────
// Service
// ────────────────────────────────────────────────────────────────────────────

// AttendanceService computes attendance completeness and perfect-attendance
// aggregations over a snapshot of attendance and enrollment rows. Every
// operation is stateless and idempotent; the data store is the sole source
// of truth.
type AttendanceService struct {
	attendance  AttendanceStore
	enrollments EnrollmentStore
	blockedDays BlockedDayStore
	courses     CourseStore
	students    StudentNamer
	rdb         *redis.Client
	cacheTTL    time.Duration
	log         zerolog.Logger
}

// NewAttendanceService creates a new AttendanceService. rdb may be nil to
// disable result caching (unit tests do this).
func NewAttendanceService(
	attendance AttendanceStore,
	enrollments EnrollmentStore,
	blockedDays BlockedDayStore,
	courses CourseStore,
	students StudentNamer,
	rdb *redis.Client,
	cacheTTL time.Duration,
	log zerolog.Logger,
) *AttendanceService {
	return &AttendanceService{
		attendance:  attendance,
		enrollments: enrollments,
		blockedDays: blockedDays,
		courses:     courses,
		students:    students,
		rdb:         rdb,
		cacheTTL:    cacheTTL,
		log:         log.With().Str("component", "attendance_service").Logger(),
	}
}

// ValidatePeriod checks a month/year pair.
func ValidatePeriod(year, month int) error {
	if month < 1 || month > 12 || year < 1 {
		return ErrInvalidPeriod
	}
	return nil
}

// CourseCompleteness computes the completeness summary for one course and
// month, with a weekday-level breakdown. When excludeBlocked is set, blocked
// dates are subtracted from the business-day set before expected counts.
func (s *AttendanceService) CourseCompleteness(ctx context.Context, courseID, year, month int, excludeBlocked bool) (*CourseAttendanceSummary, error) {
	if err := ValidatePeriod(year, month); err != nil {
		return nil, err
	}

	cacheKey := config.CacheKey.CourseSummaryKey(courseID, year, month, excludeBlocked)
	var cached CourseAttendanceSummary
	if s.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err // pgx.ErrNoRows maps to NotFound at the handler
	}

	summary, _, err := s.computeCourseSummary(ctx, course, year, month, excludeBlocked)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, cacheKey, summary)
	return summary, nil
}

// AllCourseCompleteness computes every course's summary for a month with a
// bounded worker fan-out. Each course's aggregation is independent; order of
// computation does not affect the result.
func (s *AttendanceService) AllCourseCompleteness(ctx context.Context, year, month int, excludeBlocked bool) (*AllCoursesSummary, error) {
	if err := ValidatePeriod(year, month); err != nil {
		return nil, err
	}

	cacheKey := config.CacheKey.AllCoursesSummaryKey(year, month, excludeBlocked)
	var cached AllCoursesSummary
	if s.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, &DataStoreError{Op: "list courses", Err: err}
	}

	summaries := make([]*CourseAttendanceSummary, len(courses))
	errs := make([]error, len(courses))

	sem := make(chan struct{}, summaryWorkers)
	done := make(chan int, len(courses))
	for i := range courses {
		sem <- struct{}{}
		go func(i int) {
			defer func() { <-sem; done <- i }()
			summaries[i], _, errs[i] = s.computeCourseSummary(ctx, &courses[i], year, month, excludeBlocked)
		}(i)
	}
	for range courses {
		<-done
	}

	result := &AllCoursesSummary{Year: year, Month: month, Courses: []CourseAttendanceSummary{}, CoursesWithData: []int{}}
	for i := range courses {
		if errs[i] != nil {
			return nil, errs[i]
		}
		result.Courses = append(result.Courses, *summaries[i])
		if summaries[i].TotalExpected > 0 {
			result.CoursesWithData = append(result.CoursesWithData, summaries[i].CourseID)
		}
	}

	s.cacheSet(ctx, cacheKey, result)
	return result, nil
}

// PerfectAttendance lists students whose present-days exactly cover the
// business days of their effective enrollment window for the month.
// courseID nil means school-wide.
func (s *AttendanceService) PerfectAttendance(ctx context.Context, year, month int, courseID *int) (*PerfectAttendanceResult, error) {
	if err := ValidatePeriod(year, month); err != nil {
		return nil, err
	}

	cacheCourse := 0
	if courseID != nil {
		cacheCourse = *courseID
	}
	cacheKey := config.CacheKey.PerfectAttendanceKey(year, month, cacheCourse)
	var cached PerfectAttendanceResult
	if s.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	rangeStart, rangeEnd := calendar.MonthRange(year, time.Month(month))
	businessDays := calendar.BusinessDays(rangeStart, rangeEnd)

	enrollments, err := s.enrollments.List(ctx, courseID)
	if err != nil {
		return nil, &DataStoreError{Op: "list enrollments", Err: err}
	}

	records, err := s.attendance.ListByRange(ctx, courseID, rangeStart, rangeEnd)
	if err != nil {
		return nil, &DataStoreError{Op: "list attendance", Err: err}
	}

	// One record per (student, date) is guaranteed by the store; index
	// present days per student for window membership tests.
	presentDays := make(map[int][]time.Time)
	for _, rec := range records {
		if rec.Present {
			presentDays[rec.StudentID] = append(presentDays[rec.StudentID], calendar.Normalize(rec.Date.Time))
		}
	}

	outcomes := make([]StudentAttendanceOutcome, 0)
	courseNames := make(map[int]string)
	for _, e := range enrollments {
		outcome := computeOutcome(e, businessDays, presentDays[e.StudentID])
		if outcome.IsPerfect {
			outcomes = append(outcomes, outcome)
			courseNames[e.CourseID] = ""
		}
	}

	if err := s.attachNames(ctx, outcomes, courseNames); err != nil {
		return nil, err
	}

	sort.Slice(outcomes, func(i, j int) bool {
		if outcomes[i].StudentName != outcomes[j].StudentName {
			return outcomes[i].StudentName < outcomes[j].StudentName
		}
		return outcomes[i].CourseID < outcomes[j].CourseID
	})

	result := &PerfectAttendanceResult{
		Year:              year,
		Month:             month,
		TotalBusinessDays: len(businessDays),
		Students:          outcomes,
		Total:             len(outcomes),
	}

	s.cacheSet(ctx, cacheKey, result)
	return result, nil
}

// DailyAnalysis returns the per-business-day expected/recorded detail for a
// course, plus an advisory count of duplicate (student, date) rows.
func (s *AttendanceService) DailyAnalysis(ctx context.Context, courseID, year, month int) (*DailyAnalysis, error) {
	if err := ValidatePeriod(year, month); err != nil {
		return nil, err
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	_, detail, err := s.computeCourseSummary(ctx, course, year, month, false)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// ListRecords returns the raw records for a course and month, for edit grids.
func (s *AttendanceService) ListRecords(ctx context.Context, courseID *int, year, month int) ([]model.AttendanceRecord, error) {
	if err := ValidatePeriod(year, month); err != nil {
		return nil, err
	}

	rangeStart, rangeEnd := calendar.MonthRange(year, time.Month(month))
	records, err := s.attendance.ListByRange(ctx, courseID, rangeStart, rangeEnd)
	if err != nil {
		return nil, &DataStoreError{Op: "list attendance", Err: err}
	}
	if records == nil {
		records = []model.AttendanceRecord{}
	}
	return records, nil
}

// UpsertRecords writes a batch of attendance records by (student_id, date).
// Items fail independently; the overall call succeeds with per-item results.
func (s *AttendanceService) UpsertRecords(ctx context.Context, inputs []model.AttendanceRecordInput) (*UpsertOutcome, error) {
	outcome := &UpsertOutcome{Results: make([]UpsertItemResult, 0, len(inputs))}
	seen := make(map[string]bool, len(inputs))

	for i, in := range inputs {
		item := UpsertItemResult{Index: i}

		date, err := model.ParseDate(in.Date)
		if err != nil {
			item.Error = err.Error()
			outcome.Failed++
			outcome.Results = append(outcome.Results, item)
			continue
		}

		if in.Present && in.AbsenceType != nil {
			item.Error = "absence_type is not allowed on a present record"
			outcome.Failed++
			outcome.Results = append(outcome.Results, item)
			continue
		}

		// Duplicate (student, date) pairs inside one batch are a data-quality
		// signal, not an error; the later write wins per upsert semantics.
		key := fmt.Sprintf("%d:%s", in.StudentID, date)
		if seen[key] {
			outcome.DuplicateInputs++
		}
		seen[key] = true

		rec := &model.AttendanceRecord{
			StudentID:   in.StudentID,
			CourseID:    in.CourseID,
			Date:        date,
			Present:     in.Present,
			Justified:   in.Justified,
			AbsenceType: in.AbsenceType,
		}
		if err := s.attendance.Upsert(ctx, rec); err != nil {
			item.Error = err.Error()
			outcome.Failed++
			outcome.Results = append(outcome.Results, item)
			continue
		}

		item.Record = rec
		outcome.Succeeded++
		outcome.Results = append(outcome.Results, item)
	}

	if outcome.Succeeded > 0 {
		s.invalidateCaches(ctx)
	}
	return outcome, nil
}

// ────────────────────────────────────────────────────────────────────────────
// Aggregation core
// ────────────────────────────────────────────────────────────────────────────

// computeCourseSummary runs the single in-memory aggregation pass behind both
// the summary and the daily analysis: two bulk reads, then per-day expected
// and recorded counts over the course's enrollment windows.
func (s *AttendanceService) computeCourseSummary(ctx context.Context, course *model.Course, year, month int, excludeBlocked bool) (*CourseAttendanceSummary, *DailyAnalysis, error) {
	rangeStart, rangeEnd := calendar.MonthRange(year, time.Month(month))
	businessDays := calendar.BusinessDays(rangeStart, rangeEnd)

	if excludeBlocked {
		blocked, err := s.blockedDays.ListByRange(ctx, &course.ID, rangeStart, rangeEnd)
		if err != nil {
			return nil, nil, &DataStoreError{Op: "list blocked days", Err: err}
		}
		businessDays = subtractBlocked(businessDays, blocked)
	}

	enrollments, err := s.enrollments.List(ctx, &course.ID)
	if err != nil {
		return nil, nil, &DataStoreError{Op: "list enrollments", Err: err}
	}

	records, err := s.attendance.ListByRange(ctx, &course.ID, rangeStart, rangeEnd)
	if err != nil {
		return nil, nil, &DataStoreError{Op: "list attendance", Err: err}
	}

	// Distinct students with any record per day. Duplicate (student, date)
	// rows cannot come out of the store, but counting distinct keeps the
	// advisory honest if legacy data slips through.
	recordedByDay := make(map[time.Time]map[int]bool)
	duplicates := 0
	for _, rec := range records {
		day := calendar.Normalize(rec.Date.Time)
		if recordedByDay[day] == nil {
			recordedByDay[day] = make(map[int]bool)
		}
		if recordedByDay[day][rec.StudentID] {
			duplicates++
			continue
		}
		recordedByDay[day][rec.StudentID] = true
	}

	windows := make([][2]time.Time, 0, len(enrollments))
	for _, e := range enrollments {
		var withdrawn *time.Time
		if e.WithdrawnOn != nil {
			withdrawn = &e.WithdrawnOn.Time
		}
		start, end, ok := calendar.EffectiveWindow(e.EnrolledOn.Time, withdrawn, rangeStart, rangeEnd)
		if !ok {
			continue
		}
		windows = append(windows, [2]time.Time{start, end})
	}

	summary := &CourseAttendanceSummary{
		CourseID:            course.ID,
		CourseCode:          course.Code,
		CourseName:          course.Name,
		Year:                year,
		Month:               month,
		BusinessDaysInRange: len(businessDays),
	}
	detail := &DailyAnalysis{
		CourseID:         course.ID,
		Year:             year,
		Month:            month,
		Days:             make([]DailyAnalysisRow, 0, len(businessDays)),
		DuplicateRecords: duplicates,
	}
	weekdayBuckets := make(map[string]*WeekdayBreakdown)

	for _, day := range businessDays {
		expected := 0
		for _, w := range windows {
			if calendar.Contains(w[0], w[1], day) {
				expected++
			}
		}
		recorded := len(recordedByDay[day])

		summary.TotalExpected += expected
		summary.TotalRecorded += recorded

		name := day.Weekday().String()
		bucket := weekdayBuckets[name]
		if bucket == nil {
			bucket = &WeekdayBreakdown{Weekday: name}
			weekdayBuckets[name] = bucket
		}
		bucket.Expected += expected
		bucket.Recorded += recorded

		detail.Days = append(detail.Days, DailyAnalysisRow{
			Date:     model.DateOf(day),
			Weekday:  name,
			Expected: expected,
			Recorded: recorded,
		})
	}

	summary.Percentage = percentage(summary.TotalRecorded, summary.TotalExpected)
	summary.Status = statusFor(summary.Percentage)

	// Weekday buckets in Monday..Friday order.
	for _, wd := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday} {
		if bucket, ok := weekdayBuckets[wd.String()]; ok {
			bucket.Percentage = percentage(bucket.Recorded, bucket.Expected)
			bucket.Status = statusFor(bucket.Percentage)
			summary.Weekdays = append(summary.Weekdays, *bucket)
		}
	}

	return summary, detail, nil
}

// computeOutcome derives one enrollment's attendance outcome. DaysRequired is
// the business-day count of the clamped enrollment window; DaysPresent counts
// present records falling inside that window.
func computeOutcome(e model.Enrollment, businessDays []time.Time, present []time.Time) StudentAttendanceOutcome {
	outcome := StudentAttendanceOutcome{
		StudentID: e.StudentID,
		CourseID:  e.CourseID,
	}
	if len(businessDays) == 0 {
		return outcome
	}

	var withdrawn *time.Time
	if e.WithdrawnOn != nil {
		withdrawn = &e.WithdrawnOn.Time
	}
	start, end, ok := calendar.EffectiveWindow(e.EnrolledOn.Time, withdrawn, businessDays[0], businessDays[len(businessDays)-1])
	if !ok {
		return outcome
	}

	for _, day := range businessDays {
		if calendar.Contains(start, end, day) {
			outcome.DaysRequired++
		}
	}
	for _, day := range present {
		if calendar.Contains(start, end, day) && calendar.IsBusinessDay(day) {
			outcome.DaysPresent++
		}
	}

	outcome.IsPerfect = outcome.DaysRequired > 0 && outcome.DaysPresent == outcome.DaysRequired
	return outcome
}

// attachNames resolves student and course display names onto outcomes.
func (s *AttendanceService) attachNames(ctx context.Context, outcomes []StudentAttendanceOutcome, courseIDs map[int]string) error {
	if len(outcomes) == 0 {
		return nil
	}

	studentIDs := make([]int, 0, len(outcomes))
	seen := make(map[int]bool)
	for _, o := range outcomes {
		if !seen[o.StudentID] {
			seen[o.StudentID] = true
			studentIDs = append(studentIDs, o.StudentID)
		}
	}

	names, err := s.students.NamesByID(ctx, studentIDs)
	if err != nil {
		return &DataStoreError{Op: "resolve student names", Err: err}
	}

	for id := range courseIDs {
		course, err := s.courses.GetByID(ctx, id)
		if err != nil {
			return &DataStoreError{Op: "resolve course name", Err: err}
		}
		courseIDs[id] = course.Name
	}

	for i := range outcomes {
		outcomes[i].StudentName = names[outcomes[i].StudentID]
		outcomes[i].CourseName = courseIDs[outcomes[i].CourseID]
	}
	return nil
}

// subtractBlocked removes blocked dates from the business-day set.
func subtractBlocked(days []time.Time, blocked []model.BlockedDay) []time.Time {
	if len(blocked) == 0 {
		return days
	}
	blockedSet := make(map[time.Time]bool, len(blocked))
	for _, b := range blocked {
		blockedSet[calendar.Normalize(b.Date.Time)] = true
	}

	kept := days[:0:0]
	for _, d := range days {
		if !blockedSet[d] {
			kept = append(kept, d)
		}
	}
	return kept
}

func percentage(recorded, expected int) int {
	if expected == 0 {
		return 0
	}
	return int(math.Round(100 * float64(recorded) / float64(expected)))
}

func statusFor(pct int) string {
	switch {
	case pct >= StatusCompleteThreshold:
		return StatusComplete
	case pct >= StatusPartialThreshold:
		return StatusPartial
	default:
		return StatusIncomplete
	}
}

// ────────────────────────────────────────────────────────────────────────────
// Result cache
// ────────────────────────────────────────────────────────────────────────────

func (s *AttendanceService) cacheGet(ctx context.Context, key string, dst interface{}) bool {
	if s.rdb == nil {
		return false
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Cache entry corrupt; ignoring")
		return false
	}
	return true
}

func (s *AttendanceService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

// invalidateCaches drops every cached summary and perfect listing after an
// attendance write.
func (s *AttendanceService) invalidateCaches(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	for _, pattern := range []string{
		config.CacheKey.SummaryInvalidationPattern(),
		config.CacheKey.PerfectInvalidationPattern(),
	} {
		iter := s.rdb.Scan(ctx, 0, pattern, 0).Iterator()
		for iter.Next(ctx) {
			if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
				s.log.Warn().Err(err).Str("key", iter.Val()).Msg("Cache invalidation failed")
			}
		}
		if err := iter.Err(); err != nil {
			s.log.Warn().Err(err).Str("pattern", pattern).Msg("Cache scan failed")
		}
	}
}
