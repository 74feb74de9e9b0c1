package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sekolahku/presensi-backend/internal/calendar"
	"github.com/sekolahku/presensi-backend/internal/model"
)

// ────────────────────────────────────────────────────────────────────────────
// In-memory store fakes
// ────────────────────────────────────────────────────────────────────────────

type fakeAttendanceStore struct {
	records map[string]model.AttendanceRecord // keyed by student:date
	nextID  int
	listErr error
	// upsertErrFor fails upserts for one student id, to exercise partial
	// batch failures.
	upsertErrFor int
}

func newFakeAttendanceStore() *fakeAttendanceStore {
	return &fakeAttendanceStore{records: make(map[string]model.AttendanceRecord), nextID: 1}
}

func attKey(studentID int, date model.Date) string {
	return fmt.Sprintf("%d:%s", studentID, date)
}

func (f *fakeAttendanceStore) ListByRange(_ context.Context, courseID *int, start, end time.Time) ([]model.AttendanceRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.AttendanceRecord
	for _, rec := range f.records {
		if courseID != nil && rec.CourseID != *courseID {
			continue
		}
		d := rec.Date.Time
		if d.Before(start) || d.After(end) {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAttendanceStore) Upsert(_ context.Context, rec *model.AttendanceRecord) error {
	if f.upsertErrFor != 0 && rec.StudentID == f.upsertErrFor {
		return errors.New("referenced student or course does not exist")
	}
	key := attKey(rec.StudentID, rec.Date)
	if existing, ok := f.records[key]; ok {
		rec.ID = existing.ID
	} else {
		rec.ID = f.nextID
		f.nextID++
	}
	f.records[key] = *rec
	return nil
}

type fakeEnrollmentStore struct {
	enrollments []model.Enrollment
	listErr     error
}

func (f *fakeEnrollmentStore) List(_ context.Context, courseID *int) ([]model.Enrollment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.Enrollment
	for _, e := range f.enrollments {
		if courseID != nil && e.CourseID != *courseID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type fakeBlockedDayStore struct {
	days []model.BlockedDay
}

func (f *fakeBlockedDayStore) ListByRange(_ context.Context, courseID *int, start, end time.Time) ([]model.BlockedDay, error) {
	var out []model.BlockedDay
	for _, b := range f.days {
		if b.CourseID != nil && courseID != nil && *b.CourseID != *courseID {
			continue
		}
		d := b.Date.Time
		if d.Before(start) || d.After(end) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

type fakeCourseStore struct {
	courses map[int]model.Course
}

func (f *fakeCourseStore) GetByID(_ context.Context, id int) (*model.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, errors.New("no rows in result set")
	}
	return &c, nil
}

func (f *fakeCourseStore) List(_ context.Context) ([]model.Course, error) {
	var out []model.Course
	for _, c := range f.courses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeStudentNamer struct {
	names map[int]string
}

func (f *fakeStudentNamer) NamesByID(_ context.Context, ids []int) (map[int]string, error) {
	out := make(map[int]string)
	for _, id := range ids {
		out[id] = f.names[id]
	}
	return out, nil
}

// ────────────────────────────────────────────────────────────────────────────
// Fixture helpers
// ────────────────────────────────────────────────────────────────────────────

type fixture struct {
	attendance  *fakeAttendanceStore
	enrollments *fakeEnrollmentStore
	blocked     *fakeBlockedDayStore
	courses     *fakeCourseStore
	students    *fakeStudentNamer
	svc         *AttendanceService
}

func newFixture() *fixture {
	f := &fixture{
		attendance:  newFakeAttendanceStore(),
		enrollments: &fakeEnrollmentStore{},
		blocked:     &fakeBlockedDayStore{},
		courses: &fakeCourseStore{courses: map[int]model.Course{
			1: {ID: 1, Code: "7A", Name: "Kelas 7A"},
		}},
		students: &fakeStudentNamer{names: map[int]string{}},
	}
	f.svc = NewAttendanceService(f.attendance, f.enrollments, f.blocked, f.courses, f.students, nil, 0, zerolog.Nop())
	return f
}

func (f *fixture) enroll(studentID, courseID int, enrolledOn model.Date, withdrawnOn *model.Date) {
	f.enrollments.enrollments = append(f.enrollments.enrollments, model.Enrollment{
		ID:          len(f.enrollments.enrollments) + 1,
		StudentID:   studentID,
		CourseID:    courseID,
		EnrolledOn:  enrolledOn,
		WithdrawnOn: withdrawnOn,
	})
	if _, ok := f.students.names[studentID]; !ok {
		f.students.names[studentID] = fmt.Sprintf("Siswa %d", studentID)
	}
}

// markPresent writes a present record for every business day in [start, end].
func (f *fixture) markPresent(studentID, courseID int, start, end time.Time) {
	for _, day := range calendar.BusinessDays(start, end) {
		rec := &model.AttendanceRecord{
			StudentID: studentID,
			CourseID:  courseID,
			Date:      model.DateOf(day),
			Present:   true,
		}
		if err := f.attendance.Upsert(context.Background(), rec); err != nil {
			panic(err)
		}
	}
}

func date(y int, m time.Month, d int) model.Date {
	return model.NewDate(y, m, d)
}

// ────────────────────────────────────────────────────────────────────────────
// Perfect attendance
// ────────────────────────────────────────────────────────────────────────────

func TestPerfectAttendanceFullMonth(t *testing.T) {
	f := newFixture()
	f.enroll(10, 1, date(2025, time.April, 1), nil)
	f.markPresent(10, 1, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC))

	result, err := f.svc.PerfectAttendance(context.Background(), 2025, 4, nil)
	if err != nil {
		t.Fatalf("PerfectAttendance: %v", err)
	}

	if result.TotalBusinessDays != 22 {
		t.Errorf("TotalBusinessDays = %d, want 22", result.TotalBusinessDays)
	}
	if result.Total != 1 || len(result.Students) != 1 {
		t.Fatalf("expected exactly one perfect student, got %d", result.Total)
	}

	o := result.Students[0]
	if o.DaysRequired != 22 || o.DaysPresent != 22 || !o.IsPerfect {
		t.Errorf("outcome = {required:%d present:%d perfect:%t}, want {22 22 true}", o.DaysRequired, o.DaysPresent, o.IsPerfect)
	}
	if o.StudentName != "Siswa 10" || o.CourseName != "Kelas 7A" {
		t.Errorf("names not resolved: %q / %q", o.StudentName, o.CourseName)
	}
}

func TestPerfectAttendanceMidMonthEnrollment(t *testing.T) {
	f := newFixture()
	f.enroll(11, 1, date(2025, time.April, 15), nil)
	f.markPresent(11, 1, time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC), time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC))

	result, err := f.svc.PerfectAttendance(context.Background(), 2025, 4, nil)
	if err != nil {
		t.Fatalf("PerfectAttendance: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("expected one perfect student, got %d", result.Total)
	}
	o := result.Students[0]
	if o.DaysRequired != 12 || o.DaysPresent != 12 || !o.IsPerfect {
		t.Errorf("outcome = {required:%d present:%d perfect:%t}, want {12 12 true}", o.DaysRequired, o.DaysPresent, o.IsPerfect)
	}
}

func TestPerfectAttendanceWithdrawalExclusive(t *testing.T) {
	f := newFixture()
	withdrawn := date(2025, time.April, 20)
	f.enroll(12, 1, date(2025, time.April, 1), &withdrawn)
	// Present on every business day up to and including Apr 19 (the last
	// owed day; Apr 20 itself is outside the half-open window).
	f.markPresent(12, 1, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 4, 19, 0, 0, 0, 0, time.UTC))

	result, err := f.svc.PerfectAttendance(context.Background(), 2025, 4, nil)
	if err != nil {
		t.Fatalf("PerfectAttendance: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("expected one perfect student, got %d", result.Total)
	}
	o := result.Students[0]
	// Business days Apr 1..19, 2025: 14 (weekends 5, 6, 12, 13, 19 → 19 is
	// Saturday, so 14 weekdays remain).
	if o.DaysRequired != 14 || o.DaysPresent != 14 || !o.IsPerfect {
		t.Errorf("outcome = {required:%d present:%d perfect:%t}, want {14 14 true}", o.DaysRequired, o.DaysPresent, o.IsPerfect)
	}
}

func TestPerfectAttendanceMissedDays(t *testing.T) {
	f := newFixture()
	// Enrolled Apr 2 (Wednesday): 21 required business days.
	f.enroll(13, 1, date(2025, time.April, 2), nil)
	f.markPresent(13, 1, time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC))

	// Flip two days to absent.
	for _, d := range []model.Date{date(2025, time.April, 7), date(2025, time.April, 22)} {
		rec := &model.AttendanceRecord{StudentID: 13, CourseID: 1, Date: d, Present: false, Justified: true}
		if err := f.attendance.Upsert(context.Background(), rec); err != nil {
			t.Fatal(err)
		}
	}

	result, err := f.svc.PerfectAttendance(context.Background(), 2025, 4, nil)
	if err != nil {
		t.Fatalf("PerfectAttendance: %v", err)
	}
	if result.Total != 0 {
		t.Fatalf("expected no perfect students, got %d", result.Total)
	}
}

func TestPerfectAttendanceUnrecordedDaysCount(t *testing.T) {
	// A student with present records only on some days must not qualify:
	// days with no row at all still count against the required total.
	f := newFixture()
	f.enroll(14, 1, date(2025, time.April, 1), nil)
	f.markPresent(14, 1, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 4, 11, 0, 0, 0, 0, time.UTC))

	result, err := f.svc.PerfectAttendance(context.Background(), 2025, 4, nil)
	if err != nil {
		t.Fatalf("PerfectAttendance: %v", err)
	}
	if result.Total != 0 {
		t.Fatalf("student with unrecorded days must not be perfect, got %d perfect", result.Total)
	}
}

func TestPerfectAttendanceEmptyWindowExcluded(t *testing.T) {
	f := newFixture()
	// Withdrawn before the month starts: days_required is 0, so the student
	// is excluded from perfect-attendance consideration.
	withdrawn := date(2025, time.March, 10)
	f.enroll(15, 1, date(2025, time.February, 1), &withdrawn)

	result, err := f.svc.PerfectAttendance(context.Background(), 2025, 4, nil)
	if err != nil {
		t.Fatalf("PerfectAttendance: %v", err)
	}
	if result.Total != 0 {
		t.Fatalf("student with empty window must be excluded, got %d", result.Total)
	}
}

func TestPerfectAttendanceInvalidPeriod(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.PerfectAttendance(context.Background(), 2025, 0, nil); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("month 0: err = %v, want ErrInvalidPeriod", err)
	}
	if _, err := f.svc.PerfectAttendance(context.Background(), 2025, 13, nil); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("month 13: err = %v, want ErrInvalidPeriod", err)
	}
	if _, err := f.svc.PerfectAttendance(context.Background(), 0, 4, nil); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("year 0: err = %v, want ErrInvalidPeriod", err)
	}
}

// ────────────────────────────────────────────────────────────────────────────
// Course completeness
// ────────────────────────────────────────────────────────────────────────────

func TestCourseCompletenessFullMonth(t *testing.T) {
	f := newFixture()
	for sid := 20; sid < 23; sid++ {
		f.enroll(sid, 1, date(2025, time.April, 1), nil)
		f.markPresent(sid, 1, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC))
	}

	summary, err := f.svc.CourseCompleteness(context.Background(), 1, 2025, 4, false)
	if err != nil {
		t.Fatalf("CourseCompleteness: %v", err)
	}

	if summary.BusinessDaysInRange != 22 {
		t.Errorf("BusinessDaysInRange = %d, want 22", summary.BusinessDaysInRange)
	}
	if summary.TotalExpected != 66 || summary.TotalRecorded != 66 {
		t.Errorf("totals = %d/%d, want 66/66", summary.TotalRecorded, summary.TotalExpected)
	}
	if summary.Percentage != 100 || summary.Status != StatusComplete {
		t.Errorf("percentage/status = %d/%s, want 100/%s", summary.Percentage, summary.Status, StatusComplete)
	}

	// Weekday buckets partition the totals.
	var sumExpected, sumRecorded int
	for _, wd := range summary.Weekdays {
		sumExpected += wd.Expected
		sumRecorded += wd.Recorded
		if wd.Status != StatusComplete {
			t.Errorf("weekday %s status = %s, want %s", wd.Weekday, wd.Status, StatusComplete)
		}
	}
	if sumExpected != summary.TotalExpected || sumRecorded != summary.TotalRecorded {
		t.Errorf("weekday sums %d/%d do not match totals %d/%d", sumRecorded, sumExpected, summary.TotalRecorded, summary.TotalExpected)
	}
}

func TestCourseCompletenessStatusThresholds(t *testing.T) {
	tests := []struct {
		pct  int
		want string
	}{
		{100, StatusComplete},
		{95, StatusComplete},
		{94, StatusPartial},
		{70, StatusPartial},
		{69, StatusIncomplete},
		{0, StatusIncomplete},
	}
	for _, tt := range tests {
		if got := statusFor(tt.pct); got != tt.want {
			t.Errorf("statusFor(%d) = %s, want %s", tt.pct, got, tt.want)
		}
	}
}

func TestCourseCompletenessEmptyCourse(t *testing.T) {
	f := newFixture()

	summary, err := f.svc.CourseCompleteness(context.Background(), 1, 2025, 4, false)
	if err != nil {
		t.Fatalf("CourseCompleteness: %v", err)
	}
	if summary.TotalExpected != 0 || summary.Percentage != 0 || summary.Status != StatusIncomplete {
		t.Errorf("empty course = {expected:%d pct:%d status:%s}, want {0 0 %s}",
			summary.TotalExpected, summary.Percentage, summary.Status, StatusIncomplete)
	}
}

func TestCourseCompletenessPartialMonthEnrollment(t *testing.T) {
	f := newFixture()
	// One student for the full month, one joining Apr 15. Expected obligations:
	// 22 + 12 = 34. Only the full-month student has records: 22 recorded.
	f.enroll(30, 1, date(2025, time.April, 1), nil)
	f.enroll(31, 1, date(2025, time.April, 15), nil)
	f.markPresent(30, 1, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC))

	summary, err := f.svc.CourseCompleteness(context.Background(), 1, 2025, 4, false)
	if err != nil {
		t.Fatalf("CourseCompleteness: %v", err)
	}
	if summary.TotalExpected != 34 || summary.TotalRecorded != 22 {
		t.Errorf("totals = %d/%d, want 22/34", summary.TotalRecorded, summary.TotalExpected)
	}
	// 22/34 rounds to 65.
	if summary.Percentage != 65 || summary.Status != StatusIncomplete {
		t.Errorf("percentage/status = %d/%s, want 65/%s", summary.Percentage, summary.Status, StatusIncomplete)
	}
}

func TestCourseCompletenessIdempotent(t *testing.T) {
	f := newFixture()
	f.enroll(40, 1, date(2025, time.April, 1), nil)
	f.markPresent(40, 1, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 4, 18, 0, 0, 0, 0, time.UTC))

	first, err := f.svc.CourseCompleteness(context.Background(), 1, 2025, 4, false)
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.svc.CourseCompleteness(context.Background(), 1, 2025, 4, false)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated computation over unchanged data diverged:\n%+v\n%+v", first, second)
	}
}

func TestCourseCompletenessExcludesBlockedDays(t *testing.T) {
	f := newFixture()
	f.enroll(50, 1, date(2025, time.April, 1), nil)
	f.markPresent(50, 1, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC))

	// Block Apr 7 (Monday) school-wide.
	f.blocked.days = append(f.blocked.days, model.BlockedDay{
		ID: 1, Date: date(2025, time.April, 7), Reason: "Libur nasional",
	})

	summary, err := f.svc.CourseCompleteness(context.Background(), 1, 2025, 4, true)
	if err != nil {
		t.Fatal(err)
	}
	if summary.BusinessDaysInRange != 21 {
		t.Errorf("BusinessDaysInRange = %d, want 21 after blocking one Monday", summary.BusinessDaysInRange)
	}
	if summary.TotalExpected != 21 {
		t.Errorf("TotalExpected = %d, want 21", summary.TotalExpected)
	}
}

func TestCourseCompletenessUnknownCourse(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.CourseCompleteness(context.Background(), 99, 2025, 4, false); err == nil {
		t.Fatal("expected error for unknown course")
	}
}

func TestAllCourseCompleteness(t *testing.T) {
	f := newFixture()
	f.courses.courses[2] = model.Course{ID: 2, Code: "7B", Name: "Kelas 7B"}
	f.courses.courses[3] = model.Course{ID: 3, Code: "8A", Name: "Kelas 8A"}

	// Course 1 has data, course 2 has enrollments but no records, course 3
	// is empty.
	f.enroll(60, 1, date(2025, time.April, 1), nil)
	f.markPresent(60, 1, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC))
	f.enroll(61, 2, date(2025, time.April, 1), nil)

	result, err := f.svc.AllCourseCompleteness(context.Background(), 2025, 4, false)
	if err != nil {
		t.Fatalf("AllCourseCompleteness: %v", err)
	}

	if len(result.Courses) != 3 {
		t.Fatalf("expected 3 course summaries, got %d", len(result.Courses))
	}
	// A course with zero expected obligations is excluded from the
	// courses-with-data list but still reported.
	if !reflect.DeepEqual(result.CoursesWithData, []int{1, 2}) {
		t.Errorf("CoursesWithData = %v, want [1 2]", result.CoursesWithData)
	}
	for _, cs := range result.Courses {
		if cs.CourseID == 3 && (cs.TotalExpected != 0 || cs.Status != StatusIncomplete) {
			t.Errorf("empty course summary = %+v", cs)
		}
	}
}

// ────────────────────────────────────────────────────────────────────────────
// Daily analysis
// ────────────────────────────────────────────────────────────────────────────

func TestDailyAnalysis(t *testing.T) {
	f := newFixture()
	f.enroll(70, 1, date(2025, time.April, 1), nil)
	f.markPresent(70, 1, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 4, 4, 0, 0, 0, 0, time.UTC))

	detail, err := f.svc.DailyAnalysis(context.Background(), 1, 2025, 4)
	if err != nil {
		t.Fatalf("DailyAnalysis: %v", err)
	}

	if len(detail.Days) != 22 {
		t.Fatalf("expected 22 day rows, got %d", len(detail.Days))
	}
	// Apr 1..4 are recorded, the rest are not.
	for _, row := range detail.Days {
		wantRecorded := 0
		if !row.Date.After(time.Date(2025, 4, 4, 0, 0, 0, 0, time.UTC)) {
			wantRecorded = 1
		}
		if row.Expected != 1 || row.Recorded != wantRecorded {
			t.Errorf("day %s = {expected:%d recorded:%d}, want {1 %d}", row.Date, row.Expected, row.Recorded, wantRecorded)
		}
	}
	if detail.DuplicateRecords != 0 {
		t.Errorf("DuplicateRecords = %d, want 0", detail.DuplicateRecords)
	}
}

// ────────────────────────────────────────────────────────────────────────────
// Bulk upsert
// ────────────────────────────────────────────────────────────────────────────

func TestUpsertRecordsReplacesByStudentDate(t *testing.T) {
	f := newFixture()
	alpha := model.AbsenceAlpha

	inputs := []model.AttendanceRecordInput{
		{StudentID: 80, CourseID: 1, Date: "2025-04-07", Present: false, AbsenceType: &alpha},
		{StudentID: 80, CourseID: 1, Date: "2025-04-07", Present: true},
	}

	outcome, err := f.svc.UpsertRecords(context.Background(), inputs)
	if err != nil {
		t.Fatalf("UpsertRecords: %v", err)
	}

	if outcome.Succeeded != 2 || outcome.Failed != 0 {
		t.Errorf("succeeded/failed = %d/%d, want 2/0", outcome.Succeeded, outcome.Failed)
	}
	if outcome.DuplicateInputs != 1 {
		t.Errorf("DuplicateInputs = %d, want 1", outcome.DuplicateInputs)
	}

	// Exactly one stored record remains, reflecting the second write.
	stored, err := f.attendance.ListByRange(context.Background(), nil,
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored record, got %d", len(stored))
	}
	if !stored[0].Present || stored[0].AbsenceType != nil {
		t.Errorf("stored record does not reflect the second write: %+v", stored[0])
	}
}

func TestUpsertRecordsPartialFailure(t *testing.T) {
	f := newFixture()
	f.attendance.upsertErrFor = 99

	inputs := []model.AttendanceRecordInput{
		{StudentID: 81, CourseID: 1, Date: "2025-04-08", Present: true},
		{StudentID: 99, CourseID: 1, Date: "2025-04-08", Present: true},
		{StudentID: 82, CourseID: 1, Date: "2025-04-08", Present: true},
	}

	outcome, err := f.svc.UpsertRecords(context.Background(), inputs)
	if err != nil {
		t.Fatalf("UpsertRecords: %v", err)
	}

	if outcome.Succeeded != 2 || outcome.Failed != 1 {
		t.Fatalf("succeeded/failed = %d/%d, want 2/1", outcome.Succeeded, outcome.Failed)
	}
	if outcome.Results[1].Error == "" || outcome.Results[1].Index != 1 {
		t.Errorf("failed item not reported at index 1: %+v", outcome.Results[1])
	}
	if outcome.Results[0].Record == nil || outcome.Results[2].Record == nil {
		t.Error("successful items missing stored records")
	}
}

func TestUpsertRecordsRejectsAbsenceTypeOnPresent(t *testing.T) {
	f := newFixture()
	sakit := model.AbsenceSakit

	outcome, err := f.svc.UpsertRecords(context.Background(), []model.AttendanceRecordInput{
		{StudentID: 83, CourseID: 1, Date: "2025-04-09", Present: true, AbsenceType: &sakit},
	})
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Failed != 1 || outcome.Succeeded != 0 {
		t.Errorf("succeeded/failed = %d/%d, want 0/1", outcome.Succeeded, outcome.Failed)
	}
}

// ────────────────────────────────────────────────────────────────────────────
// Error propagation
// ────────────────────────────────────────────────────────────────────────────

func TestDataStoreErrorPropagates(t *testing.T) {
	f := newFixture()
	f.enrollments.listErr = errors.New("connection refused")

	_, err := f.svc.PerfectAttendance(context.Background(), 2025, 4, nil)
	var dsErr *DataStoreError
	if !errors.As(err, &dsErr) {
		t.Fatalf("err = %v, want *DataStoreError", err)
	}
	if dsErr.Op != "list enrollments" {
		t.Errorf("Op = %q, want %q", dsErr.Op, "list enrollments")
	}
}
