package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sekolahku/presensi-backend/internal/calendar"
	"github.com/sekolahku/presensi-backend/internal/config"
	"github.com/sekolahku/presensi-backend/internal/database"
	"github.com/sekolahku/presensi-backend/internal/logger"
	"github.com/sekolahku/presensi-backend/internal/model"
	"github.com/sekolahku/presensi-backend/internal/repository"
)

// Seeds two courses, 30 students, enrollment windows (including one
// mid-month joiner and one withdrawal) and a full month of attendance so the
// dashboard has something to show out of the box.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	attendanceRepo := repository.NewAttendanceRepository(pool)
	enrollmentRepo := repository.NewEnrollmentRepository(pool)

	now := time.Now().UTC()
	monthStart, monthEnd := calendar.MonthRange(now.Year(), now.Month())
	businessDays := calendar.BusinessDays(monthStart, monthEnd)

	fmt.Printf("=== Seeding demo data for %s ===\n", now.Format("2006-01"))

	courseIDs := make([]int, 0, 2)
	for _, c := range []struct{ code, name, teacher string }{
		{"7A", "Kelas 7A", "Bu Ratna Dewi"},
		{"7B", "Kelas 7B", "Pak Agus Salim"},
	} {
		var id int
		err := pool.QueryRow(ctx,
			`INSERT INTO courses (code, name, homeroom_teacher) VALUES ($1, $2, $3)
			 ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id`, c.code, c.name, c.teacher).Scan(&id)
		if err != nil {
			log.Fatal().Err(err).Str("code", c.code).Msg("Failed to seed course")
		}
		courseIDs = append(courseIDs, id)
		fmt.Printf("Course %s -> id %d\n", c.code, id)
	}

	names := []string{
		"Budi Santoso", "Siti Aminah", "Andi Pratama", "Rina Wati", "Joko Susilo",
		"Ayu Lestari", "Dodi Kusuma", "Eka Putri", "Fahri Hamzah", "Gita Savitri",
		"Hendra Gunawan", "Ika Sari", "Jamal Mirdad", "Kiki Fatmala", "Lukman Hakim",
		"Maya Septiana", "Nanda Pratama", "Oki Setiana", "Putri Dian", "Qori Maharani",
		"Rafi Ahmad", "Siska Saraswati", "Toni Setiawan", "Umi Kalsum", "Vina Panduwinata",
		"Wahyu Hidayat", "Xena Maharani", "Yudi Pratama", "Zaki Anwar", "Alifia Zahra",
	}

	successCount := 0
	for i, name := range names {
		nis := fmt.Sprintf("%05d", i+1)

		var studentID int
		err := pool.QueryRow(ctx,
			`INSERT INTO students (nis, name) VALUES ($1, $2)
			 ON CONFLICT (nis) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id`, nis, name).Scan(&studentID)
		if err != nil {
			log.Error().Err(err).Str("nis", nis).Msg("Failed to seed student")
			continue
		}

		courseID := courseIDs[i%len(courseIDs)]
		enrolledOn := model.DateOf(monthStart)
		// One late joiner per course to exercise partial-month windows.
		if i == 4 || i == 5 {
			enrolledOn = model.DateOf(monthStart.AddDate(0, 0, 14))
		}

		enrollment := &model.Enrollment{
			StudentID:  studentID,
			CourseID:   courseID,
			EnrolledOn: enrolledOn,
		}
		if err := enrollmentRepo.Create(ctx, enrollment); err != nil && err != repository.ErrDuplicateEnrollment {
			log.Error().Err(err).Int("student_id", studentID).Msg("Failed to seed enrollment")
			continue
		}

		// One withdrawal to exercise the half-open window.
		if i == 6 {
			withdrawOn := monthStart.AddDate(0, 0, 19)
			if err := enrollmentRepo.Withdraw(ctx, enrollment.ID, withdrawOn); err != nil && err != pgx.ErrNoRows {
				log.Error().Err(err).Msg("Failed to seed withdrawal")
			}
		}

		for dayIdx, day := range businessDays {
			if day.After(now) {
				break
			}
			if day.Before(enrolledOn.Time) {
				continue
			}
			rec := &model.AttendanceRecord{
				StudentID: studentID,
				CourseID:  courseID,
				Date:      model.DateOf(day),
				Present:   true,
			}
			// Sprinkle some absences so not everyone is perfect.
			if (i+dayIdx)%17 == 0 {
				rec.Present = false
				rec.Justified = dayIdx%2 == 0
				at := model.AbsenceSakit
				if !rec.Justified {
					at = model.AbsenceAlpha
				}
				rec.AbsenceType = &at
			}
			if err := attendanceRepo.Upsert(ctx, rec); err != nil {
				log.Error().Err(err).Int("student_id", studentID).Msg("Failed to seed attendance")
			}
		}

		successCount++
	}

	fmt.Printf("Seeded %d/%d students with enrollments and attendance\n", successCount, len(names))
}
