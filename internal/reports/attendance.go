package reports

import (
	"context"
	"fmt"
	"time"

	"school-ledger/internal/dateutil"
	"school-ledger/internal/models"
)

// StudentAttendanceSummary is one student's counters across the month's
// school days.
type StudentAttendanceSummary struct {
	StudentID      string  `json:"studentId"`
	Name           string  `json:"name"`
	Present        int     `json:"present"`
	Absent         int     `json:"absent"`
	Late           int     `json:"late"`
	Medical        int     `json:"medicalAbsence"`
	NoShoes        int     `json:"noShoes"`
	NotInUniform   int     `json:"notInUniform"`
	AttendanceRate float64 `json:"attendanceRate"`
}

// AttendanceReport covers one month's attendance activity.
type AttendanceReport struct {
	Title                 string                     `json:"title"`
	Period                Period                     `json:"period"`
	SchoolDays            int                        `json:"schoolDays"`
	Holidays              []string                   `json:"holidays"`
	EnrolledStudents      int                        `json:"enrolledStudents"`
	OverallAttendanceRate float64                    `json:"overallAttendanceRate"`
	Students              []StudentAttendanceSummary `json:"students"`
}

// GenerateAttendanceReport builds the attendance report for the month
// containing monthDate. Recorded days split into holidays and school days;
// a day is a holiday when any of its records carries the holiday status.
// Rates divide by school days only.
func (a *Aggregator) GenerateAttendanceReport(ctx context.Context, monthDate time.Time) (*AttendanceReport, error) {
	monthStart, monthEnd := dateutil.MonthBounds(monthDate)

	days, err := a.attendance.DaysInRange(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to generate attendance report: %w", err)
	}

	students, err := a.reportableStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate attendance report: %w", err)
	}

	report := &AttendanceReport{
		Holidays:         []string{},
		EnrolledStudents: len(students),
	}

	type counters struct {
		present, absent, late, medical int
		noShoes, notInUniform          int
	}
	perStudent := make(map[string]*counters, len(students))
	for _, st := range students {
		perStudent[st.ID] = &counters{}
	}

	for _, day := range days {
		if day.IsHoliday() {
			report.Holidays = append(report.Holidays, day.Date)
			continue
		}
		report.SchoolDays++

		for studentID, rec := range day.Records {
			c, ok := perStudent[studentID]
			if !ok {
				continue
			}
			switch rec.Status {
			case models.AttendancePresent:
				c.present++
				if rec.Attributes[models.AttrLate] {
					c.late++
				}
			case models.AttendanceLate:
				// A standalone late status is presence with a late mark.
				c.present++
				c.late++
			case models.AttendanceAbsent:
				c.absent++
			case models.AttendanceMedicalAbsence:
				c.medical++
			}
			if rec.Attributes[models.AttrNoShoes] {
				c.noShoes++
			}
			if rec.Attributes[models.AttrNotInUniform] {
				c.notInUniform++
			}
		}
	}

	totalPresent := 0
	report.Students = make([]StudentAttendanceSummary, 0, len(students))
	for _, st := range students {
		c := perStudent[st.ID]
		summary := StudentAttendanceSummary{
			StudentID:    st.ID,
			Name:         st.FullName(),
			Present:      c.present,
			Absent:       c.absent,
			Late:         c.late,
			Medical:      c.medical,
			NoShoes:      c.noShoes,
			NotInUniform: c.notInUniform,
		}
		if report.SchoolDays > 0 {
			summary.AttendanceRate = float64(c.present) / float64(report.SchoolDays) * 100
		}
		totalPresent += c.present
		report.Students = append(report.Students, summary)
	}

	if denom := report.SchoolDays * len(students); denom > 0 {
		report.OverallAttendanceRate = float64(totalPresent) / float64(denom) * 100
	}

	display := fmt.Sprintf("%s %d", monthStart.Month(), monthStart.Year())
	report.Title = "Attendance Report: " + display
	report.Period = Period{
		Month:       int(monthStart.Month()),
		Year:        monthStart.Year(),
		DisplayName: display,
	}
	return report, nil
}
