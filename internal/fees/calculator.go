// Package fees turns attendance records into charges.
package fees

import (
	"school-ledger/internal/models"
)

// Default fee units in the base currency.
const (
	AbsenceFee      = 5
	LateFee         = 1
	NoShoesFee      = 1
	NotInUniformFee = 1
)

// Calculator computes the fee a single attendance record incurs.
// It is a pure function of (status, attributes) and never returns a
// negative amount.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// Fee returns the charge for one attendance record.
//
// Absences charge the absence fee; medical absences and holidays are free.
// A present record charges one unit per true attribute flag. A standalone
// "late" status is the same as present with the late flag set.
func (c *Calculator) Fee(status string, attributes map[string]bool) int {
	switch status {
	case models.AttendanceAbsent:
		return AbsenceFee
	case models.AttendanceMedicalAbsence, models.AttendanceHoliday:
		return 0
	case models.AttendanceLate:
		merged := map[string]bool{models.AttrLate: true}
		for k, v := range attributes {
			if v {
				merged[k] = true
			}
		}
		return c.attributeFees(merged)
	case models.AttendancePresent:
		return c.attributeFees(attributes)
	default:
		return 0
	}
}

// RecordFee is a convenience wrapper over Fee for a full record.
func (c *Calculator) RecordFee(rec models.AttendanceRecord) int {
	return c.Fee(rec.Status, rec.Attributes)
}

func (c *Calculator) attributeFees(attributes map[string]bool) int {
	total := 0
	if attributes[models.AttrLate] {
		total += LateFee
	}
	if attributes[models.AttrNoShoes] {
		total += NoShoesFee
	}
	if attributes[models.AttrNotInUniform] {
		total += NotInUniformFee
	}
	return total
}
