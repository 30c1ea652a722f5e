package converter

import (
	"fmt"
	"math"
	"time"

	"github.com/xuri/excelize/v2"
)

// maxDateSerial is the 1900-system serial of 9999-12-31 23:59:59, the last
// instant a spreadsheet date can hold.
const maxDateSerial = 2958465.999988426

// leapBugSerial is the serial of the 1900-02-29 that the 1900 date system
// counts but the calendar lacks. Serials below it count from 1899-12-31.
const leapBugSerial = 60

var (
	epoch1900Early = time.Date(1899, time.December, 31, 0, 0, 0, 0, time.UTC)
	epoch1904      = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// ReinterpretDate converts a date serial to a calendar datetime.
//
// PARAMETERS:
//   - serial: The numeric cell value.
//   - date1904: Whether the source workbook uses the 1904 epoch.
//
// RETURNS:
//   - The datetime, in UTC. In the 1900 system serial 60 names the missing
//     1900-02-29 and maps to 1900-02-28, as 59 does.
//   - An error for NaN, infinite, negative, or out-of-range serials. The
//     caller stores the raw serial instead.
func ReinterpretDate(serial float64, date1904 bool) (time.Time, error) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) {
		return time.Time{}, fmt.Errorf("invalid date serial %v", serial)
	}
	if serial < 0 {
		return time.Time{}, fmt.Errorf("negative date serial %v", serial)
	}

	limit := maxDateSerial
	if date1904 {
		limit -= 1462
	}
	if serial > limit {
		return time.Time{}, fmt.Errorf("date serial %v is past 9999-12-31", serial)
	}

	// excelize switches to a Julian calendar conversion for small serials.
	switch {
	case date1904 && serial < 62:
		return fromEpoch(epoch1904, serial), nil
	case !date1904 && serial < leapBugSerial:
		return fromEpoch(epoch1900Early, serial), nil
	case !date1904 && serial < 62:
		return fromEpoch(epoch1900Early, serial-1), nil
	}

	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// fromEpoch counts serial days from epoch, rounded to the second.
func fromEpoch(epoch time.Time, serial float64) time.Time {
	days := math.Floor(serial)
	secs := math.Round((serial - days) * 86400)
	return epoch.AddDate(0, 0, int(days)).Add(time.Duration(secs) * time.Second)
}
