package reporter

import (
	"fmt"
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
)

const (
	CalendarJalali    = "jalali"
	CalendarGregorian = "gregorian"
)

// DateFormatter renders the date line of a message
type DateFormatter interface {
	FormatDate(t time.Time) string
}

// JalaliDate renders "weekday DD month YYYY" in the Persian calendar.
type JalaliDate struct {
	Location *time.Location
}

func (d JalaliDate) FormatDate(t time.Time) string {
	if d.Location != nil {
		t = t.In(d.Location)
	}
	pt := ptime.New(t)
	return fmt.Sprintf("%s %02d %s %d", pt.Weekday().String(), pt.Day(), pt.Month().String(), pt.Year())
}

// GregorianDate renders "Monday 02 January 2006".
type GregorianDate struct {
	Location *time.Location
}

func (d GregorianDate) FormatDate(t time.Time) string {
	if d.Location != nil {
		t = t.In(d.Location)
	}
	return t.Format("Monday 02 January 2006")
}

// NewDateFormatter picks a calendar by name. Unknown names fall back to Jalali.
func NewDateFormatter(calendar string, loc *time.Location) DateFormatter {
	if calendar == CalendarGregorian {
		return GregorianDate{Location: loc}
	}
	return JalaliDate{Location: loc}
}
