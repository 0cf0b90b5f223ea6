package field

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/harrison/labeller/internal/question"
)

// Slot indices within a date controller.
const (
	slotYear = iota
	slotMonth
	slotDay
	slotHour
	slotMinute
	slotCount
)

// DateController edits a fixed-width masked date/time string
// YYYY-MM-DD[ HH:MM] as five independently editable numeric slots.
// Digit keys overwrite the digit under the cursor using place-value
// arithmetic; up/down increment the slot at the cursor by its place
// value with wraparound. Changing year or month re-clamps the day to
// the month's maximum, so the field can never hold an invalid calendar
// date.
type DateController struct {
	desc     *question.Descriptor
	dateOnly bool

	values  [slotCount]int
	set     [slotCount]bool
	cursor  int
	errored bool
}

// NewDateController seeds the field with the current date and time.
func NewDateController(d *question.Descriptor) *DateController {
	c := &DateController{desc: d, dateOnly: d.DateOnly}
	now := time.Now()
	c.values = [slotCount]int{now.Year(), int(now.Month()), now.Day(), now.Hour(), now.Minute()}
	for slot := range c.set {
		c.set[slot] = true
	}
	if c.dateOnly {
		c.set[slotHour] = false
		c.set[slotMinute] = false
	}
	return c
}

// Descriptor implements Controller.
func (c *DateController) Descriptor() *question.Descriptor { return c.desc }

// Errored implements Controller.
func (c *DateController) Errored() bool { return c.errored }

// Cursor returns the cursor position within the masked string.
func (c *DateController) Cursor() int { return c.cursor }

// RawText renders the masked string, with unset slots shown as zeros.
func (c *DateController) RawText() string {
	date := fmt.Sprintf("%04d-%02d-%02d", c.values[slotYear], c.values[slotMonth], c.values[slotDay])
	if c.dateOnly {
		return date
	}
	return date + fmt.Sprintf(" %02d:%02d", c.values[slotHour], c.values[slotMinute])
}

// HasAnswer implements Controller.
func (c *DateController) HasAnswer() bool {
	_, err := c.Answer()
	return err == nil
}

// Answer returns the slots as a timestamp; it fails while any slot is
// still unset.
func (c *DateController) Answer() (question.Value, error) {
	slots := slotCount
	if c.dateOnly {
		slots = slotHour
	}
	for slot := 0; slot < slots; slot++ {
		if !c.set[slot] {
			return question.Value{}, invalidAnswer(c.desc, "cannot convert %q to a date and time", c.RawText())
		}
	}
	return question.TimeVal(time.Date(
		c.values[slotYear], time.Month(c.values[slotMonth]), c.values[slotDay],
		c.values[slotHour], c.values[slotMinute], 0, 0, time.Local,
	)), nil
}

// SetAnswer accepts a timestamp or a string in ISO form
// ("2006-01-02" or "2006-01-02 15:04"). Out-of-range days in a string
// are clamped to the month's maximum rather than rejected.
func (c *DateController) SetAnswer(v question.Value) error {
	switch v.Kind {
	case question.ValueTime:
		t := v.Time
		c.fill(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute())
		return nil
	case question.ValueString:
		return c.setFromString(v.Str)
	default:
		return invalidAnswer(c.desc, "expected date/time value, got kind %v", v.Kind)
	}
}

func (c *DateController) setFromString(s string) error {
	s = strings.TrimSpace(s)
	datePart := s
	timePart := ""
	if i := strings.IndexByte(s, ' '); i >= 0 {
		datePart, timePart = s[:i], strings.TrimSpace(s[i+1:])
	}

	var year, month, day int
	if n, err := parseDate(datePart, &year, &month, &day); err != nil || n != 3 {
		return invalidAnswer(c.desc, "invalid date/time string %q, expected YYYY-MM-DD[ HH:MM]", s)
	}
	if month < 1 || month > 12 {
		return invalidAnswer(c.desc, "month %d out of range in %q", month, s)
	}
	if day < 1 {
		return invalidAnswer(c.desc, "day %d out of range in %q", day, s)
	}
	// Clamp instead of rejecting: 2024-02-31 becomes 2024-02-29.
	if max := daysInMonth(year, month); day > max {
		day = max
	}

	hour, minute := 0, 0
	if !c.dateOnly && timePart != "" {
		parts := strings.SplitN(timePart, ":", 2)
		if len(parts) != 2 {
			return invalidAnswer(c.desc, "invalid time part %q in %q", timePart, s)
		}
		var err error
		if hour, err = strconv.Atoi(parts[0]); err != nil || hour < 0 || hour > 23 {
			return invalidAnswer(c.desc, "invalid hour in %q", s)
		}
		if minute, err = strconv.Atoi(parts[1]); err != nil || minute < 0 || minute > 59 {
			return invalidAnswer(c.desc, "invalid minute in %q", s)
		}
	}

	c.fill(year, month, day, hour, minute)
	return nil
}

func parseDate(s string, year, month, day *int) (int, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return 0, fmt.Errorf("expected 3 dash-separated fields, got %d", len(parts))
	}
	for i, dst := range []*int{year, month, day} {
		v, err := strconv.Atoi(parts[i])
		if err != nil {
			return i, err
		}
		*dst = v
	}
	return 3, nil
}

func (c *DateController) fill(year, month, day, hour, minute int) {
	c.values = [slotCount]int{year, month, day, hour, minute}
	for slot := range c.set {
		c.set[slot] = true
	}
	if c.dateOnly {
		c.set[slotHour] = false
		c.set[slotMinute] = false
		c.values[slotHour] = 0
		c.values[slotMinute] = 0
	}
	c.errored = false
}

// HandleKey implements Controller.
func (c *DateController) HandleKey(k Key) Signal {
	switch k.Type {
	case KeyEnter:
		return c.tryAdvance()
	case KeyUp:
		c.adjust(c.cursor, +1)
		return SignalNone
	case KeyDown:
		c.adjust(c.cursor, -1)
		return SignalNone
	case KeyTab:
		return c.moveToPart(+1)
	case KeyShiftTab:
		if c.cursor == 0 {
			return SignalRetreat
		}
		return c.moveToPart(-1)
	case KeyLeft:
		return c.moveCursorLeft()
	case KeyRight:
		return c.moveCursorRight()
	case KeyHome:
		if c.cursor == 0 {
			return SignalRetreat
		}
		c.cursor = 0
		return SignalNone
	case KeyEnd:
		if c.cursor == c.lastPos() {
			return c.tryAdvance()
		}
		c.cursor = c.lastPos()
		return SignalNone
	case KeyBackspace, KeyDelete:
		return SignalNone
	case KeyRune:
		if k.Rune < '0' || k.Rune > '9' {
			return SignalNone
		}
		c.overwriteDigit(int(k.Rune - '0'))
		return c.moveCursorRight()
	default:
		return SignalNone
	}
}

func (c *DateController) tryAdvance() Signal {
	if !c.HasAnswer() {
		if c.desc.Required {
			c.errored = true
			return SignalNone
		}
		return SignalAdvance
	}
	c.errored = false
	if c.desc.Reconfigurer {
		return SignalReconfigure
	}
	return SignalAdvance
}

// Mask geometry. Digit positions in "YYYY-MM-DD HH:MM":
// year 0-3, month 5-6, day 8-9, hour 11-12, minute 14-15.

func (c *DateController) lastPos() int {
	if c.dateOnly {
		return 9
	}
	return 15
}

func (c *DateController) partStarts() []int {
	if c.dateOnly {
		return []int{0, 5, 8}
	}
	return []int{0, 5, 8, 11, 14}
}

// slotAt maps a cursor position to its slot and the place value of the
// digit under it. ok is false on separator positions.
func (c *DateController) slotAt(pos int) (slot, place int, ok bool) {
	switch {
	case pos >= 0 && pos <= 3:
		return slotYear, []int{1000, 100, 10, 1}[pos], true
	case pos == 5 || pos == 6:
		return slotMonth, []int{10, 1}[pos-5], true
	case pos == 8 || pos == 9:
		return slotDay, []int{10, 1}[pos-8], true
	}
	if !c.dateOnly {
		switch {
		case pos == 11 || pos == 12:
			return slotHour, []int{10, 1}[pos-11], true
		case pos == 14 || pos == 15:
			return slotMinute, []int{10, 1}[pos-14], true
		}
	}
	return 0, 0, false
}

// adjust increments (dir=+1) or decrements (dir=-1) the slot under pos
// by the place value of the digit at pos, with per-slot wraparound.
func (c *DateController) adjust(pos, dir int) {
	slot, place, ok := c.slotAt(pos)
	if !ok {
		return
	}
	delta := place * dir
	switch slot {
	case slotYear:
		year := c.values[slotYear] + delta
		if year < 1 {
			year = 1970
		}
		c.values[slotYear] = year
	case slotMonth:
		month := c.values[slotMonth] + delta
		if month > 12 {
			month = 1
		} else if month < 1 {
			month = 12
		}
		c.values[slotMonth] = month
	case slotDay:
		max := daysInMonth(c.values[slotYear], c.values[slotMonth])
		day := c.values[slotDay] + delta
		if day > max {
			day = 1
		} else if day < 1 {
			day = max
		}
		c.values[slotDay] = day
	case slotHour:
		hour := c.values[slotHour] + delta
		if hour > 23 {
			hour = 0
		} else if hour < 0 {
			hour = 23
		}
		c.values[slotHour] = hour
	case slotMinute:
		minute := c.values[slotMinute] + delta
		if minute > 59 {
			minute = 0
		} else if minute < 0 {
			minute = 59
		}
		c.values[slotMinute] = minute
	}
	c.set[slot] = true
	c.clampDay()
}

// overwriteDigit recomputes the whole slot value with the typed digit
// substituted at the cursor's place, then clamps to the slot's valid
// range.
func (c *DateController) overwriteDigit(digit int) {
	slot, place, ok := c.slotAt(c.cursor)
	if !ok {
		return
	}
	current := c.values[slot]
	currentDigit := (current / place) % 10
	value := current + (digit-currentDigit)*place

	switch slot {
	case slotYear:
		if value < 1 {
			value = 1970
		}
	case slotMonth:
		if value < 1 {
			value = 1
		} else if value > 12 {
			value = 12
		}
	case slotDay:
		max := daysInMonth(c.values[slotYear], c.values[slotMonth])
		if value < 1 {
			value = 1
		} else if value > max {
			value = max
		}
	case slotHour:
		if value < 0 {
			value = 0
		} else if value > 23 {
			value = 23
		}
	case slotMinute:
		if value < 0 {
			value = 0
		} else if value > 59 {
			value = 59
		}
	}
	c.values[slot] = value
	c.set[slot] = true
	c.clampDay()
}

// clampDay re-clamps the day after a year or month change so the field
// never shows an impossible calendar date.
func (c *DateController) clampDay() {
	if !c.set[slotDay] {
		return
	}
	if max := daysInMonth(c.values[slotYear], c.values[slotMonth]); c.values[slotDay] > max {
		c.values[slotDay] = max
	}
}

func (c *DateController) moveCursorRight() Signal {
	if c.cursor >= c.lastPos() {
		return c.tryAdvance()
	}
	c.cursor++
	// Skip separators: '-' at 4 and 7, ' ' at 10, ':' at 13.
	if _, _, ok := c.slotAt(c.cursor); !ok {
		c.cursor++
	}
	return SignalNone
}

func (c *DateController) moveCursorLeft() Signal {
	if c.cursor <= 0 {
		return SignalRetreat
	}
	c.cursor--
	if _, _, ok := c.slotAt(c.cursor); !ok {
		c.cursor--
	}
	return SignalNone
}

// moveToPart jumps to the start of the adjacent slot; past the last
// part advances to the next question, before the first retreats.
func (c *DateController) moveToPart(dir int) Signal {
	starts := c.partStarts()
	current := 0
	for i, pos := range starts {
		if c.cursor >= pos {
			current = i
		}
	}
	next := current + dir
	switch {
	case next >= len(starts):
		c.cursor = 0
		return c.tryAdvance()
	case next < 0:
		c.cursor = 0
		return SignalRetreat
	default:
		c.cursor = starts[next]
		return SignalNone
	}
}

// daysInMonth uses time.Date normalization: day 0 of the next month is
// the last day of this one.
func daysInMonth(year, month int) int {
	if month < 1 || month > 12 {
		return 31
	}
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
