package validation

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
)

// NoLimit disables the ceiling in BoundedInt.
const NoLimit = 0

// DateLayout is the DD/MM/YYYY layout used by request dates. Single digit
// days and months are accepted.
const DateLayout = "2/1/2006"

// Date-rule messages.
const (
	MsgInvalidDateFormat = "Invalid date format, expected DD/MM/YYYY."
	MsgStartTooSoon      = "StartDate must be at least %d days after today."
	MsgStayTooShort      = "Stay duration must be at least %d nights."
)

// Set is an allow-list of accepted values.
type Set map[string]struct{}

// NewSet builds a Set from values.
func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Has reports whether v is allowed.
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Values returns the members in sorted order.
func (s Set) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy of s.
func (s Set) Clone() Set {
	return NewSet(s.Values()...)
}

// FindText returns the trimmed text of the first element matching path.
func FindText(root *etree.Element, path string) (string, bool) {
	el := root.FindElement(path)
	if el == nil {
		return "", false
	}
	return strings.TrimSpace(el.Text()), true
}

// Field returns the text at path when it is a member of allowed, and def
// otherwise. It never reports an error.
func Field(root *etree.Element, path string, allowed Set, def string) string {
	if text, ok := FindText(root, path); ok && allowed.Has(text) {
		return text
	}
	return def
}

// BoundedInt parses the text at path as a non-negative decimal integer,
// clamped to ceiling unless ceiling is NoLimit. Missing or non-digit text yields def.
func BoundedInt(root *etree.Element, path string, def, ceiling int) int {
	text, ok := FindText(root, path)
	if !ok || !IsDigits(text) {
		return def
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		// digits only, so the value overflowed
		if ceiling != NoLimit {
			return ceiling
		}
		return def
	}
	if ceiling != NoLimit && n > ceiling {
		return ceiling
	}
	return n
}

// TextList returns the trimmed text of every element matching path.
func TextList(root *etree.Element, path string) []string {
	elements := root.FindElements(path)
	out := make([]string, 0, len(elements))
	for _, el := range elements {
		out = append(out, strings.TrimSpace(el.Text()))
	}
	return out
}

// DateWindow configures DateRange.
type DateWindow struct {
	MinLeadDays int
	MinNights   int
}

// DateRange parses the dates at startPath and endPath. A missing or
// unparsable date records MsgInvalidDateFormat and returns ok=false.
// Otherwise the lead time and stay length are checked against w relative to
// the calendar day of now, and the dates are returned even when a check fails.
func DateRange(root *etree.Element, startPath, endPath string, now time.Time, w DateWindow, errs *Errors) (start, end Date, ok bool) {
	startText, startFound := FindText(root, startPath)
	endText, endFound := FindText(root, endPath)
	if !startFound || !endFound {
		errs.Add(MsgInvalidDateFormat)
		return Date{}, Date{}, false
	}

	var err error
	if start, err = ParseDate(startText); err != nil {
		errs.Add(MsgInvalidDateFormat)
		return Date{}, Date{}, false
	}
	if end, err = ParseDate(endText); err != nil {
		errs.Add(MsgInvalidDateFormat)
		return Date{}, Date{}, false
	}

	today := DateOf(now)
	if start.Before(today.AddDays(w.MinLeadDays)) {
		errs.Addf(MsgStartTooSoon, w.MinLeadDays)
	}
	if end.DaysSince(start) < w.MinNights {
		errs.Addf(MsgStayTooShort, w.MinNights)
	}
	return start, end, true
}

// IsDigits reports whether s is a non-empty run of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
