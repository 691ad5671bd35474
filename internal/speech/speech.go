// Package speech renders raw phone numbers, dates and times into the
// spoken-word strings the voice runtime reads back to the caller. All
// functions are pure and never fail: input that cannot be parsed is
// returned unchanged so the call keeps flowing.
package speech

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var digitWords = map[byte]string{
	'0': "zero", '1': "one", '2': "two", '3': "three", '4': "four",
	'5': "five", '6': "six", '7': "seven", '8': "eight", '9': "nine",
}

var dayWords = map[int]string{
	1: "first", 2: "second", 3: "third", 4: "fourth", 5: "fifth",
	6: "sixth", 7: "seventh", 8: "eighth", 9: "ninth", 10: "tenth",
	11: "eleventh", 12: "twelfth", 13: "thirteenth", 14: "fourteenth",
	15: "fifteenth", 16: "sixteenth", 17: "seventeenth", 18: "eighteenth",
	19: "nineteenth", 20: "twentieth", 21: "twenty-first", 22: "twenty-second",
	23: "twenty-third", 24: "twenty-fourth", 25: "twenty-fifth",
	26: "twenty-sixth", 27: "twenty-seventh", 28: "twenty-eighth",
	29: "twenty-ninth", 30: "thirtieth", 31: "thirty-first",
}

var hourWords = map[int]string{
	1: "one", 2: "two", 3: "three", 4: "four", 5: "five", 6: "six",
	7: "seven", 8: "eight", 9: "nine", 10: "ten", 11: "eleven", 12: "twelve",
}

// ForPhone speaks a phone number digit by digit. Exactly 10 digits are
// grouped 3-3-4 with commas between groups; 11 digits with a leading 1
// get a spoken "one" prefix before the same grouping; anything else is
// spoken digit by digit in order.
func ForPhone(phone string) string {
	digits := digitsOnly(phone)

	switch {
	case len(digits) == 10:
		return strings.Join([]string{
			spellDigits(digits[:3]),
			spellDigits(digits[3:6]),
			spellDigits(digits[6:]),
		}, ", ")
	case len(digits) == 11 && digits[0] == '1':
		return "one, " + strings.Join([]string{
			spellDigits(digits[1:4]),
			spellDigits(digits[4:7]),
			spellDigits(digits[7:]),
		}, ", ")
	default:
		words := make([]string, 0, len(digits))
		for i := 0; i < len(digits); i++ {
			words = append(words, digitWord(digits[i]))
		}
		return strings.Join(words, " ")
	}
}

// ForDate turns an ISO date (any time/zone suffix ignored) into speech
// like "January twenty-sixth". Unparsable input is returned as-is.
func ForDate(dateStr string) string {
	datePart := strings.TrimSuffix(dateStr, "Z")
	if i := strings.IndexByte(datePart, 'T'); i >= 0 {
		datePart = datePart[:i]
	}

	dt, err := time.Parse("2006-01-02", datePart)
	if err != nil {
		return dateStr
	}

	day := dt.Day()
	word, ok := dayWords[day]
	if !ok {
		word = fmt.Sprintf("%d%s", day, ordinalSuffix(day))
	}
	return dt.Month().String() + " " + word
}

// ForTime turns "HH:MM" (or a full ISO datetime) into speech like
// "two thirty PM". Minutes are omitted on the hour, spoken as "thirty"
// at half past, and read as two digits otherwise. Unparsable input is
// returned as-is.
func ForTime(timeStr string) string {
	part := timeStr
	if i := strings.IndexByte(part, 'T'); i >= 0 {
		part = part[i+1:]
	}
	if len(part) > 5 {
		part = part[:5]
	}

	hh, mm, ok := strings.Cut(part, ":")
	if !ok {
		return timeStr
	}
	hour, err := strconv.Atoi(hh)
	if err != nil {
		return timeStr
	}
	minute, err := strconv.Atoi(mm)
	if err != nil {
		return timeStr
	}

	period := "PM"
	if hour < 12 {
		period = "AM"
	}
	if hour == 0 {
		hour = 12
	} else if hour > 12 {
		hour -= 12
	}

	word, ok := hourWords[hour]
	if !ok {
		word = strconv.Itoa(hour)
	}

	switch minute {
	case 0:
		return word + " " + period
	case 30:
		return word + " thirty " + period
	default:
		return fmt.Sprintf("%s %02d %s", word, minute, period)
	}
}

// JoinList renders a spoken enumeration: "a", "a, and b", "a, b, and c".
func JoinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func spellDigits(digits string) string {
	words := make([]string, 0, len(digits))
	for i := 0; i < len(digits); i++ {
		words = append(words, digitWord(digits[i]))
	}
	return strings.Join(words, " ")
}

func digitWord(d byte) string {
	if w, ok := digitWords[d]; ok {
		return w
	}
	return string(d)
}

func ordinalSuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
