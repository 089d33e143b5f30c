package content

import (
	"strconv"
	"strings"
)

// StatValue is a hero statistic ready for display. Animated values count up
// to Target and render Suffix after the number; static ones print Text.
type StatValue struct {
	Animated bool
	Target   int
	Suffix   string
	Text     string
}

// ParseStat understands "N+" and "N%". The target is the leading run of
// digits, so "2.5+" counts to 2. Anything else is shown verbatim.
func ParseStat(value string) StatValue {
	v := strings.TrimSpace(value)
	for _, suffix := range []string{"+", "%"} {
		num, ok := strings.CutSuffix(v, suffix)
		if !ok {
			continue
		}
		n, ok := leadingInt(strings.TrimSpace(num))
		if !ok {
			break
		}
		return StatValue{Animated: true, Target: n, Suffix: suffix}
	}
	return StatValue{Text: value}
}

func leadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
