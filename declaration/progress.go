package declaration

import "unicode"

const (
	MinProgress = 0
	MaxProgress = 100
)

// ParseProgress turns user input into a percentage in [0,100].
//
// The integer prefix is read after leading whitespace with an optional
// sign, so "42abc" is 42 and "3.9" is 3. Input without a leading digit
// yields 0.
func ParseProgress(raw string) int {
	runes := []rune(raw)
	i := 0
	for i < len(runes) && unicode.IsSpace(runes[i]) {
		i++
	}

	negative := false
	if i < len(runes) && (runes[i] == '+' || runes[i] == '-') {
		negative = runes[i] == '-'
		i++
	}

	value := 0
	digits := 0
	for ; i < len(runes) && runes[i] >= '0' && runes[i] <= '9'; i++ {
		digits++
		// Anything past three digits is already out of range.
		if value <= MaxProgress {
			value = value*10 + int(runes[i]-'0')
		}
	}
	if digits == 0 {
		return MinProgress
	}
	if negative {
		value = -value
	}
	return Clamp(value)
}

// Clamp bounds v to [MinProgress, MaxProgress].
func Clamp(v int) int {
	if v < MinProgress {
		return MinProgress
	}
	if v > MaxProgress {
		return MaxProgress
	}
	return v
}
