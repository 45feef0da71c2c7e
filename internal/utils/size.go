package utils

import (
	"strconv"
	"strings"
)

var fileSizeUnits = []string{"b", "kb", "mb", "gb", "tb", "pb"}

// FormatFileSize converts a byte length into a human-readable lower-case unit string.
// Values below ten keep one decimal place, larger values are rounded.
func FormatFileSize(byteCount int64) string {
	if byteCount <= 0 {
		return "0b"
	}
	scaledValue := float64(byteCount)
	unitIndex := 0
	for scaledValue >= 1024 && unitIndex < len(fileSizeUnits)-1 {
		scaledValue /= 1024
		unitIndex++
	}
	if unitIndex == 0 {
		return strconv.FormatInt(byteCount, 10) + fileSizeUnits[0]
	}
	precision := 0
	if scaledValue < 10 {
		precision = 1
	}
	formattedValue := strings.TrimSuffix(strconv.FormatFloat(scaledValue, 'f', precision, 64), ".0")
	return formattedValue + fileSizeUnits[unitIndex]
}
