package utils

import (
	"math"
	"strings"
)

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// CurrencySuffix is appended to every amount written in words.
const CurrencySuffix = "RUPEES ONLY"

// NumberToWords spells num using hundred/thousand/lakh/crore grouping.
func NumberToWords(num int64) string {
	switch {
	case num <= 0:
		return ""
	case num < 20:
		return ones[num]
	case num < 100:
		return strings.TrimSpace(tens[num/10] + " " + ones[num%10])
	case num < 1000:
		return group(num/100, "Hundred", num%100)
	case num < 100000:
		return group(num/1000, "Thousand", num%1000)
	case num < 10000000:
		return group(num/100000, "Lakh", num%100000)
	default:
		return group(num/10000000, "Crore", num%10000000)
	}
}

func group(head int64, unit string, remainder int64) string {
	words := NumberToWords(head) + " " + unit
	if remainder == 0 {
		return words
	}
	return words + " " + NumberToWords(remainder)
}

// AmountInWords renders a whole-rupee amount as upper-case words.
func AmountInWords(amount int64) string {
	if amount == math.MinInt64 {
		// -amount overflows; split off the crores first.
		words := group(-(amount / 10000000), "Crore", -(amount % 10000000))
		return "MINUS " + strings.ToUpper(words) + " " + CurrencySuffix
	}
	if amount < 0 {
		return "MINUS " + AmountInWords(-amount)
	}
	if amount == 0 {
		return "ZERO " + CurrencySuffix
	}
	return strings.ToUpper(NumberToWords(amount)) + " " + CurrencySuffix
}
