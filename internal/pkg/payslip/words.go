package payslip

import "strings"

var (
	frenchUnits = []string{"zéro", "un", "deux", "trois", "quatre", "cinq", "six", "sept", "huit", "neuf",
		"dix", "onze", "douze", "treize", "quatorze", "quinze", "seize", "dix-sept", "dix-huit", "dix-neuf"}
	frenchTens = []string{"", "", "vingt", "trente", "quarante", "cinquante", "soixante"}
)

type frenchScale struct {
	value  int64
	word   string
	plural bool
}

var frenchScales = []frenchScale{
	{1_000_000_000, "milliard", true},
	{1_000_000, "million", true},
	{1_000, "mille", false},
}

// AmountInWords spells a whole amount in French, as written on payslips
// ("quatre cent quatre-vingt mille").
func AmountInWords(n int64) string {
	if n == 0 {
		return frenchUnits[0]
	}
	if n < 0 {
		return "moins " + AmountInWords(-n)
	}

	var parts []string
	for _, scale := range frenchScales {
		count := n / scale.value
		n %= scale.value
		if count == 0 {
			continue
		}
		switch {
		case scale.word == "mille" && count == 1:
			parts = append(parts, "mille")
		case scale.plural:
			word := scale.word
			if count > 1 {
				word += "s"
			}
			parts = append(parts, belowThousand(count, true), word)
		default:
			// mille is invariable and keeps "cent" and "vingt" singular before it.
			parts = append(parts, belowThousand(count, false), scale.word)
		}
	}
	if n > 0 {
		parts = append(parts, belowThousand(n, true))
	}
	return strings.Join(parts, " ")
}

// belowThousand spells 1..999. final tells whether the group ends the number,
// which decides the plural of "cents" and "quatre-vingts".
func belowThousand(n int64, final bool) string {
	hundreds, rest := n/100, n%100

	var parts []string
	switch {
	case hundreds == 1:
		parts = append(parts, "cent")
	case hundreds > 1:
		word := frenchUnits[hundreds] + " cent"
		if rest == 0 && final {
			word += "s"
		}
		parts = append(parts, word)
	}
	if rest > 0 {
		parts = append(parts, belowHundred(rest, final))
	}
	return strings.Join(parts, " ")
}

func belowHundred(n int64, final bool) string {
	if n < 20 {
		return frenchUnits[n]
	}
	tens, unit := n/10, n%10

	switch tens {
	case 7:
		// soixante-dix and up
		if unit == 1 {
			return "soixante et onze"
		}
		return "soixante-" + frenchUnits[10+unit]
	case 8:
		if unit == 0 {
			if final {
				return "quatre-vingts"
			}
			return "quatre-vingt"
		}
		return "quatre-vingt-" + frenchUnits[unit]
	case 9:
		return "quatre-vingt-" + frenchUnits[10+unit]
	}

	switch unit {
	case 0:
		return frenchTens[tens]
	case 1:
		return frenchTens[tens] + " et un"
	}
	return frenchTens[tens] + "-" + frenchUnits[unit]
}
