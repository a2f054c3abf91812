package service

import (
	"strconv"
	"strings"
	"unicode"
)

const moneyPlaces = 2

// productSlug строит slug товара из названия и id вендора: "Blue Mug!" у вендора 7 станет "blue-mug-7".
// Один вендор не может завести два товара с одинаковым slug.
func productSlug(name string, vendorID int64) string {
	return vendorSlug(name, "product", vendorID)
}

// categorySlug то же для категорий вендора.
func categorySlug(name string, vendorID int64) string {
	return vendorSlug(name, "category", vendorID)
}

func vendorSlug(name, fallback string, vendorID int64) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		slug = fallback
	}
	return slug + "-" + strconv.FormatInt(vendorID, 10)
}
