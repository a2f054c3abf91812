package pgrepo

import (
	"fmt"
	"math"

	"github.com/fsdevblog/groph-market/internal/repository/repoargs"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// safeConvertUintToInt32 безопасно конвертирует uint в int32. В случае выхода значения за рамки диапазона
// выбрасывает ошибку.
func safeConvertUintToInt32(val uint) (int32, error) {
	if val > uint(math.MaxInt32) {
		return 0, fmt.Errorf("value is out of range: %d", val)
	}
	return int32(val), nil
}

// limitOffset приводит параметры пагинации к виду для запроса. Нулевой лимит заменяется значением по умолчанию,
// слишком большой обрезается до maxListLimit.
func limitOffset(p repoargs.Pagination) (int32, int32, error) {
	limit := p.Limit
	switch {
	case limit == 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}
	safeLimit, err := safeConvertUintToInt32(limit)
	if err != nil {
		return 0, 0, err
	}
	safeOffset, err := safeConvertUintToInt32(p.Offset)
	if err != nil {
		return 0, 0, err
	}
	return safeLimit, safeOffset, nil
}
