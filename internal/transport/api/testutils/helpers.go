package testutils

import "strings"

// MultiByteString строка из count четырехбайтовых символов: длина в байтах в 4 раза больше длины в рунах.
// Нужна для проверки валидатора max_bytes.
func MultiByteString(count int) string {
	return strings.Repeat("😁", count)
}
