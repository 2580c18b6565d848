package utils

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// GenerateTransferCode returns a random numeric bank-memo reference. It only
// helps admins match transfers by eye; collisions are harmless.
func GenerateTransferCode(digits int) string {
	if digits <= 0 {
		digits = 4
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	code := ""
	for i := 0; i < digits; i++ {
		code += fmt.Sprintf("%d", rng.Intn(10))
	}
	return code
}

// Pagination reads page/limit query values, defaulting to 1 and 10 and capping limit at 100.
func Pagination(pageStr, limitStr string) (page, limit, offset int) {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit, (page - 1) * limit
}

// CertificateFileName builds the download name, e.g. certificate-Ada_Lovelace.pdf.
func CertificateFileName(recipient string) string {
	name := strings.Join(strings.Fields(recipient), "_")
	name = strings.Map(func(r rune) rune {
		if r == '"' || r == '/' || r == '\\' {
			return -1
		}
		return r
	}, name)
	if name == "" {
		name = "certificate"
	}
	return "certificate-" + name + ".pdf"
}
