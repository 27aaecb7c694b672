package logger

import "strings"

// SanitizeQueryString checks if a query string contains sensitive
// parameters and returns true if the entire query string should be
// redacted from logs
func SanitizeQueryString(rawQuery string) bool {
	sensitiveParams := []string{
		"password",
		"token",
		"secret",
		"api_key",
		"apikey",
		"email",
		"auth",
	}

	query := strings.ToLower(rawQuery)
	for _, param := range sensitiveParams {
		if strings.Contains(query, param) {
			return true
		}
	}
	return false
}
