// redact маскирует чувствительные значения перед записью в логи.
package redact

import "strings"

// Email оставляет две первые руны локальной части и домен.
func Email(s string) string {
	local, domain, ok := strings.Cut(s, "@")
	if !ok || strings.Contains(domain, "@") {
		return "***"
	}

	if r := []rune(local); len(r) > 2 {
		local = string(r[:2]) + "***"
	} else {
		local = "***"
	}

	return local + "@" + domain
}

// Token заменяет любой токен (access/refresh) плейсхолдером.
func Token() string { return "[REDACTED_TOKEN]" }

// Password заменяет пароль плейсхолдером.
func Password() string { return "[REDACTED_PASSWORD]" }

// URL убирает query-строку (подписи presigned-ссылок).
func URL(s string) string {
	if i := strings.IndexByte(s, '?'); i >= 0 {
		return s[:i] + "?[REDACTED]"
	}

	return s
}
