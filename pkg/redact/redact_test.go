package redact

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Unit-тесты pkg/redact:
//   - Email: ASCII, короткая локальная часть (≤2 рун), отсутствие/множество '@',
//     сохранение домена, Unicode (португальские и кириллические руны);
//   - URL: срезание query у presigned-ссылок;
//   - литералы Token/Password.

func TestEmail_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "ascii_local_gt_2", in: "marta@example.com", want: "ma***@example.com"},
		{name: "ascii_local_len_1", in: "a@ex.com", want: "***@ex.com"},
		{name: "ascii_local_len_2", in: "ab@ex.com", want: "***@ex.com"},
		{name: "no_at", in: "no-at-here", want: "***"},
		{name: "multiple_at", in: "a@b@c", want: "***"},
		{name: "plus_tag_domain_case", in: "abc.def+tag@EXAMPLE.org", want: "ab***@EXAMPLE.org"},
		{name: "empty", in: "", want: "***"},
		{name: "empty_domain", in: "user@", want: "us***@"},
		{name: "unicode_pt", in: "joão@exemplo.com.br", want: "jo***@exemplo.com.br"},
		{name: "unicode_leading_multibyte", in: "ângela@x.br", want: "ân***@x.br"},
		{name: "unicode_len_2", in: "юз@домен", want: "***@домен"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, Email(tt.in))
		})
	}
}

func TestURL(t *testing.T) {
	t.Parallel()

	require.Equal(t, "http://minio/b/k.mp4?[REDACTED]", URL("http://minio/b/k.mp4?X-Amz-Signature=abc"))
	require.Equal(t, "http://cdn/k.mp4", URL("http://cdn/k.mp4"))
}

func TestLiterals_TokenAndPassword(t *testing.T) {
	t.Parallel()

	require.Equal(t, "[REDACTED_TOKEN]", Token())
	require.Equal(t, "[REDACTED_PASSWORD]", Password())
}
