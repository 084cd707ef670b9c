package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "ticket.pdf", "ticket.pdf"},
		{"traversal", "../../etc/passwd", "passwd"},
		{"windows traversal", `..\..\windows\system32\config`, "config"},
		{"absolute path", "/etc/shadow", "shadow"},
		{"spaces and specials", "my holiday photo (1).jpg", "my_holiday_photo__1_.jpg"},
		{"hidden file", ".env", "env"},
		{"dot only", ".", "file"},
		{"dot dot only", "..", "file"},
		{"empty", "", "file"},
		{"unicode", "reisepläne.txt", "reisepl_ne.txt"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SanitizeFilename(tc.in)
			assert.Equal(t, tc.want, got)
			assert.False(t, strings.ContainsAny(got, `/\`))
			assert.NotContains(t, got, "..")
		})
	}
}
