package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"plain", "a,b,c", []string{"a", "b", "c"}},
		{"quoted comma", `a,"b,c",d`, []string{"a", "b,c", "d"}},
		{"escaped quote", `"say ""hi""",x`, []string{`say "hi"`, "x"}},
		{"trimmed", " a , b ", []string{"a", "b"}},
		{"quoted field trimmed too", `"  padded  ",x`, []string{"padded", "x"}},
		{"empty line", "", []string{""}},
		{"only separators", ",,", []string{"", "", ""}},
		{"trailing separator", "a,b,", []string{"a", "b", ""}},
		{"unterminated quote", `a,"b,c`, []string{"a", "b,c"}},
		{"quote mid field toggles", `ab"c,d"e,f`, []string{"abc,de", "f"}},
		{"doubled quote outside quotes", `a""b,c`, []string{"ab", "c"}},
		{"empty quoted field", `"",x`, []string{"", "x"}},
		{"multibyte", "電郵,IG 帳戶,主題", []string{"電郵", "IG 帳戶", "主題"}},
		{"carriage return kept then trimmed", "a,b\r", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLine(tt.line))
		})
	}
}

func TestSplitLine_NeverEmpty(t *testing.T) {
	inputs := []string{"", " ", `"`, `""`, `"""`, ",", "\t"}
	for _, in := range inputs {
		assert.NotEmpty(t, SplitLine(in), "input %q", in)
	}
}
