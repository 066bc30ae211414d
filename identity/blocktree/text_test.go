package blocktree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"crlf", "hello\r\nworld", "hello\nworld"},
		{"bare cr", "hello\rworld", "hello\nworld"},
		{"trailing spaces", "hello   \nworld  ", "hello\nworld"},
		{"trailing tab", "hello\t\nworld", "hello\nworld"},
		{"trailing nbsp", "hello\u00a0\nworld\u3000", "hello\nworld"},
		{"inner nbsp kept", "a\u00a0b", "a\u00a0b"},
		{"collapse blank lines", "a\n\n\n\nb", "a\n\nb"},
		{"keep leading indent", "  a\n  b", "  a\n  b"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeWhitespace(tt.in))
		})
	}
}

func TestSegmentBlocks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"single block", "Hello world.\nThis is a sentence.", []string{"Hello world.\nThis is a sentence."}},
		{"two blocks", "Block one.\n\nBlock two.", []string{"Block one.", "Block two."}},
		{"soft wrap", "Line 1\nLine 2\nLine 3", []string{"Line 1\nLine 2\nLine 3"}},
		{"crlf blank line", "a\r\n\r\nb", []string{"a", "b"}},
		{"whitespace only lines", "a\n   \n\n\nb", []string{"a", "b"}},
		{"nbsp only line", "a\n\u00a0\nb", []string{"a", "b"}},
		{"empty", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SegmentBlocks(tt.in))
		})
	}
}
