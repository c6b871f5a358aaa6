package textprep

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "hello world", want: "HELLO WORLD"},
		{name: "punctuation and digits", in: "Hello, World! 42 times.", want: "HELLO WORLD TIMES"},
		{name: "extra spaces", in: "   a   b\t\tc  ", want: "A B C"},
		{name: "accents", in: "Café crème brûlée", want: "CAFE CREME BRULEE"},
		{name: "only junk", in: "123 !!! ...", want: ""},
		{name: "empty", in: "", want: ""},
		{name: "non latin letters kept", in: "привет, мир", want: "ПРИВЕТ МИР"},
		{name: "newlines", in: "one\ntwo\r\nthree", want: "ONE TWO THREE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestSteps(t *testing.T) {
	assert.Equal(t, "naive", FoldAccents("naïve"))
	assert.Equal(t, "ab  c", RemoveNonAlpha("a-b 1 c"))
	assert.Equal(t, "a b", CollapseSpaces("  a    b "))
	assert.Equal(t, "DÉJÀ VU", Upper("déjà vu"))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{in: "SHORT", width: 30, want: "SHORT"},
		{in: strings.Repeat("A", 30), width: 30, want: strings.Repeat("A", 30)},
		{in: strings.Repeat("A", 31), width: 30, want: strings.Repeat("A", 27) + "..."},
		{in: "ÀÉÎÕÜ", width: 4, want: "À..."},
		{in: "ABCDEF", width: 2, want: "AB"},
		{in: "ABCDEF", width: 0, want: ""},
		{in: "ABCDEF", width: -5, want: ""},
		{in: "", width: -1, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.width))
		})
	}
}

func TestReadLines(t *testing.T) {
	lines, err := ReadLines(strings.NewReader("first line\n\n  !!!  \nsecond, line 2\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"FIRST LINE", "SECOND LINE"}, lines)

	lines, err = ReadLines(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, lines)

	_, err = ReadLines(strings.NewReader(strings.Repeat("a", maxLineSize+10)))
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.txt")
	require.NoError(t, os.WriteFile(path, []byte("bonjour\nmerci beaucoup\n"), 0o600))

	lines, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"BONJOUR", "MERCI BEAUCOUP"}, lines)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
