package posts

import (
	"reflect"
	"testing"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"typical input", "java, spring, , web ", []string{"java", "spring", "web"}},
		{"empty string", "", []string{}},
		{"whitespace only", "   ", []string{}},
		{"commas only", ",,,", []string{}},
		{"single tag", "go", []string{"go"}},
		{"order preserved", "b, a, c", []string{"b", "a", "c"}},
		{"duplicates kept", "a, b, a", []string{"a", "b", "a"}},
		{"inner whitespace kept", "machine learning, ai", []string{"machine learning", "ai"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTags(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ParseTags(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
