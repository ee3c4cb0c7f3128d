package naming

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"k8s.io/apimachinery/pkg/util/validation"
)

func TestProjectNameErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"simple", "test-project-1001", true},
		{"single char", "a", true},
		{"max length", strings.Repeat("a", 63), true},
		{"empty", "", false},
		{"too long", strings.Repeat("a", 64), false},
		{"uppercase", "Demo", false},
		{"leading hyphen", "-demo", false},
		{"trailing hyphen", "demo-", false},
		{"dot", "demo.app", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			errs := ProjectNameErrors(tt.input)
			if tt.valid {
				assert.Empty(t, errs)
			} else {
				assert.NotEmpty(t, errs)
			}
		})
	}
}

func TestRepositoryNameErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"simple", "test-project-1001", true},
		{"digits", "1001", true},
		{"max length", strings.Repeat("r", 100), true},
		{"empty", "", false},
		{"too long", strings.Repeat("r", 101), false},
		{"underscore", "my_repo", false},
		{"uppercase", "MyRepo", false},
		{"trailing hyphen", "repo-", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			errs := RepositoryNameErrors(tt.input)
			if tt.valid {
				assert.Empty(t, errs)
			} else {
				assert.NotEmpty(t, errs)
			}
		})
	}
}

func TestApplication(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"test-project-1001", "test-project-1001"},
		{"1001-demo", "demo"},
		{"My.Repo", "my-repo"},
		{"123", "app"},
		{strings.Repeat("x", 80), strings.Repeat("x", 63)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got := Application(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.Empty(t, validation.IsDNS1035Label(got))
		})
	}
}

func TestSplitFullName(t *testing.T) {
	t.Parallel()

	owner, name, ok := SplitFullName(FullName("octocat", "demo"))
	assert.True(t, ok)
	assert.Equal(t, "octocat", owner)
	assert.Equal(t, "demo", name)

	for _, bad := range []string{"", "demo", "/demo", "octocat/", "a/b/c"} {
		_, _, ok := SplitFullName(bad)
		assert.False(t, ok, bad)
	}
}

func TestUnique(t *testing.T) {
	t.Parallel()

	got := Unique("test-project")
	assert.Regexp(t, `^test-project-[1-9][0-9]{3}$`, got)
	assert.Empty(t, ProjectNameErrors(got))
}
