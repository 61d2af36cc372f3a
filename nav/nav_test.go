package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func currentLabels(items []Item) []string {
	var labels []string
	for _, item := range items {
		if item.Current {
			labels = append(labels, item.Label)
		}
	}
	return labels
}

func TestMark(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{path: "/", want: []string{"Home"}},
		{path: "/projects", want: []string{"Projects"}},
		{path: "/projects/42", want: []string{"Projects"}},
		{path: "/about", want: []string{"About"}},
		{path: "/contact", want: []string{"Contact"}},
		{path: "/auth", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, currentLabels(Mark(tt.path, Primary())))
		})
	}
}

func TestIsCurrent(t *testing.T) {
	assert.True(t, IsCurrent("/", "/"))
	assert.False(t, IsCurrent("/projects", "/"))
	assert.True(t, IsCurrent("/projects/42", "/projects"))
	assert.False(t, IsCurrent("/about", "/projects"))
}

func TestMarkDoesNotMutateInput(t *testing.T) {
	items := Primary()
	_ = Mark("/", items)
	for _, item := range items {
		require.False(t, item.Current)
	}
}

func TestSecondary(t *testing.T) {
	items := Secondary(Links{
		GitHub:   "https://github.com/someone",
		LinkedIn: "https://linkedin.com/in/someone",
		Resume:   "/resume.pdf",
	})
	require.Len(t, items, 3)
	assert.True(t, items[0].External)
	assert.True(t, items[1].External)
	assert.True(t, items[2].Download)

	// external targets are never the current page
	assert.Empty(t, currentLabels(Mark("/resume.pdf", items)))
}
