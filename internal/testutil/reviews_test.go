package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReviews_UsesEveryTemplate(t *testing.T) {
	d := Reviews(20)

	seen := map[string]bool{}
	pos := 0
	for _, ex := range d {
		seen[ex.Text] = ex.Label
		if ex.Label {
			pos++
		}
	}
	assert.Equal(t, 8, pos)
	for _, text := range negatives {
		label, ok := seen[text]
		assert.True(t, ok, "negative %q missing", text)
		assert.False(t, label, text)
	}
	for _, text := range positives {
		label, ok := seen[text]
		assert.True(t, ok, "positive %q missing", text)
		assert.True(t, label, text)
	}
}

func TestReviews_Ratio(t *testing.T) {
	d := Reviews(60)
	assert.Len(t, d, 60)

	pos := 0
	for _, ex := range d {
		if ex.Label {
			pos++
		}
	}
	assert.Equal(t, 24, pos)
	assert.Equal(t, "I love this spaghetti", d[3].Text)
	assert.Equal(t, "This was a horrible meal", d[0].Text)
}
