package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"bronze", "1800s"}, SplitTags(" bronze, 1800s ,,"))
	assert.Empty(t, SplitTags(""))
}

func TestUniqueSortedTags(t *testing.T) {
	tags := UniqueSortedTags([]string{"bronze, 1800s", "bronze, art", ""})
	assert.Equal(t, []string{"1800s", "art", "bronze"}, tags)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "Found near the river & cleaned", Excerpt("<p>Found near the <b>river</b> &amp; cleaned</p>"))

	long := strings.Repeat("я", ExcerptLength+10)
	excerpt := Excerpt(long)
	assert.Equal(t, strings.Repeat("я", ExcerptLength)+"...", excerpt)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc...", Truncate("abc def", 4))
}
