package utils

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomString(t *testing.T) {
	a, err := GenerateRandomString(512)
	require.NoError(t, err)
	b, err := GenerateRandomString(512)
	require.NoError(t, err)

	assert.Len(t, a, 512)
	assert.NotEqual(t, a, b)

	_, err = GenerateRandomString(0)
	assert.Error(t, err)
}

func TestSplitCollectionPath(t *testing.T) {
	assert.Equal(t, []string{"Travel", "2023", "Oslo"}, SplitCollectionPath(" Travel / 2023//Oslo ", "/"))
	assert.Equal(t, []string{"a", "b"}, SplitCollectionPath("a>b", ">"))
	assert.Nil(t, SplitCollectionPath(" / ", "/"))
	assert.Equal(t, []string{"x"}, SplitCollectionPath("x", ""))
}

func TestRelativeCollectionPath(t *testing.T) {
	root := filepath.Join("watched")

	p, err := RelativeCollectionPath(root, filepath.Join(root, "Trips", "Rome", "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "Trips/Rome", p)

	p, err = RelativeCollectionPath(root, filepath.Join(root, "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "", p)

	_, err = RelativeCollectionPath(root, filepath.Join("elsewhere", "a.jpg"))
	assert.Error(t, err)
}

func TestPathLocker(t *testing.T) {
	locker := NewPathLocker()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locker.Lock("root/a")
			defer locker.Unlock("root/a")
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestMatchesAny(t *testing.T) {
	patterns := []string{"*.jpg", "*.JPEG", "img_*.png"}

	assert.True(t, MatchesAny("/photos/a.JPG", patterns))
	assert.True(t, MatchesAny("b.jpeg", patterns))
	assert.True(t, MatchesAny(filepath.Join("x", "IMG_001.png"), patterns))
	assert.False(t, MatchesAny("other.png", patterns))
	assert.False(t, MatchesAny("a.jpg", nil))
	assert.False(t, MatchesAny("a.jpg", []string{"[a-"}))

	assert.NoError(t, ValidatePatterns(patterns))
	assert.Error(t, ValidatePatterns([]string{"[a-"}))
}
