package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenSet(t *testing.T) {
	tokens := tokenSet("Late-night STREET food!", "#TokyoEats")

	for _, want := range []string{"late", "night", "street", "food", "tokyoeats"} {
		_, ok := tokens[want]
		assert.True(t, ok, "missing token %q", want)
	}
	_, ok := tokens["#tokyoeats"]
	assert.False(t, ok, "hashtag marker must not survive tokenization")
}

func TestCanonicalize_FoldsWidthVariants(t *testing.T) {
	// Fullwidth forms show up in captions; NFKC folds them to ASCII.
	assert.Equal(t, "ramen", canonicalize("ＲＡＭＥＮ"))
}

func TestTagTokens(t *testing.T) {
	assert.Equal(t, []string{"street", "food"}, tagTokens("Street_Food"))
	assert.Equal(t, []string{"fitness"}, tagTokens("fitness"))
}
