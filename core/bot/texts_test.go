package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stepankuzmin/BarmaidBot/core/catalog"
)

func TestReplyCopy(t *testing.T) {
	assert.Equal(t, "Hi sweetie! What woud you like to drink?", welcomeText)
	assert.Equal(t, "I didn't catch what you said, sweetie. What woud you like to drink?", clarifyText)
	assert.Equal(t, "So you want some 🍺, huh?", ackText("🍺"))
	assert.Equal(t, "I'm sorry, sweetheart, but I couldn't find 🍷 near you", notFoundText("🍷"))
}

func TestEmojiKeyboardListsFullCatalog(t *testing.T) {
	markup := emojiKeyboard()
	if assert.Len(t, markup.ReplyKeyboard, 1) {
		row := markup.ReplyKeyboard[0]
		assert.Len(t, row, len(catalog.Order))
		for i, b := range catalog.Order {
			entry, _ := catalog.Lookup(b)
			assert.Equal(t, entry.Emoji, row[i].Text)
		}
	}
}
