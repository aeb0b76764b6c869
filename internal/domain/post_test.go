package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidStatus(t *testing.T) {
	for _, s := range []string{"draft", "pending", "private", "publish", "future", "trash"} {
		assert.True(t, IsValidStatus(s), s)
	}
	assert.False(t, IsValidStatus("new"))
	assert.False(t, IsValidStatus("published"))
	assert.False(t, IsValidStatus(""))
}

func TestIsValidPostType(t *testing.T) {
	assert.True(t, IsValidPostType("post"))
	assert.True(t, IsValidPostType("page"))
	assert.False(t, IsValidPostType("attachment"))
}

func TestUserDisplayName(t *testing.T) {
	assert.Equal(t, "Nick", (&User{Username: "u1", Nickname: "Nick"}).DisplayName())
	assert.Equal(t, "u1", (&User{Username: "u1"}).DisplayName())
}
