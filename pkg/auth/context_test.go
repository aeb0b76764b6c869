package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActorRoundTrip(t *testing.T) {
	ctx := WithActor(context.Background(), Actor{ID: 7, Nickname: "bob", Level: 10})

	a, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "bob", a.Nickname)
	assert.Equal(t, uint64(7), UserID(ctx))
}

func TestUserID_Anonymous(t *testing.T) {
	assert.Equal(t, uint64(0), UserID(context.Background()))
	assert.Equal(t, uint64(0), UserID(nil)) //nolint:staticcheck
}

func TestFromContext_ZeroIDIsAnonymous(t *testing.T) {
	_, ok := FromContext(WithActor(context.Background(), Actor{ID: 0}))
	assert.False(t, ok)
}
