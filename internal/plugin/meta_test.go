package plugin

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetaRegistry_RegisterAndLookup(t *testing.T) {
	r := NewMetaRegistry()
	require.NoError(t, r.Register("published-by", MetaDefinition{
		Namespace:  "published-by",
		Key:        "published_by",
		Type:       MetaTypeInteger,
		Single:     true,
		ShowInREST: true,
	}))

	def, ok := r.Lookup("published_by")
	require.True(t, ok)
	assert.Equal(t, MetaTypeInteger, def.Type)
	assert.True(t, r.Exists("published_by"))
	assert.False(t, r.Exists("other"))
}

func TestMetaRegistry_ConflictingPlugin(t *testing.T) {
	r := NewMetaRegistry()
	def := MetaDefinition{Namespace: "a", Key: "k"}
	require.NoError(t, r.Register("plugin-a", def))
	require.NoError(t, r.Register("plugin-a", def), "re-registering by the owner is allowed")
	assert.Error(t, r.Register("plugin-b", def))
	assert.Error(t, r.Register("plugin-b", MetaDefinition{Key: "missing-namespace"}))
}

func TestMetaRegistry_RESTFieldsSortedAndFiltered(t *testing.T) {
	r := NewMetaRegistry()
	require.NoError(t, r.Register("p", MetaDefinition{Namespace: "p", Key: "zeta", ShowInREST: true}))
	require.NoError(t, r.Register("p", MetaDefinition{Namespace: "p", Key: "alpha", ShowInREST: true}))
	require.NoError(t, r.Register("p", MetaDefinition{Namespace: "p", Key: "hidden"}))

	fields := r.RESTFields()
	require.Len(t, fields, 2)
	assert.Equal(t, "alpha", fields[0].Key)
	assert.Equal(t, "zeta", fields[1].Key)
}

func TestMetaRegistry_Unregister(t *testing.T) {
	r := NewMetaRegistry()
	require.NoError(t, r.Register("p", MetaDefinition{Namespace: "p", Key: "k"}))
	r.Unregister("p")
	assert.False(t, r.Exists("k"))
}

func TestMetaDefinition_WriteAuthorization(t *testing.T) {
	ctx := context.Background()
	assert.False(t, MetaDefinition{}.CanWrite(ctx, 1), "nil authorizer denies")
	assert.False(t, MetaDefinition{AuthorizeWrite: DenyWrite}.CanWrite(ctx, 1))
	assert.True(t, MetaDefinition{AuthorizeWrite: func(context.Context, uint64) bool { return true }}.CanWrite(ctx, 1))
}

func TestMetaDefinition_Clean(t *testing.T) {
	v, err := MetaDefinition{}.Clean("x")
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	_, err = MetaDefinition{Sanitize: func(interface{}) (interface{}, error) { return nil, errors.New("bad") }}.Clean("x")
	assert.Error(t, err)
}
