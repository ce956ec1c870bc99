package typed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/docstore/pkg/adapters/fs"
	"github.com/aretw0/docstore/pkg/adapters/memory"
	"github.com/aretw0/docstore/pkg/core"
	"github.com/aretw0/docstore/pkg/typed"
)

type UserProfile struct {
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Age   int      `json:"age"`
	Tags  []string `json:"tags,omitempty"`
}

func TestTypedCollection(t *testing.T) {
	ctx := context.Background()
	adapter, err := fs.New(fs.Config{Path: t.TempDir()})
	require.NoError(t, err)
	users := typed.NewCollection[UserProfile](core.NewDocumentManager(adapter).Collection("users"))

	alice := UserProfile{Name: "Alice", Email: "alice@example.com", Age: 30, Tags: []string{"admin"}}
	require.NoError(t, users.Write(ctx, "alice", alice))

	got, err := users.Read(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.ID)
	assert.Equal(t, alice, got.Data)

	// active record save through the attached saver
	got.Data.Age = 31
	require.NoError(t, got.Save(ctx))

	again, err := users.Read(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 31, again.Data.Age)

	has, err := users.Has(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, users.Delete(ctx, "alice"))
	_, err = users.Read(ctx, "alice")
	assert.True(t, core.IsNotFound(err))
}

func TestTypedAll(t *testing.T) {
	ctx := context.Background()
	users := typed.NewCollection[UserProfile](core.NewCollection(memory.New(memory.Config{}), "users"))

	require.NoError(t, users.Save(ctx, &typed.DocumentModel[UserProfile]{ID: "a", Data: UserProfile{Name: "A"}}))
	require.NoError(t, users.Save(ctx, &typed.DocumentModel[UserProfile]{ID: "b", Data: UserProfile{Name: "B"}}))

	names := map[string]string{}
	for model, err := range users.All(ctx) {
		require.NoError(t, err)
		names[model.ID] = model.Data.Name
	}
	assert.Equal(t, map[string]string{"a": "A", "b": "B"}, names)
}

func TestTypedMismatch(t *testing.T) {
	ctx := context.Background()
	c := core.NewCollection(memory.New(memory.Config{}), "users")
	require.NoError(t, c.WriteData(ctx, "bad", core.Document{"age": "not a number"}))

	users := typed.NewCollection[UserProfile](c)
	_, err := users.Read(ctx, "bad")
	assert.Error(t, err)
	assert.False(t, core.IsNotFound(err))
}

func TestDetachedSave(t *testing.T) {
	doc := &typed.DocumentModel[UserProfile]{ID: "x"}
	assert.Error(t, doc.Save(context.Background()))
}

func TestWriteRejectsNonObject(t *testing.T) {
	c := typed.NewCollection[int](core.NewCollection(memory.New(memory.Config{}), "numbers"))
	err := c.Write(context.Background(), "1", 5)
	assert.ErrorIs(t, err, core.ErrWriteFailed)
}
