package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceDataBuilder(t *testing.T) {
	t.Run("minimal", func(t *testing.T) {
		sd := NewSourceDataBuilder(json.RawMessage(`{"a":1}`), "obj").Build()

		assert.JSONEq(t, `{"a":1}`, string(sd.Data))
		assert.Equal(t, "obj", sd.Name)
		assert.Nil(t, sd.Creator)
		assert.Nil(t, sd.Copier)
		assert.Nil(t, sd.Module)
		assert.Nil(t, sd.Method)
		assert.Nil(t, sd.Version)
		assert.Nil(t, sd.CommitHash)
	})

	t.Run("all fields", func(t *testing.T) {
		sd := NewSourceDataBuilder(nil, "obj").
			WithTypeString("Mod.Type-1.0").
			WithCreator(Ptr("alice")).
			WithCopier(Ptr("bob")).
			WithModule(Ptr("Assembler")).
			WithMethod(Ptr("run")).
			WithVersion(Ptr("1.2.3")).
			WithCommitHash(Ptr("abc123")).
			Build()

		assert.Equal(t, "Mod.Type-1.0", sd.TypeString)
		assert.Equal(t, "alice", *sd.Creator)
		assert.Equal(t, "bob", *sd.Copier)
		assert.Equal(t, "Assembler", *sd.Module)
		assert.Equal(t, "run", *sd.Method)
		assert.Equal(t, "1.2.3", *sd.Version)
		assert.Equal(t, "abc123", *sd.CommitHash)
	})

	t.Run("empty strings are treated as absent", func(t *testing.T) {
		sd := NewSourceDataBuilder(nil, "obj").
			WithCreator(Ptr("")).
			WithCopier(nil).
			Build()

		assert.Nil(t, sd.Creator)
		assert.Nil(t, sd.Copier)
	})

	t.Run("built value does not alias inputs", func(t *testing.T) {
		creator := "alice"
		sd := NewSourceDataBuilder(nil, "obj").WithCreator(&creator).Build()
		creator = "mallory"

		assert.Equal(t, "alice", *sd.Creator)
	})
}
