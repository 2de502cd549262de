package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterLookupUnregister(t *testing.T) {
	r := NewRegistry()

	udf1 := NewScalarUDF("st_example")
	prev := r.Register(udf1)
	assert.Nil(t, prev)

	got, err := r.Lookup("st_example")
	require.NoError(t, err)
	assert.Same(t, udf1, got)

	udf2 := NewScalarUDF("st_example")
	prev = r.Register(udf2)
	assert.Same(t, udf1, prev)

	got, err = r.Lookup("st_example")
	require.NoError(t, err)
	assert.Same(t, udf2, got)

	removed := r.Unregister("st_example")
	assert.Same(t, udf2, removed)

	_, err = r.Lookup("st_example")
	assert.Error(t, err)

	assert.Nil(t, r.Unregister("does_not_exist"))
}

func TestRegistry_LookupMissing(t *testing.T) {
	r := NewRegistry()
	_, err := r.Lookup("nope")
	assert.Error(t, err)
}
