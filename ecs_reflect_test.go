package gekko

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEcsReflect_MakeTypedColumn(t *testing.T) {
	column := reflectSliceMake(reflect.TypeOf(MeshRendererComponent{}))

	_, ok := column.([]MeshRendererComponent)
	assert.True(t, ok, "expected []MeshRendererComponent, got %T", column)
}

func TestEcsReflect_AppendGetSet(t *testing.T) {
	column := reflectSliceMake(reflect.TypeOf(NameComponent{}))
	column = reflectSliceAppend(column, reflect.ValueOf(NameComponent{Name: "crate"}))
	column = reflectSliceAppend(column, reflect.ValueOf(NameComponent{Name: "barrel"}))

	require.Len(t, column.([]NameComponent), 2)
	assert.Equal(t, "barrel", reflectSliceGet(column, 1).Interface().(NameComponent).Name)

	reflectSliceSet(column, 0, reflect.ValueOf(NameComponent{Name: "chest"}))
	assert.Equal(t, "chest", column.([]NameComponent)[0].Name)
}

func TestEcsReflect_PanicsOnMisuse(t *testing.T) {
	ints := []int{1, 2}

	assert.Panics(t, func() { reflectSliceGet(ints, 10) }, "out of bounds get")
	assert.Panics(t, func() { reflectSliceSet(ints, 0, reflect.ValueOf("wrong type")) }, "type mismatch set")
	assert.Panics(t, func() { reflectSliceAppend(ints, reflect.ValueOf("wrong type")) }, "type mismatch append")
}
