package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/flowc/errs"
	"github.com/viant/flowc/types"
)

func TestInsertAndLookup(t *testing.T) {
	tab := New()
	sink := &errs.List{}

	id, ok := tab.InsertIdentifier("x", KindLocal, ScopeLocal, types.NewInt(), errs.NoLocation, sink)
	assert.True(t, ok)
	assert.Equal(t, 0, sink.Len())

	got, ok := tab.GetIdentifierID("x", true, errs.NoLocation, sink)
	assert.True(t, ok)
	assert.Equal(t, id, got)
	assert.Equal(t, "x", tab.GetName(id))
}

func TestDuplicateInsertSameScopeFails(t *testing.T) {
	tab := New()
	sink := &errs.List{}
	_, ok := tab.InsertIdentifier("x", KindLocal, ScopeLocal, nil, errs.NoLocation, sink)
	assert.True(t, ok)
	_, ok = tab.InsertIdentifier("x", KindLocal, ScopeLocal, nil, errs.NoLocation, sink)
	assert.False(t, ok)
	assert.Equal(t, 1, sink.Len())
	assert.Equal(t, errs.AlreadyDefinedElem, sink.Errors()[0].Kind)
}

func TestShadowingAcrossScopesIsAllowed(t *testing.T) {
	tab := New()
	sink := &errs.List{}
	outer, _ := tab.InsertIdentifier("x", KindLocal, ScopeLocal, nil, errs.NoLocation, sink)

	tab.PushScope()
	inner, ok := tab.InsertIdentifier("x", KindLocal, ScopeLocal, nil, errs.NoLocation, sink)
	assert.True(t, ok)
	assert.NotEqual(t, outer, inner)

	got, _ := tab.GetIdentifierID("x", true, errs.NoLocation, sink)
	assert.Equal(t, inner, got)

	tab.PopScope()
	got, _ = tab.GetIdentifierID("x", true, errs.NoLocation, sink)
	assert.Equal(t, outer, got)
}

func TestUnknownIdentifierReportsError(t *testing.T) {
	tab := New()
	sink := &errs.List{}
	_, ok := tab.GetIdentifierID("missing", true, errs.NoLocation, sink)
	assert.False(t, ok)
	assert.Equal(t, errs.UnknownElement, sink.Errors()[0].Kind)
}

// TestIDUniqueness is the spec.md §8 "id uniqueness" property: distinct
// (scope, name) pairs map to distinct ids, and GetName is a left-inverse of
// insertion.
func TestIDUniqueness(t *testing.T) {
	tab := New()
	sink := &errs.List{}
	names := []string{"a", "b", "c", "d"}
	ids := make(map[ID]string)
	for _, n := range names {
		id, ok := tab.InsertIdentifier(n, KindLocal, ScopeLocal, nil, errs.NoLocation, sink)
		assert.True(t, ok)
		_, dup := ids[id]
		assert.False(t, dup)
		ids[id] = n
	}
	for id, n := range ids {
		assert.Equal(t, n, tab.GetName(id))
	}
}

func TestFreshIDNeverCollides(t *testing.T) {
	tab := New()
	sink := &errs.List{}
	tab.InsertIdentifier("reserved_norm_buf_1", KindLocal, ScopeLocal, nil, errs.NoLocation, sink)

	fresh := tab.GetFreshID("norm", "buf", types.NewInt(), ScopeMemory)
	assert.NotEqual(t, "reserved_norm_buf_1", tab.GetName(fresh))
}

func TestStructFieldsRoundTrip(t *testing.T) {
	tab := New()
	sink := &errs.List{}
	structID, _ := tab.InsertIdentifier("Point", KindStruct, ScopeLocal, nil, errs.NoLocation, sink)
	x, _ := tab.InsertIdentifier("x", KindStructField, ScopeLocal, types.NewInt(), errs.NoLocation, sink)
	y, _ := tab.InsertIdentifier("y", KindStructField, ScopeLocal, types.NewInt(), errs.NoLocation, sink)
	tab.SetStructFields(structID, []ID{x, y})

	assert.Equal(t, []ID{x, y}, tab.GetStructFields(structID))
}
