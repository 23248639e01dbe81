package viewmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DoyleJ11/sheet-sync/pkg/types"
)

func TestAppend_DoesNotShareSpareCapacity(t *testing.T) {
	base := make([]*types.Skill, 1, 4)
	base[0] = &types.Skill{ID: 1}

	a, ok := Append(base, &types.Skill{ID: 2})
	assert.True(t, ok)
	b, ok := Append(base, &types.Skill{ID: 3})
	assert.True(t, ok)

	assert.Equal(t, 2, a[1].ID)
	assert.Equal(t, 3, b[1].ID)
}

func TestReplace_AbsentOrUnchanged(t *testing.T) {
	list := []*types.Skill{{ID: 1, Value: 2}}

	out, ok := Replace(list, 9, func(s *types.Skill) (*types.Skill, bool) { return s, true })
	assert.False(t, ok)
	assert.Same(t, &list[0], &out[0])

	out, ok = Replace(list, 1, func(s *types.Skill) (*types.Skill, bool) { return s, false })
	assert.False(t, ok)
	assert.Same(t, &list[0], &out[0])
}

func TestRemove_LastEntry(t *testing.T) {
	list := []*types.Skill{{ID: 1}}
	out, ok := Remove(list, 1)
	assert.True(t, ok)
	assert.Empty(t, out)
	assert.Len(t, list, 1)
}
