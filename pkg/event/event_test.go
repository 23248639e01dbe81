package event

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_WireFormatIsPositional(t *testing.T) {
	data, err := json.Marshal(AttributeChange(7, 1, 7, 10, 0))
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"attributeChange","args":[7,1,7,10,0]}`, string(data))
}

func TestDecode_AccessorsReadByIndex(t *testing.T) {
	ev, err := Decode([]byte(`{"event":"itemAdd","args":[2,3,"Rope","hemp",1.5,1]}`))
	require.NoError(t, err)

	assert.Equal(t, KindItemAdd, ev.Kind)
	id, ok := ev.CharacterID()
	require.True(t, ok)
	assert.Equal(t, 2, id)

	itemID, _ := ev.Int(1)
	name, _ := ev.Str(2)
	weight, _ := ev.Float(4)
	qty, _ := ev.Int(5)
	assert.Equal(t, 3, itemID)
	assert.Equal(t, "Rope", name)
	assert.InDelta(t, 1.5, weight, 1e-9)
	assert.Equal(t, 1, qty)
}

func TestEvent_AccessorsRejectWrongTypeOrIndex(t *testing.T) {
	ev := AttributeStatusChange(9, 4, true)

	_, ok := ev.Int(5)
	assert.False(t, ok, "out of range")

	_, ok = ev.Str(1)
	assert.False(t, ok, "int read as string")

	v, ok := ev.Bool(2)
	assert.True(t, ok)
	assert.True(t, v)

	frac := New(KindMaxLoadChange, 1, 2.5)
	_, ok = frac.Int(1)
	assert.False(t, ok, "fractional number is not an int")
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode([]byte(`{"args":[1]}`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Decode([]byte(`not json`))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestNew_CopiesArgs(t *testing.T) {
	args := []any{1, "a"}
	ev := New(KindNameChange, args...)
	args[1] = "b"

	name, _ := ev.Str(1)
	assert.Equal(t, "a", name)

	got := ev.Args()
	got[1] = "c"
	name, _ = ev.Str(1)
	assert.Equal(t, "a", name)
}

func TestKinds_Known(t *testing.T) {
	for _, k := range Kinds() {
		assert.True(t, k.Known(), k)
	}
	assert.False(t, Kind("diceRoll").Known())
}
