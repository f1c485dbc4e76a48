package workitem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRef(t *testing.T) {
	cases := []struct {
		in      string
		want    Ref
		wantErr error
	}{
		{in: "control_12", want: Ref{Kind: KindControl, ID: "12"}},
		{in: "ybs_7", want: Ref{Kind: KindYBS, ID: "7"}},
		{in: "bagtv_3", want: Ref{Kind: KindBagTV, ID: "3"}},
		{in: "message_44", want: Ref{Kind: KindMessage, ID: "44"}},
		{in: "message_a_b_c", want: Ref{Kind: KindMessage, ID: "a_b_c"}},
		{in: "12", wantErr: ErrInvalidIdentifier},
		{in: "", wantErr: ErrInvalidIdentifier},
		{in: "control_", wantErr: ErrInvalidIdentifier},
		{in: "_12", wantErr: ErrInvalidIdentifier},
		{in: "task_12", wantErr: ErrUnknownKind},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseRef(tc.in)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRefRoundTrip(t *testing.T) {
	for _, k := range Kinds {
		ref := NewRef(k, 42)
		parsed, err := ParseRef(ref.String())
		require.NoError(t, err)
		assert.Equal(t, ref, parsed)

		id, err := parsed.NativeID()
		require.NoError(t, err)
		assert.Equal(t, uint(42), id)
	}
}

func TestNativeIDNotNumeric(t *testing.T) {
	_, err := Ref{Kind: KindControl, ID: "a_b"}.NativeID()
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = Ref{Kind: KindControl, ID: "0"}.NativeID()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKindOrderAndTable(t *testing.T) {
	assert.Less(t, KindControl.Order(), KindYBS.Order())
	assert.Less(t, KindYBS.Order(), KindBagTV.Order())
	assert.Less(t, KindBagTV.Order(), KindMessage.Order())
	assert.Equal(t, "ybs_work_items", KindYBS.Table())
	assert.Equal(t, "bagtv_controls", KindBagTV.Table())
}
