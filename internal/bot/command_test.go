package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallback(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    Callback
		wantErr bool
	}{
		{
			name: "order view with id",
			data: "order:view:42",
			want: Callback{Kind: CallbackOrderView, ID: 42},
		},
		{
			name: "order approve with id",
			data: "order:approve:7",
			want: Callback{Kind: CallbackOrderApprove, ID: 7},
		},
		{
			name: "withdrawal pay with id",
			data: "wd:pay:13",
			want: Callback{Kind: CallbackWithdrawalPay, ID: 13},
		},
		{
			name: "orders back without id",
			data: "orders:back",
			want: Callback{Kind: CallbackOrdersBack},
		},
		{
			name: "broadcast send without id",
			data: "bcast:send",
			want: Callback{Kind: CallbackBroadcastSend},
		},
		{
			name:    "empty payload",
			data:    "",
			wantErr: true,
		},
		{
			name:    "unknown kind",
			data:    "order:delete:42",
			wantErr: true,
		},
		{
			name:    "missing id",
			data:    "order:view",
			wantErr: true,
		},
		{
			name:    "non-numeric id",
			data:    "order:view:abc",
			wantErr: true,
		},
		{
			name:    "zero id",
			data:    "order:view:0",
			wantErr: true,
		},
		{
			name:    "negative id",
			data:    "order:view:-5",
			wantErr: true,
		},
		{
			name:    "id on kind that takes none",
			data:    "bcast:send:42",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := ParseCallback(tt.data)

			if tt.wantErr {
				require.ErrorIs(t, err, ErrCallbackInvalid)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd)
		})
	}
}

func TestFormatCallback(t *testing.T) {
	assert.Equal(t, "order:approve:42", FormatCallback(CallbackOrderApprove, 42))
	assert.Equal(t, "wds:back", FormatCallback(CallbackWithdrawalsBack, 0))
}

func TestCallbackRoundTrip(t *testing.T) {
	for kind, needsID := range callbackKinds {
		var id int64
		if needsID {
			id = 42
		}

		cmd, err := ParseCallback(FormatCallback(kind, id))
		require.NoError(t, err, "kind %s", kind)
		assert.Equal(t, Callback{Kind: kind, ID: id}, cmd)
	}
}
