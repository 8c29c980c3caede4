package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrCallbackInvalid = errors.New("callback payload is invalid")

// CallbackKind tags the admin actions reachable through inline keyboard
// buttons. Raw callback payloads are parsed into a Callback once, at the
// dispatch boundary; handlers never inspect payload strings.
type CallbackKind string

const (
	CallbackOrderView         CallbackKind = "order:view"
	CallbackOrderApprove      CallbackKind = "order:approve"
	CallbackOrderReject       CallbackKind = "order:reject"
	CallbackOrdersBack        CallbackKind = "orders:back"
	CallbackWithdrawalView    CallbackKind = "wd:view"
	CallbackWithdrawalApprove CallbackKind = "wd:approve"
	CallbackWithdrawalReject  CallbackKind = "wd:reject"
	CallbackWithdrawalPay     CallbackKind = "wd:pay"
	CallbackWithdrawalsBack   CallbackKind = "wds:back"
	CallbackUserBlock         CallbackKind = "user:block"
	CallbackUserUnblock       CallbackKind = "user:unblock"
	CallbackBroadcastSend     CallbackKind = "bcast:send"
	CallbackBroadcastCancel   CallbackKind = "bcast:cancel"
)

// callbackKinds maps every known kind to whether it carries an entity id.
var callbackKinds = map[CallbackKind]bool{
	CallbackOrderView:         true,
	CallbackOrderApprove:      true,
	CallbackOrderReject:       true,
	CallbackOrdersBack:        false,
	CallbackWithdrawalView:    true,
	CallbackWithdrawalApprove: true,
	CallbackWithdrawalReject:  true,
	CallbackWithdrawalPay:     true,
	CallbackWithdrawalsBack:   false,
	CallbackUserBlock:         true,
	CallbackUserUnblock:       true,
	CallbackBroadcastSend:     false,
	CallbackBroadcastCancel:   false,
}

// Callback is a parsed inline keyboard action.
type Callback struct {
	Kind CallbackKind
	ID   int64
}

// ParseCallback parses a raw callback payload into a typed Callback.
func ParseCallback(data string) (Callback, error) {
	if needsID, ok := callbackKinds[CallbackKind(data)]; ok && !needsID {
		return Callback{Kind: CallbackKind(data)}, nil
	}

	i := strings.LastIndex(data, ":")
	if i < 0 {
		return Callback{}, fmt.Errorf("%w: %q", ErrCallbackInvalid, data)
	}

	kind := CallbackKind(data[:i])

	needsID, ok := callbackKinds[kind]
	if !ok || !needsID {
		return Callback{}, fmt.Errorf("%w: %q", ErrCallbackInvalid, data)
	}

	id, err := strconv.ParseInt(data[i+1:], 10, 64)
	if err != nil || id <= 0 {
		return Callback{}, fmt.Errorf("%w: %q", ErrCallbackInvalid, data)
	}

	return Callback{Kind: kind, ID: id}, nil
}

// FormatCallback renders a Callback as the wire payload placed on an
// inline keyboard button.
func FormatCallback(kind CallbackKind, id int64) string {
	if needsID := callbackKinds[kind]; needsID {
		return fmt.Sprintf("%s:%d", kind, id)
	}

	return string(kind)
}
