package workitem

import "fmt"

// Kind dört kayıt ailesinden biri.
type Kind string

const (
	KindControl Kind = "control"
	KindYBS     Kind = "ybs"
	KindBagTV   Kind = "bagtv"
	KindMessage Kind = "message"
)

// Kinds sabit sırayla tüm türler. Bu sıra onay kuyruğunda eşit tarihli
// kayıtların sıralanmasında kullanılır.
var Kinds = []Kind{KindControl, KindYBS, KindBagTV, KindMessage}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Order türün Kinds içindeki sırası; bilinmeyen türler en sona düşer.
func (k Kind) Order() int {
	for i, kk := range Kinds {
		if kk == k {
			return i
		}
	}
	return len(Kinds)
}

// Table türün saklandığı tablo.
func (k Kind) Table() string {
	switch k {
	case KindControl:
		return "control_items"
	case KindYBS:
		return "ybs_work_items"
	case KindBagTV:
		return "bagtv_controls"
	case KindMessage:
		return "messages"
	}
	return ""
}
