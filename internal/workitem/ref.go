package workitem

import (
	"fmt"
	"strconv"
	"strings"
)

// Ref bir kaydı türler arası tekil olarak adresler. Metin biçimi
// "{tür}_{yerelId}"; yerel id alt çizgi içerebilir, ayrım ilk alt çizgidedir.
type Ref struct {
	Kind Kind
	ID   string
}

func NewRef(kind Kind, id uint) Ref {
	return Ref{Kind: kind, ID: strconv.FormatUint(uint64(id), 10)}
}

func ParseRef(s string) (Ref, error) {
	prefix, rest, ok := strings.Cut(s, "_")
	if !ok || prefix == "" || rest == "" {
		return Ref{}, fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
	}
	kind, err := ParseKind(prefix)
	if err != nil {
		return Ref{}, err
	}
	return Ref{Kind: kind, ID: rest}, nil
}

func (r Ref) String() string {
	return string(r.Kind) + "_" + r.ID
}

// NativeID sayısal yerel id'yi döner. Tüm tablolar sayısal anahtar
// kullandığından sayı olmayan bir id hiçbir satırı adresleyemez.
func (r Ref) NativeID() (uint, error) {
	n, err := strconv.ParseUint(r.ID, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, r)
	}
	return uint(n), nil
}
