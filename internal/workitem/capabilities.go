package workitem

// Capabilities hangi türlerin onay akışına katıldığını tutar. Başlangıçta bir
// kez belirlenir, istek başına keşfedilmez.
type Capabilities map[Kind]bool

// AllCapabilities dört türün tamamını açık kabul eder.
func AllCapabilities() Capabilities {
	return Capabilities{KindControl: true, KindYBS: true, KindBagTV: true, KindMessage: true}
}

func (c Capabilities) Enabled(k Kind) bool {
	return c[k]
}
