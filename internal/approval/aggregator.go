package approval

import (
	"context"
	"sort"

	"bakim-takip-backend/internal/metrics"
	"bakim-takip-backend/internal/workitem"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Aggregator dört türün onay bekleyen kayıtlarını tek bir kuyrukta toplar.
type Aggregator struct {
	db      *gorm.DB
	caps    workitem.Capabilities
	metrics *metrics.Metrics
	log     logrus.FieldLogger
}

func NewAggregator(db *gorm.DB, caps workitem.Capabilities, m *metrics.Metrics, log logrus.FieldLogger) *Aggregator {
	return &Aggregator{db: db, caps: caps, metrics: m, log: log}
}

// Pending onay kuyruğunu en yeni tarihten eskiye sıralı döner. Onay akışı
// kapalı türler sessizce atlanır.
func (a *Aggregator) Pending(ctx context.Context, v Viewer) ([]PendingItem, error) {
	results := make([][]PendingItem, len(workitem.Kinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range workitem.Kinds {
		if !a.caps.Enabled(kind) {
			continue
		}
		ad := adapters[kind]
		i := i
		g.Go(func() error {
			items, err := ad.Pending(gctx, a.db, v)
			if err != nil {
				return err
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]PendingItem, 0)
	for i, items := range results {
		if v.Admin && a.caps.Enabled(workitem.Kinds[i]) {
			a.metrics.SetPending(string(workitem.Kinds[i]), len(items))
		}
		merged = append(merged, items...)
	}

	sortQueue(merged)

	a.log.WithFields(logrus.Fields{
		"viewer": v.Username,
		"admin":  v.Admin,
		"count":  len(merged),
	}).Debug("Onay kuyruğu oluşturuldu")

	return merged, nil
}

// sortQueue tarih azalan; eşitlikte tür sırası, sonra yerel id artan.
func sortQueue(items []PendingItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.CompletionDate.Equal(b.CompletionDate) {
			return a.CompletionDate.After(b.CompletionDate)
		}
		if a.Type != b.Type {
			return a.Type.Order() < b.Type.Order()
		}
		return a.DisplayID < b.DisplayID
	})
}
