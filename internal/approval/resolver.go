package approval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bakim-takip-backend/internal/audit"
	"bakim-takip-backend/internal/metrics"
	"bakim-takip-backend/internal/models"
	"bakim-takip-backend/internal/notify"
	"bakim-takip-backend/internal/workitem"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Resolver bileşik kimlikle adreslenen tek bir kayda karar uygular.
type Resolver struct {
	db        *gorm.DB
	caps      workitem.Capabilities
	metrics   *metrics.Metrics
	publisher notify.Publisher
	log       logrus.FieldLogger
	now       func() time.Time
}

func NewResolver(db *gorm.DB, caps workitem.Capabilities, m *metrics.Metrics, pub notify.Publisher, log logrus.FieldLogger) *Resolver {
	if pub == nil {
		pub = notify.Nop{}
	}
	return &Resolver{db: db, caps: caps, metrics: m, publisher: pub, log: log, now: time.Now}
}

// Resolve kararı kayda yazar. Kayıt pending değilse ErrNotAwaitingApproval
// döner; terminal bir karar asla üzerine yazılmaz.
func (r *Resolver) Resolve(ctx context.Context, ref workitem.Ref, d Decision) error {
	d.Actor = strings.TrimSpace(d.Actor)
	d.Reason = strings.TrimSpace(d.Reason)
	if err := d.validate(); err != nil {
		return err
	}

	ad, ok := adapters[ref.Kind]
	if !ok || !r.caps.Enabled(ref.Kind) {
		return fmt.Errorf("%w: %q onay akışında değil", workitem.ErrUnknownKind, ref.Kind)
	}
	id, err := ref.NativeID()
	if err != nil {
		return err
	}
	if d.At.IsZero() {
		d.At = r.now()
	}

	action := models.AuditActionApprove
	verb := "onaylandı"
	if d.Outcome == models.ApprovalRejected {
		action = models.AuditActionReject
		verb = "reddedildi"
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ad.Resolve(tx, id, d); err != nil {
			return err
		}

		desc := fmt.Sprintf("%s %s", ref, verb)
		if d.Reason != "" {
			desc += ": " + d.Reason
		}
		return audit.WriteLog(tx, audit.LogOptions{
			UserID:      d.ActorID,
			UserName:    d.Actor,
			EntityType:  string(ref.Kind),
			EntityID:    id,
			Action:      action,
			Description: desc,
			Before:      map[string]any{"approvalStatus": models.ApprovalPending},
			After: map[string]any{
				"approvalStatus":  d.Outcome,
				"approvedBy":      d.Actor,
				"approvedAt":      d.At,
				"rejectionReason": d.Reason,
			},
		})
	})
	if err != nil {
		return err
	}

	r.metrics.ObserveDecision(string(ref.Kind), string(d.Outcome))

	ev := notify.Event{Type: notify.EventApproved, Ref: ref.String(), Actor: d.Actor, Reason: d.Reason, At: d.At}
	if d.Outcome == models.ApprovalRejected {
		ev.Type = notify.EventRejected
	}
	if err := r.publisher.Publish(ctx, ev); err != nil {
		r.log.WithError(err).WithField("ref", ref.String()).Warn("Onay olayı yayınlanamadı")
	}

	r.log.WithFields(logrus.Fields{
		"ref":     ref.String(),
		"outcome": d.Outcome,
		"actor":   d.Actor,
	}).Info("Onay kararı uygulandı")
	return nil
}
