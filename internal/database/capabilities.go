package database

import (
	"bakim-takip-backend/internal/config"
	"bakim-takip-backend/internal/models"
	"bakim-takip-backend/internal/workitem"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ProbeCapabilities onay kolonunun hangi tablolarda bulunduğunu başlangıçta
// kontrol eder. Kontrol ve YBS tabloları kolonu her zaman taşır; BağTV ve
// mesaj tablolarına kolon sonradan eklendiği için hem konfigürasyon hem de
// şema açık olmalıdır.
func ProbeCapabilities(db *gorm.DB, cfg *config.Config, log logrus.FieldLogger) workitem.Capabilities {
	caps := workitem.Capabilities{
		workitem.KindControl: true,
		workitem.KindYBS:     true,
	}

	probe := func(kind workitem.Kind, model any, enabled bool) {
		if !enabled {
			log.WithField("kind", kind).Info("Onay akışı konfigürasyonla kapatıldı")
			return
		}
		m := db.Migrator()
		if !m.HasTable(model) || !m.HasColumn(model, "approval_status") {
			log.WithField("kind", kind).Warn("approval_status kolonu yok, tür onay kuyruğunda atlanacak")
			return
		}
		caps[kind] = true
	}

	probe(workitem.KindBagTV, &models.BagTVControl{}, cfg.BagTVApprovalEnabled)
	probe(workitem.KindMessage, &models.Message{}, cfg.MessageApprovalEnabled)

	return caps
}
