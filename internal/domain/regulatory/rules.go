package regulatory

import (
	"fmt"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// wholesaleTransferLimit fracción máxima de transferencias sobre dispensación total
// para un sitio sin licencia mayorista.
const wholesaleTransferLimit = 0.05

// DefaultRules reglas vigentes en orden de evaluación.
func DefaultRules() []Rule {
	return []Rule{
		GPOOutpatientRule{},
		Orphan340BRule{},
		Registration340BRule{},
		Inpatient340BRule{},
		WACSafetyValveRule{},
		DSCSAComplianceRule{},
		Parity340BRule{},
		WholesaleVolumeRule{},
		DSCSAPedigreeRule{},
		AntiDiversionRule{},
	}
}

func avatarIn(a entity.RegulatoryAvatar, set ...entity.RegulatoryAvatar) bool {
	for _, s := range set {
		if a == s {
			return true
		}
	}
	return false
}

func allow(reason string) Decision { return Decision{Allowed: true, Reason: reason} }
func deny(reason string) Decision  { return Decision{Allowed: false, Reason: reason} }

// ── Reglas de canal ───────────────────────────────────────────────────────────

// GPOOutpatientRule sitios DSH y oncológicos independientes no compran por GPO para uso ambulatorio.
type GPOOutpatientRule struct{}

func (GPOOutpatientRule) Name() string          { return "gpo_outpatient_prohibition" }
func (GPOOutpatientRule) Kind() entity.RuleKind { return entity.RuleKindChannel }

func (GPOOutpatientRule) CheckChannel(q ChannelQuery) Decision {
	if q.Channel != entity.ChannelGPO || q.Setting != entity.SettingOutpatient {
		return allow("no aplica")
	}
	if avatarIn(q.Site.Avatar, entity.AvatarDSH, entity.AvatarFreeStandingCancer) {
		return deny(fmt.Sprintf("GPO Prohibition: sitios %s no pueden usar GPO para uso ambulatorio", q.Site.Avatar))
	}
	return allow("GPO permitido para este sitio")
}

// Orphan340BRule CAH, RRC, SCH y oncológicos independientes no usan 340B para medicamentos huérfanos.
type Orphan340BRule struct{}

func (Orphan340BRule) Name() string          { return "orphan_drug_exclusion" }
func (Orphan340BRule) Kind() entity.RuleKind { return entity.RuleKindChannel }

func (Orphan340BRule) CheckChannel(q ChannelQuery) Decision {
	if q.Channel != entity.Channel340B || !q.Orphan {
		return allow("no aplica")
	}
	if avatarIn(q.Site.Avatar, entity.AvatarCAH, entity.AvatarRRC, entity.AvatarSCH, entity.AvatarFreeStandingCancer) {
		return deny(fmt.Sprintf("Orphan Exclusion: sitios %s no pueden usar 340B para medicamentos huérfanos", q.Site.Avatar))
	}
	return allow("340B permitido para huérfano en este sitio")
}

// Registration340BRule solo sitios registrados en 340B compran a precio 340B.
type Registration340BRule struct{}

func (Registration340BRule) Name() string          { return "340b_registration" }
func (Registration340BRule) Kind() entity.RuleKind { return entity.RuleKindChannel }

func (Registration340BRule) CheckChannel(q ChannelQuery) Decision {
	if q.Channel != entity.Channel340B {
		return allow("no aplica")
	}
	if !q.Site.Regulatory.Is340B {
		return deny("340B: el sitio no está registrado en el programa")
	}
	return allow("sitio registrado en 340B")
}

// Inpatient340BRule los medicamentos de hospitalización se cubren por DRG, no por 340B.
type Inpatient340BRule struct{}

func (Inpatient340BRule) Name() string          { return "340b_inpatient_exclusion" }
func (Inpatient340BRule) Kind() entity.RuleKind { return entity.RuleKindChannel }

func (Inpatient340BRule) CheckChannel(q ChannelQuery) Decision {
	if q.Channel == entity.Channel340B && q.Setting == entity.SettingInpatient {
		return deny("340B: exclusión de uso hospitalario (inpatient)")
	}
	return allow("no aplica")
}

// WACSafetyValveRule WAC siempre está disponible.
type WACSafetyValveRule struct{}

func (WACSafetyValveRule) Name() string          { return "wac_safety_valve" }
func (WACSafetyValveRule) Kind() entity.RuleKind { return entity.RuleKindChannel }

func (WACSafetyValveRule) CheckChannel(q ChannelQuery) Decision {
	if q.Channel == entity.ChannelWAC {
		return allow("WAC siempre permitido")
	}
	return allow("no aplica")
}

// ── Reglas de transferencia ───────────────────────────────────────────────────

// DSCSAComplianceRule ambos sitios deben cumplir DSCSA.
type DSCSAComplianceRule struct{}

func (DSCSAComplianceRule) Name() string          { return "dscsa_compliance" }
func (DSCSAComplianceRule) Kind() entity.RuleKind { return entity.RuleKindTransfer }

func (DSCSAComplianceRule) CheckRoute(q RouteQuery) Decision {
	if !q.Source.Regulatory.DSCSACompliant {
		return deny(fmt.Sprintf("DSCSA: el origen %s no cumple DSCSA", q.Source.ID))
	}
	if !q.Target.Regulatory.DSCSACompliant {
		return deny(fmt.Sprintf("DSCSA: el destino %s no cumple DSCSA", q.Target.ID))
	}
	return allow("ambos sitios cumplen DSCSA")
}

// Parity340BRule no se transfiere entre un sitio 340B y uno que no lo es.
type Parity340BRule struct{}

func (Parity340BRule) Name() string          { return "340b_parity" }
func (Parity340BRule) Kind() entity.RuleKind { return entity.RuleKindTransfer }

func (Parity340BRule) CheckRoute(q RouteQuery) Decision {
	if q.Source.Regulatory.Is340B != q.Target.Regulatory.Is340B {
		return deny("340B Hard Block: origen y destino difieren en participación 340B")
	}
	return allow("participación 340B coincide")
}

// WholesaleVolumeRule un sitio sin licencia mayorista no puede superar 5% de transferencias.
type WholesaleVolumeRule struct{}

func (WholesaleVolumeRule) Name() string          { return "wholesale_volume" }
func (WholesaleVolumeRule) Kind() entity.RuleKind { return entity.RuleKindTransfer }

func (WholesaleVolumeRule) CheckRoute(q RouteQuery) Decision {
	reg := q.Source.Regulatory
	if reg.LicenseType == entity.LicenseWholesaler {
		return allow("origen con licencia mayorista")
	}
	stats := reg.Dispensing
	if stats == nil || stats.TotalDispensing <= 0 {
		return allow("sin estadísticas de dispensación")
	}
	ratio := float64(stats.TransfersYTD) / float64(stats.TotalDispensing)
	if ratio > wholesaleTransferLimit {
		return deny(fmt.Sprintf("Act 145: transferencias (%.1f%%) superan el límite de 5%%; requiere licencia mayorista", ratio*100))
	}
	return allow("volumen de transferencias dentro del límite")
}

// DSCSAPedigreeRule informativa: indica si la transferencia exige historial de transacción (T3).
type DSCSAPedigreeRule struct{}

func (DSCSAPedigreeRule) Name() string          { return "dscsa_pedigree" }
func (DSCSAPedigreeRule) Kind() entity.RuleKind { return entity.RuleKindTransfer }

func (DSCSAPedigreeRule) CheckRoute(q RouteQuery) Decision {
	if q.Source.SharesControlWith(q.Target) {
		return allow("Exento: transferencia entre afiliados (control común)")
	}
	if q.Urgency == entity.UrgencyEmergency {
		return allow("Exento: necesidad médica de emergencia")
	}
	return allow("DSCSA: requiere historial de transacción (T3)")
}

// ── Reglas de titularidad ─────────────────────────────────────────────────────

// AntiDiversionRule inventario acute no pasa a un sitio retail.
type AntiDiversionRule struct{}

func (AntiDiversionRule) Name() string          { return "acute_to_retail_diversion" }
func (AntiDiversionRule) Kind() entity.RuleKind { return entity.RuleKindOwnership }

func (AntiDiversionRule) CheckRoute(q RouteQuery) Decision {
	if q.Source.ClassOfTrade == entity.ClassOfTradeAcute && q.Target.ClassOfTrade == entity.ClassOfTradeRetail {
		return deny("Anti-desvío: inventario acute no puede moverse a un sitio retail")
	}
	return allow("clase comercial compatible")
}
