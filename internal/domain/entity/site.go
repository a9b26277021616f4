package entity

// ClassOfTrade clase comercial de un sitio (frontera anti-desvío entre acute y retail).
type ClassOfTrade string

const (
	ClassOfTradeAcute    ClassOfTrade = "acute"
	ClassOfTradeNonAcute ClassOfTrade = "non_acute"
	ClassOfTradeRetail   ClassOfTrade = "retail"
)

// RegulatoryAvatar categoría regulatoria del sitio (elegibilidad 340B / GPO).
type RegulatoryAvatar string

const (
	AvatarDSH                RegulatoryAvatar = "DSH" // disproportionate-share hospital
	AvatarCAH                RegulatoryAvatar = "CAH" // critical-access hospital
	AvatarRRC                RegulatoryAvatar = "RRC" // rural-referral center
	AvatarSCH                RegulatoryAvatar = "SCH" // sole-community hospital
	AvatarFreeStandingCancer RegulatoryAvatar = "FreeStandingCancer"
	AvatarClinic             RegulatoryAvatar = "Clinic"
	AvatarPharmacy           RegulatoryAvatar = "Pharmacy"
)

// LicenseType tipo de licencia del sitio; los mayoristas quedan fuera de la regla del 5%.
type LicenseType string

const (
	LicensePharmacy   LicenseType = "pharmacy"
	LicenseWholesaler LicenseType = "wholesaler"
)

// Coordinates posición geográfica en grados decimales.
type Coordinates struct {
	Lat float64
	Lng float64
}

// DispensingStats volumen anual usado por la regla de distribución mayorista.
type DispensingStats struct {
	TransfersYTD    int64
	TotalDispensing int64
}

// RegulatoryProfile perfil regulatorio de un sitio.
type RegulatoryProfile struct {
	Is340B         bool
	Entity340BID   string
	DSCSACompliant bool
	LicenseType    LicenseType
	Dispensing     *DispensingStats // nil = sin estadísticas, la regla del 5% no aplica
}

// Site representa un hospital, clínica, farmacia o bodega de la red.
// Inmutable durante una pasada de planeación; lo administra la configuración de red.
type Site struct {
	ID           string
	NetworkID    string
	Name         string
	Kind         string // hospital | clinic | warehouse | pharmacy
	ParentEntity string // entidad controladora común (transferencias internas)
	Coordinates  Coordinates
	ClassOfTrade ClassOfTrade
	Avatar       RegulatoryAvatar
	Regulatory   RegulatoryProfile
}

// SharesControlWith indica si ambos sitios pertenecen a la misma entidad controladora.
func (s *Site) SharesControlWith(other *Site) bool {
	return s.ParentEntity != "" && s.ParentEntity == other.ParentEntity
}
