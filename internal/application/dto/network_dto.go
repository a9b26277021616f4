package dto

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Suministros-api/internal/application/importer"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// NetworkImportRequest volcado JSON de una red: cuerpo de POST /api/network/import
// y entrada del CLI de planeación.
type NetworkImportRequest struct {
	NetworkID string                 `json:"network_id"`
	Now       *time.Time             `json:"now,omitempty"` // instante de referencia del CLI
	Sites     []SiteImportDTO        `json:"sites"`
	Inventory []InventoryImportDTO   `json:"inventory"`
	Transfers []TransferImportDTO    `json:"transfers"`
	Patients  []PatientImportDTO     `json:"patients"`
	Catalog   []CatalogDrugImportDTO `json:"catalog"`
}

type SiteImportDTO struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Kind           string  `json:"kind"`
	ParentEntity   string  `json:"parent_entity"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	ClassOfTrade   string  `json:"class_of_trade"`
	Avatar         string  `json:"avatar"`
	Is340B         bool    `json:"is_340b"`
	Entity340BID   string  `json:"entity_340b_id"`
	DSCSACompliant *bool   `json:"dscsa_compliant"` // ausente = true
	LicenseType    string  `json:"license_type"`
	TransfersYTD   *int64  `json:"transfers_ytd"`
	TotalDispense  *int64  `json:"total_dispensing"`
}

type InventoryImportDTO struct {
	SiteID   string `json:"site_id"`
	NDC      string `json:"ndc"`
	DrugName string `json:"drug_name"`
	Quantity int64  `json:"quantity"`
	MinLevel int64  `json:"min_level"`
	MaxLevel int64  `json:"max_level"`
}

type TransferImportDTO struct {
	ID           string    `json:"id"`
	SourceSiteID string    `json:"source_site_id"`
	TargetSiteID string    `json:"target_site_id"`
	NDC          string    `json:"ndc"`
	Quantity     int64     `json:"quantity"`
	Status       string    `json:"status"`
	RequestedAt  time.Time `json:"requested_at"`
}

type TreatmentImportDTO struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	DrugName string    `json:"drug_name"`
	NDC      string    `json:"ndc"`
	Status   string    `json:"status"` // vacío = scheduled
	Dose     string    `json:"dose"`
}

type PatientImportDTO struct {
	ID             string               `json:"id"`
	MRN            string               `json:"mrn"`
	AssignedSiteID string               `json:"assigned_site_id"`
	Acuity         string               `json:"acuity"`
	Schedule       []TreatmentImportDTO `json:"schedule"`
}

type CatalogDrugImportDTO struct {
	NDC       string          `json:"ndc"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ColdChain bool            `json:"cold_chain"`
	Orphan    bool            `json:"orphan"`
}

// ReadNetworkImport decodifica un volcado de red. charset "latin1" (o "iso-8859-1")
// convierte exportaciones de sistemas heredados a UTF-8 antes de decodificar.
func ReadNetworkImport(r io.Reader, charset string) (*NetworkImportRequest, error) {
	switch strings.ToLower(charset) {
	case "", "utf8", "utf-8":
	case "latin1", "iso-8859-1", "iso8859-1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	case "windows-1252", "cp1252":
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	default:
		return nil, fmt.Errorf("charset no soportado: %s", charset)
	}
	var f NetworkImportRequest
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode network file: %w", err)
	}
	return &f, nil
}

// ToEntities convierte el volcado a entidades de dominio aplicando los valores por defecto.
func (f *NetworkImportRequest) ToEntities() entity.NetworkData {
	data := entity.NetworkData{NetworkID: f.NetworkID}

	sites := make([]entity.Site, 0, len(f.Sites))
	for _, s := range f.Sites {
		site := entity.Site{
			ID:           s.ID,
			NetworkID:    f.NetworkID,
			Name:         s.Name,
			Kind:         s.Kind,
			ParentEntity: s.ParentEntity,
			Coordinates:  entity.Coordinates{Lat: s.Lat, Lng: s.Lng},
			ClassOfTrade: entity.ClassOfTrade(orDefault(s.ClassOfTrade, string(entity.ClassOfTradeAcute))),
			Avatar:       entity.RegulatoryAvatar(orDefault(s.Avatar, string(entity.AvatarClinic))),
			Regulatory: entity.RegulatoryProfile{
				Is340B:         s.Is340B,
				Entity340BID:   s.Entity340BID,
				DSCSACompliant: s.DSCSACompliant == nil || *s.DSCSACompliant,
				LicenseType:    entity.LicenseType(orDefault(s.LicenseType, string(entity.LicensePharmacy))),
			},
		}
		if s.TransfersYTD != nil && s.TotalDispense != nil {
			site.Regulatory.Dispensing = &entity.DispensingStats{TransfersYTD: *s.TransfersYTD, TotalDispensing: *s.TotalDispense}
		}
		sites = append(sites, site)
	}
	data.Sites = sites

	records := make([]entity.InventoryRecord, 0, len(f.Inventory))
	for _, r := range f.Inventory {
		records = append(records, entity.InventoryRecord{
			SiteID: r.SiteID, NDC: r.NDC, DrugName: r.DrugName,
			Quantity: r.Quantity, MinLevel: r.MinLevel, MaxLevel: r.MaxLevel,
		})
	}
	data.Inventory = records

	transfers := make([]entity.TransferRequest, 0, len(f.Transfers))
	for _, t := range f.Transfers {
		transfers = append(transfers, entity.TransferRequest{
			ID: t.ID, SourceSiteID: t.SourceSiteID, TargetSiteID: t.TargetSiteID,
			NDC: t.NDC, Quantity: t.Quantity, Status: entity.TransferStatus(t.Status),
			RequestedAt: t.RequestedAt,
		})
	}
	data.Transfers = transfers

	patients := make([]entity.Patient, 0, len(f.Patients))
	for _, p := range f.Patients {
		patient := entity.Patient{ID: p.ID, MRN: p.MRN, AssignedSiteID: p.AssignedSiteID, Acuity: p.Acuity}
		for _, t := range p.Schedule {
			patient.Schedule = append(patient.Schedule, entity.Treatment{
				ID: t.ID, Date: t.Date, DrugName: t.DrugName, NDC: t.NDC, Dose: t.Dose,
				Status: entity.TreatmentStatus(orDefault(t.Status, string(entity.TreatmentScheduled))),
			})
		}
		patients = append(patients, patient)
	}
	data.Patients = patients

	drugs := make([]entity.CatalogDrug, 0, len(f.Catalog))
	for _, d := range f.Catalog {
		drugs = append(drugs, entity.CatalogDrug{NDC: d.NDC, Name: d.Name, UnitPrice: d.UnitPrice, ColdChain: d.ColdChain, Orphan: d.Orphan})
	}
	data.Catalog = drugs
	return data
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// ImportSummaryDTO filas escritas por una importación.
type ImportSummaryDTO struct {
	NetworkID  string `json:"network_id"`
	Sites      int    `json:"sites"`
	Inventory  int    `json:"inventory"`
	Transfers  int    `json:"transfers"`
	Patients   int    `json:"patients"`
	Treatments int    `json:"treatments"`
	Catalog    int    `json:"catalog"`
}

// NewImportSummaryDTO construye la respuesta de importación.
func NewImportSummaryDTO(sum *importer.Summary) ImportSummaryDTO {
	return ImportSummaryDTO{
		NetworkID:  sum.NetworkID,
		Sites:      sum.Sites,
		Inventory:  sum.Inventory,
		Transfers:  sum.Transfers,
		Patients:   sum.Patients,
		Treatments: sum.Treatments,
		Catalog:    sum.Catalog,
	}
}
