package allocation_test

import (
	"time"

	"github.com/jhoicas/Suministros-api/internal/domain/allocation"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/logistics"
	"github.com/jhoicas/Suministros-api/internal/domain/regulatory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const ndcInsulinFree = "0002-8215"

var testNow = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

// clinic sitio conforme, no 340B, a lat.offset grados al norte del origen común.
func clinic(id string, latOffset float64) entity.Site {
	return entity.Site{
		ID:           id,
		NetworkID:    "net-1",
		Name:         "Sitio " + id,
		Kind:         "hospital",
		Coordinates:  entity.Coordinates{Lat: 4.60 + latOffset, Lng: -74.08},
		ClassOfTrade: entity.ClassOfTradeAcute,
		Avatar:       entity.AvatarClinic,
		Regulatory: entity.RegulatoryProfile{
			DSCSACompliant: true,
			LicenseType:    entity.LicensePharmacy,
		},
	}
}

func record(siteID string, qty, minLevel, maxLevel int64) entity.InventoryRecord {
	return entity.InventoryRecord{
		SiteID:   siteID,
		NDC:      ndcInsulinFree,
		DrugName: "Metformin 500mg",
		Quantity: qty,
		MinLevel: minLevel,
		MaxLevel: maxLevel,
	}
}

func catalog() []entity.CatalogDrug {
	return []entity.CatalogDrug{{NDC: ndcInsulinFree, Name: "Metformin 500mg"}}
}

func snapshot(sites []entity.Site, records []entity.InventoryRecord, patients ...entity.Patient) *allocation.Snapshot {
	return allocation.NewSnapshot("net-1", testNow, sites, records, nil, patients, catalog())
}

func planner() *allocation.Planner {
	costs := logistics.NewCostModel(logistics.DefaultTortuosity, logistics.DefaultVendorDistanceKm)
	costs.Jitter = logistics.NoJitter{}
	return allocation.NewPlanner(regulatory.NewDefaultGate(), costs, allocation.DefaultScoringPolicy(), allocation.DefaultConfig())
}

func runPass(snap *allocation.Snapshot) allocation.Result {
	agg := allocation.Aggregate(snap, 30*24*time.Hour)
	return planner().Plan(snap, agg.Signals)
}

func transferredFrom(res allocation.Result, source string) int64 {
	var total int64
	for _, p := range res.Proposals {
		if p.Kind == entity.ProposalTransfer && p.SourceSiteID == source {
			total += p.Quantity
		}
	}
	return total
}

func proposalsFor(res allocation.Result, target string) []entity.Proposal {
	var out []entity.Proposal
	for _, p := range res.Proposals {
		if p.TargetSiteID == target {
			out = append(out, p)
		}
	}
	return out
}

func proposedQuantity(res allocation.Result, target string) int64 {
	var total int64
	for _, p := range proposalsFor(res, target) {
		total += p.Quantity
	}
	return total
}
