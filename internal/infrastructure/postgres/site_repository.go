package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

var (
	_ repository.SiteRepository = (*SiteRepo)(nil)
	_ repository.SiteWriter     = (*SiteRepo)(nil)
)

// SiteRepo implementación de SiteRepository sobre PostgreSQL.
type SiteRepo struct {
	q Querier
}

// NewSiteRepository construye el adaptador. Acepta pool o tx (Querier).
func NewSiteRepository(q Querier) *SiteRepo {
	return &SiteRepo{q: q}
}

const siteColumns = `id, network_id, name, kind, parent_entity, lat, lng, class_of_trade, avatar,
	is_340b, entity_340b_id, dscsa_compliant, license_type, transfers_ytd, total_dispensing`

func scanSite(row pgx.Row) (entity.Site, error) {
	var s entity.Site
	var classOfTrade, avatar, license string
	var transfersYTD, totalDispensing *int64
	err := row.Scan(
		&s.ID, &s.NetworkID, &s.Name, &s.Kind, &s.ParentEntity,
		&s.Coordinates.Lat, &s.Coordinates.Lng, &classOfTrade, &avatar,
		&s.Regulatory.Is340B, &s.Regulatory.Entity340BID, &s.Regulatory.DSCSACompliant,
		&license, &transfersYTD, &totalDispensing,
	)
	if err != nil {
		return s, err
	}
	s.ClassOfTrade = entity.ClassOfTrade(classOfTrade)
	s.Avatar = entity.RegulatoryAvatar(avatar)
	s.Regulatory.LicenseType = entity.LicenseType(license)
	if transfersYTD != nil && totalDispensing != nil {
		s.Regulatory.Dispensing = &entity.DispensingStats{
			TransfersYTD:    *transfersYTD,
			TotalDispensing: *totalDispensing,
		}
	}
	return s, nil
}

func (r *SiteRepo) ListByNetwork(ctx context.Context, networkID string) ([]entity.Site, error) {
	query := `SELECT ` + siteColumns + ` FROM sites WHERE network_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, networkID)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()
	var list []entity.Site
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *SiteRepo) GetByID(ctx context.Context, id string) (*entity.Site, error) {
	query := `SELECT ` + siteColumns + ` FROM sites WHERE id = $1`
	s, err := scanSite(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get site: %w", err)
	}
	return &s, nil
}

// Upsert registra o actualiza un sitio (configuración de red, carga inicial).
func (r *SiteRepo) Upsert(ctx context.Context, s *entity.Site) error {
	var transfersYTD, totalDispensing *int64
	if d := s.Regulatory.Dispensing; d != nil {
		transfersYTD, totalDispensing = &d.TransfersYTD, &d.TotalDispensing
	}
	query := `
		INSERT INTO sites (` + siteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			network_id = EXCLUDED.network_id, name = EXCLUDED.name, kind = EXCLUDED.kind,
			parent_entity = EXCLUDED.parent_entity, lat = EXCLUDED.lat, lng = EXCLUDED.lng,
			class_of_trade = EXCLUDED.class_of_trade, avatar = EXCLUDED.avatar,
			is_340b = EXCLUDED.is_340b, entity_340b_id = EXCLUDED.entity_340b_id,
			dscsa_compliant = EXCLUDED.dscsa_compliant, license_type = EXCLUDED.license_type,
			transfers_ytd = EXCLUDED.transfers_ytd, total_dispensing = EXCLUDED.total_dispensing`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.NetworkID, s.Name, s.Kind, s.ParentEntity, s.Coordinates.Lat, s.Coordinates.Lng,
		string(s.ClassOfTrade), string(s.Avatar), s.Regulatory.Is340B, s.Regulatory.Entity340BID,
		s.Regulatory.DSCSACompliant, string(s.Regulatory.LicenseType), transfersYTD, totalDispensing,
	)
	if err != nil {
		return wrapWrite("upsert site", err)
	}
	return nil
}
