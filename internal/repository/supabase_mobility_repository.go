package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"EcoRoute-App/internal/domain/model"
	"EcoRoute-App/internal/domain/repository"
	"EcoRoute-App/internal/infrastructure/database"
)

type SupabaseMobilityRepository struct {
	client *database.SupabaseClient
}

func NewSupabaseMobilityRepository(client *database.SupabaseClient) repository.SharedMobilityRepository {
	return &SupabaseMobilityRepository{
		client: client,
	}
}

// mobilityStationRow はmobility_stationsテーブルの行
type mobilityStationRow struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Location       *GeoPoint `json:"location"`
	Mode           string    `json:"mode"`
	AvailableUnits int       `json:"available_units"`
}

// GetStationsNear は半径内のシェアモビリティステーションを返す。
// 境界ボックスで粗くフィルタした後、正確な距離で絞り込む
func (r *SupabaseMobilityRepository) GetStationsNear(ctx context.Context, center model.Point, radiusMeters float64) ([]model.SharedMobilityStation, error) {
	data, count, err := r.client.GetClient().From("mobility_stations").Select("*", "exact", false).Execute()
	if err != nil {
		return nil, fmt.Errorf("シェアモビリティデータの取得失敗: %w", err)
	}
	_ = count

	var rows []mobilityStationRow
	if err := json.Unmarshal([]byte(data), &rows); err != nil {
		return nil, fmt.Errorf("シェアモビリティデータのJSONアンマーシャル失敗: %w", err)
	}

	bound := BoundAround(center, radiusMeters)

	var stations []model.SharedMobilityStation
	for _, row := range rows {
		location := GeoPointToPoint(row.Location)
		if location == nil {
			continue
		}
		if !InBound(bound, *location) {
			continue
		}
		if center.DistanceTo(*location) > radiusMeters {
			continue
		}
		mode := model.TransportMode(row.Mode)
		if mode != model.ModeBiking && mode != model.ModeScooter {
			mode = model.ModeBiking
		}
		stations = append(stations, model.SharedMobilityStation{
			ID:             row.ID,
			Name:           row.Name,
			Location:       *location,
			Mode:           mode,
			AvailableUnits: row.AvailableUnits,
		})
	}
	return stations, nil
}
