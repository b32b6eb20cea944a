package repository

import (
	"context"
	"database/sql"
	"fmt"

	"EcoRoute-App/internal/domain/model"
	"EcoRoute-App/internal/domain/repository"
	"EcoRoute-App/internal/infrastructure/database"
)

type PostgresStreetNetworkRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresStreetNetworkRepository(client *database.PostgreSQLClient) repository.StreetNetworkRepository {
	return &PostgresStreetNetworkRepository{
		client: client,
	}
}

// StreetSegmentResult PostGIS関数の結果を受け取るための構造体
type StreetSegmentResult struct {
	ID                string
	FromNodeID        string
	ToNodeID          string
	FromLat           float64
	FromLng           float64
	ToLat             float64
	ToLng             float64
	LengthMeters      float64
	RoadClass         sql.NullString
	IsBikeLane        bool
	IsSidewalk        bool
	HasTransitService bool
}

// ToStreetSegment StreetSegmentResultをmodel.StreetSegmentに変換
func (sr *StreetSegmentResult) ToStreetSegment() model.StreetSegment {
	seg := model.StreetSegment{
		ID:                sr.ID,
		FromNodeID:        sr.FromNodeID,
		ToNodeID:          sr.ToNodeID,
		FromPoint:         model.Point{Lat: sr.FromLat, Lng: sr.FromLng},
		ToPoint:           model.Point{Lat: sr.ToLat, Lng: sr.ToLng},
		LengthMeters:      sr.LengthMeters,
		IsBikeLane:        sr.IsBikeLane,
		IsSidewalk:        sr.IsSidewalk,
		HasTransitService: sr.HasTransitService,
	}
	if sr.RoadClass.Valid {
		seg.RoadClass = sr.RoadClass.String
	}
	seg.IsHighway = seg.RoadClass == "motorway" || seg.RoadClass == "trunk"
	return seg
}

// GetSegmentsInRadius は中心点から半径内の道路セグメントをPostGISで検索する
func (r *PostgresStreetNetworkRepository) GetSegmentsInRadius(ctx context.Context, center model.Point, radiusMeters float64) ([]model.StreetSegment, error) {
	query := `
		SELECT id, from_node_id, to_node_id,
		       ST_Y(from_location::geometry) AS from_lat,
		       ST_X(from_location::geometry) AS from_lng,
		       ST_Y(to_location::geometry) AS to_lat,
		       ST_X(to_location::geometry) AS to_lng,
		       length_meters, road_class,
		       is_bike_lane, is_sidewalk, has_transit_service
		FROM street_segments
		WHERE ST_DWithin(
			from_location,
			ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
			$3
		)`

	rows, err := r.client.DB.QueryContext(ctx, query, center.Lng, center.Lat, radiusMeters)
	if err != nil {
		return nil, fmt.Errorf("道路セグメント検索エラー: %w", err)
	}
	defer rows.Close()

	var segments []model.StreetSegment
	for rows.Next() {
		var result StreetSegmentResult
		err := rows.Scan(
			&result.ID, &result.FromNodeID, &result.ToNodeID,
			&result.FromLat, &result.FromLng, &result.ToLat, &result.ToLng,
			&result.LengthMeters, &result.RoadClass,
			&result.IsBikeLane, &result.IsSidewalk, &result.HasTransitService,
		)
		if err != nil {
			return nil, fmt.Errorf("道路セグメントのスキャンエラー: %w", err)
		}
		segments = append(segments, result.ToStreetSegment())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("道路セグメント読み取りエラー: %w", err)
	}

	return segments, nil
}
