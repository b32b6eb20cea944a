package transit

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"EcoRoute-App/internal/domain/model"
)

// GTFSStaticRepository はGTFS静的フィード（stops.txt等）を読み込み、
// 停留所名・路線番号からIDを解決する。初回アクセス時に遅延ロードする
type GTFSStaticRepository struct {
	gtfsDir string
	logger  *logrus.Logger

	mu     sync.Mutex
	loaded bool

	stops            map[string]*model.TransitStop
	stopsByName      map[string][]*model.TransitStop
	routes           map[string]*model.TransitRoute
	routesByShortName map[string][]*model.TransitRoute
	tripToRoute      map[string]string
	routeToStops     map[string]map[string]bool
}

// NewGTFSStaticRepository は新しいGTFSStaticRepositoryインスタンスを作成
func NewGTFSStaticRepository(gtfsDir string, logger *logrus.Logger) *GTFSStaticRepository {
	if logger == nil {
		logger = logrus.New()
	}
	return &GTFSStaticRepository{
		gtfsDir:           gtfsDir,
		logger:            logger,
		stops:             make(map[string]*model.TransitStop),
		stopsByName:       make(map[string][]*model.TransitStop),
		routes:            make(map[string]*model.TransitRoute),
		routesByShortName: make(map[string][]*model.TransitRoute),
		tripToRoute:       make(map[string]string),
		routeToStops:      make(map[string]map[string]bool),
	}
}

// ensureLoaded は未ロードならGTFSファイル群を読み込む。
// 二重ロードはミューテックスで防ぐ
func (r *GTFSStaticRepository) ensureLoaded() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		return nil
	}

	if _, err := os.Stat(r.gtfsDir); err != nil {
		return fmt.Errorf("GTFSディレクトリが見つかりません: %w", err)
	}

	if err := r.loadStops(); err != nil {
		r.logger.WithError(err).Warn("stops.txt読み込み失敗")
	}
	if err := r.loadRoutes(); err != nil {
		r.logger.WithError(err).Warn("routes.txt読み込み失敗")
	}
	if err := r.loadTrips(); err != nil {
		r.logger.WithError(err).Warn("trips.txt読み込み失敗")
	}
	if err := r.loadStopTimes(); err != nil {
		r.logger.WithError(err).Warn("stop_times.txt読み込み失敗")
	}

	r.loaded = true
	r.logger.WithFields(logrus.Fields{
		"stops":  len(r.stops),
		"routes": len(r.routes),
	}).Info("🚏 GTFS静的フィード読み込み完了")
	return nil
}

// forEachRow はCSVをヘッダー付きで1行ずつ処理する。不正な行はスキップする
func forEachRow(path string, fn func(row map[string]string)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%sを開けません: %w", filepath.Base(path), err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("%sのヘッダー読み込み失敗: %w", filepath.Base(path), err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\uFEFF"))
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			continue
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			}
		}
		fn(row)
	}
}

func (r *GTFSStaticRepository) loadStops() error {
	return forEachRow(filepath.Join(r.gtfsDir, "stops.txt"), func(row map[string]string) {
		id := row["stop_id"]
		if id == "" {
			return
		}
		lat, _ := strconv.ParseFloat(row["stop_lat"], 64)
		lng, _ := strconv.ParseFloat(row["stop_lon"], 64)
		locType, _ := strconv.Atoi(row["location_type"])

		stop := &model.TransitStop{
			ID:            id,
			Code:          row["stop_code"],
			Name:          row["stop_name"],
			Point:         model.Point{Lat: lat, Lng: lng},
			LocationType:  locType,
			ParentStation: row["parent_station"],
		}
		r.stops[id] = stop
		nameKey := strings.ToLower(stop.Name)
		r.stopsByName[nameKey] = append(r.stopsByName[nameKey], stop)
	})
}

func (r *GTFSStaticRepository) loadRoutes() error {
	return forEachRow(filepath.Join(r.gtfsDir, "routes.txt"), func(row map[string]string) {
		id := row["route_id"]
		if id == "" {
			return
		}
		routeType, err := strconv.Atoi(row["route_type"])
		if err != nil {
			routeType = 3 // バス扱い
		}

		route := &model.TransitRoute{
			ID:        id,
			ShortName: row["route_short_name"],
			LongName:  row["route_long_name"],
			Type:      routeType,
		}
		r.routes[id] = route

		if route.ShortName != "" {
			r.routesByShortName[route.ShortName] = append(r.routesByShortName[route.ShortName], route)
			return
		}

		// 番号を持たない路線（Canada Line等）は路線名と単語で索引する
		if route.LongName != "" {
			longLower := strings.ToLower(route.LongName)
			r.routesByShortName[longLower] = append(r.routesByShortName[longLower], route)
			for _, word := range strings.Fields(longLower) {
				if len(word) > 2 {
					r.routesByShortName[word] = append(r.routesByShortName[word], route)
				}
			}
		}
	})
}

func (r *GTFSStaticRepository) loadTrips() error {
	return forEachRow(filepath.Join(r.gtfsDir, "trips.txt"), func(row map[string]string) {
		tripID := row["trip_id"]
		routeID := row["route_id"]
		if tripID != "" && routeID != "" {
			r.tripToRoute[tripID] = routeID
		}
	})
}

func (r *GTFSStaticRepository) loadStopTimes() error {
	return forEachRow(filepath.Join(r.gtfsDir, "stop_times.txt"), func(row map[string]string) {
		tripID := row["trip_id"]
		stopID := row["stop_id"]
		if tripID == "" || stopID == "" {
			return
		}
		routeID, ok := r.tripToRoute[tripID]
		if !ok {
			return
		}
		if r.routeToStops[routeID] == nil {
			r.routeToStops[routeID] = make(map[string]bool)
		}
		r.routeToStops[routeID][stopID] = true
	})
}

// ResolveStopID は停留所名からstop_idを解決する。
// のりば（Bay）が複数ある停留所は、駅優先・路線一致・座標近接の順で絞り込む
func (r *GTFSStaticRepository) ResolveStopID(ctx context.Context, stopName string, routeShortName string, near *model.Point) (string, error) {
	if err := r.ensureLoaded(); err != nil {
		return "", err
	}

	nameLower := strings.ToLower(strings.TrimSpace(stopName))
	if nameLower == "" {
		return "", fmt.Errorf("停留所名が空です")
	}

	candidates := r.stopsByName[nameLower]
	if len(candidates) == 0 {
		// 前方一致（"UBC Exchange"が"UBC Exchange @ Bay 9"に一致する）
		for name, stops := range r.stopsByName {
			if strings.HasPrefix(name, nameLower) {
				candidates = append(candidates, stops...)
			}
		}
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("停留所が見つかりません: %s", stopName)
	}
	if len(candidates) == 1 {
		return candidates[0].ID, nil
	}

	// 駅（親ステーション）を優先する
	stations := make([]*model.TransitStop, 0)
	for _, s := range candidates {
		if s.IsStation() {
			stations = append(stations, s)
		}
	}
	if len(stations) > 0 {
		candidates = stations
	}

	// 路線が分かっていれば、その路線が停車するのりばへ絞り込む
	if routeShortName != "" {
		if routeID, err := r.ResolveRouteID(ctx, routeShortName); err == nil {
			if stopSet := r.routeToStops[routeID]; len(stopSet) > 0 {
				matched := make([]*model.TransitStop, 0)
				for _, s := range candidates {
					if stopSet[s.ID] {
						matched = append(matched, s)
					}
				}
				if len(matched) > 0 {
					candidates = matched
				}
			}
		}
	}

	// 座標があれば最も近いのりばを選ぶ
	if near != nil {
		best := candidates[0]
		bestDist := near.DistanceTo(best.Point)
		for _, s := range candidates[1:] {
			if d := near.DistanceTo(s.Point); d < bestDist {
				best = s
				bestDist = d
			}
		}
		return best.ID, nil
	}

	return candidates[0].ID, nil
}

// ResolveRouteID は路線番号からroute_idを解決する。
// "99"と"099"のような表記ゆれを正規化し、番号を持たない路線は路線名で照合する
func (r *GTFSStaticRepository) ResolveRouteID(ctx context.Context, routeShortName string) (string, error) {
	if err := r.ensureLoaded(); err != nil {
		return "", err
	}

	name := strings.TrimSpace(routeShortName)
	if name == "" {
		return "", fmt.Errorf("路線番号が空です")
	}

	if routes := r.routesByShortName[name]; len(routes) > 0 {
		return routes[0].ID, nil
	}

	// 先頭のゼロを除去（"099"→"99"）
	if normalized := strings.TrimLeft(name, "0"); normalized != name && normalized != "" {
		if routes := r.routesByShortName[normalized]; len(routes) > 0 {
			return routes[0].ID, nil
		}
	}

	// 3桁ゼロ埋め（"99"→"099"）
	if _, err := strconv.Atoi(name); err == nil && len(name) < 3 {
		padded := name
		for len(padded) < 3 {
			padded = "0" + padded
		}
		if routes := r.routesByShortName[padded]; len(routes) > 0 {
			return routes[0].ID, nil
		}
	}

	// 大文字小文字を無視した路線名照合（"Canada Line"等）
	if routes := r.routesByShortName[strings.ToLower(name)]; len(routes) > 0 {
		return routes[0].ID, nil
	}

	return "", fmt.Errorf("路線が見つかりません: %s", routeShortName)
}

// GetStopsInRadius は中心点から半径内の停留所を返す
func (r *GTFSStaticRepository) GetStopsInRadius(ctx context.Context, center model.Point, radiusMeters float64) ([]model.TransitStop, error) {
	if err := r.ensureLoaded(); err != nil {
		return nil, err
	}

	var result []model.TransitStop
	for _, stop := range r.stops {
		if center.DistanceTo(stop.Point) <= radiusMeters {
			result = append(result, *stop)
		}
	}
	return result, nil
}

// GetStopByID はstop_idから停留所を返す
func (r *GTFSStaticRepository) GetStopByID(stopID string) (*model.TransitStop, bool) {
	if err := r.ensureLoaded(); err != nil {
		return nil, false
	}
	stop, ok := r.stops[stopID]
	return stop, ok
}
