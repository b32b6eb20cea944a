package transit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/proto"

	"EcoRoute-App/internal/domain/model"
)

const feedCacheTTL = 30 * time.Second

// GTFSRealtimeClient はGTFS-RTバイナリフィードを取得・デコードする。
// デコード結果は30秒キャッシュし、同時リクエストで重複デコードしない
type GTFSRealtimeClient struct {
	tripUpdatesURL   string
	serviceAlertsURL string
	apiKey           string
	httpClient       *http.Client
	logger           *logrus.Logger

	mu               sync.Mutex
	cachedUpdates    []model.TransitTripUpdate
	updatesFetchedAt time.Time
	cachedAlerts     []model.ServiceAlert
	alertsFetchedAt  time.Time
}

// NewGTFSRealtimeClient は新しいGTFSRealtimeClientインスタンスを作成
func NewGTFSRealtimeClient(tripUpdatesURL, serviceAlertsURL, apiKey string, logger *logrus.Logger) *GTFSRealtimeClient {
	if logger == nil {
		logger = logrus.New()
	}
	return &GTFSRealtimeClient{
		tripUpdatesURL:   tripUpdatesURL,
		serviceAlertsURL: serviceAlertsURL,
		apiKey:           apiKey,
		httpClient:       &http.Client{Timeout: 2 * time.Second},
		logger:           logger,
	}
}

// GetTripUpdates は便の更新情報を返す。URL未設定なら空を返す
func (c *GTFSRealtimeClient) GetTripUpdates(ctx context.Context) ([]model.TransitTripUpdate, error) {
	if c.tripUpdatesURL == "" {
		return nil, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Since(c.updatesFetchedAt) < feedCacheTTL && c.cachedUpdates != nil {
		return c.cachedUpdates, nil
	}

	data, err := c.fetch(ctx, c.tripUpdatesURL)
	if err != nil {
		return nil, fmt.Errorf("trip updatesフィード取得失敗: %w", err)
	}

	updates := ParseTripUpdates(data)
	c.cachedUpdates = updates
	c.updatesFetchedAt = time.Now()
	c.logger.WithField("count", len(updates)).Debug("GTFS-RT trip updates取得")
	return updates, nil
}

// GetServiceAlerts は運行アラートを返す。URL未設定なら空を返す
func (c *GTFSRealtimeClient) GetServiceAlerts(ctx context.Context) ([]model.ServiceAlert, error) {
	if c.serviceAlertsURL == "" {
		return nil, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Since(c.alertsFetchedAt) < feedCacheTTL && c.cachedAlerts != nil {
		return c.cachedAlerts, nil
	}

	data, err := c.fetch(ctx, c.serviceAlertsURL)
	if err != nil {
		return nil, fmt.Errorf("service alertsフィード取得失敗: %w", err)
	}

	alerts := ParseServiceAlerts(data)
	c.cachedAlerts = alerts
	c.alertsFetchedAt = time.Now()
	return alerts, nil
}

func (c *GTFSRealtimeClient) fetch(ctx context.Context, url string) ([]byte, error) {
	if c.apiKey != "" {
		url = url + "?apikey=" + c.apiKey
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("予期しないステータスコード: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// ParseTripUpdates はバイナリフィードから便の更新情報を抽出する。
// 不正なデータは空スライスを返す（エラーにはしない）
func ParseTripUpdates(data []byte) []model.TransitTripUpdate {
	var feed gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(data, &feed); err != nil {
		return []model.TransitTripUpdate{}
	}

	updates := make([]model.TransitTripUpdate, 0, len(feed.Entity))
	for _, entity := range feed.Entity {
		tu := entity.GetTripUpdate()
		if tu == nil || tu.GetTrip() == nil {
			continue
		}

		update := model.TransitTripUpdate{
			TripID:  tu.GetTrip().GetTripId(),
			RouteID: tu.GetTrip().GetRouteId(),
		}

		for _, stu := range tu.GetStopTimeUpdate() {
			if stu.GetStopId() == "" {
				continue
			}
			s := model.StopTimeUpdate{
				StopID:       stu.GetStopId(),
				StopSequence: int(stu.GetStopSequence()),
			}
			if arrival := stu.GetArrival(); arrival != nil {
				if arrival.Delay != nil {
					d := arrival.GetDelay()
					s.ArrivalDelay = &d
				}
				if arrival.Time != nil {
					t := time.Unix(arrival.GetTime(), 0)
					s.ArrivalTime = &t
				}
			}
			if departure := stu.GetDeparture(); departure != nil {
				if departure.Delay != nil {
					d := departure.GetDelay()
					s.DepartureDelay = &d
				}
				if departure.Time != nil {
					t := time.Unix(departure.GetTime(), 0)
					s.DepartureTime = &t
				}
			}
			update.StopTimeUpdates = append(update.StopTimeUpdates, s)
		}

		updates = append(updates, update)
	}
	return updates
}

// ParseServiceAlerts はバイナリフィードから運行アラートを抽出する。
// 不正なデータは空スライスを返す
func ParseServiceAlerts(data []byte) []model.ServiceAlert {
	var feed gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(data, &feed); err != nil {
		return []model.ServiceAlert{}
	}

	alerts := make([]model.ServiceAlert, 0, len(feed.Entity))
	for _, entity := range feed.Entity {
		al := entity.GetAlert()
		if al == nil {
			continue
		}

		alert := model.ServiceAlert{
			ID:     entity.GetId(),
			Effect: al.GetEffect().String(),
		}
		if header := al.GetHeaderText(); header != nil && len(header.GetTranslation()) > 0 {
			alert.Header = header.GetTranslation()[0].GetText()
		}
		if desc := al.GetDescriptionText(); desc != nil && len(desc.GetTranslation()) > 0 {
			alert.Description = desc.GetTranslation()[0].GetText()
		}
		for _, informed := range al.GetInformedEntity() {
			if rid := informed.GetRouteId(); rid != "" {
				alert.RouteIDs = append(alert.RouteIDs, rid)
			}
			if sid := informed.GetStopId(); sid != "" {
				alert.StopIDs = append(alert.StopIDs, sid)
			}
		}
		alerts = append(alerts, alert)
	}
	return alerts
}
