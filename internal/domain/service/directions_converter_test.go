package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EcoRoute-App/internal/domain/model"
)

func externalBusRoute() model.ExternalRoute {
	return model.ExternalRoute{
		Steps: []model.ExternalStep{
			{
				TravelMode:     "WALKING",
				DistanceMeters: 200,
				DurationSec:    180,
				StartPoint:     model.Point{Lat: 49.2827, Lng: -123.1207},
				EndPoint:       model.Point{Lat: 49.2832, Lng: -123.1200},
				Instructions:   "Walk to <b>Granville Station</b>",
			},
			{
				TravelMode:     "TRANSIT",
				DistanceMeters: 4000,
				DurationSec:    600,
				StartPoint:     model.Point{Lat: 49.2832, Lng: -123.1200},
				EndPoint:       model.Point{Lat: 49.2630, Lng: -123.1140},
				Transit: &model.ExternalTransitDetails{
					LineName:      "99 B-Line",
					LineShortName: "99",
					VehicleType:   "BUS",
					DepartureStop: "Granville Station",
					ArrivalStop:   "Broadway-City Hall Station",
					NumStops:      6,
				},
			},
			{
				TravelMode:     "WALKING",
				DistanceMeters: 150,
				DurationSec:    120,
				StartPoint:     model.Point{Lat: 49.2630, Lng: -123.1140},
				EndPoint:       model.Point{Lat: 49.2625, Lng: -123.1145},
				Instructions:   "Walk to your destination",
			},
		},
	}
}

func TestDirectionsConverterConvert(t *testing.T) {
	conv := NewDirectionsConverter()
	origin := model.Point{Lat: 49.2827, Lng: -123.1207}
	dest := model.Point{Lat: 49.2625, Lng: -123.1145}

	t.Run("公共交通ステップが乗車情報付きで変換される", func(t *testing.T) {
		route := conv.Convert(externalBusRoute(), origin, dest, model.ModeBus, nil, model.PreferenceFastest)
		require.NotNil(t, route)
		require.Len(t, route.Steps, 3)

		assert.Equal(t, model.ModeWalking, route.Steps[0].Mode)
		assert.Equal(t, model.ModeBus, route.Steps[1].Mode)
		assert.Equal(t, model.ModeWalking, route.Steps[2].Mode)

		details := route.Steps[1].TransitDetails
		require.NotNil(t, details)
		assert.Equal(t, "99", details.RouteShortName)
		assert.Equal(t, "99 B-Line", details.LineName)
		assert.Equal(t, "Granville Station", details.DepartureStop)
		assert.Equal(t, "Broadway-City Hall Station", details.ArrivalStop)
		assert.Equal(t, 6, details.NumStops)

		assert.InDelta(t, 4350, route.TotalDistance, 0.001)
		assert.InDelta(t, 900, route.TotalTime, 0.001)
		assert.Equal(t, model.PreferenceFastest, route.Preference)
		assert.NotEmpty(t, route.ID)
	})

	t.Run("HTMLタグは指示文から除去される", func(t *testing.T) {
		route := conv.Convert(externalBusRoute(), origin, dest, model.ModeBus, nil, model.PreferenceFastest)
		require.NotNil(t, route)
		assert.Equal(t, "Walk to Granville Station", route.Steps[0].Instructions)
	})

	t.Run("鉄道車両はスカイトレインとして扱う", func(t *testing.T) {
		ext := externalBusRoute()
		ext.Steps[1].Transit.VehicleType = "SUBWAY"
		route := conv.Convert(ext, origin, dest, model.ModeSkytrain, nil, model.PreferenceFastest)
		require.NotNil(t, route)
		assert.Equal(t, model.ModeSkytrain, route.Steps[1].Mode)
	})

	t.Run("雨は徒歩ステップのみ遅くする", func(t *testing.T) {
		rain := &model.WeatherData{Condition: "rain"}
		route := conv.Convert(externalBusRoute(), origin, dest, model.ModeBus, rain, model.PreferenceFastest)
		require.NotNil(t, route)

		// 180 * 1.3 = 234、乗車区間はそのまま
		assert.InDelta(t, 234, route.Steps[0].EstimatedTime, 0.001)
		assert.InDelta(t, 600, route.Steps[1].EstimatedTime, 0.001)
		assert.Contains(t, route.Steps[0].Instructions, "🌧️ Rainy conditions")
		assert.NotContains(t, route.Steps[1].Instructions, "🌧️")
	})

	t.Run("ステップが空ならnil", func(t *testing.T) {
		assert.Nil(t, conv.Convert(model.ExternalRoute{}, origin, dest, model.ModeBus, nil, model.PreferenceFastest))
	})
}

func TestExternalEffortLevel(t *testing.T) {
	t.Run("長距離の徒歩は高負荷", func(t *testing.T) {
		assert.Equal(t, model.EffortHigh, externalEffortLevel(model.ModeWalking, 1200, nil))
	})

	t.Run("短距離の徒歩は低負荷", func(t *testing.T) {
		assert.Equal(t, model.EffortLow, externalEffortLevel(model.ModeWalking, 150, nil))
	})

	t.Run("雨は負荷を1段階引き上げる", func(t *testing.T) {
		rain := &model.WeatherData{Condition: "rain"}
		assert.Equal(t, model.EffortModerate, externalEffortLevel(model.ModeWalking, 150, rain))
		assert.Equal(t, model.EffortHigh, externalEffortLevel(model.ModeWalking, 500, rain))
	})

	t.Run("強風は自転車の中負荷を高負荷にする", func(t *testing.T) {
		windy := &model.WeatherData{Condition: "clear", WindSpeedKmh: 30}
		assert.Equal(t, model.EffortHigh, externalEffortLevel(model.ModeBiking, 1000, windy))
	})

	t.Run("乗車区間は常に中負荷", func(t *testing.T) {
		assert.Equal(t, model.EffortModerate, externalEffortLevel(model.ModeBus, 10000, nil))
	})
}
