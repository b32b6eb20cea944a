package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"EcoRoute-App/internal/domain/model"
)

func TestCalculateRouteRewards(t *testing.T) {
	svc := NewGamificationService()

	t.Run("徒歩主体のルートは1.5倍", func(t *testing.T) {
		route := &model.Route{
			TotalSustainabilityPoints: 30,
			Steps: []model.RouteStep{
				{Mode: model.ModeWalking, Distance: 2000},
				{Mode: model.ModeBus, Distance: 500},
			},
		}
		rewards := svc.CalculateRouteRewards(route)
		assert.Equal(t, 45, rewards.SustainabilityPoints)
	})

	t.Run("車主体のルートはポイントがほぼ消える", func(t *testing.T) {
		route := &model.Route{
			TotalSustainabilityPoints: 30,
			Steps: []model.RouteStep{
				{Mode: model.ModeCar, Distance: 8000},
				{Mode: model.ModeWalking, Distance: 300},
			},
		}
		rewards := svc.CalculateRouteRewards(route)
		assert.Equal(t, 3, rewards.SustainabilityPoints)
	})

	t.Run("CO2削減量は自動車比較", func(t *testing.T) {
		route := &model.Route{
			Steps: []model.RouteStep{
				{Mode: model.ModeBiking, Distance: 5000},
			},
		}
		rewards := svc.CalculateRouteRewards(route)
		// 自転車5km: 0.12kg/km×5km = 0.6kg削減
		assert.InDelta(t, 0.6, rewards.CO2SavedKg, 0.001)
	})

	t.Run("車のみのルートは削減ゼロ", func(t *testing.T) {
		route := &model.Route{
			Steps: []model.RouteStep{
				{Mode: model.ModeCar, Distance: 5000},
			},
		}
		rewards := svc.CalculateRouteRewards(route)
		assert.Equal(t, 0.0, rewards.CO2SavedKg)
	})
}
