package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModeSwitchCost(t *testing.T) {
	t.Run("乗り換えコストは非対称", func(t *testing.T) {
		assert.Equal(t, 60.0, ModeSwitchCost(ModeWalking, ModeBiking))
		assert.Equal(t, 30.0, ModeSwitchCost(ModeBiking, ModeWalking))

		assert.Equal(t, 300.0, ModeSwitchCost(ModeWalking, ModeCar))
		assert.Equal(t, 120.0, ModeSwitchCost(ModeCar, ModeWalking))
	})

	t.Run("前の手段が無い場合はコストゼロ", func(t *testing.T) {
		assert.Equal(t, 0.0, ModeSwitchCost("", ModeBus))
	})

	t.Run("同一手段の継続はコストゼロ", func(t *testing.T) {
		assert.Equal(t, 0.0, ModeSwitchCost(ModeBiking, ModeBiking))
	})

	t.Run("テーブルにないペアはコストゼロ", func(t *testing.T) {
		assert.Equal(t, 0.0, ModeSwitchCost(ModeSkytrain, ModeSeabus))
	})
}

func TestSpeedMPS(t *testing.T) {
	// 徒歩5km/hは約1.39m/s
	assert.InDelta(t, 1.389, SpeedMPS(ModeWalking), 0.001)
	assert.InDelta(t, 13.889, SpeedMPS(ModeCar), 0.001)

	// 未知の手段は徒歩速度にフォールバック
	assert.Equal(t, SpeedMPS(ModeWalking), SpeedMPS("hovercraft"))
}
