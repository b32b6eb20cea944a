package model

// TransportMode は移動手段
type TransportMode string

const (
	ModeWalking          TransportMode = "walking"
	ModeBiking           TransportMode = "biking"
	ModeScooter          TransportMode = "scooter"
	ModeCar              TransportMode = "car"
	ModeBus              TransportMode = "bus"
	ModeSkytrain         TransportMode = "skytrain"
	ModeSeabus           TransportMode = "seabus"
	ModeWestCoastExpress TransportMode = "westcoast_express"
)

// AllTransportModes は全移動手段の定義順リスト。
// 探索時の展開順を固定するために使う
var AllTransportModes = []TransportMode{
	ModeWalking,
	ModeBiking,
	ModeScooter,
	ModeCar,
	ModeBus,
	ModeSkytrain,
	ModeSeabus,
	ModeWestCoastExpress,
}

// RoutePreference はルート最適化の優先基準
type RoutePreference string

const (
	PreferenceFastest         RoutePreference = "fastest"
	PreferenceSafest          RoutePreference = "safest"
	PreferenceEnergyEfficient RoutePreference = "energy_efficient"
	PreferenceScenic          RoutePreference = "scenic"
	PreferenceHealthy         RoutePreference = "healthy"
	PreferenceCheapest        RoutePreference = "cheapest"
)

// NodeType はグラフノードの種別
type NodeType string

const (
	NodeTypeIntersection   NodeType = "intersection"
	NodeTypeTransitStop    NodeType = "transit_stop"
	NodeTypeSharedMobility NodeType = "shared_mobility"
	NodeTypePedestrianPath NodeType = "pedestrian_path"
)

// ModeSpeedsKmh は移動手段ごとの想定速度（km/h）
var ModeSpeedsKmh = map[TransportMode]float64{
	ModeWalking:          5.0,
	ModeBiking:           15.0,
	ModeScooter:          20.0,
	ModeCar:              50.0,
	ModeBus:              25.0,
	ModeSkytrain:         40.0,
	ModeSeabus:           15.0,
	ModeWestCoastExpress: 60.0,
}

// SpeedMPS は移動手段の速度をm/sで返す。未知の手段は徒歩速度にフォールバックする
func SpeedMPS(mode TransportMode) float64 {
	kmh, ok := ModeSpeedsKmh[mode]
	if !ok {
		kmh = ModeSpeedsKmh[ModeWalking]
	}
	return kmh * 1000 / 3600
}

type modePair struct {
	From TransportMode
	To   TransportMode
}

// 乗り換えペナルティ（秒）。降りる方向と乗る方向で非対称になる
var modeSwitchCosts = map[modePair]float64{
	{ModeWalking, ModeBiking}:  60,
	{ModeWalking, ModeScooter}: 120,
	{ModeWalking, ModeCar}:     300,
	{ModeWalking, ModeBus}:     180,
	{ModeBiking, ModeWalking}:  30,
	{ModeBiking, ModeScooter}:  90,
	{ModeBiking, ModeCar}:      240,
	{ModeBiking, ModeBus}:      120,
	{ModeScooter, ModeWalking}: 60,
	{ModeScooter, ModeBiking}:  60,
	{ModeScooter, ModeCar}:     180,
	{ModeScooter, ModeBus}:     90,
	{ModeCar, ModeWalking}:     120,
	{ModeCar, ModeBiking}:      180,
	{ModeCar, ModeScooter}:     150,
	{ModeCar, ModeBus}:         300,
	{ModeBus, ModeWalking}:     60,
	{ModeBus, ModeBiking}:      90,
	{ModeBus, ModeScooter}:     90,
	{ModeBus, ModeCar}:         240,
}

// ModeSwitchCost は移動手段の切り替えコスト（秒）を返す。
// 前の手段が無い場合と同一手段の場合は0
func ModeSwitchCost(from, to TransportMode) float64 {
	if from == "" || from == to {
		return 0
	}
	if cost, ok := modeSwitchCosts[modePair{from, to}]; ok {
		return cost
	}
	return 0
}

// SustainabilityPointsPerKm は1kmあたりのサステナビリティポイント
var SustainabilityPointsPerKm = map[TransportMode]float64{
	ModeWalking:  15,
	ModeBiking:   10,
	ModeScooter:  8,
	ModeBus:      8,
	ModeSkytrain: 8,
	ModeCar:      0,
}

// グラフ構築とリアルタイム補正の既定値
const (
	DefaultGridSizeMeters    = 100.0
	TransitStopLinkMeters    = 200.0
	SharedMobilityLinkMeters = 100.0
	ClosureProximityMeters   = 50.0
	DefaultDelayThresholdSec = 600.0
	MaxPrimaryRoutes         = 3
	MaxAlternativeRoutes     = 3
)
