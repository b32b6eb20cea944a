package transit

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EcoRoute-App/internal/domain/model"
)

func writeGTFSFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"stops.txt": `stop_id,stop_code,stop_name,stop_lat,stop_lon,location_type,parent_station
10001,50001,Commercial-Broadway Station,49.2625,-123.0693,1,
10002,50002,Commercial-Broadway Station @ Bay 1,49.2620,-123.0690,0,10001
10003,50003,Commercial-Broadway Station @ Bay 2,49.2630,-123.0696,0,10001
10004,50004,Lonely Stop,49.2800,-123.1200,0,
`,
		"routes.txt": `route_id,route_short_name,route_long_name,route_type
6636,099,Commercial-Broadway/UBC (B-Line),3
6637,,Canada Line,1
6638,025,Brentwood Stn/UBC,3
`,
		"trips.txt": `route_id,service_id,trip_id
6636,1,trip-99-1
6638,1,trip-25-1
`,
		"stop_times.txt": `trip_id,arrival_time,departure_time,stop_id,stop_sequence
trip-99-1,08:00:00,08:00:00,10002,1
trip-25-1,08:05:00,08:05:00,10003,1
`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestResolveRouteID(t *testing.T) {
	repo := NewGTFSStaticRepository(writeGTFSFixture(t), nil)
	ctx := context.Background()

	t.Run("ゼロ埋め表記の完全一致", func(t *testing.T) {
		id, err := repo.ResolveRouteID(ctx, "099")
		require.NoError(t, err)
		assert.Equal(t, "6636", id)
	})

	t.Run("ゼロなし表記はゼロ埋めで照合される", func(t *testing.T) {
		id, err := repo.ResolveRouteID(ctx, "99")
		require.NoError(t, err)
		assert.Equal(t, "6636", id)

		id, err = repo.ResolveRouteID(ctx, "25")
		require.NoError(t, err)
		assert.Equal(t, "6638", id)
	})

	t.Run("番号を持たない路線は名前で照合される", func(t *testing.T) {
		id, err := repo.ResolveRouteID(ctx, "Canada Line")
		require.NoError(t, err)
		assert.Equal(t, "6637", id)
	})

	t.Run("未知の路線はエラー", func(t *testing.T) {
		_, err := repo.ResolveRouteID(ctx, "999")
		assert.Error(t, err)
	})

	t.Run("空文字はエラー", func(t *testing.T) {
		_, err := repo.ResolveRouteID(ctx, "")
		assert.Error(t, err)
	})
}

func TestResolveStopID(t *testing.T) {
	repo := NewGTFSStaticRepository(writeGTFSFixture(t), nil)
	ctx := context.Background()

	t.Run("単一候補はそのまま返す", func(t *testing.T) {
		id, err := repo.ResolveStopID(ctx, "Lonely Stop", "", nil)
		require.NoError(t, err)
		assert.Equal(t, "10004", id)
	})

	t.Run("完全一致は駅本体を返す", func(t *testing.T) {
		id, err := repo.ResolveStopID(ctx, "Commercial-Broadway Station", "", nil)
		require.NoError(t, err)
		assert.Equal(t, "10001", id)
	})

	t.Run("前方一致で複数のりばが候補になり駅が優先される", func(t *testing.T) {
		id, err := repo.ResolveStopID(ctx, "Commercial-Broadway", "", nil)
		require.NoError(t, err)
		assert.Equal(t, "10001", id)
	})

	t.Run("大文字小文字を無視する", func(t *testing.T) {
		id, err := repo.ResolveStopID(ctx, "lonely stop", "", nil)
		require.NoError(t, err)
		assert.Equal(t, "10004", id)
	})

	t.Run("未知の停留所はエラー", func(t *testing.T) {
		_, err := repo.ResolveStopID(ctx, "Nowhere Station", "", nil)
		assert.Error(t, err)
	})
}

func TestResolveStopIDByProximity(t *testing.T) {
	dir := t.TempDir()
	// 駅本体なしで同名のりばが2つあるケース
	stops := `stop_id,stop_code,stop_name,stop_lat,stop_lon,location_type,parent_station
20001,51001,UBC Exchange @ Bay 1,49.2672,-123.2460,0,
20002,51002,UBC Exchange @ Bay 9,49.2678,-123.2475,0,
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stops.txt"), []byte(stops), 0o644))

	repo := NewGTFSStaticRepository(dir, nil)
	ctx := context.Background()

	t.Run("座標があれば最も近いのりばを選ぶ", func(t *testing.T) {
		near := &model.Point{Lat: 49.2679, Lng: -123.2476}
		id, err := repo.ResolveStopID(ctx, "UBC Exchange", "", near)
		require.NoError(t, err)
		assert.Equal(t, "20002", id)
	})

	t.Run("座標がなければ先頭候補を返す", func(t *testing.T) {
		id, err := repo.ResolveStopID(ctx, "UBC Exchange @ Bay 1", "", nil)
		require.NoError(t, err)
		assert.Equal(t, "20001", id)
	})
}

func TestResolveStopIDByRoute(t *testing.T) {
	repo := NewGTFSStaticRepository(writeGTFSFixture(t), nil)
	ctx := context.Background()

	// 路線99はBay 1のみ停車。駅優先は親ステーションが候補に残るため、
	// のりばだけが同名になるよう部分名で検索する
	id, err := repo.ResolveStopID(ctx, "Commercial-Broadway Station @", "99", nil)
	require.NoError(t, err)
	assert.Equal(t, "10002", id)
}

func TestGetStopsInRadius(t *testing.T) {
	repo := NewGTFSStaticRepository(writeGTFSFixture(t), nil)
	ctx := context.Background()

	t.Run("半径内の停留所のみ返す", func(t *testing.T) {
		stops, err := repo.GetStopsInRadius(ctx, model.Point{Lat: 49.2625, Lng: -123.0693}, 300)
		require.NoError(t, err)
		assert.Len(t, stops, 3)
	})

	t.Run("範囲外なら空", func(t *testing.T) {
		stops, err := repo.GetStopsInRadius(ctx, model.Point{Lat: 49.20, Lng: -123.20}, 100)
		require.NoError(t, err)
		assert.Empty(t, stops)
	})
}

func TestGTFSDirMissing(t *testing.T) {
	repo := NewGTFSStaticRepository("/nonexistent/gtfs", nil)
	_, err := repo.ResolveRouteID(context.Background(), "99")
	assert.Error(t, err)
}
