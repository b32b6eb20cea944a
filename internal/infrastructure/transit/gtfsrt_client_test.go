package transit

import (
	"context"
	"testing"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
)

func marshalFeed(t *testing.T, entities []*gtfsrtpb.FeedEntity) []byte {
	t.Helper()
	feed := &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
		},
		Entity: entities,
	}
	data, err := proto.Marshal(feed)
	require.NoError(t, err)
	return data
}

func TestParseTripUpdates(t *testing.T) {
	t.Run("遅延付きの便を抽出する", func(t *testing.T) {
		data := marshalFeed(t, []*gtfsrtpb.FeedEntity{
			{
				Id: proto.String("e1"),
				TripUpdate: &gtfsrtpb.TripUpdate{
					Trip: &gtfsrtpb.TripDescriptor{
						TripId:  proto.String("trip-99-1"),
						RouteId: proto.String("6636"),
					},
					StopTimeUpdate: []*gtfsrtpb.TripUpdate_StopTimeUpdate{
						{
							StopId:       proto.String("50011"),
							StopSequence: proto.Uint32(3),
							Arrival: &gtfsrtpb.TripUpdate_StopTimeEvent{
								Delay: proto.Int32(420),
							},
						},
					},
				},
			},
		})

		updates := ParseTripUpdates(data)
		require.Len(t, updates, 1)
		assert.Equal(t, "trip-99-1", updates[0].TripID)
		assert.Equal(t, "6636", updates[0].RouteID)

		require.Len(t, updates[0].StopTimeUpdates, 1)
		stu := updates[0].StopTimeUpdates[0]
		assert.Equal(t, "50011", stu.StopID)
		assert.Equal(t, 3, stu.StopSequence)
		require.NotNil(t, stu.ArrivalDelay)
		assert.Equal(t, int32(420), *stu.ArrivalDelay)

		assert.Equal(t, 420.0, updates[0].DelayAtStop("50011"))
		assert.Equal(t, 0.0, updates[0].DelayAtStop("99999"))
	})

	t.Run("便情報のないエンティティは無視する", func(t *testing.T) {
		data := marshalFeed(t, []*gtfsrtpb.FeedEntity{
			{Id: proto.String("e1")},
		})
		assert.Empty(t, ParseTripUpdates(data))
	})

	t.Run("不正なバイナリは空スライス", func(t *testing.T) {
		updates := ParseTripUpdates([]byte("this is not protobuf"))
		assert.NotNil(t, updates)
		assert.Empty(t, updates)
	})

	t.Run("空データは空スライス", func(t *testing.T) {
		assert.Empty(t, ParseTripUpdates(nil))
	})
}

func TestParseServiceAlerts(t *testing.T) {
	t.Run("アラートの効果と対象路線を抽出する", func(t *testing.T) {
		data := marshalFeed(t, []*gtfsrtpb.FeedEntity{
			{
				Id: proto.String("alert-1"),
				Alert: &gtfsrtpb.Alert{
					Effect: gtfsrtpb.Alert_NO_SERVICE.Enum(),
					HeaderText: &gtfsrtpb.TranslatedString{
						Translation: []*gtfsrtpb.TranslatedString_Translation{
							{Text: proto.String("Route 99 suspended")},
						},
					},
					InformedEntity: []*gtfsrtpb.EntitySelector{
						{RouteId: proto.String("6636")},
						{StopId: proto.String("50011")},
					},
				},
			},
		})

		alerts := ParseServiceAlerts(data)
		require.Len(t, alerts, 1)
		assert.Equal(t, "alert-1", alerts[0].ID)
		assert.Equal(t, "NO_SERVICE", alerts[0].Effect)
		assert.Equal(t, "Route 99 suspended", alerts[0].Header)
		assert.Equal(t, []string{"6636"}, alerts[0].RouteIDs)
		assert.Equal(t, []string{"50011"}, alerts[0].StopIDs)
	})

	t.Run("不正なバイナリは空スライス", func(t *testing.T) {
		assert.Empty(t, ParseServiceAlerts([]byte{0xff, 0xfe, 0xfd}))
	})
}

func TestGetTripUpdatesWithoutURL(t *testing.T) {
	client := NewGTFSRealtimeClient("", "", "", nil)
	ctx := context.Background()

	updates, err := client.GetTripUpdates(ctx)
	assert.NoError(t, err)
	assert.Nil(t, updates)

	alerts, err := client.GetServiceAlerts(ctx)
	assert.NoError(t, err)
	assert.Nil(t, alerts)
}
