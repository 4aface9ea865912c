package grpc

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"liyu1981.xyz/battery-fleet-service/pkg/common"
	"liyu1981.xyz/battery-fleet-service/pkg/db"
	"liyu1981.xyz/battery-fleet-service/pkg/fleet"
	"liyu1981.xyz/battery-fleet-service/pkg/models"
	_ "liyu1981.xyz/battery-fleet-service/pkg/testing"

	"liyu1981.xyz/battery-fleet-service/pkg/fleet/mocks"
)

const bufSize = 1024 * 1024

func newTestFleet() *fleet.Fleet {
	return (&fleet.Fleet{
		Db: *db.GetInstance(db.UseMemorySqliteDialector()),
	}).WithDefaultServices()
}

func startTestServerWithInterceptor(t *testing.T, fleetCore *fleet.Fleet, limiterStore *fleet.RateLimiterStore) *BatteryFleetClient {
	listener := bufconn.Listen(bufSize)

	fleetServer := BatteryFleetServer{Fleet: fleetCore, RateLimiterStore: limiterStore}
	interceptor := fleetServer.CreateRateLimitInterceptor(RateLimitedMethods)
	server := grpc.NewServer(grpc.UnaryInterceptor(interceptor))
	RegisterBatteryFleetServer(server, &fleetServer)

	go func() {
		_ = server.Serve(listener)
	}()
	t.Cleanup(server.Stop)

	conn, err := grpc.DialContext(context.Background(), "bufnet",
		grpc.WithContextDialer(func(ctx context.Context, s string) (net.Conn, error) {
			return listener.Dial()
		}),
		grpc.WithInsecure(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewBatteryFleetClient(conn)
}

func startTestServer(t *testing.T) (*BatteryFleetClient, *fleet.Fleet) {
	fleetCore := newTestFleet()
	return startTestServerWithInterceptor(t, fleetCore, nil), fleetCore
}

func createBattery(t *testing.T, fleetCore *fleet.Fleet) *models.Battery {
	t.Helper()

	battery, err := fleetCore.Battery.CreateBattery(&models.Battery{
		Name:            "Pack",
		SerialNumber:    uuid.NewString(),
		InitialCapacity: 5000,
		ExpectedCycles:  1000,
		InstallDate:     time.Now().AddDate(-2, 0, 0),
		DegradationRate: 1,
	})
	require.NoError(t, err)
	return battery
}

func requireCode(t *testing.T, err error, code codes.Code) {
	t.Helper()

	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "expected gRPC status error")
	require.Equal(t, code, st.Code(), st.Message())
}

func TestGetAndListBatteries(t *testing.T) {
	common.SetTestLoggerNop()
	client, fleetCore := startTestServer(t)

	battery := createBattery(t, fleetCore)

	resp, err := client.GetBattery(context.Background(), wrapperspb.UInt64(uint64(battery.ID)))
	require.NoError(t, err)
	assert.Equal(t, battery.SerialNumber, resp.GetFields()["serialNumber"].GetStringValue())
	assert.Equal(t, float64(battery.ID), resp.GetFields()["id"].GetNumberValue())
	assert.Equal(t, "excellent", resp.GetFields()["status"].GetStringValue())

	list, err := client.ListBatteries(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)

	found := false
	for _, v := range list.GetValues() {
		if v.GetStructValue().GetFields()["id"].GetNumberValue() == float64(battery.ID) {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAppendHistoryAndResolve(t *testing.T) {
	common.SetTestLoggerNop()
	client, fleetCore := startTestServer(t)

	battery := createBattery(t, fleetCore)

	in, err := structpb.NewStruct(map[string]any{
		"batteryId":        float64(battery.ID),
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
		"capacity":         2000.0,
		"healthPercentage": 40.0,
		"cycleCount":       900.0,
	})
	require.NoError(t, err)

	entry, err := client.AppendHistory(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 40.0, entry.GetFields()["healthPercentage"].GetNumberValue())

	recommendations, err := client.ListRecommendations(context.Background(), wrapperspb.UInt64(uint64(battery.ID)))
	require.NoError(t, err)
	require.Len(t, recommendations.GetValues(), 2)

	first := recommendations.GetValues()[0].GetStructValue()
	assert.False(t, first.GetFields()["resolved"].GetBoolValue())

	req, err := structpb.NewStruct(map[string]any{
		"id":       first.GetFields()["id"].GetNumberValue(),
		"resolved": true,
	})
	require.NoError(t, err)

	resolved, err := client.ResolveRecommendation(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resolved.GetFields()["resolved"].GetBoolValue())
	assert.Equal(t, first.GetFields()["message"].GetStringValue(), resolved.GetFields()["message"].GetStringValue())
}

func TestTick(t *testing.T) {
	common.SetTestLoggerNop()
	client, fleetCore := startTestServer(t)

	createBattery(t, fleetCore)

	resp, err := client.Tick(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, resp.GetValue(), uint32(1))
}

func TestEdgeCases(t *testing.T) {
	common.SetTestLoggerNop()
	client, fleetCore := startTestServer(t)
	ctx := context.Background()

	{
		// zero battery id will fail validation
		_, err := client.GetBattery(ctx, wrapperspb.UInt64(0))
		requireCode(t, err, codes.InvalidArgument)
	}

	{
		_, err := client.GetBattery(ctx, wrapperspb.UInt64(999999))
		requireCode(t, err, codes.NotFound)

		_, err = client.ListRecommendations(ctx, wrapperspb.UInt64(999999))
		requireCode(t, err, codes.NotFound)
	}

	{
		battery := createBattery(t, fleetCore)

		// missing health will fail validation
		in, _ := structpb.NewStruct(map[string]any{
			"batteryId": float64(battery.ID),
			"capacity":  2000.0,
		})
		_, err := client.AppendHistory(ctx, in)
		requireCode(t, err, codes.InvalidArgument)

		// malformed timestamp will fail validation
		in, _ = structpb.NewStruct(map[string]any{
			"batteryId":        float64(battery.ID),
			"timestamp":        "yesterday",
			"capacity":         2000.0,
			"healthPercentage": 40.0,
		})
		_, err = client.AppendHistory(ctx, in)
		requireCode(t, err, codes.InvalidArgument)

		in, _ = structpb.NewStruct(map[string]any{
			"capacity":         2000.0,
			"healthPercentage": 40.0,
		})
		_, err = client.AppendHistory(ctx, in)
		requireCode(t, err, codes.InvalidArgument)
	}

	{
		in, _ := structpb.NewStruct(map[string]any{"id": 1.0})
		_, err := client.ResolveRecommendation(ctx, in)
		requireCode(t, err, codes.InvalidArgument)

		in, _ = structpb.NewStruct(map[string]any{"id": 999999.0, "resolved": true})
		_, err = client.ResolveRecommendation(ctx, in)
		requireCode(t, err, codes.NotFound)
	}

	{
		// default there is no rate limiter so setting a rate has no effect
		in, _ := structpb.NewStruct(map[string]any{"batteryId": 1.0, "rate": 3.0, "burst": 2.0})
		_, err := client.PostLimiter(ctx, in)
		requireCode(t, err, codes.FailedPrecondition)
	}
}

func TestInternalError(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fleetCore := newTestFleet()
	mockIBattery := mocks.NewMockIBattery(ctrl)
	fleetCore.WithServices(fleet.ServiceOpts{Battery: mockIBattery})

	client := startTestServerWithInterceptor(t, fleetCore, nil)

	mockIBattery.EXPECT().
		ListBatteries().
		Return(nil, fmt.Errorf("test error")).
		Times(1)

	_, err := client.ListBatteries(context.Background(), &emptypb.Empty{})
	requireCode(t, err, codes.Internal)
	assert.Contains(t, status.Convert(err).Message(), "test error")
}

func TestRateLimitInterceptor(t *testing.T) {
	common.SetTestLoggerNop()

	fleetCore := newTestFleet()
	limiterStore := fleet.NewRateLimiterStore(2, 2) // Allow 2 req/sec per battery
	client := startTestServerWithInterceptor(t, fleetCore, limiterStore)

	ctx := context.Background()
	battery := createBattery(t, fleetCore)
	req := wrapperspb.UInt64(uint64(battery.ID))

	// First 2 requests should pass
	for i := range 2 {
		_, err := client.GetBattery(ctx, req)
		require.NoError(t, err, "expected request %d to pass", i+1)
	}

	// 3rd request should fail immediately
	_, err := client.GetBattery(ctx, req)
	requireCode(t, err, codes.ResourceExhausted)

	// other batteries keep their own budget
	other := createBattery(t, fleetCore)
	_, err = client.GetBattery(ctx, wrapperspb.UInt64(uint64(other.ID)))
	require.NoError(t, err)

	// unlimited calls are not affected
	_, err = client.ListBatteries(ctx, &emptypb.Empty{})
	require.NoError(t, err)

	// increase rate limiter
	in, _ := structpb.NewStruct(map[string]any{"batteryId": float64(battery.ID), "rate": 100.0, "burst": 10.0})
	_, err = client.PostLimiter(ctx, in)
	require.NoError(t, err)

	// Should pass again
	_, err = client.GetBattery(ctx, req)
	require.NoError(t, err, "expected request after raising the limit to pass")
}
