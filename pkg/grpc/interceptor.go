package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"liyu1981.xyz/battery-fleet-service/pkg/common"
)

// batteryIDOf finds the battery a request is about: the value of a
// UInt64Value or the batteryId field of a Struct.
func batteryIDOf(req any) (uint, bool) {
	switch r := req.(type) {
	case interface{ GetValue() uint64 }:
		return uint(r.GetValue()), r.GetValue() > 0
	case *structpb.Struct:
		v, ok := r.GetFields()["batteryId"]
		if !ok {
			return 0, false
		}
		n := v.GetNumberValue()
		return uint(n), n >= 1
	}
	return 0, false
}

func (s *BatteryFleetServer) CreateRateLimitInterceptor(targetMethods []string) grpc.UnaryServerInterceptor {
	targetMethodMap := common.Reducer(targetMethods,
		func(m map[string]bool, method string) map[string]bool {
			m[method] = true
			return m
		},
		map[string]bool{},
	)

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if _, ok := targetMethodMap[info.FullMethod]; ok {
			if batteryID, ok := batteryIDOf(req); ok {
				if !s.CheckBatteryLimiter(batteryID) {
					return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded for battery %d", batteryID)
				}
			}
		}

		return handler(ctx, req)
	}
}

// RateLimitedMethods are the battery scoped calls a limiter applies to.
var RateLimitedMethods = []string{
	BatteryFleet_GetBattery_FullMethodName,
	BatteryFleet_AppendHistory_FullMethodName,
	BatteryFleet_ListRecommendations_FullMethodName,
}
