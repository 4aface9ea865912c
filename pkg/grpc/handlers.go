package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	z "github.com/Oudwins/zog"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
	"liyu1981.xyz/battery-fleet-service/pkg/common"
	"liyu1981.xyz/battery-fleet-service/pkg/engine"
	"liyu1981.xyz/battery-fleet-service/pkg/fleet"
	"liyu1981.xyz/battery-fleet-service/pkg/models"
)

func toStatus(err error) error {
	var verr *fleet.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, engine.ErrInvalidInput),
		errors.Is(err, fleet.ErrNonMonotonic):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, fleet.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, fleet.ErrHistoryExists):
		return status.Error(codes.AlreadyExists, err.Error())
	default:
		common.GetLoggerWith(common.LoggerNameGrpcServer).Error("Request failed", zap.Error(err))
		return status.Error(codes.Internal, err.Error())
	}
}

func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	return out, nil
}

func toList[T any](items []T) (*structpb.ListValue, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	out := &structpb.ListValue{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	return out, nil
}

// fromStruct decodes a Struct request into out through its JSON form.
func fromStruct(in *structpb.Struct, out any) error {
	raw, err := protojson.Marshal(in)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return status.Errorf(codes.InvalidArgument, "validation error: %v", err)
	}
	return nil
}

func validateBatteryID(id uint64) error {
	if id == 0 {
		return status.Error(codes.InvalidArgument, "validation error: battery id is required")
	}
	return nil
}

func (s *BatteryFleetServer) GetBattery(ctx context.Context, req *wrapperspb.UInt64Value) (*structpb.Struct, error) {
	if err := validateBatteryID(req.GetValue()); err != nil {
		return nil, err
	}

	battery, err := s.Fleet.Battery.GetBattery(uint(req.GetValue()))
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(battery)
}

func (s *BatteryFleetServer) ListBatteries(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	batteries, err := s.Fleet.Battery.ListBatteries()
	if err != nil {
		return nil, toStatus(err)
	}
	return toList(batteries)
}

type appendHistoryRequest struct {
	BatteryID        int       `json:"batteryId"`
	Timestamp        time.Time `json:"timestamp"`
	Capacity         *float64  `json:"capacity"`
	HealthPercentage *float64  `json:"healthPercentage"`
	CycleCount       int       `json:"cycleCount"`
}

var appendHistoryValidator = z.Struct(z.Shape{
	"BatteryID":  z.Int().Required().GT(0),
	"CycleCount": z.Int().GTE(0),
})

func (s *BatteryFleetServer) AppendHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in appendHistoryRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, err
	}
	if err := appendHistoryValidator.Validate(&in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "validation error: %v", err)
	}
	if in.Capacity == nil || in.HealthPercentage == nil {
		return nil, status.Error(codes.InvalidArgument, "validation error: capacity and healthPercentage are required")
	}

	entry, err := s.Fleet.History.AppendHistory(uint(in.BatteryID), &models.BatteryHistoryEntry{
		Timestamp:        in.Timestamp,
		Capacity:         *in.Capacity,
		HealthPercentage: *in.HealthPercentage,
		CycleCount:       in.CycleCount,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(entry)
}

func (s *BatteryFleetServer) ListRecommendations(ctx context.Context, req *wrapperspb.UInt64Value) (*structpb.ListValue, error) {
	if err := validateBatteryID(req.GetValue()); err != nil {
		return nil, err
	}

	recommendations, err := s.Fleet.Recommendation.ListRecommendations(uint(req.GetValue()))
	if err != nil {
		return nil, toStatus(err)
	}
	return toList(recommendations)
}

type resolveRequest struct {
	ID       int   `json:"id"`
	Resolved *bool `json:"resolved"`
}

var resolveValidator = z.Struct(z.Shape{
	"ID": z.Int().Required().GT(0),
})

func (s *BatteryFleetServer) ResolveRecommendation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in resolveRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, err
	}
	if err := resolveValidator.Validate(&in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "validation error: %v", err)
	}
	if in.Resolved == nil {
		return nil, status.Error(codes.InvalidArgument, "validation error: resolved is required")
	}

	recommendation, err := s.Fleet.Recommendation.SetResolved(uint(in.ID), *in.Resolved)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(recommendation)
}

func (s *BatteryFleetServer) Tick(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.UInt32Value, error) {
	updated, err := s.Fleet.Simulation.Tick(s.now())
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.UInt32(uint32(len(updated))), nil
}

type limiterRequest struct {
	BatteryID int     `json:"batteryId"`
	Rate      float64 `json:"rate"`
	Burst     int     `json:"burst"`
}

var limiterValidator = z.Struct(z.Shape{
	"BatteryID": z.Int().Required().GT(0),
	"Rate":      z.Float64().Required().GT(0),
	"Burst":     z.Int().Required().GT(0),
})

func (s *BatteryFleetServer) PostLimiter(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	var in limiterRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, err
	}
	if err := limiterValidator.Validate(&in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "validation error: %v", err)
	}

	if s.RateLimiterStore == nil {
		return nil, status.Error(codes.FailedPrecondition, "RateLimiterStore is not used. No effect.")
	}

	s.RateLimiterStore.SetLimiter(fleet.LimiterKey(uint(in.BatteryID)), rate.Limit(in.Rate), in.Burst)
	return &emptypb.Empty{}, nil
}

var _ BatteryFleetServiceServer = (*BatteryFleetServer)(nil)
