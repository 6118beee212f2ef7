package grpc_control

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"time"

	"market-dashboard/src/carousel"
	"market-dashboard/src/chart"
	"market-dashboard/src/helpers"
	"market-dashboard/src/logger"
	"market-dashboard/src/models"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ChartControl is the slice of the chart pipeline exposed over gRPC.
type ChartControl interface {
	Get(ctx context.Context, category, symbol, period string) models.MChartResult
	View(res models.MChartResult) models.MChartView
	Clear() int
}

// CacheInspector reports cache occupancy for GetStatus.
type CacheInspector interface {
	Len() int
	Keys() []string
}

// RouteLister reports which adapter serves each category.
type RouteLister interface {
	Routes() map[string]string
}

// MarketClock reports whether any tracked exchange is trading.
type MarketClock interface {
	AnyMarketOpen() bool
}

// ControlService implements DashboardControlServer
type ControlService struct {
	Charts   ChartControl
	Carousel carousel.Navigator
	Cache    CacheInspector
	Routes   RouteLister
	Market   MarketClock
	Logger   *logger.Logger
	Started  time.Time

	// DefaultPeriod applies when GetChart omits the period.
	DefaultPeriod string
}

// NewControlService creates a new instance of ControlService
func NewControlService(charts ChartControl, nav carousel.Navigator, log *logger.Logger) *ControlService {
	return &ControlService{
		Charts:   charts,
		Carousel: nav,
		Logger:   log,
		Started:  time.Now(),
	}
}

// -----------------------------------------------------------------------------

func (s *ControlService) defaultPeriod() string {
	if chart.IsKnownPeriod(s.DefaultPeriod) {
		return s.DefaultPeriod
	}
	return chart.DefaultPeriod
}

// -----------------------------------------------------------------------------

// GetChart accepts {symbol, period?, category?} and returns the chart view.
func (s *ControlService) GetChart(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	symbol := strings.ToUpper(strings.TrimSpace(fields["symbol"].GetStringValue()))
	if symbol == "" {
		return nil, status.Error(codes.InvalidArgument, "symbol is required")
	}
	period := fields["period"].GetStringValue()
	if period == "" {
		period = s.defaultPeriod()
	}
	category := strings.ToLower(fields["category"].GetStringValue())
	if category == "" {
		category = models.CategoryStocks
	}

	res := s.Charts.Get(ctx, category, symbol, period)
	s.Logger.Debug("gRPC: GetChart %s/%s/%s -> %s", category, symbol, period, res.Status)
	return toStruct(s.Charts.View(res))
}

// -----------------------------------------------------------------------------

// ClearCache empties the chart cache and returns the number of entries dropped.
func (s *ControlService) ClearCache(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.Int64Value, error) {
	n := s.Charts.Clear()
	s.Logger.Info("gRPC: ClearCache removed %d entries", n)
	return wrapperspb.Int64(int64(n)), nil
}

// -----------------------------------------------------------------------------

func (s *ControlService) GetStatus(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	report := map[string]interface{}{
		"uptime_seconds": int64(time.Since(s.Started).Seconds()),
		"carousel":       s.Carousel.Snapshot(),
	}
	if s.Cache != nil {
		report["cache_entries"] = s.Cache.Len()
		report["cache_keys"] = s.Cache.Keys()
	}
	if s.Routes != nil {
		report["routes"] = s.Routes.Routes()
	}
	if s.Market != nil {
		report["market_open"] = s.Market.AnyMarketOpen()
	}
	return toStruct(report)
}

// -----------------------------------------------------------------------------

// Navigate accepts {action, index?, category?, period?} and returns the
// carousel state after the action.
func (s *ControlService) Navigate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()

	var index *int
	if v, ok := fields["index"]; ok {
		if _, isNum := v.GetKind().(*structpb.Value_NumberValue); !isNum {
			return nil, status.Error(codes.InvalidArgument, "index must be a number")
		}
		f := v.GetNumberValue()
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return nil, status.Errorf(codes.InvalidArgument, "index must be a whole number, got %v", f)
		}
		i := int(f)
		index = &i
	}

	state, err := carousel.Navigate(s.Carousel,
		fields["action"].GetStringValue(),
		index,
		fields["category"].GetStringValue(),
		fields["period"].GetStringValue(),
	)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(state)
}

// -----------------------------------------------------------------------------

// toStruct converts any JSON-serialisable value into a protobuf Struct.
func toStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// -----------------------------------------------------------------------------

// FromStruct decodes a Struct into dst through its JSON form.
func FromStruct(s *structpb.Struct, dst interface{}) error {
	raw, err := protojson.Marshal(s)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

// -----------------------------------------------------------------------------

func toStatus(err error) error {
	if helpers.IsValidation(err) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}
