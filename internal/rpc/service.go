// Package rpc serves fishing odds over gRPC. Messages are
// google.protobuf.Struct so no generated code is needed.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/fishing-backend/internal/catalog"
	"github.com/xtding233/fishing-backend/internal/fishing"
)

const (
	ServiceName = "fishing.v1.Odds"
	maxTrials   = 1_000_000
)

// OddsServer is the server API for fishing.v1.Odds.
type OddsServer interface {
	Distribution(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Roll(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Simulate(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func unaryHandler(call func(OddsServer, context.Context, *structpb.Struct) (*structpb.Struct, error), method string) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(OddsServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(OddsServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes fishing.v1.Odds for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OddsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Distribution", Handler: unaryHandler(OddsServer.Distribution, "Distribution")},
		{MethodName: "Roll", Handler: unaryHandler(OddsServer.Roll, "Roll")},
		{MethodName: "Simulate", Handler: unaryHandler(OddsServer.Simulate, "Simulate")},
	},
	Metadata: "fishing/v1/odds.proto",
}

// Register adds srv to s.
func Register(s grpc.ServiceRegistrar, srv OddsServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Service implements OddsServer against the live catalog.
type Service struct {
	catalog func() *catalog.Catalog
	log     *slog.Logger
}

// NewService takes a getter so catalog reloads are picked up per call.
func NewService(cat func() *catalog.Catalog, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{catalog: cat, log: log}
}

func (s *Service) input(req *structpb.Struct) (fishing.RollInput, error) {
	f := req.GetFields()
	cat := s.catalog()
	rod, err := cat.Rod(f["rod"].GetStringValue())
	if err != nil {
		return fishing.RollInput{}, toStatus(err)
	}
	bait, err := cat.Bait(f["bait"].GetStringValue())
	if err != nil {
		return fishing.RollInput{}, toStatus(err)
	}
	zone := f["zone"].GetStringValue()
	pool, err := cat.Pool(zone)
	if err != nil {
		return fishing.RollInput{}, toStatus(err)
	}
	return fishing.RollInput{Rod: rod, Bait: bait, Pool: pool, Zone: zone}, nil
}

func rngFrom(req *structpb.Struct) fishing.RandomSource {
	if v, ok := req.GetFields()["seed"]; ok {
		return fishing.NewSeededRNG(uint64(v.GetNumberValue()))
	}
	return fishing.DefaultRNG()
}

func (s *Service) Distribution(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := s.input(req)
	if err != nil {
		return nil, err
	}
	luck, bonus, dist := fishing.Odds(in.Rod, in.Bait, in.Zone)
	return encode(OddsReply{Zone: in.Zone, LuckMultiplier: luck, ZoneBonus: bonus, Distribution: dist})
}

func (s *Service) Roll(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := s.input(req)
	if err != nil {
		return nil, err
	}
	res, err := fishing.RollFish(in, rngFrom(req))
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(res)
}

func (s *Service) Simulate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := s.input(req)
	if err != nil {
		return nil, err
	}
	trials := int(req.GetFields()["trials"].GetNumberValue())
	if trials <= 0 || trials > maxTrials {
		return nil, status.Errorf(codes.InvalidArgument, "trials must be in [1, %d]", maxTrials)
	}
	var atLeast fishing.Rarity
	if v := req.GetFields()["at_least"].GetStringValue(); v != "" {
		if atLeast, err = fishing.ParseRarity(v); err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}
	res, err := fishing.Simulate(fishing.SimParams{Input: in, Trials: trials, AtLeast: atLeast}, rngFrom(req))
	if err != nil {
		return nil, toStatus(err)
	}
	s.log.Debug("simulated", "zone", in.Zone, "trials", trials, "chi2", res.ChiSquare)
	return encode(res)
}

// OddsReply is the Distribution response.
type OddsReply struct {
	Zone           string                `json:"zone"`
	LuckMultiplier float64               `json:"luckMultiplier"`
	ZoneBonus      float64               `json:"zoneBonus"`
	Distribution   fishing.RarityWeights `json:"distribution"`
}

// encode converts v to a Struct through its JSON form.
func encode(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode reply: %v", err)
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encode reply: %v", err)
	}
	return out, nil
}

// decode is the inverse of encode. It goes through AsMap so whole numbers
// are written without exponents and still fit int fields.
func decode(s *structpb.Struct, v any) error {
	b, err := json.Marshal(s.AsMap())
	if err != nil {
		return fmt.Errorf("decode reply: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode reply: %w", err)
	}
	return nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, catalog.ErrUnknownID):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, fishing.ErrEmptyPool):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
