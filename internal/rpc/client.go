package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/fishing-backend/internal/fishing"
)

// Query selects the equipment and zone to evaluate.
type Query struct {
	Rod  string
	Bait string
	Zone string
	// Seed makes Roll and Simulate reproducible when non-nil.
	Seed *uint64
}

func (q Query) fields() map[string]any {
	m := map[string]any{"rod": q.Rod, "bait": q.Bait, "zone": q.Zone}
	if q.Seed != nil {
		m["seed"] = float64(*q.Seed)
	}
	return m
}

// Client is a typed wrapper over a fishing.v1.Odds connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client { return &Client{cc: cc} }

func (c *Client) call(ctx context.Context, method string, fields map[string]any, out any, opts ...grpc.CallOption) error {
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return err
	}
	reply := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, reply, opts...); err != nil {
		return err
	}
	return decode(reply, out)
}

// Distribution returns the luck multiplier and capped rarity odds.
func (c *Client) Distribution(ctx context.Context, q Query, opts ...grpc.CallOption) (OddsReply, error) {
	var out OddsReply
	err := c.call(ctx, "Distribution", q.fields(), &out, opts...)
	return out, err
}

// Roll rolls one fish.
func (c *Client) Roll(ctx context.Context, q Query, opts ...grpc.CallOption) (fishing.RollResult, error) {
	var out fishing.RollResult
	err := c.call(ctx, "Roll", q.fields(), &out, opts...)
	return out, err
}

// Simulate runs trials rolls server-side.
func (c *Client) Simulate(ctx context.Context, q Query, trials int, atLeast fishing.Rarity, opts ...grpc.CallOption) (fishing.SimResult, error) {
	f := q.fields()
	f["trials"] = float64(trials)
	if atLeast != "" {
		f["at_least"] = string(atLeast)
	}
	var out fishing.SimResult
	err := c.call(ctx, "Simulate", f, &out, opts...)
	return out, err
}
