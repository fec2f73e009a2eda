package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey           = "coach"
	serviceName            = "pmdrill.coach.v1.Coach"
	jsonCodecName          = "json"
	methodGetMetadata      = "/" + serviceName + "/GetMetadata"
	methodGenerateQuestion = "/" + serviceName + "/GenerateQuestion"
	methodAnalyzeResponse  = "/" + serviceName + "/AnalyzeResponse"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "PMDRILL_COACH_PLUGIN",
	MagicCookieValue: "pmdrill",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Capabilities []string `json:"capabilities"`
}

type QuestionRequest struct {
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	Topic      string `json:"topic"`
}

type Question struct {
	ID               string   `json:"id"`
	Prompt           string   `json:"prompt"`
	Category         string   `json:"category"`
	Difficulty       string   `json:"difficulty"`
	Context          string   `json:"context,omitempty"`
	Framework        []string `json:"framework,omitempty"`
	EstimatedMinutes int32    `json:"estimated_minutes,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	FollowUps        []string `json:"follow_ups,omitempty"`
}

type AnalyzeRequest struct {
	QuestionID string   `json:"question_id"`
	Prompt     string   `json:"prompt"`
	Category   string   `json:"category"`
	Framework  []string `json:"framework,omitempty"`
	Answer     string   `json:"answer"`
}

// AnalyzeResponse carries the analysis as a JSON document produced by the
// plugin; the host repairs it when needed.
type AnalyzeResponse struct {
	AnalysisJSON string `json:"analysis_json"`
}

type CoachServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	GenerateQuestion(ctx context.Context, in *QuestionRequest) (*Question, error)
	AnalyzeResponse(ctx context.Context, in *AnalyzeRequest) (*AnalyzeResponse, error)
}

type CoachClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	GenerateQuestion(ctx context.Context, in *QuestionRequest) (*Question, error)
	AnalyzeResponse(ctx context.Context, in *AnalyzeRequest) (*AnalyzeResponse, error)
}

type coachClient struct {
	conn *grpc.ClientConn
}

func NewCoachClient(conn *grpc.ClientConn) CoachClient {
	return &coachClient{conn: conn}
}

func (c *coachClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *coachClient) GenerateQuestion(ctx context.Context, in *QuestionRequest) (*Question, error) {
	out := &Question{}
	if err := c.conn.Invoke(ctx, methodGenerateQuestion, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *coachClient) AnalyzeResponse(ctx context.Context, in *AnalyzeRequest) (*AnalyzeResponse, error) {
	out := &AnalyzeResponse{}
	if err := c.conn.Invoke(ctx, methodAnalyzeResponse, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

// unaryHandler adapts a typed server method to a grpc.MethodDesc handler.
func unaryHandler[Req any, Resp any](fullMethod string, call func(ctx context.Context, in *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*Req)
			if !ok {
				return nil, fmt.Errorf("invalid request type")
			}
			return call(ctx, typed)
		}
		return interceptor(ctx, in, info, handler)
	}
}

func RegisterCoachServer(server grpc.ServiceRegistrar, impl CoachServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*CoachServer)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "GetMetadata", Handler: unaryHandler(methodGetMetadata, impl.GetMetadata)},
			{MethodName: "GenerateQuestion", Handler: unaryHandler(methodGenerateQuestion, impl.GenerateQuestion)},
			{MethodName: "AnalyzeResponse", Handler: unaryHandler(methodAnalyzeResponse, impl.AnalyzeResponse)},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "coach-rpc-v1",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl CoachServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterCoachServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewCoachClient(conn), nil
}

func PluginMap(impl CoachServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
