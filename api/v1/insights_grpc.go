// Package v1 defines the jsi.v1.Insights gRPC service. Every method takes
// and returns a google.protobuf.Struct holding a JSON document, so the
// service needs no generated message types.
package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "jsi.v1.Insights"

const (
	MethodGenerateScore         = "GenerateScore"
	MethodGetTrend              = "GetTrend"
	MethodDetectAnomalies       = "DetectAnomalies"
	MethodGetBenchmarks         = "GetBenchmarks"
	MethodGetBaseline           = "GetBaseline"
	MethodGetInsights           = "GetInsights"
	MethodSelectTopics          = "SelectTopics"
	MethodExportReport          = "ExportReport"
	MethodGetScoringConfig      = "GetScoringConfig"
	MethodUpdateScoringConfig   = "UpdateScoringConfig"
	MethodGetMessagingConfig    = "GetMessagingConfig"
	MethodUpdateMessagingConfig = "UpdateMessagingConfig"
	MethodAddMessagingTopic     = "AddMessagingTopic"
	MethodUpsertCustomer        = "UpsertCustomer"
)

// FullMethod returns the "/service/method" path of a method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// InsightsServer is the server API for the jsi.v1.Insights service.
type InsightsServer interface {
	GenerateScore(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTrend(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DetectAnomalies(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetBenchmarks(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetBaseline(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetInsights(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SelectTopics(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExportReport(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetScoringConfig(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateScoringConfig(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetMessagingConfig(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateMessagingConfig(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddMessagingTopic(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpsertCustomer(context.Context, *structpb.Struct) (*structpb.Struct, error)
	mustEmbedUnimplementedInsightsServer()
}

// UnimplementedInsightsServer must be embedded by implementations so that
// adding methods to the service does not break them.
type UnimplementedInsightsServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedInsightsServer) GenerateScore(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGenerateScore)
}
func (UnimplementedInsightsServer) GetTrend(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetTrend)
}
func (UnimplementedInsightsServer) DetectAnomalies(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodDetectAnomalies)
}
func (UnimplementedInsightsServer) GetBenchmarks(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetBenchmarks)
}
func (UnimplementedInsightsServer) GetBaseline(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetBaseline)
}
func (UnimplementedInsightsServer) GetInsights(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetInsights)
}
func (UnimplementedInsightsServer) SelectTopics(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodSelectTopics)
}
func (UnimplementedInsightsServer) ExportReport(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodExportReport)
}
func (UnimplementedInsightsServer) GetScoringConfig(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetScoringConfig)
}
func (UnimplementedInsightsServer) UpdateScoringConfig(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodUpdateScoringConfig)
}
func (UnimplementedInsightsServer) GetMessagingConfig(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetMessagingConfig)
}
func (UnimplementedInsightsServer) UpdateMessagingConfig(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodUpdateMessagingConfig)
}
func (UnimplementedInsightsServer) AddMessagingTopic(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodAddMessagingTopic)
}
func (UnimplementedInsightsServer) UpsertCustomer(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodUpsertCustomer)
}
func (UnimplementedInsightsServer) mustEmbedUnimplementedInsightsServer() {}

type unaryMethod func(InsightsServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func methodHandler(method string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(InsightsServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(InsightsServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Insights_ServiceDesc is the grpc.ServiceDesc for the jsi.v1.Insights service.
var Insights_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*InsightsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodGenerateScore, Handler: methodHandler(MethodGenerateScore, InsightsServer.GenerateScore)},
		{MethodName: MethodGetTrend, Handler: methodHandler(MethodGetTrend, InsightsServer.GetTrend)},
		{MethodName: MethodDetectAnomalies, Handler: methodHandler(MethodDetectAnomalies, InsightsServer.DetectAnomalies)},
		{MethodName: MethodGetBenchmarks, Handler: methodHandler(MethodGetBenchmarks, InsightsServer.GetBenchmarks)},
		{MethodName: MethodGetBaseline, Handler: methodHandler(MethodGetBaseline, InsightsServer.GetBaseline)},
		{MethodName: MethodGetInsights, Handler: methodHandler(MethodGetInsights, InsightsServer.GetInsights)},
		{MethodName: MethodSelectTopics, Handler: methodHandler(MethodSelectTopics, InsightsServer.SelectTopics)},
		{MethodName: MethodExportReport, Handler: methodHandler(MethodExportReport, InsightsServer.ExportReport)},
		{MethodName: MethodGetScoringConfig, Handler: methodHandler(MethodGetScoringConfig, InsightsServer.GetScoringConfig)},
		{MethodName: MethodUpdateScoringConfig, Handler: methodHandler(MethodUpdateScoringConfig, InsightsServer.UpdateScoringConfig)},
		{MethodName: MethodGetMessagingConfig, Handler: methodHandler(MethodGetMessagingConfig, InsightsServer.GetMessagingConfig)},
		{MethodName: MethodUpdateMessagingConfig, Handler: methodHandler(MethodUpdateMessagingConfig, InsightsServer.UpdateMessagingConfig)},
		{MethodName: MethodAddMessagingTopic, Handler: methodHandler(MethodAddMessagingTopic, InsightsServer.AddMessagingTopic)},
		{MethodName: MethodUpsertCustomer, Handler: methodHandler(MethodUpsertCustomer, InsightsServer.UpsertCustomer)},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterInsightsServer registers srv on s.
func RegisterInsightsServer(s grpc.ServiceRegistrar, srv InsightsServer) {
	s.RegisterService(&Insights_ServiceDesc, srv)
}

// InsightsClient calls jsi.v1.Insights methods by name.
type InsightsClient interface {
	Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type insightsClient struct {
	cc grpc.ClientConnInterface
}

func NewInsightsClient(cc grpc.ClientConnInterface) InsightsClient {
	return &insightsClient{cc: cc}
}

func (c *insightsClient) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
