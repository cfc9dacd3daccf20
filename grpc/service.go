package stratagrpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
)

const serviceName = "strata.v1.StoreService"

// StoreServiceServer is the server-side interface for the store service.
type StoreServiceServer interface {
	Submit(context.Context, *SubmitRequest) (*SubmitResponse, error)
	GetTransaction(context.Context, *GetTransactionRequest) (*GetTransactionResponse, error)
	Contains(context.Context, *ContainsRequest) (*ContainsResponse, error)
	FindProgram(context.Context, *FindProgramRequest) (*FindProgramResponse, error)
	Head(context.Context, *HeadRequest) (*HeadResponse, error)
}

// RegisterStoreServiceServer registers the service on a gRPC server.
func RegisterStoreServiceServer(s *grpc.Server, srv StoreServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}

func handlerSubmit(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(SubmitRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(StoreServiceServer).Submit(ctx, req)
}

func handlerGetTransaction(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(GetTransactionRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(StoreServiceServer).GetTransaction(ctx, req)
}

func handlerContains(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(ContainsRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(StoreServiceServer).Contains(ctx, req)
}

func handlerFindProgram(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(FindProgramRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(StoreServiceServer).FindProgram(ctx, req)
}

func handlerHead(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(HeadRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(StoreServiceServer).Head(ctx, req)
}

// fullMethod builds the full gRPC method path.
func fullMethod(method string) string {
	return fmt.Sprintf("/%s/%s", serviceName, method)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*StoreServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Submit", Handler: handlerSubmit},
		{MethodName: "GetTransaction", Handler: handlerGetTransaction},
		{MethodName: "Contains", Handler: handlerContains},
		{MethodName: "FindProgram", Handler: handlerFindProgram},
		{MethodName: "Head", Handler: handlerHead},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "strata/v1/service.cram",
}
