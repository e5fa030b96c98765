package charityflowv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "charityflow.v1.FundingService"

const (
	FundingService_CreateProject_FullMethodName      = "/charityflow.v1.FundingService/CreateProject"
	FundingService_GetProject_FullMethodName         = "/charityflow.v1.FundingService/GetProject"
	FundingService_CreateDonation_FullMethodName     = "/charityflow.v1.FundingService/CreateDonation"
	FundingService_GetDonation_FullMethodName        = "/charityflow.v1.FundingService/GetDonation"
	FundingService_ListUserDonations_FullMethodName  = "/charityflow.v1.FundingService/ListUserDonations"
	FundingService_ListClosedProjects_FullMethodName = "/charityflow.v1.FundingService/ListClosedProjects"
)

// FundingServiceServer is the server API for FundingService
type FundingServiceServer interface {
	CreateProject(context.Context, *CreateProjectRequest) (*ProjectResponse, error)
	GetProject(context.Context, *wrapperspb.Int64Value) (*ProjectResponse, error)
	CreateDonation(context.Context, *CreateDonationRequest) (*DonationResponse, error)
	GetDonation(context.Context, *wrapperspb.Int64Value) (*DonationResponse, error)
	ListUserDonations(context.Context, *wrapperspb.StringValue) (*ListUserDonationsResponse, error)
	ListClosedProjects(context.Context, *emptypb.Empty) (*ListClosedProjectsResponse, error)
}

// UnimplementedFundingServiceServer must be embedded for forward compatibility
type UnimplementedFundingServiceServer struct{}

func (UnimplementedFundingServiceServer) CreateProject(context.Context, *CreateProjectRequest) (*ProjectResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateProject not implemented")
}
func (UnimplementedFundingServiceServer) GetProject(context.Context, *wrapperspb.Int64Value) (*ProjectResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetProject not implemented")
}
func (UnimplementedFundingServiceServer) CreateDonation(context.Context, *CreateDonationRequest) (*DonationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateDonation not implemented")
}
func (UnimplementedFundingServiceServer) GetDonation(context.Context, *wrapperspb.Int64Value) (*DonationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDonation not implemented")
}
func (UnimplementedFundingServiceServer) ListUserDonations(context.Context, *wrapperspb.StringValue) (*ListUserDonationsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListUserDonations not implemented")
}
func (UnimplementedFundingServiceServer) ListClosedProjects(context.Context, *emptypb.Empty) (*ListClosedProjectsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListClosedProjects not implemented")
}

// RegisterFundingServiceServer registers srv on s
func RegisterFundingServiceServer(s grpc.ServiceRegistrar, srv FundingServiceServer) {
	s.RegisterService(&FundingService_ServiceDesc, srv)
}

// unaryHandler adapts a typed method to grpc.MethodHandler
func unaryHandler[Req any, Resp any](fullMethod string, call func(FundingServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(FundingServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(FundingServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// FundingService_ServiceDesc is the grpc.ServiceDesc for FundingService
var FundingService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FundingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateProject",
			Handler:    unaryHandler(FundingService_CreateProject_FullMethodName, FundingServiceServer.CreateProject),
		},
		{
			MethodName: "GetProject",
			Handler:    unaryHandler(FundingService_GetProject_FullMethodName, FundingServiceServer.GetProject),
		},
		{
			MethodName: "CreateDonation",
			Handler:    unaryHandler(FundingService_CreateDonation_FullMethodName, FundingServiceServer.CreateDonation),
		},
		{
			MethodName: "GetDonation",
			Handler:    unaryHandler(FundingService_GetDonation_FullMethodName, FundingServiceServer.GetDonation),
		},
		{
			MethodName: "ListUserDonations",
			Handler:    unaryHandler(FundingService_ListUserDonations_FullMethodName, FundingServiceServer.ListUserDonations),
		},
		{
			MethodName: "ListClosedProjects",
			Handler:    unaryHandler(FundingService_ListClosedProjects_FullMethodName, FundingServiceServer.ListClosedProjects),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "charityflow/v1/funding.proto",
}

// FundingServiceClient is the client API for FundingService
type FundingServiceClient interface {
	CreateProject(ctx context.Context, in *CreateProjectRequest, opts ...grpc.CallOption) (*ProjectResponse, error)
	GetProject(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*ProjectResponse, error)
	CreateDonation(ctx context.Context, in *CreateDonationRequest, opts ...grpc.CallOption) (*DonationResponse, error)
	GetDonation(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*DonationResponse, error)
	ListUserDonations(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*ListUserDonationsResponse, error)
	ListClosedProjects(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ListClosedProjectsResponse, error)
}

type fundingServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewFundingServiceClient returns a client that always requests the json codec
func NewFundingServiceClient(cc grpc.ClientConnInterface) FundingServiceClient {
	return &fundingServiceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in interface{}, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fundingServiceClient) CreateProject(ctx context.Context, in *CreateProjectRequest, opts ...grpc.CallOption) (*ProjectResponse, error) {
	return invoke[ProjectResponse](ctx, c.cc, FundingService_CreateProject_FullMethodName, in, opts)
}

func (c *fundingServiceClient) GetProject(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*ProjectResponse, error) {
	return invoke[ProjectResponse](ctx, c.cc, FundingService_GetProject_FullMethodName, in, opts)
}

func (c *fundingServiceClient) CreateDonation(ctx context.Context, in *CreateDonationRequest, opts ...grpc.CallOption) (*DonationResponse, error) {
	return invoke[DonationResponse](ctx, c.cc, FundingService_CreateDonation_FullMethodName, in, opts)
}

func (c *fundingServiceClient) GetDonation(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*DonationResponse, error) {
	return invoke[DonationResponse](ctx, c.cc, FundingService_GetDonation_FullMethodName, in, opts)
}

func (c *fundingServiceClient) ListUserDonations(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*ListUserDonationsResponse, error) {
	return invoke[ListUserDonationsResponse](ctx, c.cc, FundingService_ListUserDonations_FullMethodName, in, opts)
}

func (c *fundingServiceClient) ListClosedProjects(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ListClosedProjectsResponse, error) {
	return invoke[ListClosedProjectsResponse](ctx, c.cc, FundingService_ListClosedProjects_FullMethodName, in, opts)
}
