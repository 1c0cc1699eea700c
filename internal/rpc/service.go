package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "configs.v1.ConfigurationService"

// FullMethod returns the "/service/method" path for a method name.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// ConfigurationServiceServer is implemented by the server package.
type ConfigurationServiceServer interface {
	ListConfigurations(context.Context, *ListConfigurationsRequest) (*ListConfigurationsResponse, error)
	GetConfiguration(context.Context, *GetConfigurationRequest) (*GetConfigurationResponse, error)
	CreateConfiguration(context.Context, *CreateConfigurationRequest) (*CreateConfigurationResponse, error)
	UpdateConfiguration(context.Context, *UpdateConfigurationRequest) (*UpdateConfigurationResponse, error)
	DeleteConfiguration(context.Context, *DeleteConfigurationRequest) (*DeleteConfigurationResponse, error)
	GetToken(context.Context, *GetTokenRequest) (*GetTokenResponse, error)
	DecodeToken(context.Context, *DecodeTokenRequest) (*DecodeTokenResponse, error)
	Health(context.Context, *HealthRequest) (*HealthResponse, error)
}

// unary adapts a typed server method to a grpc.MethodHandler.
func unary[Req, Resp any](method string, call func(ConfigurationServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			impl := srv.(ConfigurationServiceServer)
			if interceptor == nil {
				return call(impl, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(impl, ctx, req.(*Req))
			})
		},
	}
}

// ServiceDesc describes ConfigurationService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ConfigurationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ListConfigurations", ConfigurationServiceServer.ListConfigurations),
		unary("GetConfiguration", ConfigurationServiceServer.GetConfiguration),
		unary("CreateConfiguration", ConfigurationServiceServer.CreateConfiguration),
		unary("UpdateConfiguration", ConfigurationServiceServer.UpdateConfiguration),
		unary("DeleteConfiguration", ConfigurationServiceServer.DeleteConfiguration),
		unary("GetToken", ConfigurationServiceServer.GetToken),
		unary("DecodeToken", ConfigurationServiceServer.DecodeToken),
		unary("Health", ConfigurationServiceServer.Health),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "configs/v1/configs.json",
}

// RegisterConfigurationServiceServer registers srv on s.
func RegisterConfigurationServiceServer(s grpc.ServiceRegistrar, srv ConfigurationServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ConfigurationServiceClient is a typed client over a gRPC connection.
// Every call is sent with the JSON content-subtype.
type ConfigurationServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewConfigurationServiceClient(cc grpc.ClientConnInterface) *ConfigurationServiceClient {
	return &ConfigurationServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ConfigurationServiceClient) ListConfigurations(ctx context.Context, in *ListConfigurationsRequest, opts ...grpc.CallOption) (*ListConfigurationsResponse, error) {
	return invoke[ListConfigurationsResponse](ctx, c.cc, "ListConfigurations", in, opts)
}

func (c *ConfigurationServiceClient) GetConfiguration(ctx context.Context, in *GetConfigurationRequest, opts ...grpc.CallOption) (*GetConfigurationResponse, error) {
	return invoke[GetConfigurationResponse](ctx, c.cc, "GetConfiguration", in, opts)
}

func (c *ConfigurationServiceClient) CreateConfiguration(ctx context.Context, in *CreateConfigurationRequest, opts ...grpc.CallOption) (*CreateConfigurationResponse, error) {
	return invoke[CreateConfigurationResponse](ctx, c.cc, "CreateConfiguration", in, opts)
}

func (c *ConfigurationServiceClient) UpdateConfiguration(ctx context.Context, in *UpdateConfigurationRequest, opts ...grpc.CallOption) (*UpdateConfigurationResponse, error) {
	return invoke[UpdateConfigurationResponse](ctx, c.cc, "UpdateConfiguration", in, opts)
}

func (c *ConfigurationServiceClient) DeleteConfiguration(ctx context.Context, in *DeleteConfigurationRequest, opts ...grpc.CallOption) (*DeleteConfigurationResponse, error) {
	return invoke[DeleteConfigurationResponse](ctx, c.cc, "DeleteConfiguration", in, opts)
}

func (c *ConfigurationServiceClient) GetToken(ctx context.Context, in *GetTokenRequest, opts ...grpc.CallOption) (*GetTokenResponse, error) {
	return invoke[GetTokenResponse](ctx, c.cc, "GetToken", in, opts)
}

func (c *ConfigurationServiceClient) DecodeToken(ctx context.Context, in *DecodeTokenRequest, opts ...grpc.CallOption) (*DecodeTokenResponse, error) {
	return invoke[DecodeTokenResponse](ctx, c.cc, "DecodeToken", in, opts)
}

func (c *ConfigurationServiceClient) Health(ctx context.Context, in *HealthRequest, opts ...grpc.CallOption) (*HealthResponse, error) {
	return invoke[HealthResponse](ctx, c.cc, "Health", in, opts)
}
