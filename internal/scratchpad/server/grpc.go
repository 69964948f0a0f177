package server

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/msto63/sexpad/foundation/sexpr"
	"github.com/msto63/sexpad/foundation/sexpr/ast"
	"github.com/msto63/sexpad/internal/scratchpad/service"
	coreGrpc "github.com/msto63/sexpad/pkg/core/grpc"
	"github.com/msto63/sexpad/pkg/core/logging"
)

// ReaderServiceName is the fully qualified gRPC service name
const ReaderServiceName = "sexpad.v1.Reader"

const (
	readerParseMethod   = "/" + ReaderServiceName + "/Parse"
	readerFormatMethod  = "/" + ReaderServiceName + "/Format"
	readerHistoryMethod = "/" + ReaderServiceName + "/History"
)

// ReaderServer is the server API for the Reader service.
// Messages are google.protobuf.Struct values:
//
//	Parse   {source}          -> {id, exprs, canonical}
//	Format  {exprs}           -> {text}
//	History {limit, offset}   -> {submissions}
type ReaderServer interface {
	Parse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Format(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	History(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// ReaderServiceDesc describes the Reader service for grpc.Server.RegisterService
var ReaderServiceDesc = grpc.ServiceDesc{
	ServiceName: ReaderServiceName,
	HandlerType: (*ReaderServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Parse", Handler: unaryHandler(readerParseMethod, ReaderServer.Parse)},
		{MethodName: "Format", Handler: unaryHandler(readerFormatMethod, ReaderServer.Format)},
		{MethodName: "History", Handler: unaryHandler(readerHistoryMethod, ReaderServer.History)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sexpad/v1/reader.proto",
}

type readerMethod func(ReaderServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call readerMethod) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ReaderServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(ReaderServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// RegisterReaderServer registers the Reader service on s
func RegisterReaderServer(s grpc.ServiceRegistrar, srv ReaderServer) {
	s.RegisterService(&ReaderServiceDesc, srv)
}

// ReaderService implements ReaderServer on top of the scratchpad service
type ReaderService struct {
	service *service.Service
	logger  *logging.Logger
}

// NewReaderService creates the gRPC reader implementation
func NewReaderService(svc *service.Service, logger *logging.Logger) *ReaderService {
	if logger == nil {
		logger = logging.New("scratchpad-grpc")
	}
	return &ReaderService{service: svc, logger: logger}
}

// Parse submits the source text. Parse failures map to InvalidArgument.
func (r *ReaderService) Parse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	source, err := stringField(req, "source")
	if err != nil {
		return nil, err
	}

	result, err := r.service.Submit(ctx, source)
	if err != nil {
		return nil, coreGrpc.ToStatus(err)
	}
	if result.Error != nil {
		return nil, coreGrpc.ToStatus(result.Error)
	}

	exprs, err := sexpr.ToProto(result.Exprs)
	if err != nil {
		return nil, coreGrpc.ToStatus(err)
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"id":        structpb.NewStringValue(result.ID),
		"exprs":     structpb.NewListValue(exprs),
		"canonical": structpb.NewStringValue(result.Canonical),
	}}, nil
}

// Format renders a dumped expression list canonically
func (r *ReaderService) Format(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var list *structpb.ListValue
	if v, ok := req.GetFields()["exprs"]; ok {
		list = v.GetListValue()
		if list == nil {
			return nil, status.Error(codes.InvalidArgument, "exprs must be a list")
		}
	}

	exprs, err := sexpr.FromProto(list)
	if err != nil {
		return nil, coreGrpc.ToStatus(err)
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"text": structpb.NewStringValue(r.service.Format(exprs)),
	}}, nil
}

// History lists stored submissions, newest first
func (r *ReaderService) History(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	limit := int(req.GetFields()["limit"].GetNumberValue())
	offset := int(req.GetFields()["offset"].GetNumberValue())

	subs, err := r.service.History(ctx, limit, offset)
	if err != nil {
		return nil, coreGrpc.ToStatus(err)
	}

	items := make([]*structpb.Value, 0, len(subs))
	for _, sub := range subs {
		fields := map[string]*structpb.Value{
			"id":         structpb.NewStringValue(sub.ID),
			"source":     structpb.NewStringValue(sub.Source),
			"canonical":  structpb.NewStringValue(sub.Canonical),
			"expr_count": structpb.NewNumberValue(float64(sub.ExprCount)),
			"created_at": structpb.NewStringValue(sub.CreatedAt.Format(time.RFC3339Nano)),
		}
		if sub.Failed() {
			fields["error"] = structpb.NewStringValue(sub.ErrorMessage)
		}
		items = append(items, structpb.NewStructValue(&structpb.Struct{Fields: fields}))
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"submissions": structpb.NewListValue(&structpb.ListValue{Values: items}),
	}}, nil
}

func stringField(req *structpb.Struct, name string) (string, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return "", status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", status.Errorf(codes.InvalidArgument, "%s must be a string", name)
	}
	return s.StringValue, nil
}

// ParseReply is the decoded response of Reader.Parse
type ParseReply struct {
	ID        string
	Exprs     []ast.Expr
	Canonical string
}

// ReaderClient calls the Reader service over a client connection
type ReaderClient struct {
	cc grpc.ClientConnInterface
}

// NewReaderClient creates a Reader client
func NewReaderClient(cc grpc.ClientConnInterface) *ReaderClient {
	return &ReaderClient{cc: cc}
}

// Parse submits source text to the remote reader
func (c *ReaderClient) Parse(ctx context.Context, source string, opts ...grpc.CallOption) (*ParseReply, error) {
	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		"source": structpb.NewStringValue(source),
	}}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, readerParseMethod, req, out, opts...); err != nil {
		return nil, err
	}

	exprs, err := sexpr.FromProto(out.GetFields()["exprs"].GetListValue())
	if err != nil {
		return nil, err
	}
	return &ParseReply{
		ID:        out.GetFields()["id"].GetStringValue(),
		Exprs:     exprs,
		Canonical: out.GetFields()["canonical"].GetStringValue(),
	}, nil
}

// Format renders expressions on the remote reader
func (c *ReaderClient) Format(ctx context.Context, exprs []ast.Expr, opts ...grpc.CallOption) (string, error) {
	list, err := sexpr.ToProto(exprs)
	if err != nil {
		return "", err
	}
	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		"exprs": structpb.NewListValue(list),
	}}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, readerFormatMethod, req, out, opts...); err != nil {
		return "", err
	}
	return out.GetFields()["text"].GetStringValue(), nil
}

// History lists remote submissions as plain maps
func (c *ReaderClient) History(ctx context.Context, limit, offset int, opts ...grpc.CallOption) ([]map[string]interface{}, error) {
	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		"limit":  structpb.NewNumberValue(float64(limit)),
		"offset": structpb.NewNumberValue(float64(offset)),
	}}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, readerHistoryMethod, req, out, opts...); err != nil {
		return nil, err
	}

	values := out.GetFields()["submissions"].GetListValue().GetValues()
	subs := make([]map[string]interface{}, 0, len(values))
	for _, v := range values {
		subs = append(subs, v.GetStructValue().AsMap())
	}
	return subs, nil
}
