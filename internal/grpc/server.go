// Package grpc реализует межсервисный справочник filmorate.v1.Directory:
// проверки существования пользователей и фильмов и краткие сведения о фильме.
package grpc

import (
	"context"
	"log/slog"

	"filmorate/internal/domain"
	"filmorate/internal/service"

	googlegrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName = "filmorate.v1.Directory"

	CheckUserExistsMethod = "/" + ServiceName + "/CheckUserExists"
	CheckFilmExistsMethod = "/" + ServiceName + "/CheckFilmExists"
	GetFilmInfoMethod     = "/" + ServiceName + "/GetFilmInfo"
)

// DirectoryServer серверная часть filmorate.v1.Directory.
type DirectoryServer interface {
	CheckUserExists(context.Context, *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error)
	CheckFilmExists(context.Context, *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error)
	GetFilmInfo(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
}

// UserDirectory источник сведений о пользователях.
type UserDirectory interface {
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// FilmDirectory источник сведений о фильмах.
type FilmDirectory interface {
	ExistsByID(ctx context.Context, id int64) (bool, error)
	GetFilmByID(ctx context.Context, id int64) (*domain.Film, error)
}

// Server реализует DirectoryServer поверх сервисов пользователей и фильмов.
type Server struct {
	users  UserDirectory
	films  FilmDirectory
	logger *slog.Logger
}

func NewServer(users UserDirectory, films FilmDirectory, logger *slog.Logger) *Server {
	return &Server{users: users, films: films, logger: logger}
}

// CheckUserExists реализует gRPC метод CheckUserExists.
func (s *Server) CheckUserExists(ctx context.Context, req *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error) {
	s.logger.InfoContext(ctx, "gRPC CheckUserExists called", slog.Int64("userID", req.GetValue()))
	if req.GetValue() <= 0 {
		return nil, status.Errorf(codes.InvalidArgument, "user id must be positive")
	}
	exists, err := s.users.ExistsByID(ctx, req.GetValue())
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to check user existence", slog.Int64("userID", req.GetValue()), slog.String("error", err.Error()))
		return nil, status.Errorf(codes.Internal, "failed to check user existence: %v", err)
	}
	return wrapperspb.Bool(exists), nil
}

// CheckFilmExists реализует gRPC метод CheckFilmExists.
func (s *Server) CheckFilmExists(ctx context.Context, req *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error) {
	s.logger.InfoContext(ctx, "gRPC CheckFilmExists called", slog.Int64("filmID", req.GetValue()))
	if req.GetValue() <= 0 {
		return nil, status.Errorf(codes.InvalidArgument, "film id must be positive")
	}
	exists, err := s.films.ExistsByID(ctx, req.GetValue())
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to check film existence", slog.Int64("filmID", req.GetValue()), slog.String("error", err.Error()))
		return nil, status.Errorf(codes.Internal, "failed to check film existence: %v", err)
	}
	return wrapperspb.Bool(exists), nil
}

// GetFilmInfo возвращает id, name, releaseDate и likes фильма.
func (s *Server) GetFilmInfo(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	s.logger.InfoContext(ctx, "gRPC GetFilmInfo called", slog.Int64("filmID", req.GetValue()))
	if req.GetValue() <= 0 {
		return nil, status.Errorf(codes.InvalidArgument, "film id must be positive")
	}
	film, err := s.films.GetFilmByID(ctx, req.GetValue())
	if err != nil {
		if service.IsNotFound(err) {
			s.logger.WarnContext(ctx, "Film not found for GetFilmInfo", slog.Int64("filmID", req.GetValue()))
			return nil, status.Errorf(codes.NotFound, "film not found with id %d", req.GetValue())
		}
		s.logger.ErrorContext(ctx, "Failed to get film for GetFilmInfo", slog.Int64("filmID", req.GetValue()), slog.String("error", err.Error()))
		return nil, status.Errorf(codes.Internal, "failed to retrieve film: %v", err)
	}
	info, err := structpb.NewStruct(map[string]any{
		"id":          film.ID,
		"name":        film.Name,
		"releaseDate": film.ReleaseDate.String(),
		"likes":       film.Likes,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode film info: %v", err)
	}
	return info, nil
}

// unaryHandler строит обработчик метода для ServiceDesc.
func unaryHandler[Req any, Resp any](fullMethod string, call func(DirectoryServer, context.Context, *Req) (Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor googlegrpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor googlegrpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DirectoryServer), ctx, in)
		}
		info := &googlegrpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DirectoryServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// DirectoryServiceDesc описание сервиса для регистрации без сгенерированного кода.
var DirectoryServiceDesc = googlegrpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DirectoryServer)(nil),
	Methods: []googlegrpc.MethodDesc{
		{
			MethodName: "CheckUserExists",
			Handler:    unaryHandler(CheckUserExistsMethod, DirectoryServer.CheckUserExists),
		},
		{
			MethodName: "CheckFilmExists",
			Handler:    unaryHandler(CheckFilmExistsMethod, DirectoryServer.CheckFilmExists),
		},
		{
			MethodName: "GetFilmInfo",
			Handler:    unaryHandler(GetFilmInfoMethod, DirectoryServer.GetFilmInfo),
		},
	},
	Streams: []googlegrpc.StreamDesc{},
}

// RegisterDirectoryServer регистрирует srv на gRPC сервере.
func RegisterDirectoryServer(s googlegrpc.ServiceRegistrar, srv DirectoryServer) {
	s.RegisterService(&DirectoryServiceDesc, srv)
}
