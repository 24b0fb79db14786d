package rpc

import (
	"context"

	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// APIService is implemented by the daemon in terms of Go types. Server adapts
// it to APIServer.
type APIService interface {
	GetVersion(ctx context.Context) (string, error)
	Shutdown(ctx context.Context) error

	GetInterfaces(ctx context.Context) ([]Interface, error)
	GetNeighbors(ctx context.Context) ([]Neighbor, error)

	// WatchNeighbors calls send for every neighbor event until ctx is done
	// or send fails.
	WatchNeighbors(ctx context.Context, send func(NeighborEvent) error) error
}

type Server struct {
	apiService APIService
}

var _ APIServer = &Server{}

func NewAPIServer(apiService APIService) *Server {
	return &Server{
		apiService: apiService,
	}
}

func (s *Server) GetVersion(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	version, err := s.apiService.GetVersion(ctx)
	if err != nil {
		return nil, err
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"version": structpb.NewStringValue(version),
		},
	}, nil
}

func (s *Server) Shutdown(ctx context.Context, req *emptypb.Empty) (*emptypb.Empty, error) {
	err := s.apiService.Shutdown(ctx)
	if err != nil {
		return nil, err
	}

	return &emptypb.Empty{}, nil
}

func (s *Server) GetInterfaces(ctx context.Context, req *emptypb.Empty) (*structpb.ListValue, error) {
	interfaces, err := s.apiService.GetInterfaces(ctx)
	if err != nil {
		return nil, err
	}

	return toList(interfaces, (*Interface).toStruct)
}

func (s *Server) GetNeighbors(ctx context.Context, req *emptypb.Empty) (*structpb.ListValue, error) {
	neighbors, err := s.apiService.GetNeighbors(ctx)
	if err != nil {
		return nil, err
	}

	return toList(neighbors, (*Neighbor).toStruct)
}

func (s *Server) WatchNeighbors(req *emptypb.Empty, stream API_WatchNeighborsServer) error {
	return s.apiService.WatchNeighbors(stream.Context(), func(e NeighborEvent) error {
		m, err := e.toStruct()
		if err != nil {
			return err
		}

		return stream.Send(m)
	})
}
