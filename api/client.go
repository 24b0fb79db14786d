package api

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/davidbalbert/lldpd/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

type Client struct {
	*grpc.ClientConn
	rpcClient rpc.APIClient
}

func NewClient(socket string) (*Client, error) {
	target := fmt.Sprintf("unix://%s", socket)
	conn, err := grpc.Dial(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}

	rpcClient := rpc.NewAPIClient(conn)

	return &Client{
		ClientConn: conn,
		rpcClient:  rpcClient,
	}, nil
}

func (c *Client) GetVersion(ctx context.Context) (string, error) {
	resp, err := c.rpcClient.GetVersion(ctx, &emptypb.Empty{})
	if err != nil {
		return "", err
	}

	return rpc.DecodeVersion(resp), nil
}

func (c *Client) Shutdown(ctx context.Context) error {
	_, err := c.rpcClient.Shutdown(ctx, &emptypb.Empty{})
	return err
}

func (c *Client) GetInterfaces(ctx context.Context) ([]rpc.Interface, error) {
	resp, err := c.rpcClient.GetInterfaces(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, err
	}

	return rpc.DecodeInterfaces(resp)
}

func (c *Client) GetNeighbors(ctx context.Context) ([]rpc.Neighbor, error) {
	resp, err := c.rpcClient.GetNeighbors(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, err
	}

	return rpc.DecodeNeighbors(resp)
}

// WatchNeighbors calls fn with every neighbor event until ctx is done, the
// server goes away, or fn returns an error.
func (c *Client) WatchNeighbors(ctx context.Context, fn func(rpc.NeighborEvent) error) error {
	stream, err := c.rpcClient.WatchNeighbors(ctx, &emptypb.Empty{})
	if err != nil {
		return err
	}

	for {
		m, err := stream.Recv()
		if errors.Is(err, io.EOF) || status.Code(err) == codes.Canceled {
			return nil
		} else if err != nil {
			return err
		}

		e, err := rpc.DecodeNeighborEvent(m)
		if err != nil {
			return err
		}

		if err := fn(e); err != nil {
			return err
		}
	}
}
