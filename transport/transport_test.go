package transport

import (
	"context"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

func TestJSONCodecRoundTrips(t *testing.T) {
	c := jsonCodec{}
	req := &GetSeedRequest{NodeID: "node-1"}

	data, err := c.Marshal(req)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got GetSeedRequest
	if err := c.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.NodeID != req.NodeID {
		t.Errorf("NodeID = %q, want %q", got.NodeID, req.NodeID)
	}
	if c.Name() != "json" {
		t.Errorf("Name() = %q, want \"json\"", c.Name())
	}
}

func TestServerAuthInterceptorAcceptsValidSignature(t *testing.T) {
	const secret = "shared-secret"
	req := &SubmitRequest{NodeID: "node-1"}

	var capturedCtx context.Context
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		capturedCtx = ctx
		return nil
	}
	client := ClientAuthInterceptor(secret)
	if err := client(context.Background(), "/evolusnake.Evolusnake/Submit", req, nil, nil, invoker); err != nil {
		t.Fatalf("client interceptor: %v", err)
	}

	md, _ := metadata.FromOutgoingContext(capturedCtx)
	incomingCtx := metadata.NewIncomingContext(context.Background(), md)

	server := ServerAuthInterceptor(secret)
	info := &grpc.UnaryServerInfo{FullMethod: "/evolusnake.Evolusnake/Submit"}
	handlerCalled := false
	handler := func(ctx context.Context, req any) (any, error) {
		handlerCalled = true
		return nil, nil
	}
	if _, err := server(incomingCtx, req, info, handler); err != nil {
		t.Fatalf("server interceptor: %v", err)
	}
	if !handlerCalled {
		t.Error("handler was never invoked for a validly signed request")
	}
}

func TestServerAuthInterceptorRejectsWrongSecret(t *testing.T) {
	req := &SubmitRequest{NodeID: "node-1"}

	var capturedCtx context.Context
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		capturedCtx = ctx
		return nil
	}
	client := ClientAuthInterceptor("secret-a")
	if err := client(context.Background(), "/evolusnake.Evolusnake/Submit", req, nil, nil, invoker); err != nil {
		t.Fatalf("client interceptor: %v", err)
	}

	md, _ := metadata.FromOutgoingContext(capturedCtx)
	incomingCtx := metadata.NewIncomingContext(context.Background(), md)

	server := ServerAuthInterceptor("secret-b")
	info := &grpc.UnaryServerInfo{FullMethod: "/evolusnake.Evolusnake/Submit"}
	handler := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler must not be invoked when the signature is invalid")
		return nil, nil
	}
	if _, err := server(incomingCtx, req, info, handler); err == nil {
		t.Fatal("expected an error for a mismatched secret")
	}
}
