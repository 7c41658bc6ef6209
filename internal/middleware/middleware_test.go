package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
)

type empty struct{}

// echoIdentity is a terminal handler that reports the identity it was called with.
func echoIdentity(seen *string) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		*seen = GetUserID(ctx)
		return connect.NewResponse(&empty{}), nil
	}
}

func newToken(t *testing.T, m *auth.JWTManager) string {
	t.Helper()
	token, _, err := m.Generate(&models.User{ID: "user-1", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return token
}

func TestRequireAuth(t *testing.T) {
	jwt := auth.NewJWTManager("secret", time.Hour)
	token := newToken(t, jwt)

	tests := []struct {
		name     string
		header   string
		wantCode connect.Code
		wantUser string
	}{
		{name: "valid token", header: "Bearer " + token, wantUser: "user-1"},
		{name: "missing header", header: "", wantCode: connect.CodeUnauthenticated},
		{name: "wrong scheme", header: "Basic " + token, wantCode: connect.CodeUnauthenticated},
		{name: "empty bearer", header: "Bearer ", wantCode: connect.CodeUnauthenticated},
		{name: "bad token", header: "Bearer nope", wantCode: connect.CodeUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequireAuth(jwt)(echoIdentity(&seen))

			req := connect.NewRequest(&empty{})
			if tt.header != "" {
				req.Header().Set("Authorization", tt.header)
			}
			_, err := handler(context.Background(), req)

			if tt.wantCode != 0 {
				if connect.CodeOf(err) != tt.wantCode {
					t.Errorf("code = %v, want %v (err %v)", connect.CodeOf(err), tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if seen != tt.wantUser {
				t.Errorf("user = %q, want %q", seen, tt.wantUser)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	jwt := auth.NewJWTManager("secret", time.Hour)
	token := newToken(t, jwt)

	for header, want := range map[string]string{
		"":                "",
		"Bearer nope":     "",
		"Bearer " + token: "user-1",
	} {
		var seen string
		req := connect.NewRequest(&empty{})
		if header != "" {
			req.Header().Set("Authorization", header)
		}
		if _, err := OptionalAuth(jwt)(echoIdentity(&seen))(context.Background(), req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen != want {
			t.Errorf("header %q: user = %q, want %q", header, seen, want)
		}
	}
}

func TestMetricsInterceptor(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	interceptor := MetricsInterceptor(m)

	ok := interceptor(func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return connect.NewResponse(&empty{}), nil
	})
	failing := interceptor(func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("missing"))
	})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := ok(ctx, connect.NewRequest(&empty{})); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := failing(ctx, connect.NewRequest(&empty{})); err == nil {
		t.Fatal("expected error")
	}

	// Requests built outside a handler carry an empty procedure.
	if got := testutil.ToFloat64(m.RPCRequests.WithLabelValues("", "ok")); got != 2 {
		t.Errorf("ok count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.RPCRequests.WithLabelValues("", "not_found")); got != 1 {
		t.Errorf("not_found count = %v, want 1", got)
	}
}

func TestWithIdentity(t *testing.T) {
	ctx := WithIdentity(context.Background(), "user-1", "alice@example.com")
	if GetUserID(ctx) != "user-1" || GetEmail(ctx) != "alice@example.com" {
		t.Errorf("identity = %q/%q", GetUserID(ctx), GetEmail(ctx))
	}
	if GetUserID(context.Background()) != "" {
		t.Error("expected empty user ID without identity")
	}
}
