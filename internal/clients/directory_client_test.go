package clients

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"filmorate/internal/domain"
	directory "filmorate/internal/grpc"
	"filmorate/internal/metrics"
	"filmorate/internal/service"
	"filmorate/internal/store"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newBufClient поднимает srv на bufconn и возвращает клиент к нему.
func newBufClient(t *testing.T, srv directory.DirectoryServer, opts DirectoryOptions) *DirectoryClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	gs := grpc.NewServer()
	directory.RegisterDirectoryServer(gs, srv)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	client, err := NewDirectoryClient("passthrough:///bufnet", opts, discardLogger(),
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }))
	if err != nil {
		t.Fatalf("NewDirectoryClient() error = %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestDirectoryClient_Checks(t *testing.T) {
	logger := discardLogger()
	svc := service.New(store.NewMemoryStores(), nil, logger)
	ctx := context.Background()

	user, err := svc.Users.Create(ctx, domain.User{Login: "remote", Email: "remote@mail.ru", Birthday: domain.NewDate(1985, time.July, 7)})
	if err != nil {
		t.Fatal(err)
	}
	film, err := svc.Films.AddFilm(ctx, domain.Film{Name: "Far", ReleaseDate: domain.NewDate(1999, time.June, 1), Duration: 80, Mpa: domain.Mpa{ID: 2}})
	if err != nil {
		t.Fatal(err)
	}

	client := newBufClient(t, directory.NewServer(svc.Users, svc.Films, logger), DirectoryOptions{Timeout: time.Second})

	tests := []struct {
		name  string
		check func(context.Context, int64) (bool, error)
		id    int64
		want  bool
	}{
		{"user exists", client.UserExists, user.ID, true},
		{"user missing", client.UserExists, 100, false},
		{"user non-positive", client.UserExists, -1, false},
		{"film exists", client.FilmExists, film.ID, true},
		{"film missing", client.FilmExists, 100, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.check(ctx, tt.id)
			if err != nil {
				t.Fatalf("check(%d) error = %v", tt.id, err)
			}
			if got != tt.want {
				t.Errorf("check(%d) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}

	// Ответы об отсутствующих сущностях не размыкают breaker.
	if got := breakerState(); got != float64(gobreaker.StateClosed) {
		t.Errorf("breaker state = %v, want closed", got)
	}
}

func breakerState() float64 {
	return testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues(breakerName))
}

// failingDirectory отвечает Unavailable на любой вызов.
type failingDirectory struct{}

func (failingDirectory) CheckUserExists(context.Context, *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error) {
	return nil, status.Error(codes.Unavailable, "down")
}

func (failingDirectory) CheckFilmExists(context.Context, *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error) {
	return nil, status.Error(codes.Unavailable, "down")
}

func (failingDirectory) GetFilmInfo(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unavailable, "down")
}

func TestDirectoryClient_BreakerOpens(t *testing.T) {
	client := newBufClient(t, failingDirectory{}, DirectoryOptions{
		Timeout:          time.Second,
		MaxRequests:      1,
		Interval:         time.Minute,
		BreakerTimeout:   time.Minute,
		FailureThreshold: 2,
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := client.UserExists(ctx, 1); err == nil {
			t.Fatalf("call %d error = nil, want failure", i)
		}
	}
	if got := breakerState(); got != float64(gobreaker.StateOpen) {
		t.Fatalf("breaker state = %v, want open", got)
	}
	if _, err := client.FilmExists(ctx, 1); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("FilmExists() error = %v, want ErrOpenState", err)
	}
}

func TestDirectoryClient_DrivesReviewService(t *testing.T) {
	logger := discardLogger()
	remote := service.New(store.NewMemoryStores(), nil, logger)
	ctx := context.Background()
	if _, err := remote.Users.Create(ctx, domain.User{Login: "author", Birthday: domain.NewDate(1990, time.January, 1)}); err != nil {
		t.Fatal(err)
	}
	client := newBufClient(t, directory.NewServer(remote.Users, remote.Films, logger), DirectoryOptions{Timeout: time.Second})

	// Локально фильм есть, но справочник о нем не знает.
	local := service.New(store.NewMemoryStores(), client, logger)
	if _, err := local.Users.Create(ctx, domain.User{Login: "author", Birthday: domain.NewDate(1990, time.January, 1)}); err != nil {
		t.Fatal(err)
	}
	film, err := local.Films.AddFilm(ctx, domain.Film{Name: "Local", ReleaseDate: domain.NewDate(2000, time.January, 1), Duration: 60, Mpa: domain.Mpa{ID: 1}})
	if err != nil {
		t.Fatal(err)
	}
	positive := true
	_, err = local.Reviews.AddReview(ctx, domain.Review{Content: "ok", IsPositive: &positive, UserID: 1, FilmID: film.ID})
	if !service.IsNotFound(err) {
		t.Errorf("AddReview() error = %v, want not found from directory", err)
	}
}
