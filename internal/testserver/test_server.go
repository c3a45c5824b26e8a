package testserver

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jgates/waypoint/internal/domain/cadence"
	"github.com/jgates/waypoint/internal/domain/mission"
	"github.com/jgates/waypoint/internal/domain/signal"
	"github.com/jgates/waypoint/internal/sqlite"
	"github.com/jgates/waypoint/internal/transport"
)

// TestServer is a full HTTP stack over an in-memory database, for
// functional tests that exercise the API the way a client would.
type TestServer struct {
	Server *httptest.Server
	DB     *sqlite.DB
	Token  string
	UserID string
}

func New(t *testing.T, token, userID string) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	signalSrc := sqlite.NewSignalSource(db)
	missionRepo := sqlite.NewMissionRepository(db)
	cadenceRepo := sqlite.NewCadenceRepository(db)
	userRepo := sqlite.NewUserRepository(db)

	signalSvc := signal.NewService(signalSrc, nil)
	missionSvc := mission.NewService(signalSvc, missionRepo, nil)
	cadenceSvc := cadence.NewService(cadenceRepo, nil)

	server := httptest.NewServer(transport.NewServer(
		signalSvc, missionSvc, cadenceSvc, transport.AuthMiddleware(userRepo), nil))

	ts := &TestServer{
		Server: server,
		DB:     db,
		Token:  token,
		UserID: userID,
	}

	ts.addUser(t, userID)
	require.NoError(t, ts.AddAPIKey(token, userID))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

func (ts *TestServer) addUser(t *testing.T, userID string) {
	t.Helper()
	_, err := ts.DB.Exec(
		`INSERT INTO users (id, timezone, created_at) VALUES (?, ?, ?)`,
		userID, "UTC", time.Now(),
	)
	require.NoError(t, err)
}

func (ts *TestServer) AddAPIKey(token, userID string) error {
	_, err := ts.DB.Exec(
		`INSERT INTO api_keys (key_hash, user_id, created_at) VALUES (?, ?, ?)`,
		transport.HashAPIKey(token), userID, time.Now(),
	)
	return err
}

// Do issues an authenticated request against the test server.
func (ts *TestServer) Do(t *testing.T, method, path string, body io.Reader) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, ts.Server.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+ts.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}
