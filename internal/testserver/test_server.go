// Package testserver runs the MCP server over in-memory transports backed by
// a fresh SQLite database, for tests that drive the tools end to end.
package testserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/closing-timeline/internal/domain/activity"
	"github.com/rpggio/closing-timeline/internal/domain/instance"
	"github.com/rpggio/closing-timeline/internal/mcp"
	"github.com/rpggio/closing-timeline/internal/sqlite"
	"github.com/stretchr/testify/require"
)

// Options tune the server under test. The zero value is usable.
type Options struct {
	// Now pins the service clock; time.Now is used when nil.
	Now               func() time.Time
	ClosingOffsetDays int
}

type TestServer struct {
	DB        *sqlite.DB
	Session   *sdkmcp.ClientSession
	Timelines *instance.Service
	Activity  *activity.Service
}

func New(t *testing.T, opts Options) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	instanceRepo := sqlite.NewInstanceRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	activitySvc := activity.NewService(activityRepo, nil)
	timelineSvc := instance.NewService(instanceRepo, activityRepo, instance.Settings{
		ClosingOffsetDays: opts.ClosingOffsetDays,
		Now:               opts.Now,
	}, nil)

	server := mcp.NewServer(mcp.Config{
		Services: mcp.Services{Timelines: timelineSvc, Activity: activitySvc},
		Version:  "test",
	})

	ctx := context.Background()
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()
		_ = serverSession.Wait()
		_ = db.Close()
	})

	return &TestServer{
		DB:        db,
		Session:   session,
		Timelines: timelineSvc,
		Activity:  activitySvc,
	}
}

// Call invokes a tool and returns its text content and error flag.
func (ts *TestServer) Call(t *testing.T, name string, args map[string]any) (string, bool) {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := ts.Session.CallTool(ctx, &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err, "CallTool %s failed", name)
	require.NotEmpty(t, result.Content, "tool %s returned no content", name)

	for _, content := range result.Content {
		if text, ok := content.(*sdkmcp.TextContent); ok {
			return text.Text, result.IsError
		}
	}
	t.Fatalf("tool %s returned no text content", name)
	return "", false
}

// CallJSON invokes a tool that must succeed and decodes its output into out.
func (ts *TestServer) CallJSON(t *testing.T, name string, args map[string]any, out any) {
	t.Helper()
	text, isError := ts.Call(t, name, args)
	require.False(t, isError, "tool %s returned error: %s", name, text)
	require.NoError(t, json.Unmarshal([]byte(text), out))
}

// CallError invokes a tool that must fail and returns its error text.
func (ts *TestServer) CallError(t *testing.T, name string, args map[string]any) string {
	t.Helper()
	text, isError := ts.Call(t, name, args)
	require.True(t, isError, "tool %s succeeded: %s", name, text)
	return text
}
