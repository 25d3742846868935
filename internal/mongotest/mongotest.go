// Package mongotest provides a MongoDB server for tests.
package mongotest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/AdguardTeam/golibs/testutil"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// EnvURI names the environment variable with the URI of an existing server.
// When it is set, no container is started.
const EnvURI = "WANTTOGO_TEST_MONGO_URI"

// Image is the container image started by URI.
const Image = "mongo:7"

// startTimeout bounds pulling and starting the container.
const startTimeout = 3 * time.Minute

// URI returns the connection URI of a MongoDB server for t. It starts a
// container that is terminated on cleanup, and skips t when there is neither
// an EnvURI value nor a healthy container provider.
func URI(t testing.TB) (uri string) {
	t.Helper()

	if uri = os.Getenv(EnvURI); uri != "" {
		return uri
	}

	if tt, ok := t.(*testing.T); ok {
		tc.SkipIfProviderIsNotHealthy(tt)
	}

	ctx := testutil.ContextWithTimeout(t, startTimeout)

	ctr, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        Image,
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	testutil.CleanupAndRequireSuccess(t, func() error {
		return ctr.Terminate(context.Background())
	})

	uri, err = ctr.PortEndpoint(ctx, "27017/tcp", "mongodb")
	require.NoError(t, err)

	return uri
}
