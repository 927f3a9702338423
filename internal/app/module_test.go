package app

import (
	"testing"

	"anchor-sync/internal/features/sync"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestCoreGraphResolves(t *testing.T) {
	require.NoError(t, fx.ValidateApp(Core, fx.Invoke(func(sync.SyncService) {})))
}
