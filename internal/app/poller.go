package app

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/five82/shopkeep/internal/workflow"
)

// load fetches the full catalog into the service's store. Failures leave an
// empty catalog and are logged by the service.
func load(ctx context.Context, svc *workflow.Service) workflow.Outcome {
	return svc.Reload(ctx)
}

// reloadOn refetches the catalog each time trigger fires, until ctx is done
// or trigger is closed. Nothing reloads on a timer.
func reloadOn(ctx context.Context, svc *workflow.Service, logger *zap.Logger, trigger <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-trigger:
			if !ok {
				return
			}
			logger.Info("reload requested", zap.Stringer("signal", sig))
			load(ctx, svc)
		}
	}
}
