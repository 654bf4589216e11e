package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/dmitrijs2005/ezrevenue/internal/config"
	"github.com/dmitrijs2005/ezrevenue/internal/entitlement"
	"github.com/dmitrijs2005/ezrevenue/internal/identity"
	"github.com/dmitrijs2005/ezrevenue/internal/idgen"
	"github.com/dmitrijs2005/ezrevenue/internal/kvstore"
	"github.com/dmitrijs2005/ezrevenue/internal/logging"
	"github.com/dmitrijs2005/ezrevenue/internal/paywall"
	"github.com/dmitrijs2005/ezrevenue/internal/rpc"
	"github.com/dmitrijs2005/ezrevenue/internal/service"
)

// App is the interactive host: wired services plus a terminal.
type App struct {
	config  *config.Config
	svc     service.Service
	handler *service.Handler
	host    *paywall.LocalHost
	store   io.Closer
	logger  logging.Logger

	out   io.Writer
	flows sync.WaitGroup
}

// NewApp opens the configured storage and wires the entitlement stack.
// httpClient may be nil.
func NewApp(ctx context.Context, c *config.Config, httpClient *http.Client, logger logging.Logger) (*App, error) {
	repo, store, err := kvstore.Open(ctx, c)
	if err != nil {
		logger.Error(ctx, "error opening device storage", "scope", c.StorageScope, "error", err)
		return nil, err
	}

	gen := idgen.New()
	ids := identity.NewStore(repo, gen, logger, c.StorageKey, c.DevicePrefix)

	codec := rpc.NewCodec(c.ProjectID, c.ProjectSecret, c.TokenTTL, gen)
	client := rpc.NewClient(c.BaseURL, codec, httpClient, logger)

	cache := entitlement.NewCache(client, ids.GetOrCreate, c.PaywallAlias, logger,
		entitlement.WithTTL(c.CacheTTL))

	a := &App{config: c, store: store, logger: logger, out: stdout}

	a.host = paywall.NewLocalHost()
	a.host.OnOpen = a.announceWindow

	pw := paywall.NewController(cache, a.host, logger)
	a.svc = service.NewService(ids.GetOrCreate, cache, pw, logger)
	a.handler = service.NewHandler(a.svc, logger)

	return a, nil
}

// Run reads commands from stdin until exit. Pending paywall flows are
// abandoned when it returns.
func (a *App) Run(ctx context.Context) {
	a.run(ctx, bufio.NewScanner(os.Stdin))
}

func (a *App) run(ctx context.Context, scanner *bufio.Scanner) {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		a.flows.Wait()
	}()

	a.println("ezrevenue CLI (type 'help' for commands)")
	runREPL(ctx, a, scanner)
}

// Close releases the device storage.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

func (a *App) println(args ...any) {
	_, _ = lockedPrintln(a.out, args...)
}

func (a *App) printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		a.println("error:", err)
		return
	}
	a.println(string(b))
}

func (a *App) announceWindow(w paywall.Window) {
	a.println(fmt.Sprintf("[window %d] %s (%dx%d at %d,%d); type 'close %d' when done",
		w.ID, w.URL, w.Geometry.Width, w.Geometry.Height, w.Geometry.Left, w.Geometry.Top, w.ID))
}
