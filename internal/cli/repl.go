package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrijs2005/ezrevenue/internal/paywall"
	"github.com/dmitrijs2005/ezrevenue/internal/service"
)

// outMu serializes every line written to the terminal, so background paywall
// flows never interleave with REPL output.
var outMu sync.Mutex

// stdout is where REPL output goes.
var stdout io.Writer = os.Stdout

func lockedPrintln(w io.Writer, a ...any) (int, error) {
	outMu.Lock()
	defer outMu.Unlock()
	return fmt.Fprintln(w, a...)
}

// printlnFn is a test seam for REPL output. In tests, replace it with a stub.
var printlnFn = func(a ...any) (int, error) {
	return lockedPrintln(stdout, a...)
}

// execIface is the command surface the REPL drives. App satisfies it.
type execIface interface {
	ID(ctx context.Context) error
	Info(ctx context.Context, refresh bool) error
	Usable(ctx context.Context, q service.BalanceQuery) error
	Paywall(ctx context.Context, vp paywall.Viewport) error
	CloseWindow(ctx context.Context, id paywall.WindowID) error
	Call(ctx context.Context, action string, data json.RawMessage) error
}

const helpText = `Available commands:
  id                        show the device id
  info [refresh]            show the entitlement record
  usable [alias=<a>|id=<i>] check a balance (default alias equity_vip)
  paywall [width height]    open the paywall
  close <window>            close a paywall window
  call <action> [json]      run a host action, e.g. call isBalanceUsable {"equityId":"1"}
  exit | quit`

// runREPL reads one command per line and dispatches it to a. Command errors
// are reported by the handlers themselves and do not stop the loop. It
// returns on EOF, "exit" or "quit".
func runREPL(ctx context.Context, a execIface, scanner *bufio.Scanner) {
	for {
		printlnFn("ezr> ")
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "id":
			_ = a.ID(ctx)

		case "info":
			refresh := len(args) > 0 && args[0] == "refresh"
			_ = a.Info(ctx, refresh)

		case "usable":
			q, err := parseBalanceQuery(args)
			if err != nil {
				printlnFn("Usage: usable [alias=<alias>|id=<id>]:", err)
				continue
			}
			_ = a.Usable(ctx, q)

		case "paywall":
			vp, err := parseViewport(args)
			if err != nil {
				printlnFn("Usage: paywall [width height]:", err)
				continue
			}
			_ = a.Paywall(ctx, vp)

		case "close":
			if len(args) != 1 {
				printlnFn("Usage: close <window>")
				continue
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				printlnFn("Usage: close <window>:", err)
				continue
			}
			_ = a.CloseWindow(ctx, paywall.WindowID(id))

		case "call":
			if len(args) == 0 {
				printlnFn("Usage: call <action> [json]")
				continue
			}
			var data json.RawMessage
			if len(args) > 1 {
				data = json.RawMessage(strings.Join(args[1:], " "))
			}
			_ = a.Call(ctx, args[0], data)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
