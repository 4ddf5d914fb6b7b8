// Command secscat dials an HSMS equipment and logs session state
// changes and received S1F1 requests to standard error.
package main

import (
	"context"
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/helios-fab/secsgem/hsms"
	"github.com/helios-fab/secsgem/secsgem"
)

var CmdLog = log.New(os.Stderr, filepath.Base(os.Args[0])+": ", 0)

var (
	hostFlag      = flag.String("host", "localhost", "Set the host name or IP number to connect with.")
	portFlag      = flag.Uint("port", hsms.Port, "Set the TCP port-`number` to connect with.")
	sessionIDFlag = flag.Uint("session", 0, "Set the HSMS session-`id` to select.")

	t3Flag = flag.Uint("t3", 45, "Reply timeout t3 in `seconds`.")
	t5Flag = flag.Uint("t5", 10, "Connect/separation timeout t5 in `seconds`.")
	t6Flag = flag.Uint("t6", 5, "Control-transaction timeout t6 in `seconds`.")
	t7Flag = flag.Uint("t7", 10, "Not-selected timeout t7 in `seconds`.")

	traceFlag = flag.Bool("trace", false, "Log every HSMS frame sent and received.")
)

func main() {
	log.SetFlags(0)
	flag.Parse()
	hsms.Trace = *traceFlag

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT)

	config := hsms.Config{
		T3: time.Duration(*t3Flag) * time.Second,
		T5: time.Duration(*t5Flag) * time.Second,
		T6: time.Duration(*t6Flag) * time.Second,
		T7: time.Duration(*t7Flag) * time.Second,
	}

	addr := net.JoinHostPort(*hostFlag, strconv.FormatUint(uint64(*portFlag), 10))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session, err := hsms.Dial(ctx, "tcp", addr, uint16(*sessionIDFlag), config)
	if err != nil {
		CmdLog.Fatal(err)
	}

	handler := secsgem.NewHandler(session, secsgem.PreferRemote)
	handler.Callbacks.Bind("s1f1", func(args ...any) any {
		CmdLog.Print("received S1F1 are-you-there")
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- handler.Run(ctx) }()
	handler.Enable(ctx)

	for {
		select {
		case sig := <-signals:
			CmdLog.Printf("got signal %s", sig)
			session.Separate()
			return

		case st := <-session.StateChange:
			CmdLog.Printf("session state %s", st)
			if st == hsms.NotConnected {
				return
			}

		case err := <-done:
			if err != nil {
				CmdLog.Print(err)
			}
			return
		}
	}
}
