//go:build linux

// artdbg is a developer harness for the broker-brokered JDWP
// transport: it registers with a local broker, waits for a debugger
// to attach and traces packet headers until interrupted.
package main

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/DisclosureOS/platform-art/adb"
	"github.com/DisclosureOS/platform-art/jdwp"
	"github.com/DisclosureOS/platform-art/transport"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		controlAddr string
		pid         int
		verbose     bool
	)
	cmd := &cobra.Command{
		Use:           "artdbg",
		Short:         "attach to the local debug broker and trace JDWP packets",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			zcfg := zap.NewDevelopmentConfig()
			if verbose {
				zcfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-1))
			}
			zl, err := zcfg.Build()
			if err != nil {
				return err
			}
			defer zl.Sync()
			log := zapr.NewLogger(zl)

			tr := adb.New(adb.Config{
				Logger:      log,
				ControlAddr: controlAddr,
				PID:         pid,
			})
			defer tr.Close()

			var interrupted atomic.Bool
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sig
				log.Info("interrupted, shutting down")
				interrupted.Store(true)
				tr.Shutdown()
			}()

			err = transport.Run(tr, headerTracer{log: log})
			if interrupted.Load() {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&controlAddr, "control", "", "broker control socket (abstract address, default @jdwp-control)")
	cmd.Flags().IntVar(&pid, "pid", 0, "announce this pid instead of our own")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "wire-level logging")
	return cmd
}

// headerTracer logs the header of every packet it is handed.
type headerTracer struct {
	log logr.Logger
}

func (h headerTracer) HandlePacket(pkt []byte) error {
	hdr, err := jdwp.ParseHeader(pkt)
	if err != nil {
		return err
	}
	switch {
	case hdr.IsReply():
		h.log.Info("reply",
			"id", hdr.ID, "errorCode", hdr.ErrorCode(), "payload", hdr.PayloadLen())
	case hdr.IsDdm():
		h.log.Info("ddm chunk", "id", hdr.ID, "payload", hdr.PayloadLen())
	default:
		h.log.Info("command",
			"id", hdr.ID, "cmdSet", hdr.CmdSet, "cmd", hdr.Cmd, "payload", hdr.PayloadLen())
	}
	return nil
}
