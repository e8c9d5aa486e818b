package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/Qthai16/go-dlist/cmd/dlistgw/gateway"
	"github.com/Qthai16/go-dlist/utils"
	"github.com/Qthai16/go-dlist/utils/hashkit"
	"github.com/sevlyar/go-daemon"
)

var (
	cmdLineOpts = CmdlineOpts{}
)

type CmdlineOpts struct {
	Addr    string
	LogPath string
	Daemon  bool
	Shards  uint
	Hash    string
	Quiet   bool
	Color   bool
}

func flagInit() {
	flag.StringVar(&cmdLineOpts.Addr, "addr", gateway.DefaultAddr, "server listen addr")
	flag.StringVar(&cmdLineOpts.LogPath, "log", "", "log file path")
	flag.BoolVar(&cmdLineOpts.Daemon, "daemon", false, "run as daemon")
	flag.UintVar(&cmdLineOpts.Shards, "shards", 16, "number of store shards, rounded up to a power of two")
	flag.StringVar(&cmdLineOpts.Hash, "hash", hashkit.HashJenkins, "shard hash: jenkins, fnv or murmur")
	flag.BoolVar(&cmdLineOpts.Quiet, "quiet", false, "only log errors")
	flag.BoolVar(&cmdLineOpts.Color, "color", false, "colored log output")
}

func uniqPidFile() string {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return fmt.Sprintf("dlistgw.%d.pid", r.Intn(10000))
}

func run() {
	if len(cmdLineOpts.LogPath) > 0 {
		f, err := os.OpenFile(cmdLineOpts.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			utils.LogErro("failed to open log file %v: %v", cmdLineOpts.LogPath, err)
			return
		}
		defer f.Close()
		log.SetOutput(f)
		// NOTES: stdout and stderr go to /dev/null when go-daemon reborns the process
		utils.RedirectFile(os.Stderr, f)
	}
	srv, err := gateway.NewServer(gateway.Config{
		Addr:   cmdLineOpts.Addr,
		Shards: uint32(cmdLineOpts.Shards),
		Hash:   cmdLineOpts.Hash,
	})
	if err != nil {
		utils.LogErro("failed to create server: %v", err)
		return
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(); err != nil {
			utils.LogErro("serve failed: %v", err)
		}
	}()
	select {
	case <-done:
	case sig := <-utils.WaitTerminate():
		utils.LogInfo("got signal %v", sig)
	}
	srv.Stop()
	utils.LogInfo("server exit")
}

func main() {
	flagInit()
	flag.Parse()
	utils.SetColorPrint(cmdLineOpts.Color)
	if cmdLineOpts.Quiet {
		utils.SetLogLevel(utils.LevelErro)
	}
	if len(cmdLineOpts.Addr) == 0 {
		utils.LogErro("invalid address")
		return
	}
	if cmdLineOpts.Daemon {
		utils.LogInfo("running process as daemon")
		cntxt := &daemon.Context{
			PidFileName: fmt.Sprintf("/tmp/%s", uniqPidFile()),
			PidFilePerm: 0644,
		}
		d, err := cntxt.Reborn()
		if err != nil {
			utils.LogErro("failed to run as daemon: %v", err)
			return
		}
		if d != nil { // parent process
			return
		}
		defer cntxt.Release()
	}
	run()
}
